package model

import (
	"database/sql"
	"time"
)

// Document types handled by the back office
const (
	DocumentTypePublication            = "publication"
	DocumentTypeStatisticsAnnouncement = "statistics_announcement"
	DocumentTypeDocumentCollection     = "document_collection"
	DocumentTypeContentBlock           = "content_block"
)

// DefaultLocale is the locale every edition is published in
const DefaultLocale = "en"

// Document is the stable identity behind a series of editions
type Document struct {
	ID           int64
	ContentID    string
	Slug         string
	DocumentType string
	Editions     []Edition // chronological, oldest first
	CreatedAt    time.Time
}

// Edition is one versioned snapshot of a document
type Edition struct {
	ID                     int64
	DocumentID             int64
	State                  EditionState
	ChangeNote             string
	MinorChange            bool
	PrimaryLocale          string
	Translations           map[string]Translation
	Attachments            []Attachment
	Unpublishing           *Unpublishing
	OrganisationContentIDs []string
	FirstPublishedAt       sql.NullTime
	PublicUpdatedAt        sql.NullTime
	UpdatedAt              time.Time
}

// Translation holds the translatable fields of an edition for one locale
type Translation struct {
	Title   string
	Summary string
	Body    string
}

// IsBlank reports whether every translatable field is empty
func (t Translation) IsBlank() bool {
	return t.Title == "" && t.Summary == "" && t.Body == ""
}

// Locale returns the edition's primary locale, defaulting to English
func (e *Edition) Locale() string {
	if e.PrimaryLocale == "" {
		return DefaultLocale
	}
	return e.PrimaryLocale
}

// Attachment is an HTML attachment owned by a single edition
type Attachment struct {
	ID        int64
	EditionID int64
	ContentID string
	Slug      string
	Title     string
	Body      string
	Ordering  int
}

// Unpublishing types understood by the Publishing API
const (
	UnpublishingGone       = "gone"
	UnpublishingRedirect   = "redirect"
	UnpublishingWithdrawal = "withdrawal"
)

// Unpublishing describes how a retired edition is represented downstream
type Unpublishing struct {
	ID              int64
	EditionID       int64
	Type            string
	AlternativePath string
	Explanation     string
	DiscardDrafts   bool
	CreatedAt       time.Time
}

// DocumentSummary is a lightweight document row used by listings
type DocumentSummary struct {
	ID           int64
	ContentID    string
	Slug         string
	DocumentType string
}

// LocaleSnapshot is the translatable content of an edition resolved for one locale
type LocaleSnapshot struct {
	Locale string
	Translation
}
