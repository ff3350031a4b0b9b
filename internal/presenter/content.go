// Package presenter converts documents, editions and attachments into the
// payloads accepted by the Publishing API. It has no side effects.
package presenter

import (
	"strings"
	"time"

	"github.com/jjenkins/whitehall/internal/model"
)

const (
	// PublishingApp identifies this application to the Publishing API
	PublishingApp = "whitehall"
	renderingApp  = "government-frontend"

	UpdateTypeMajor     = "major"
	UpdateTypeMinor     = "minor"
	UpdateTypeRepublish = "republish"
)

// Content is the body of a put-content request
type Content struct {
	BasePath         string         `json:"base_path,omitempty"`
	Title            string         `json:"title,omitempty"`
	Description      string         `json:"description,omitempty"`
	Format           string         `json:"format,omitempty"`
	SchemaName       string         `json:"schema_name"`
	DocumentType     string         `json:"document_type"`
	PublishingApp    string         `json:"publishing_app"`
	RenderingApp     string         `json:"rendering_app,omitempty"`
	Locale           string         `json:"locale,omitempty"`
	UpdateType       string         `json:"update_type,omitempty"`
	ChangeNote       string         `json:"change_note,omitempty"`
	FirstPublishedAt *time.Time     `json:"first_published_at,omitempty"`
	PublicUpdatedAt  *time.Time     `json:"public_updated_at,omitempty"`
	Details          map[string]any `json:"details,omitempty"`
	Routes           []Route        `json:"routes,omitempty"`
	Redirects        []RedirectRule `json:"redirects,omitempty"`
}

// Route is a path served by the rendered content item
type Route struct {
	Path string `json:"path"`
	Type string `json:"type"`
}

// RedirectRule sends requests for Path to Destination
type RedirectRule struct {
	Path        string `json:"path"`
	Type        string `json:"type"`
	Destination string `json:"destination"`
}

// Links is the link set patched onto a content item
type Links map[string][]string

var basePathPrefixes = map[string]string{
	model.DocumentTypePublication:            "/government/publications/",
	model.DocumentTypeStatisticsAnnouncement: "/government/statistics/announcements/",
	model.DocumentTypeDocumentCollection:     "/government/collections/",
}

// BasePath returns the public path of a document in its primary locale
func BasePath(doc *model.Document) string {
	prefix, ok := basePathPrefixes[doc.DocumentType]
	if !ok {
		prefix = "/government/generic/"
	}
	return prefix + doc.Slug
}

// LocalisedPath appends the locale suffix used for non-primary translations
func LocalisedPath(path, locale, primary string) string {
	if locale == "" || locale == primary {
		return path
	}
	return path + "." + locale
}

// EditionContent presents one locale of an edition
func EditionContent(doc *model.Document, ed *model.Edition, snap model.LocaleSnapshot, updateType string) Content {
	path := LocalisedPath(BasePath(doc), snap.Locale, ed.Locale())

	details := map[string]any{
		"body": snap.Body,
	}
	if len(ed.Attachments) > 0 {
		ids := make([]string, len(ed.Attachments))
		for i, a := range ed.Attachments {
			ids[i] = a.ContentID
		}
		details["attachments"] = ids
	}

	content := Content{
		BasePath:      path,
		Title:         snap.Title,
		Description:   snap.Summary,
		SchemaName:    doc.DocumentType,
		DocumentType:  doc.DocumentType,
		PublishingApp: PublishingApp,
		RenderingApp:  renderingApp,
		Locale:        snap.Locale,
		UpdateType:    editionUpdateType(ed, updateType),
		ChangeNote:    strings.TrimSpace(ed.ChangeNote),
		Details:       details,
		Routes:        []Route{{Path: path, Type: "exact"}},
	}

	if ed.FirstPublishedAt.Valid {
		t := ed.FirstPublishedAt.Time
		content.FirstPublishedAt = &t
	}
	if ed.PublicUpdatedAt.Valid {
		t := ed.PublicUpdatedAt.Time
		content.PublicUpdatedAt = &t
	}

	return content
}

// EditionLinks presents the link set of an edition
func EditionLinks(ed *model.Edition) Links {
	links := Links{
		"organisations": append([]string{}, ed.OrganisationContentIDs...),
	}
	if len(ed.Attachments) > 0 {
		ids := make([]string, len(ed.Attachments))
		for i, a := range ed.Attachments {
			ids[i] = a.ContentID
		}
		links["children"] = ids
	}
	return links
}

func editionUpdateType(ed *model.Edition, requested string) string {
	if requested != "" {
		return requested
	}
	if ed.MinorChange {
		return UpdateTypeMinor
	}
	return UpdateTypeMajor
}
