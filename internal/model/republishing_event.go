package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Bulk content types accepted by a bulk republishing event
const (
	BulkAllDocuments                       = "all_documents"
	BulkWithPrePublicationEditions         = "all_documents_with_pre_publication_editions"
	BulkWithPrePublicationHTMLAttachments  = "all_documents_with_pre_publication_editions_with_html_attachments"
	BulkWithPubliclyVisibleAttachments     = "all_documents_with_publicly_visible_editions_with_attachments"
	BulkWithPubliclyVisibleHTMLAttachments = "all_documents_with_publicly_visible_editions_with_html_attachments"
	BulkAllByType                          = "all_by_type"
	BulkByOrganisation                     = "all_documents_by_organisation"
	BulkByContentIDs                       = "all_documents_by_content_ids"
)

var bulkContentTypes = map[string]bool{
	BulkAllDocuments:                       true,
	BulkWithPrePublicationEditions:         true,
	BulkWithPrePublicationHTMLAttachments:  true,
	BulkWithPubliclyVisibleAttachments:     true,
	BulkWithPubliclyVisibleHTMLAttachments: true,
	BulkAllByType:                          true,
	BulkByOrganisation:                     true,
	BulkByContentIDs:                       true,
}

// IsBulkContentType reports whether s names a supported bulk selection
func IsBulkContentType(s string) bool {
	return bulkContentTypes[s]
}

// ErrInvalidEvent is returned when a republishing event fails validation
var ErrInvalidEvent = errors.New("invalid republishing event")

// RepublishingEvent records who asked for a republish and why
type RepublishingEvent struct {
	ID              int64
	Action          string
	Reason          string
	UserName        string
	Bulk            bool
	ContentID       string
	BulkContentType string
	ContentType     string
	OrganisationID  string
	ContentIDs      []string
	CreatedAt       time.Time
}

// Validate checks the event against the republishing audit rules
func (e *RepublishingEvent) Validate() error {
	var problems []string

	if strings.TrimSpace(e.Action) == "" {
		problems = append(problems, "action can't be blank")
	}
	if strings.TrimSpace(e.Reason) == "" {
		problems = append(problems, "reason can't be blank")
	}

	if !e.Bulk {
		if e.ContentID == "" {
			problems = append(problems, "content_id can't be blank")
		}
	} else if !IsBulkContentType(e.BulkContentType) {
		problems = append(problems, fmt.Sprintf("bulk_content_type %q is not supported", e.BulkContentType))
	}

	switch {
	case e.BulkContentType == BulkAllByType && e.ContentType == "":
		problems = append(problems, "content_type can't be blank")
	case e.BulkContentType != BulkAllByType && e.ContentType != "":
		problems = append(problems, "content_type must be blank")
	}

	switch {
	case e.BulkContentType == BulkByOrganisation && e.OrganisationID == "":
		problems = append(problems, "organisation_id can't be blank")
	case e.BulkContentType != BulkByOrganisation && e.OrganisationID != "":
		problems = append(problems, "organisation_id must be blank")
	}

	if e.BulkContentType == BulkByContentIDs {
		if len(e.ContentIDs) == 0 {
			problems = append(problems, "content_ids is not a non-empty array")
		}
		for _, id := range e.ContentIDs {
			if strings.TrimSpace(id) == "" {
				problems = append(problems, "content_ids is not a non-empty array of strings")
				break
			}
		}
	} else if len(e.ContentIDs) > 0 {
		problems = append(problems, "content_ids must be blank")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidEvent, strings.Join(problems, "; "))
	}
	return nil
}

// BulkSelection describes which documents a bulk republish covers
type BulkSelection struct {
	ContentType     string
	BulkContentType string
	OrganisationID  string
	ContentIDs      []string
}

// Selection returns the document selection of a bulk event
func (e *RepublishingEvent) Selection() BulkSelection {
	return BulkSelection{
		ContentType:     e.ContentType,
		BulkContentType: e.BulkContentType,
		OrganisationID:  e.OrganisationID,
		ContentIDs:      e.ContentIDs,
	}
}
