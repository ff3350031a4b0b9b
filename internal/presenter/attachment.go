package presenter

import "github.com/jjenkins/whitehall/internal/model"

const htmlPublication = "html_publication"

// AttachmentPath returns the public path of an HTML attachment
func AttachmentPath(doc *model.Document, att *model.Attachment) string {
	return BasePath(doc) + "/" + att.Slug
}

// AttachmentContent presents an HTML attachment in its parent's primary locale
func AttachmentContent(doc *model.Document, ed *model.Edition, att *model.Attachment, updateType string) Content {
	path := AttachmentPath(doc, att)

	content := Content{
		BasePath:      path,
		Title:         att.Title,
		SchemaName:    htmlPublication,
		DocumentType:  htmlPublication,
		PublishingApp: PublishingApp,
		RenderingApp:  renderingApp,
		Locale:        ed.Locale(),
		UpdateType:    editionUpdateType(ed, updateType),
		Details: map[string]any{
			"body":    att.Body,
			"headers": ExtractHeaders(att.Body),
		},
		Routes: []Route{{Path: path, Type: "exact"}},
	}

	if ed.PublicUpdatedAt.Valid {
		t := ed.PublicUpdatedAt.Time
		content.PublicUpdatedAt = &t
		content.Details["public_timestamp"] = t
	}

	return content
}

// AttachmentLinks links an attachment to its parent document and organisations
func AttachmentLinks(doc *model.Document, ed *model.Edition) Links {
	return Links{
		"parent":        {doc.ContentID},
		"organisations": append([]string{}, ed.OrganisationContentIDs...),
	}
}
