package presenter

import "github.com/jjenkins/whitehall/internal/model"

// ContentBlockContent presents a content block edition
func ContentBlockContent(cb *model.ContentBlockEdition) Content {
	schema := "content_block_" + cb.BlockType

	details := make(map[string]any, len(cb.Details))
	for k, v := range cb.Details {
		details[k] = v
	}

	return Content{
		Title:         cb.Title,
		SchemaName:    schema,
		DocumentType:  schema,
		PublishingApp: PublishingApp,
		Locale:        model.DefaultLocale,
		UpdateType:    UpdateTypeMajor,
		Details:       details,
	}
}
