package model

import "time"

// ContentBlockEdition is a structured, reusable piece of content such as an email address
type ContentBlockEdition struct {
	ContentID string
	BlockType string
	Title     string
	Details   map[string]any
	CreatedAt time.Time
}
