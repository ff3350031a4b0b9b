package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jjenkins/whitehall/internal/model"
)

// ContentBlockStore handles database operations for content block editions
type ContentBlockStore struct {
	db *sql.DB
}

// NewContentBlockStore creates a new ContentBlockStore
func NewContentBlockStore(db *sql.DB) *ContentBlockStore {
	return &ContentBlockStore{db: db}
}

// Insert stores a content block edition and sets CreatedAt
func (s *ContentBlockStore) Insert(ctx context.Context, cb *model.ContentBlockEdition) error {
	if cb.Details == nil {
		cb.Details = map[string]any{}
	}

	details, err := json.Marshal(cb.Details)
	if err != nil {
		return fmt.Errorf("failed to encode content block details: %w", err)
	}

	query := `
		INSERT INTO content_block_editions (content_id, block_type, title, details)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	if err := s.db.QueryRowContext(ctx, query, cb.ContentID, cb.BlockType, cb.Title, details).Scan(&cb.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert content block %s: %w", cb.ContentID, err)
	}

	return nil
}
