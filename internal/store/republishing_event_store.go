package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/jjenkins/whitehall/internal/model"
)

// RepublishingEventStore handles database operations for republishing events
type RepublishingEventStore struct {
	db *sql.DB
}

// NewRepublishingEventStore creates a new RepublishingEventStore
func NewRepublishingEventStore(db *sql.DB) *RepublishingEventStore {
	return &RepublishingEventStore{db: db}
}

// Insert stores an event and sets its ID and CreatedAt
func (s *RepublishingEventStore) Insert(ctx context.Context, e *model.RepublishingEvent) error {
	query := `
		INSERT INTO republishing_events (action, reason, user_name, bulk, content_id,
		                                 bulk_content_type, content_type, organisation_id, content_ids)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`

	contentIDs := e.ContentIDs
	if contentIDs == nil {
		contentIDs = []string{}
	}

	err := s.db.QueryRowContext(ctx, query,
		e.Action,
		e.Reason,
		e.UserName,
		e.Bulk,
		e.ContentID,
		e.BulkContentType,
		e.ContentType,
		e.OrganisationID,
		pq.Array(contentIDs),
	).Scan(&e.ID, &e.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to insert republishing event: %w", err)
	}

	return nil
}

// ListRecent returns the most recent events, newest first
func (s *RepublishingEventStore) ListRecent(ctx context.Context, limit int) ([]model.RepublishingEvent, error) {
	query := `
		SELECT id, action, reason, user_name, bulk, content_id, bulk_content_type,
		       content_type, organisation_id, content_ids, created_at
		FROM republishing_events
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query republishing events: %w", err)
	}
	defer rows.Close()

	var events []model.RepublishingEvent
	for rows.Next() {
		var e model.RepublishingEvent
		if err := rows.Scan(
			&e.ID,
			&e.Action,
			&e.Reason,
			&e.UserName,
			&e.Bulk,
			&e.ContentID,
			&e.BulkContentType,
			&e.ContentType,
			&e.OrganisationID,
			pq.Array(&e.ContentIDs),
			&e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan republishing event: %w", err)
		}
		events = append(events, e)
	}

	return events, rows.Err()
}
