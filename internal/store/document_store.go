package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/jjenkins/whitehall/internal/model"
)

// DocumentStore handles database operations for documents and their editions
type DocumentStore struct {
	db *sql.DB
}

// NewDocumentStore creates a new DocumentStore
func NewDocumentStore(db *sql.DB) *DocumentStore {
	return &DocumentStore{db: db}
}

// translationRow is one locale of an edition as stored
type translationRow struct {
	EditionID int64
	Locale    string
	model.Translation
}

// GetWithEditions retrieves a document with its editions, translations,
// attachments and unpublishings. Returns nil when the document does not exist.
func (s *DocumentStore) GetWithEditions(ctx context.Context, id int64) (*model.Document, error) {
	query := `
		SELECT id, content_id, slug, document_type, created_at
		FROM documents
		WHERE id = $1
	`

	var doc model.Document
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&doc.ID,
		&doc.ContentID,
		&doc.Slug,
		&doc.DocumentType,
		&doc.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document %d: %w", id, err)
	}

	editions, err := s.getEditions(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(editions) == 0 {
		return &doc, nil
	}

	ids := make([]int64, len(editions))
	for i, ed := range editions {
		ids[i] = ed.ID
	}

	translations, err := s.getTranslations(ctx, ids)
	if err != nil {
		return nil, err
	}
	attachments, err := s.getAttachments(ctx, ids)
	if err != nil {
		return nil, err
	}
	unpublishings, err := s.getUnpublishings(ctx, ids)
	if err != nil {
		return nil, err
	}

	doc.Editions = assembleEditions(editions, translations, attachments, unpublishings)
	return &doc, nil
}

func (s *DocumentStore) getEditions(ctx context.Context, documentID int64) ([]model.Edition, error) {
	query := `
		SELECT id, document_id, state, change_note, minor_change, primary_locale,
		       organisation_content_ids, first_published_at, public_updated_at, updated_at
		FROM editions
		WHERE document_id = $1
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query editions: %w", err)
	}
	defer rows.Close()

	var editions []model.Edition
	for rows.Next() {
		var ed model.Edition
		var state string
		if err := rows.Scan(
			&ed.ID,
			&ed.DocumentID,
			&state,
			&ed.ChangeNote,
			&ed.MinorChange,
			&ed.PrimaryLocale,
			pq.Array(&ed.OrganisationContentIDs),
			&ed.FirstPublishedAt,
			&ed.PublicUpdatedAt,
			&ed.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan edition: %w", err)
		}

		ed.State, err = model.ParseEditionState(state)
		if err != nil {
			return nil, fmt.Errorf("edition %d: %w", ed.ID, err)
		}
		editions = append(editions, ed)
	}

	return editions, rows.Err()
}

func (s *DocumentStore) getTranslations(ctx context.Context, editionIDs []int64) ([]translationRow, error) {
	query := `
		SELECT edition_id, locale, title, summary, body
		FROM edition_translations
		WHERE edition_id = ANY($1)
		ORDER BY edition_id, locale
	`

	rows, err := s.db.QueryContext(ctx, query, pq.Array(editionIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query translations: %w", err)
	}
	defer rows.Close()

	var translations []translationRow
	for rows.Next() {
		var t translationRow
		if err := rows.Scan(&t.EditionID, &t.Locale, &t.Title, &t.Summary, &t.Body); err != nil {
			return nil, fmt.Errorf("failed to scan translation: %w", err)
		}
		translations = append(translations, t)
	}

	return translations, rows.Err()
}

func (s *DocumentStore) getAttachments(ctx context.Context, editionIDs []int64) ([]model.Attachment, error) {
	query := `
		SELECT id, edition_id, content_id, slug, title, body, ordering
		FROM html_attachments
		WHERE edition_id = ANY($1)
		ORDER BY edition_id, ordering, id
	`

	rows, err := s.db.QueryContext(ctx, query, pq.Array(editionIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query attachments: %w", err)
	}
	defer rows.Close()

	var attachments []model.Attachment
	for rows.Next() {
		var a model.Attachment
		if err := rows.Scan(&a.ID, &a.EditionID, &a.ContentID, &a.Slug, &a.Title, &a.Body, &a.Ordering); err != nil {
			return nil, fmt.Errorf("failed to scan attachment: %w", err)
		}
		attachments = append(attachments, a)
	}

	return attachments, rows.Err()
}

func (s *DocumentStore) getUnpublishings(ctx context.Context, editionIDs []int64) ([]model.Unpublishing, error) {
	query := `
		SELECT id, edition_id, unpublishing_type, alternative_path, explanation,
		       discard_drafts, created_at
		FROM unpublishings
		WHERE edition_id = ANY($1)
	`

	rows, err := s.db.QueryContext(ctx, query, pq.Array(editionIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query unpublishings: %w", err)
	}
	defer rows.Close()

	var unpublishings []model.Unpublishing
	for rows.Next() {
		var u model.Unpublishing
		if err := rows.Scan(&u.ID, &u.EditionID, &u.Type, &u.AlternativePath, &u.Explanation, &u.DiscardDrafts, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan unpublishing: %w", err)
		}
		unpublishings = append(unpublishings, u)
	}

	return unpublishings, rows.Err()
}

// assembleEditions attaches child rows to their editions, keeping edition order
func assembleEditions(editions []model.Edition, translations []translationRow, attachments []model.Attachment, unpublishings []model.Unpublishing) []model.Edition {
	index := make(map[int64]int, len(editions))
	for i := range editions {
		index[editions[i].ID] = i
		editions[i].Translations = make(map[string]model.Translation)
	}

	for _, t := range translations {
		if i, ok := index[t.EditionID]; ok {
			editions[i].Translations[t.Locale] = t.Translation
		}
	}

	for _, a := range attachments {
		if i, ok := index[a.EditionID]; ok {
			editions[i].Attachments = append(editions[i].Attachments, a)
		}
	}

	for _, u := range unpublishings {
		if i, ok := index[u.EditionID]; ok {
			u := u
			editions[i].Unpublishing = &u
		}
	}

	return editions
}

// bulkQuery builds the document id query for a bulk selection
func bulkQuery(sel model.BulkSelection) (string, []any, error) {
	const base = `SELECT d.id FROM documents d`
	const order = ` ORDER BY d.id`

	switch sel.BulkContentType {
	case model.BulkAllDocuments:
		return base + order, nil, nil

	case model.BulkWithPrePublicationEditions:
		return base + `
			WHERE EXISTS (
				SELECT 1 FROM editions e
				WHERE e.document_id = d.id
				  AND e.state IN ('draft', 'submitted', 'rejected', 'scheduled')
			)` + order, nil, nil

	case model.BulkWithPrePublicationHTMLAttachments:
		return base + `
			WHERE EXISTS (
				SELECT 1 FROM editions e
				JOIN html_attachments a ON a.edition_id = e.id
				WHERE e.document_id = d.id
				  AND e.state IN ('draft', 'submitted', 'rejected', 'scheduled')
			)` + order, nil, nil

	case model.BulkWithPubliclyVisibleAttachments, model.BulkWithPubliclyVisibleHTMLAttachments:
		return base + `
			WHERE EXISTS (
				SELECT 1 FROM editions e
				JOIN html_attachments a ON a.edition_id = e.id
				WHERE e.document_id = d.id
				  AND e.state IN ('published', 'withdrawn')
			)` + order, nil, nil

	case model.BulkAllByType:
		return base + ` WHERE d.document_type = $1` + order, []any{sel.ContentType}, nil

	case model.BulkByOrganisation:
		return base + `
			WHERE EXISTS (
				SELECT 1 FROM editions e
				WHERE e.document_id = d.id
				  AND e.state <> 'superseded'
				  AND $1 = ANY(e.organisation_content_ids)
			)` + order, []any{sel.OrganisationID}, nil

	case model.BulkByContentIDs:
		return base + ` WHERE d.content_id = ANY($1)` + order, []any{pq.Array(sel.ContentIDs)}, nil

	default:
		return "", nil, fmt.Errorf("unsupported bulk content type %q", sel.BulkContentType)
	}
}

// ListIDs returns the ids of every document matching a bulk selection
func (s *DocumentStore) ListIDs(ctx context.Context, sel model.BulkSelection) ([]int64, error) {
	query, args, err := bulkQuery(sel)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan document id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// Count returns the number of documents
func (s *DocumentStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return count, nil
}

// CountByState returns the number of editions in each state
func (s *DocumentStore) CountByState(ctx context.Context) (map[model.EditionState]int, error) {
	query := `
		SELECT state, COUNT(*)
		FROM editions
		GROUP BY state
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count editions: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.EditionState]int)
	for rows.Next() {
		var state string
		var count int
		if err := rows.Scan(&state, &count); err != nil {
			return nil, fmt.Errorf("failed to scan edition count: %w", err)
		}
		counts[model.EditionState(state)] = count
	}

	return counts, rows.Err()
}
