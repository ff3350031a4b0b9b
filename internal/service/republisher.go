package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jjenkins/whitehall/internal/logger"
	"github.com/jjenkins/whitehall/internal/metrics"
	"github.com/jjenkins/whitehall/internal/model"
	"github.com/jjenkins/whitehall/internal/presenter"
)

// DocumentLoader loads a document with all of its editions
type DocumentLoader interface {
	GetWithEditions(ctx context.Context, id int64) (*model.Document, error)
}

// Result reports which branches a republishing run went through
type Result struct {
	DocumentID           int64
	UnpublishedEditionID int64
	LiveEditionID        int64
	DraftEditionID       int64
	DraftSkipped         bool
}

// Republisher pushes the current state of a document to the Publishing API
type Republisher struct {
	documents   DocumentLoader
	gateway     Gateway
	unpublisher *Unpublisher
	attachments *Propagator
	logger      *logger.Logger
	metrics     *metrics.Metrics
}

// NewRepublisher creates a new Republisher
func NewRepublisher(documents DocumentLoader, gateway Gateway, log *logger.Logger, m *metrics.Metrics) *Republisher {
	if log == nil {
		log = logger.Nop()
	}
	return &Republisher{
		documents:   documents,
		gateway:     gateway,
		unpublisher: NewUnpublisher(gateway),
		attachments: NewPropagator(gateway),
		logger:      log.Component("republisher"),
		metrics:     m,
	}
}

// Republish runs the full propagation sequence for one document. The first
// failing remote call aborts the run; nothing already sent is rolled back.
func (r *Republisher) Republish(ctx context.Context, documentID int64, opts Options) (*Result, error) {
	start := time.Now()

	result, err := r.republish(ctx, documentID, opts)

	outcome := "success"
	if err != nil {
		outcome = "failure"
		r.logger.Error().Err(err).Int64("document_id", documentID).Msg("republish failed")
	}
	r.metrics.RecordRepublish(outcome, time.Since(start))

	return result, err
}

func (r *Republisher) republish(ctx context.Context, documentID int64, opts Options) (*Result, error) {
	doc, err := r.documents.GetWithEditions(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load document %d: %w", documentID, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("document %d: %w", documentID, ErrNotFoundLocally)
	}

	result := &Result{DocumentID: documentID}
	sel := SelectEditions(doc)

	if sel.IsEmpty() {
		r.logger.Info().Int64("document_id", documentID).Msg("nothing to republish")
		return result, nil
	}

	if sel.Unpublished != nil {
		if err := r.republishUnpublished(ctx, doc, sel.Unpublished, opts); err != nil {
			return result, err
		}
		result.UnpublishedEditionID = sel.Unpublished.ID
	} else if sel.Live != nil {
		if err := r.republishLive(ctx, doc, sel.Live, opts); err != nil {
			return result, err
		}
		result.LiveEditionID = sel.Live.ID
	}

	if sel.Draft != nil {
		if err := validateDraft(sel.Draft); err != nil {
			r.logger.Warn().
				Err(err).
				Int64("document_id", documentID).
				Int64("edition_id", sel.Draft.ID).
				Msg("skipping draft")
			r.metrics.RecordDraftSkip()
			result.DraftSkipped = true
			return result, nil
		}

		if err := r.saveDraft(ctx, doc, sel.Draft, opts); err != nil {
			return result, err
		}
		result.DraftEditionID = sel.Draft.ID
	}

	return result, nil
}

func (r *Republisher) republishUnpublished(ctx context.Context, doc *model.Document, ed *model.Edition, opts Options) error {
	r.logger.Info().Int64("document_id", doc.ID).Int64("edition_id", ed.ID).Msg("re-sending unpublishing")

	if err := r.unpublisher.Unpublish(ctx, doc, ed, opts); err != nil {
		return err
	}
	return r.attachments.Unpublish(ctx, doc, ed, opts)
}

func (r *Republisher) republishLive(ctx context.Context, doc *model.Document, ed *model.Edition, opts Options) error {
	r.logger.Info().Int64("document_id", doc.ID).Int64("edition_id", ed.ID).Msg("republishing live edition")

	updateType := opts.updateType()

	if err := r.gateway.PatchLinks(ctx, doc.ContentID, presenter.EditionLinks(ed), opts.BulkPublishing); err != nil {
		return fmt.Errorf("failed to patch links for edition %d: %w", ed.ID, err)
	}

	for _, snap := range Snapshots(ed) {
		content := presenter.EditionContent(doc, ed, snap, updateType)
		if err := r.gateway.PutContent(ctx, doc.ContentID, content); err != nil {
			return fmt.Errorf("failed to put edition %d (%s): %w", ed.ID, snap.Locale, err)
		}
		if err := r.gateway.Publish(ctx, doc.ContentID, updateType, snap.Locale, opts.BulkPublishing); err != nil {
			return fmt.Errorf("failed to publish edition %d (%s): %w", ed.ID, snap.Locale, err)
		}
	}

	return r.attachments.Publish(ctx, doc, ed, opts)
}

func (r *Republisher) saveDraft(ctx context.Context, doc *model.Document, ed *model.Edition, opts Options) error {
	r.logger.Info().Int64("document_id", doc.ID).Int64("edition_id", ed.ID).Msg("saving draft")

	updateType := opts.updateType()

	if err := r.gateway.PatchLinks(ctx, doc.ContentID, presenter.EditionLinks(ed), opts.BulkPublishing); err != nil {
		return fmt.Errorf("failed to patch links for draft %d: %w", ed.ID, err)
	}

	for _, snap := range Snapshots(ed) {
		content := presenter.EditionContent(doc, ed, snap, updateType)
		if err := r.gateway.PutContent(ctx, doc.ContentID, content); err != nil {
			return fmt.Errorf("failed to save draft %d (%s): %w", ed.ID, snap.Locale, err)
		}
	}

	return r.attachments.SaveDraft(ctx, doc, ed, opts)
}

// validateDraft requires a change note unless the draft is a minor change
func validateDraft(ed *model.Edition) error {
	if ed.MinorChange || strings.TrimSpace(ed.ChangeNote) != "" {
		return nil
	}
	return fmt.Errorf("%w: edition %d has no change note", ErrValidationFailure, ed.ID)
}
