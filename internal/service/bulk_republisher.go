package service

import (
	"context"
	"fmt"
	"io"

	"github.com/jjenkins/whitehall/internal/logger"
	"github.com/jjenkins/whitehall/internal/model"
	"github.com/jjenkins/whitehall/internal/presenter"
)

// DocumentLister resolves a bulk selection to document ids
type DocumentLister interface {
	ListIDs(ctx context.Context, sel model.BulkSelection) ([]int64, error)
}

// DocumentRepublisher republishes a single document
type DocumentRepublisher interface {
	Republish(ctx context.Context, documentID int64, opts Options) (*Result, error)
}

// JobEnqueuer schedules a republish of a document for a background worker
type JobEnqueuer interface {
	EnqueueRepublish(ctx context.Context, documentID int64, opts Options) error
}

// BulkStats tracks bulk republishing statistics
type BulkStats struct {
	Total       int
	Republished int
	Enqueued    int
	Failed      int
}

// BulkRepublisher republishes every document matching a bulk selection
type BulkRepublisher struct {
	documents   DocumentLister
	republisher DocumentRepublisher
	enqueuer    JobEnqueuer
	logger      *logger.Logger
}

// NewBulkRepublisher creates a new BulkRepublisher. A nil enqueuer republishes inline.
func NewBulkRepublisher(documents DocumentLister, republisher DocumentRepublisher, enqueuer JobEnqueuer, log *logger.Logger) *BulkRepublisher {
	if log == nil {
		log = logger.Nop()
	}
	return &BulkRepublisher{
		documents:   documents,
		republisher: republisher,
		enqueuer:    enqueuer,
		logger:      log.Component("bulk_republisher"),
	}
}

// Run republishes or enqueues every selected document. Individual failures are
// counted and do not stop the run.
func (b *BulkRepublisher) Run(ctx context.Context, sel model.BulkSelection) (*BulkStats, error) {
	stats := &BulkStats{}

	ids, err := b.documents.ListIDs(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	stats.Total = len(ids)
	b.logger.Info().
		Str("bulk_content_type", sel.BulkContentType).
		Int("total", stats.Total).
		Msg("starting bulk republish")

	opts := Options{UpdateType: presenter.UpdateTypeRepublish, BulkPublishing: true}

	for idx, id := range ids {
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		default:
		}

		progress := fmt.Sprintf("%d/%d", idx+1, stats.Total)

		if b.enqueuer != nil {
			if err := b.enqueuer.EnqueueRepublish(ctx, id, opts); err != nil {
				b.logger.Error().Err(err).Int64("document_id", id).Str("progress", progress).Msg("failed to enqueue")
				stats.Failed++
				continue
			}
			stats.Enqueued++
			continue
		}

		if _, err := b.republisher.Republish(ctx, id, opts); err != nil {
			b.logger.Error().Err(err).Int64("document_id", id).Str("progress", progress).Msg("failed to republish")
			stats.Failed++
			continue
		}
		b.logger.Debug().Int64("document_id", id).Str("progress", progress).Msg("republished")
		stats.Republished++
	}

	return stats, nil
}

// PrintSummary prints the bulk republishing statistics
func (b *BulkRepublisher) PrintSummary(w io.Writer, stats *BulkStats) {
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "=== Bulk Republish Summary ===")
	fmt.Fprintf(w, "Total documents: %d\n", stats.Total)
	fmt.Fprintf(w, "Republished:     %d\n", stats.Republished)
	fmt.Fprintf(w, "Enqueued:        %d\n", stats.Enqueued)
	fmt.Fprintf(w, "Failed:          %d\n", stats.Failed)

	if stats.Total > 0 {
		successRate := float64(stats.Republished+stats.Enqueued) / float64(stats.Total) * 100
		fmt.Fprintf(w, "Success rate:    %.1f%%\n", successRate)
	}
}
