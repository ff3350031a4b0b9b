package service

import (
	"context"
	"fmt"

	"github.com/jjenkins/whitehall/internal/model"
	"github.com/jjenkins/whitehall/internal/presenter"
)

// Unpublisher re-sends the unpublishing of a retired edition
type Unpublisher struct {
	gateway Gateway
}

// NewUnpublisher creates a new Unpublisher
func NewUnpublisher(gateway Gateway) *Unpublisher {
	return &Unpublisher{gateway: gateway}
}

// Unpublish patches the edition's links then unpublishes every locale
func (u *Unpublisher) Unpublish(ctx context.Context, doc *model.Document, ed *model.Edition, opts Options) error {
	if ed.Unpublishing == nil {
		return fmt.Errorf("unpublishing for edition %d: %w", ed.ID, ErrNotFoundLocally)
	}

	if err := u.gateway.PatchLinks(ctx, doc.ContentID, presenter.EditionLinks(ed), opts.BulkPublishing); err != nil {
		return fmt.Errorf("failed to patch links for edition %d: %w", ed.ID, err)
	}

	for _, locale := range Locales(ed) {
		body := presenter.EditionUnpublishBody(ed.Unpublishing, locale, opts.AllowDraft)
		if err := u.gateway.Unpublish(ctx, doc.ContentID, body); err != nil {
			return fmt.Errorf("failed to unpublish edition %d (%s): %w", ed.ID, locale, err)
		}
	}

	return nil
}
