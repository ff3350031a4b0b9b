package service

import (
	"context"
	"fmt"

	"github.com/jjenkins/whitehall/internal/model"
	"github.com/jjenkins/whitehall/internal/presenter"
)

// Propagator pushes an edition's HTML attachments after the edition itself
type Propagator struct {
	gateway Gateway
}

// NewPropagator creates a new Propagator
func NewPropagator(gateway Gateway) *Propagator {
	return &Propagator{gateway: gateway}
}

// Publish puts, links and publishes every attachment of a live edition
func (p *Propagator) Publish(ctx context.Context, doc *model.Document, ed *model.Edition, opts Options) error {
	for i := range ed.Attachments {
		att := &ed.Attachments[i]
		if err := p.publish(ctx, doc, ed, att, opts); err != nil {
			return err
		}
	}
	return nil
}

// SaveDraft puts every attachment of a draft edition without publishing
func (p *Propagator) SaveDraft(ctx context.Context, doc *model.Document, ed *model.Edition, opts Options) error {
	for i := range ed.Attachments {
		att := &ed.Attachments[i]
		content := presenter.AttachmentContent(doc, ed, att, opts.updateType())
		if err := p.gateway.PutContent(ctx, att.ContentID, content); err != nil {
			return fmt.Errorf("failed to save draft attachment %s: %w", att.ContentID, err)
		}
	}
	return nil
}

// Unpublish publishes every attachment of a retired edition and then makes it
// follow its parent out of public view
func (p *Propagator) Unpublish(ctx context.Context, doc *model.Document, ed *model.Edition, opts Options) error {
	if ed.Unpublishing == nil {
		return fmt.Errorf("unpublishing for edition %d: %w", ed.ID, ErrNotFoundLocally)
	}

	for i := range ed.Attachments {
		att := &ed.Attachments[i]
		if err := p.publish(ctx, doc, ed, att, opts); err != nil {
			return err
		}

		body := presenter.AttachmentUnpublishBody(doc, ed, ed.Unpublishing, opts.AllowDraft)
		if err := p.gateway.Unpublish(ctx, att.ContentID, body); err != nil {
			return fmt.Errorf("failed to unpublish attachment %s: %w", att.ContentID, err)
		}
	}
	return nil
}

func (p *Propagator) publish(ctx context.Context, doc *model.Document, ed *model.Edition, att *model.Attachment, opts Options) error {
	updateType := opts.updateType()
	content := presenter.AttachmentContent(doc, ed, att, updateType)

	if err := p.gateway.PutContent(ctx, att.ContentID, content); err != nil {
		return fmt.Errorf("failed to put attachment %s: %w", att.ContentID, err)
	}
	if err := p.gateway.PatchLinks(ctx, att.ContentID, presenter.AttachmentLinks(doc, ed), opts.BulkPublishing); err != nil {
		return fmt.Errorf("failed to patch attachment links %s: %w", att.ContentID, err)
	}
	if err := p.gateway.Publish(ctx, att.ContentID, updateType, ed.Locale(), opts.BulkPublishing); err != nil {
		return fmt.Errorf("failed to publish attachment %s: %w", att.ContentID, err)
	}
	return nil
}
