package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jjenkins/whitehall/internal/model"
	"github.com/jjenkins/whitehall/internal/presenter"
)

// ContentBlockPublisher publishes content block editions
type ContentBlockPublisher struct {
	gateway Gateway
}

// NewContentBlockPublisher creates a new ContentBlockPublisher
func NewContentBlockPublisher(gateway Gateway) *ContentBlockPublisher {
	return &ContentBlockPublisher{gateway: gateway}
}

// Publish puts and publishes a content block, assigning a content id to new blocks
func (p *ContentBlockPublisher) Publish(ctx context.Context, cb *model.ContentBlockEdition) error {
	if strings.TrimSpace(cb.BlockType) == "" || strings.TrimSpace(cb.Title) == "" {
		return fmt.Errorf("%w: content block needs a block type and a title", ErrValidationFailure)
	}
	if cb.ContentID == "" {
		cb.ContentID = uuid.NewString()
	}

	content := presenter.ContentBlockContent(cb)

	if err := p.gateway.PutContent(ctx, cb.ContentID, content); err != nil {
		return fmt.Errorf("failed to put content block %s: %w", cb.ContentID, err)
	}
	if err := p.gateway.Publish(ctx, cb.ContentID, content.UpdateType, content.Locale, false); err != nil {
		return fmt.Errorf("failed to publish content block %s: %w", cb.ContentID, err)
	}

	return nil
}
