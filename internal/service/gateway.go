package service

import (
	"context"

	"github.com/jjenkins/whitehall/internal/presenter"
)

// Gateway is the set of Publishing API operations used to propagate content.
// Every operation is idempotent.
type Gateway interface {
	PutContent(ctx context.Context, contentID string, body presenter.Content) error
	Publish(ctx context.Context, contentID, updateType, locale string, bulkPublishing bool) error
	Unpublish(ctx context.Context, contentID string, body presenter.UnpublishBody) error
	PatchLinks(ctx context.Context, contentID string, links presenter.Links, bulkPublishing bool) error
}

// Options control a single propagation run
type Options struct {
	UpdateType     string
	BulkPublishing bool
	AllowDraft     bool
}

func (o Options) updateType() string {
	if o.UpdateType == "" {
		return presenter.UpdateTypeRepublish
	}
	return o.UpdateType
}
