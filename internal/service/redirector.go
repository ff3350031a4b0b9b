package service

import (
	"context"
	"fmt"

	"github.com/jjenkins/whitehall/internal/model"
	"github.com/jjenkins/whitehall/internal/presenter"
)

// Redirector redirects existing content items and publishes standalone redirects
type Redirector struct {
	gateway Gateway
}

// NewRedirector creates a new Redirector
func NewRedirector(gateway Gateway) *Redirector {
	return &Redirector{gateway: gateway}
}

// Redirect unpublishes a content item as a redirect to destination
func (r *Redirector) Redirect(ctx context.Context, contentID, destination, locale string, allowDraft bool) error {
	if locale == "" {
		locale = model.DefaultLocale
	}

	body := presenter.RedirectUnpublishBody(destination, locale, allowDraft)
	if err := r.gateway.Unpublish(ctx, contentID, body); err != nil {
		return fmt.Errorf("failed to redirect %s: %w", contentID, err)
	}

	return nil
}

// PublishRedirect publishes a new redirect item from basePath and returns its content id
func (r *Redirector) PublishRedirect(ctx context.Context, basePath string, destinations []string) (string, error) {
	if basePath == "" || len(destinations) == 0 {
		return "", fmt.Errorf("%w: redirect needs a base path and at least one destination", ErrValidationFailure)
	}

	redirect := presenter.NewRedirect(basePath, destinations)

	if err := r.gateway.PutContent(ctx, redirect.ContentID, redirect.Content()); err != nil {
		return "", fmt.Errorf("failed to put redirect %s: %w", basePath, err)
	}
	if err := r.gateway.Publish(ctx, redirect.ContentID, redirect.UpdateType(), model.DefaultLocale, false); err != nil {
		return "", fmt.Errorf("failed to publish redirect %s: %w", basePath, err)
	}

	return redirect.ContentID, nil
}
