package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/jjenkins/whitehall/internal/config"
	"github.com/jjenkins/whitehall/internal/logger"
	"github.com/jjenkins/whitehall/internal/metrics"
	"github.com/jjenkins/whitehall/internal/presenter"
)

const bulkPublishingHeader = "Govuk-Bulk-Publishing"

// PublishingAPIClient handles communication with the Publishing API
type PublishingAPIClient struct {
	client         *http.Client
	baseURL        string
	bearerToken    string
	maxRetries     int
	initialBackoff time.Duration
	limiter        *rate.Limiter
	logger         *logger.Logger
	metrics        *metrics.Metrics
}

var _ Gateway = (*PublishingAPIClient)(nil)

// NewPublishingAPIClient creates a new Publishing API client
func NewPublishingAPIClient(cfg config.PublishingAPIConfig, log *logger.Logger, m *metrics.Metrics) *PublishingAPIClient {
	maxRetries := cfg.MaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	if log == nil {
		log = logger.Nop()
	}

	return &PublishingAPIClient{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		bearerToken:    cfg.BearerToken,
		maxRetries:     maxRetries,
		initialBackoff: cfg.InitialBackoff,
		limiter:        rate.NewLimiter(limit, burst),
		logger:         log.Component("publishing_api"),
		metrics:        m,
	}
}

type publishRequest struct {
	UpdateType string `json:"update_type"`
	Locale     string `json:"locale"`
}

type patchLinksRequest struct {
	Links          presenter.Links `json:"links"`
	BulkPublishing bool            `json:"bulk_publishing,omitempty"`
}

// PutContent stores the content for one locale of a content item
func (c *PublishingAPIClient) PutContent(ctx context.Context, contentID string, body presenter.Content) error {
	url := fmt.Sprintf("%s/v2/content/%s", c.baseURL, contentID)

	if err := c.sendWithRetry(ctx, "put_content", contentID, http.MethodPut, url, body, false); err != nil {
		return fmt.Errorf("failed to put content: %w", err)
	}

	return nil
}

// Publish makes previously put content public for the locale
func (c *PublishingAPIClient) Publish(ctx context.Context, contentID, updateType, locale string, bulkPublishing bool) error {
	url := fmt.Sprintf("%s/v2/content/%s/publish", c.baseURL, contentID)
	body := publishRequest{UpdateType: updateType, Locale: locale}

	if err := c.sendWithRetry(ctx, "publish", contentID, http.MethodPost, url, body, bulkPublishing); err != nil {
		return fmt.Errorf("failed to publish: %w", err)
	}

	return nil
}

// Unpublish retires a content item as gone, a redirect or a withdrawal
func (c *PublishingAPIClient) Unpublish(ctx context.Context, contentID string, body presenter.UnpublishBody) error {
	url := fmt.Sprintf("%s/v2/content/%s/unpublish", c.baseURL, contentID)

	if err := c.sendWithRetry(ctx, "unpublish", contentID, http.MethodPost, url, body, false); err != nil {
		return fmt.Errorf("failed to unpublish: %w", err)
	}

	return nil
}

// PatchLinks replaces the link set of a content item
func (c *PublishingAPIClient) PatchLinks(ctx context.Context, contentID string, links presenter.Links, bulkPublishing bool) error {
	url := fmt.Sprintf("%s/v2/links/%s", c.baseURL, contentID)
	body := patchLinksRequest{Links: links, BulkPublishing: bulkPublishing}

	if err := c.sendWithRetry(ctx, "patch_links", contentID, http.MethodPatch, url, body, bulkPublishing); err != nil {
		return fmt.Errorf("failed to patch links: %w", err)
	}

	return nil
}

// sendWithRetry sends a JSON request, retrying transient failures with exponential backoff
func (c *PublishingAPIClient) sendWithRetry(ctx context.Context, operation, contentID, method, url string, payload any, bulkPublishing bool) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", operation, err)
	}

	var lastErr error
	backoff := c.initialBackoff

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
				backoff *= 2
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		start := time.Now()
		status, err := c.send(ctx, operation, contentID, method, url, data, bulkPublishing)
		duration := time.Since(start)

		c.logger.LogPublishingAPICall(operation, contentID, status, duration, err)
		c.metrics.RecordAPIRequest(operation, statusLabel(status), duration)

		if err == nil {
			return nil
		}
		if !IsRetryable(err) {
			return err
		}
		lastErr = err
	}

	return fmt.Errorf("failed after %d attempts: %w", c.maxRetries, lastErr)
}

func (c *PublishingAPIClient) send(ctx context.Context, operation, contentID, method, url string, data []byte, bulkPublishing bool) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.bearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.bearerToken)
	}
	if bulkPublishing {
		req.Header.Set(bulkPublishingHeader, "true")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return 0, err
		}
		return 0, &APIError{Operation: operation, ContentID: contentID, Err: fmt.Errorf("%w: %v", ErrRemoteTransient, err)}
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()

	if err != nil {
		return resp.StatusCode, &APIError{Operation: operation, ContentID: contentID, StatusCode: resp.StatusCode, Err: fmt.Errorf("%w: %v", ErrRemoteTransient, err)}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp.StatusCode, nil
	}

	return resp.StatusCode, &APIError{
		Operation:  operation,
		ContentID:  contentID,
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(body)),
		Err:        classifyStatus(resp.StatusCode),
	}
}

func statusLabel(status int) string {
	if status == 0 {
		return "error"
	}
	return strconv.Itoa(status)
}
