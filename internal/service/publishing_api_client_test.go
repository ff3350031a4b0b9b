package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jjenkins/whitehall/internal/config"
	"github.com/jjenkins/whitehall/internal/logger"
	"github.com/jjenkins/whitehall/internal/metrics"
	"github.com/jjenkins/whitehall/internal/model"
	"github.com/jjenkins/whitehall/internal/presenter"
)

type recordedRequest struct {
	Method string
	Path   string
	Header http.Header
	Body   map[string]any
}

type fakePublishingAPI struct {
	mu       sync.Mutex
	requests []recordedRequest
	statuses []int
}

func (f *fakePublishingAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	raw, _ := io.ReadAll(r.Body)
	var body map[string]any
	_ = json.Unmarshal(raw, &body)
	f.requests = append(f.requests, recordedRequest{Method: r.Method, Path: r.URL.Path, Header: r.Header.Clone(), Body: body})

	status := http.StatusOK
	if len(f.statuses) > 0 {
		status = f.statuses[0]
		f.statuses = f.statuses[1:]
	}
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"details"}`))
}

func newTestClient(t *testing.T, api *fakePublishingAPI, m *metrics.Metrics) *PublishingAPIClient {
	t.Helper()
	server := httptest.NewServer(api)
	t.Cleanup(server.Close)

	return NewPublishingAPIClient(config.PublishingAPIConfig{
		BaseURL:        server.URL + "/",
		BearerToken:    "secret",
		Timeout:        5 * time.Second,
		MaxRetries:     3,
		InitialBackoff: time.Millisecond,
	}, logger.Nop(), m)
}

func TestPublishingAPIClient_Requests(t *testing.T) {
	api := &fakePublishingAPI{}
	client := newTestClient(t, api, nil)
	ctx := context.Background()

	require.NoError(t, client.PutContent(ctx, "abc", presenter.Content{BasePath: "/a", SchemaName: "publication", DocumentType: "publication", PublishingApp: "whitehall"}))
	require.NoError(t, client.PatchLinks(ctx, "abc", presenter.Links{"organisations": {"org-1"}}, true))
	require.NoError(t, client.Publish(ctx, "abc", "republish", "cy", true))
	require.NoError(t, client.Unpublish(ctx, "abc", presenter.UnpublishBody{Type: "gone", Locale: "en", DiscardDrafts: true}))

	require.Len(t, api.requests, 4)

	put := api.requests[0]
	assert.Equal(t, http.MethodPut, put.Method)
	assert.Equal(t, "/v2/content/abc", put.Path)
	assert.Equal(t, "Bearer secret", put.Header.Get("Authorization"))
	assert.Equal(t, "/a", put.Body["base_path"])
	assert.Empty(t, put.Header.Get("Govuk-Bulk-Publishing"))

	links := api.requests[1]
	assert.Equal(t, http.MethodPatch, links.Method)
	assert.Equal(t, "/v2/links/abc", links.Path)
	assert.Equal(t, "true", links.Header.Get("Govuk-Bulk-Publishing"))
	assert.Equal(t, true, links.Body["bulk_publishing"])

	publish := api.requests[2]
	assert.Equal(t, "/v2/content/abc/publish", publish.Path)
	assert.Equal(t, "republish", publish.Body["update_type"])
	assert.Equal(t, "cy", publish.Body["locale"])

	unpublish := api.requests[3]
	assert.Equal(t, "/v2/content/abc/unpublish", unpublish.Path)
	assert.Equal(t, "gone", unpublish.Body["type"])
	assert.Equal(t, true, unpublish.Body["discard_drafts"])
	_, hasAlternative := unpublish.Body["alternative_path"]
	assert.False(t, hasAlternative)
}

func TestPublishingAPIClient_RetriesTransientFailures(t *testing.T) {
	api := &fakePublishingAPI{statuses: []int{http.StatusBadGateway, http.StatusTooManyRequests, http.StatusOK}}
	m := metrics.New(prometheus.NewRegistry())
	client := newTestClient(t, api, m)

	require.NoError(t, client.Publish(context.Background(), "abc", "major", model.DefaultLocale, false))

	assert.Len(t, api.requests, 3)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.APIRequestsTotal.WithLabelValues("publish", "502")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.APIRequestsTotal.WithLabelValues("publish", "200")))
}

func TestPublishingAPIClient_GivesUpAfterMaxRetries(t *testing.T) {
	api := &fakePublishingAPI{statuses: []int{500, 500, 500, 500}}
	client := newTestClient(t, api, nil)

	err := client.PutContent(context.Background(), "abc", presenter.Content{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRemoteTransient)
	assert.True(t, IsRetryable(err))
	assert.Len(t, api.requests, 3)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 500, apiErr.StatusCode)
	assert.Equal(t, "put_content", apiErr.Operation)
}

func TestPublishingAPIClient_DoesNotRetryRejections(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"unprocessable", http.StatusUnprocessableEntity, ErrRemoteRejection},
		{"conflict", http.StatusConflict, ErrRemoteRejection},
		{"not found", http.StatusNotFound, ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakePublishingAPI{statuses: []int{tt.status}}
			client := newTestClient(t, api, nil)

			err := client.Publish(context.Background(), "abc", "major", "en", false)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.False(t, IsRetryable(err))
			assert.Len(t, api.requests, 1)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, `{"error":"details"}`, apiErr.Body)
		})
	}
}

func TestPublishingAPIClient_HonoursContextCancellation(t *testing.T) {
	api := &fakePublishingAPI{statuses: []int{503, 503, 503}}
	server := httptest.NewServer(api)
	defer server.Close()

	client := NewPublishingAPIClient(config.PublishingAPIConfig{
		BaseURL:        server.URL,
		Timeout:        time.Second,
		MaxRetries:     3,
		InitialBackoff: time.Hour,
	}, nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := client.Publish(ctx, "abc", "major", "en", false)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Len(t, api.requests, 1)
}
