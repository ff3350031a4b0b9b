package templates

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jjenkins/whitehall/internal/model"
	"github.com/jjenkins/whitehall/internal/service"
)

func TestHome(t *testing.T) {
	data := HomeData{
		HasData: true,
		Stats: &service.DashboardStats{
			TotalDocuments: 12,
			Live:           9,
			RecentEvents: []model.RepublishingEvent{
				{Action: "Republished", Reason: "<script>", ContentID: "abc", CreatedAt: time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)},
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Home(data).Render(context.Background(), &buf))

	html := buf.String()
	assert.Contains(t, html, `<dd id="total-documents">12</dd>`)
	assert.Contains(t, html, `<dd id="live">9</dd>`)
	assert.Contains(t, html, "1 May 2024 10:30")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.NotContains(t, html, "<script>")
}

func TestHomeWithoutData(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Home(HomeData{}).Render(context.Background(), &buf))
	assert.Contains(t, buf.String(), "No documents have been imported yet.")
}

func TestEventTarget(t *testing.T) {
	assert.Equal(t, "abc", eventTarget(model.RepublishingEvent{ContentID: "abc"}))
	assert.Equal(t, "all_by_type: publication", eventTarget(model.RepublishingEvent{Bulk: true, BulkContentType: model.BulkAllByType, ContentType: "publication"}))
	assert.Equal(t, "all_documents_by_content_ids: 2 documents", eventTarget(model.RepublishingEvent{Bulk: true, BulkContentType: model.BulkByContentIDs, ContentIDs: []string{"a", "b"}}))
}
