package store

import (
	"io/fs"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jjenkins/whitehall/internal/model"
	"github.com/jjenkins/whitehall/internal/store/migrations"
)

func TestPendingMigrations(t *testing.T) {
	names := []string{"010_later.up.sql", "002_events.up.sql", "001_init.up.sql", "001_init.down.sql", "embed.go", "notes.up.sql"}

	assert.Equal(t, []migration{
		{Version: 1, Name: "001_init.up.sql"},
		{Version: 2, Name: "002_events.up.sql"},
		{Version: 10, Name: "010_later.up.sql"},
	}, pendingMigrations(names, 0))

	assert.Equal(t, []migration{{Version: 10, Name: "010_later.up.sql"}}, pendingMigrations(names, 2))
	assert.Empty(t, pendingMigrations(names, 10))
}

func TestEmbeddedMigrations(t *testing.T) {
	entries, err := fs.ReadDir(migrations.FS, ".")
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}

	pending := pendingMigrations(names, 0)
	require.Len(t, pending, 3)
	for i, m := range pending {
		assert.Equal(t, i+1, m.Version)
	}
}

func TestAssembleEditions(t *testing.T) {
	editions := []model.Edition{{ID: 1}, {ID: 2}}
	translations := []translationRow{
		{EditionID: 1, Locale: "en", Translation: model.Translation{Title: "One"}},
		{EditionID: 2, Locale: "en", Translation: model.Translation{Title: "Two"}},
		{EditionID: 2, Locale: "cy", Translation: model.Translation{Title: "Dau"}},
		{EditionID: 99, Locale: "en"},
	}
	attachments := []model.Attachment{
		{ID: 10, EditionID: 2, Slug: "a"},
		{ID: 11, EditionID: 2, Slug: "b"},
	}
	unpublishings := []model.Unpublishing{
		{ID: 5, EditionID: 1, Type: model.UnpublishingGone},
	}

	got := assembleEditions(editions, translations, attachments, unpublishings)

	require.Len(t, got, 2)
	assert.Equal(t, "One", got[0].Translations["en"].Title)
	assert.Len(t, got[1].Translations, 2)
	assert.Equal(t, "Dau", got[1].Translations["cy"].Title)
	assert.Empty(t, got[0].Attachments)
	assert.Equal(t, []string{"a", "b"}, []string{got[1].Attachments[0].Slug, got[1].Attachments[1].Slug})
	require.NotNil(t, got[0].Unpublishing)
	assert.Equal(t, int64(5), got[0].Unpublishing.ID)
	assert.Nil(t, got[1].Unpublishing)
}

func TestBulkQuery(t *testing.T) {
	tests := []struct {
		name     string
		sel      model.BulkSelection
		contains string
		args     []any
	}{
		{
			name:     "all documents",
			sel:      model.BulkSelection{BulkContentType: model.BulkAllDocuments},
			contains: "SELECT d.id FROM documents d ORDER BY d.id",
		},
		{
			name:     "pre-publication editions",
			sel:      model.BulkSelection{BulkContentType: model.BulkWithPrePublicationEditions},
			contains: "'draft', 'submitted', 'rejected', 'scheduled'",
		},
		{
			name:     "publicly visible with attachments",
			sel:      model.BulkSelection{BulkContentType: model.BulkWithPubliclyVisibleHTMLAttachments},
			contains: "JOIN html_attachments",
		},
		{
			name:     "by type",
			sel:      model.BulkSelection{BulkContentType: model.BulkAllByType, ContentType: "publication"},
			contains: "d.document_type = $1",
			args:     []any{"publication"},
		},
		{
			name:     "by organisation",
			sel:      model.BulkSelection{BulkContentType: model.BulkByOrganisation, OrganisationID: "org-1"},
			contains: "$1 = ANY(e.organisation_content_ids)",
			args:     []any{"org-1"},
		},
		{
			name:     "by content ids",
			sel:      model.BulkSelection{BulkContentType: model.BulkByContentIDs, ContentIDs: []string{"a", "b"}},
			contains: "d.content_id = ANY($1)",
			args:     []any{pq.Array([]string{"a", "b"})},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := bulkQuery(tt.sel)
			require.NoError(t, err)
			assert.Contains(t, query, tt.contains)
			assert.Equal(t, tt.args, args)
		})
	}

	_, _, err := bulkQuery(model.BulkSelection{BulkContentType: "everything"})
	assert.Error(t, err)
}
