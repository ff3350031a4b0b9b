package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepublishingEventValidate(t *testing.T) {
	tests := []struct {
		name    string
		event   RepublishingEvent
		wantErr string
	}{
		{
			name:  "single document",
			event: RepublishingEvent{Action: "republish", Reason: "fix", ContentID: "abc"},
		},
		{
			name:    "missing action and reason",
			event:   RepublishingEvent{ContentID: "abc"},
			wantErr: "action can't be blank; reason can't be blank",
		},
		{
			name:    "single document without content id",
			event:   RepublishingEvent{Action: "republish", Reason: "fix"},
			wantErr: "content_id can't be blank",
		},
		{
			name:  "bulk all documents",
			event: RepublishingEvent{Action: "republish", Reason: "fix", Bulk: true, BulkContentType: BulkAllDocuments},
		},
		{
			name:    "bulk with unknown type",
			event:   RepublishingEvent{Action: "republish", Reason: "fix", Bulk: true, BulkContentType: "everything"},
			wantErr: `bulk_content_type "everything" is not supported`,
		},
		{
			name:    "all by type requires content type",
			event:   RepublishingEvent{Action: "republish", Reason: "fix", Bulk: true, BulkContentType: BulkAllByType},
			wantErr: "content_type can't be blank",
		},
		{
			name: "content type only allowed for all by type",
			event: RepublishingEvent{
				Action: "republish", Reason: "fix", Bulk: true,
				BulkContentType: BulkAllDocuments, ContentType: DocumentTypePublication,
			},
			wantErr: "content_type must be blank",
		},
		{
			name:    "organisation required",
			event:   RepublishingEvent{Action: "republish", Reason: "fix", Bulk: true, BulkContentType: BulkByOrganisation},
			wantErr: "organisation_id can't be blank",
		},
		{
			name:    "content ids required",
			event:   RepublishingEvent{Action: "republish", Reason: "fix", Bulk: true, BulkContentType: BulkByContentIDs},
			wantErr: "content_ids is not a non-empty array",
		},
		{
			name: "content ids must be non-blank strings",
			event: RepublishingEvent{
				Action: "republish", Reason: "fix", Bulk: true,
				BulkContentType: BulkByContentIDs, ContentIDs: []string{"a", " "},
			},
			wantErr: "content_ids is not a non-empty array of strings",
		},
		{
			name: "content ids",
			event: RepublishingEvent{
				Action: "republish", Reason: "fix", Bulk: true,
				BulkContentType: BulkByContentIDs, ContentIDs: []string{"a", "b"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.event.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidEvent)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseEditionState(t *testing.T) {
	state, err := ParseEditionState("withdrawn")
	require.NoError(t, err)
	assert.Equal(t, StateWithdrawn, state)
	assert.True(t, state.IsRetired())
	assert.False(t, state.IsPrePublication())

	_, err = ParseEditionState("archived")
	assert.Error(t, err)

	assert.True(t, StateScheduled.IsPrePublication())
	assert.False(t, StateSuperseded.IsRetired())
}

func TestEditionLocaleDefaultsToEnglish(t *testing.T) {
	assert.Equal(t, "en", (&Edition{}).Locale())
	assert.Equal(t, "cy", (&Edition{PrimaryLocale: "cy"}).Locale())
}
