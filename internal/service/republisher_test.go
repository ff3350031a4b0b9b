package service

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jjenkins/whitehall/internal/logger"
	"github.com/jjenkins/whitehall/internal/metrics"
	"github.com/jjenkins/whitehall/internal/model"
	"github.com/jjenkins/whitehall/internal/service/servicetest"
)

const docContentID = "doc-content-id"

// stubDocuments implements DocumentLoader for testing.
type stubDocuments struct {
	docs map[int64]*model.Document
	err  error
}

func (s *stubDocuments) GetWithEditions(_ context.Context, id int64) (*model.Document, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.docs[id], nil
}

var _ DocumentLoader = (*stubDocuments)(nil)

func edition(id int64, state model.EditionState, attachmentContentIDs ...string) model.Edition {
	ed := model.Edition{
		ID:            id,
		DocumentID:    1,
		State:         state,
		ChangeNote:    "Change note",
		PrimaryLocale: "en",
		Translations: map[string]model.Translation{
			"en": {Title: "Title", Summary: "Summary", Body: "Body"},
		},
		OrganisationContentIDs: []string{"org-1"},
	}
	for i, cid := range attachmentContentIDs {
		ed.Attachments = append(ed.Attachments, model.Attachment{
			ID:        int64(i + 1),
			EditionID: id,
			ContentID: cid,
			Slug:      cid,
			Title:     "Attachment " + cid,
			Body:      "<h2>Section</h2>",
		})
	}
	return ed
}

func retired(ed model.Edition, u model.Unpublishing) model.Edition {
	ed.Unpublishing = &u
	return ed
}

func newDocument(editions ...model.Edition) *model.Document {
	return &model.Document{
		ID:           1,
		ContentID:    docContentID,
		Slug:         "annual-report",
		DocumentType: model.DocumentTypePublication,
		Editions:     editions,
	}
}

func newTestRepublisher(doc *model.Document) (*Republisher, *servicetest.Gateway) {
	gateway := servicetest.NewGateway()
	docs := &stubDocuments{docs: map[int64]*model.Document{}}
	if doc != nil {
		docs.docs[doc.ID] = doc
	}
	return NewRepublisher(docs, gateway, logger.Nop(), nil), gateway
}

func TestRepublish_OnlySupersededEditions(t *testing.T) {
	doc := newDocument(
		edition(1, model.StateSuperseded, "att-1"),
		edition(2, model.StateSuperseded),
	)
	r, gateway := newTestRepublisher(doc)

	result, err := r.Republish(context.Background(), 1, Options{})
	require.NoError(t, err)

	assert.Empty(t, gateway.Calls())
	assert.Zero(t, result.LiveEditionID)
	assert.Zero(t, result.DraftEditionID)
	assert.Zero(t, result.UnpublishedEditionID)
}

func TestRepublish_LiveEdition(t *testing.T) {
	live := edition(2, model.StatePublished, "att-live")
	live.Translations["fr"] = model.Translation{Title: "Titre"}
	doc := newDocument(edition(1, model.StateSuperseded), live)
	r, gateway := newTestRepublisher(doc)

	result, err := r.Republish(context.Background(), 1, Options{})
	require.NoError(t, err)

	assert.Equal(t, []servicetest.Call{
		servicetest.Links(docContentID),
		servicetest.Put(docContentID, "en"),
		servicetest.Publish(docContentID, "en"),
		servicetest.Put(docContentID, "fr"),
		servicetest.Publish(docContentID, "fr"),
		servicetest.Put("att-live", "en"),
		servicetest.Links("att-live"),
		servicetest.Publish("att-live", "en"),
	}, gateway.Calls())

	assert.Equal(t, int64(2), result.LiveEditionID)
	for _, updateType := range gateway.UpdateTypes() {
		assert.Equal(t, "republish", updateType)
	}

	contents := gateway.Contents()
	require.Len(t, contents, 3)
	assert.Equal(t, "/government/publications/annual-report.fr", contents[1].BasePath)
	assert.Equal(t, "Titre", contents[1].Title)
	assert.Equal(t, "Summary", contents[1].Description)
}

func TestRepublish_LiveAndValidDraft(t *testing.T) {
	doc := newDocument(
		edition(1, model.StatePublished, "att-live"),
		edition(2, model.StateDraft, "att-draft"),
	)
	r, gateway := newTestRepublisher(doc)

	result, err := r.Republish(context.Background(), 1, Options{})
	require.NoError(t, err)

	assert.Equal(t, []servicetest.Call{
		servicetest.Links(docContentID),
		servicetest.Put(docContentID, "en"),
		servicetest.Publish(docContentID, "en"),
		servicetest.Put("att-live", "en"),
		servicetest.Links("att-live"),
		servicetest.Publish("att-live", "en"),
		servicetest.Links(docContentID),
		servicetest.Put(docContentID, "en"),
		servicetest.Put("att-draft", "en"),
	}, gateway.Calls())

	assert.Equal(t, int64(1), result.LiveEditionID)
	assert.Equal(t, int64(2), result.DraftEditionID)
	assert.False(t, result.DraftSkipped)
}

func TestRepublish_DraftSharesRunUpdateType(t *testing.T) {
	draft := edition(2, model.StateDraft, "att-draft")
	draft.MinorChange = true
	doc := newDocument(edition(1, model.StatePublished), draft)
	r, gateway := newTestRepublisher(doc)

	_, err := r.Republish(context.Background(), 1, Options{})
	require.NoError(t, err)

	contents := gateway.Contents()
	require.Len(t, contents, 3)
	for _, content := range contents {
		assert.Equal(t, "republish", content.UpdateType, content.BasePath)
	}
	assert.Equal(t, []string{"republish"}, gateway.UpdateTypes())
}

func TestRepublish_InvalidDraftIsSkipped(t *testing.T) {
	draft := edition(2, model.StateDraft, "att-draft")
	draft.ChangeNote = "   "
	doc := newDocument(edition(1, model.StatePublished), draft)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	gateway := servicetest.NewGateway()
	r := NewRepublisher(&stubDocuments{docs: map[int64]*model.Document{1: doc}}, gateway, logger.Nop(), m)

	result, err := r.Republish(context.Background(), 1, Options{})
	require.NoError(t, err)

	assert.Equal(t, []servicetest.Call{
		servicetest.Links(docContentID),
		servicetest.Put(docContentID, "en"),
		servicetest.Publish(docContentID, "en"),
	}, gateway.Calls())
	assert.True(t, result.DraftSkipped)
	assert.Zero(t, result.DraftEditionID)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.DraftSkipsTotal))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.RepublishRunsTotal.WithLabelValues("success")))
}

func TestRepublish_MinorChangeDraftWithoutNote(t *testing.T) {
	draft := edition(2, model.StateDraft)
	draft.ChangeNote = ""
	draft.MinorChange = true
	doc := newDocument(draft)
	r, gateway := newTestRepublisher(doc)

	result, err := r.Republish(context.Background(), 1, Options{})
	require.NoError(t, err)

	assert.Equal(t, []servicetest.Call{
		servicetest.Links(docContentID),
		servicetest.Put(docContentID, "en"),
	}, gateway.Calls())
	assert.Equal(t, int64(2), result.DraftEditionID)
}

func TestRepublish_UnpublishedEdition(t *testing.T) {
	unpublished := retired(edition(2, model.StateUnpublished, "att-1"), model.Unpublishing{
		Type:            model.UnpublishingRedirect,
		AlternativePath: " /government/new-home ",
		DiscardDrafts:   true,
	})
	doc := newDocument(edition(1, model.StateSuperseded), unpublished)
	r, gateway := newTestRepublisher(doc)

	result, err := r.Republish(context.Background(), 1, Options{})
	require.NoError(t, err)

	assert.Equal(t, []servicetest.Call{
		servicetest.Links(docContentID),
		servicetest.Unpublish(docContentID, "en"),
		servicetest.Put("att-1", "en"),
		servicetest.Links("att-1"),
		servicetest.Publish("att-1", "en"),
		servicetest.Unpublish("att-1", "en"),
	}, gateway.Calls())

	for _, call := range gateway.Calls() {
		if call.ContentID == docContentID {
			assert.NotEqual(t, servicetest.OpPublish, call.Op)
		}
	}

	bodies := gateway.UnpublishBodies()
	require.Len(t, bodies, 2)
	assert.Equal(t, "redirect", bodies[0].Type)
	assert.Equal(t, "/government/new-home", bodies[0].AlternativePath)
	assert.True(t, bodies[0].DiscardDrafts)
	assert.Equal(t, "/government/new-home", bodies[1].AlternativePath)
	assert.Equal(t, int64(2), result.UnpublishedEditionID)
}

func TestRepublish_WithdrawnEditionIgnoresOlderLive(t *testing.T) {
	withdrawn := retired(edition(2, model.StateWithdrawn), model.Unpublishing{
		Type:        model.UnpublishingWithdrawal,
		Explanation: "No longer current",
	})
	doc := newDocument(edition(1, model.StatePublished), withdrawn)
	r, gateway := newTestRepublisher(doc)

	result, err := r.Republish(context.Background(), 1, Options{})
	require.NoError(t, err)

	assert.Equal(t, []servicetest.Call{
		servicetest.Links(docContentID),
		servicetest.Unpublish(docContentID, "en"),
	}, gateway.Calls())
	assert.Equal(t, "withdrawal", gateway.UnpublishBodies()[0].Type)
	assert.Zero(t, result.LiveEditionID)
}

func TestRepublish_UnpublishedThenDraft(t *testing.T) {
	unpublished := retired(edition(1, model.StateUnpublished, "att-1"), model.Unpublishing{
		Type: model.UnpublishingGone,
	})
	doc := newDocument(unpublished, edition(2, model.StateDraft, "att-2"))
	r, gateway := newTestRepublisher(doc)

	_, err := r.Republish(context.Background(), 1, Options{AllowDraft: true})
	require.NoError(t, err)

	assert.Equal(t, []servicetest.Call{
		servicetest.Links(docContentID),
		servicetest.Unpublish(docContentID, "en"),
		servicetest.Put("att-1", "en"),
		servicetest.Links("att-1"),
		servicetest.Publish("att-1", "en"),
		servicetest.Unpublish("att-1", "en"),
		servicetest.Links(docContentID),
		servicetest.Put(docContentID, "en"),
		servicetest.Put("att-2", "en"),
	}, gateway.Calls())

	bodies := gateway.UnpublishBodies()
	require.Len(t, bodies, 2)
	assert.Equal(t, "gone", bodies[0].Type)
	assert.True(t, bodies[0].AllowDraft)
	assert.Equal(t, "redirect", bodies[1].Type)
	assert.Equal(t, "/government/publications/annual-report", bodies[1].AlternativePath)
	assert.True(t, bodies[1].DiscardDrafts)
}

func TestRepublish_PutPrecedesPublishPerLocale(t *testing.T) {
	live := edition(1, model.StatePublished)
	live.PrimaryLocale = "cy"
	live.Translations = map[string]model.Translation{
		"cy": {Title: "Teitl"},
		"en": {Title: "Title"},
		"de": {Title: "Titel"},
		"fr": {},
	}
	r, gateway := newTestRepublisher(newDocument(live))

	_, err := r.Republish(context.Background(), 1, Options{})
	require.NoError(t, err)

	calls := gateway.Calls()
	published := map[string]bool{}
	var order []string
	for _, call := range calls {
		switch call.Op {
		case servicetest.OpPutContent:
			assert.False(t, published[call.Locale], "put after publish for %s", call.Locale)
			order = append(order, call.Locale)
		case servicetest.OpPublish:
			published[call.Locale] = true
		}
	}
	assert.Equal(t, []string{"cy", "de", "en"}, order)
	assert.Len(t, published, 3)
}

func TestRepublish_FailureAbortsRemainingSteps(t *testing.T) {
	doc := newDocument(
		edition(1, model.StatePublished, "att-live"),
		edition(2, model.StateDraft, "att-draft"),
	)
	r, gateway := newTestRepublisher(doc)
	gateway.FailOn(servicetest.OpPublish, docContentID, ErrRemoteRejection)

	_, err := r.Republish(context.Background(), 1, Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRemoteRejection)

	assert.Equal(t, []servicetest.Call{
		servicetest.Links(docContentID),
		servicetest.Put(docContentID, "en"),
		servicetest.Publish(docContentID, "en"),
	}, gateway.Calls())
}

func TestRepublish_AttachmentFailureKeepsParent(t *testing.T) {
	doc := newDocument(edition(1, model.StatePublished, "att-1", "att-2"))
	r, gateway := newTestRepublisher(doc)
	gateway.FailOn(servicetest.OpPutContent, "att-1", ErrRemoteTransient)

	_, err := r.Republish(context.Background(), 1, Options{})
	require.Error(t, err)
	assert.True(t, IsRetryable(err))

	assert.Equal(t, []servicetest.Call{
		servicetest.Links(docContentID),
		servicetest.Put(docContentID, "en"),
		servicetest.Publish(docContentID, "en"),
		servicetest.Put("att-1", "en"),
	}, gateway.Calls())
}

func TestRepublish_MissingDocument(t *testing.T) {
	r, gateway := newTestRepublisher(nil)

	_, err := r.Republish(context.Background(), 42, Options{})
	assert.ErrorIs(t, err, ErrNotFoundLocally)
	assert.Empty(t, gateway.Calls())
}

func TestRepublish_LoadError(t *testing.T) {
	gateway := servicetest.NewGateway()
	r := NewRepublisher(&stubDocuments{err: errors.New("connection refused")}, gateway, nil, nil)

	_, err := r.Republish(context.Background(), 1, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.False(t, errors.Is(err, ErrNotFoundLocally))
}

func TestRepublish_UnpublishedWithoutRecord(t *testing.T) {
	doc := newDocument(edition(1, model.StateUnpublished))
	r, gateway := newTestRepublisher(doc)

	_, err := r.Republish(context.Background(), 1, Options{})
	assert.ErrorIs(t, err, ErrNotFoundLocally)
	assert.Empty(t, gateway.Calls())
}

func TestRepublish_BulkPublishingAndUpdateType(t *testing.T) {
	doc := newDocument(edition(1, model.StatePublished, "att-1"))
	r, gateway := newTestRepublisher(doc)

	_, err := r.Republish(context.Background(), 1, Options{UpdateType: "minor", BulkPublishing: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"minor", "minor"}, gateway.UpdateTypes())
	for _, bulk := range gateway.BulkFlags() {
		assert.True(t, bulk)
	}
}
