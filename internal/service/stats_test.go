package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jjenkins/whitehall/internal/model"
)

// stubCounter implements DocumentCounter for testing.
type stubCounter struct {
	total   int
	byState map[model.EditionState]int
	err     error
}

func (s *stubCounter) Count(context.Context) (int, error) { return s.total, s.err }
func (s *stubCounter) CountByState(context.Context) (map[model.EditionState]int, error) {
	return s.byState, s.err
}

func TestStatsService_Dashboard(t *testing.T) {
	counter := &stubCounter{
		total: 5,
		byState: map[model.EditionState]int{
			model.StatePublished:   3,
			model.StateDraft:       1,
			model.StateSubmitted:   1,
			model.StateWithdrawn:   1,
			model.StateUnpublished: 1,
			model.StateSuperseded:  4,
		},
	}
	events := &stubEvents{events: []model.RepublishingEvent{{ID: 2}, {ID: 1}}}

	stats, err := NewStatsService(counter, events).Dashboard(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 5, stats.TotalDocuments)
	assert.Equal(t, 3, stats.Live)
	assert.Equal(t, 2, stats.Drafts)
	assert.Equal(t, 2, stats.Retired)
	assert.Equal(t, 4, stats.Superseded)
	assert.Len(t, stats.RecentEvents, 1)
}

func TestStatsService_CountError(t *testing.T) {
	_, err := NewStatsService(&stubCounter{err: errors.New("db down")}, &stubEvents{}).Dashboard(context.Background(), 10)
	assert.Error(t, err)
}
