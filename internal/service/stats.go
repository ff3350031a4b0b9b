package service

import (
	"context"
	"fmt"

	"github.com/jjenkins/whitehall/internal/model"
)

// DocumentCounter counts documents and editions for the dashboard
type DocumentCounter interface {
	Count(ctx context.Context) (int, error)
	CountByState(ctx context.Context) (map[model.EditionState]int, error)
}

// EventLister lists recorded republishing events, newest first
type EventLister interface {
	ListRecent(ctx context.Context, limit int) ([]model.RepublishingEvent, error)
}

// DashboardStats summarises documents by lifecycle and recent republishing activity
type DashboardStats struct {
	TotalDocuments int
	Live           int
	Drafts         int
	Retired        int
	Superseded     int
	RecentEvents   []model.RepublishingEvent
}

// StatsService calculates operator-facing statistics
type StatsService struct {
	documents DocumentCounter
	events    EventLister
}

// NewStatsService creates a new StatsService
func NewStatsService(documents DocumentCounter, events EventLister) *StatsService {
	return &StatsService{documents: documents, events: events}
}

// Dashboard calculates the dashboard statistics
func (s *StatsService) Dashboard(ctx context.Context, recent int) (*DashboardStats, error) {
	stats := &DashboardStats{}

	total, err := s.documents.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count documents: %w", err)
	}
	stats.TotalDocuments = total

	byState, err := s.documents.CountByState(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count editions: %w", err)
	}

	for state, n := range byState {
		switch Classify(&model.Edition{State: state}) {
		case LifecycleLive:
			stats.Live += n
		case LifecycleDraft:
			stats.Drafts += n
		case LifecycleWithdrawn, LifecycleUnpublished:
			stats.Retired += n
		case LifecycleSuperseded:
			stats.Superseded += n
		}
	}

	events, err := s.events.ListRecent(ctx, recent)
	if err != nil {
		return nil, fmt.Errorf("failed to list republishing events: %w", err)
	}
	stats.RecentEvents = events

	return stats, nil
}
