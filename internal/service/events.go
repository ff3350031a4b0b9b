package service

import (
	"context"
	"fmt"

	"github.com/jjenkins/whitehall/internal/metrics"
	"github.com/jjenkins/whitehall/internal/model"
)

// EventInserter stores republishing events
type EventInserter interface {
	Insert(ctx context.Context, event *model.RepublishingEvent) error
}

// EventRecorder validates and stores the audit trail of republish requests
type EventRecorder struct {
	events  EventInserter
	metrics *metrics.Metrics
}

// NewEventRecorder creates a new EventRecorder
func NewEventRecorder(events EventInserter, m *metrics.Metrics) *EventRecorder {
	return &EventRecorder{events: events, metrics: m}
}

// Record validates and stores an event
func (r *EventRecorder) Record(ctx context.Context, event *model.RepublishingEvent) error {
	if err := event.Validate(); err != nil {
		return err
	}

	if err := r.events.Insert(ctx, event); err != nil {
		return fmt.Errorf("failed to record republishing event: %w", err)
	}

	r.metrics.RecordEvent(event.Bulk)
	return nil
}
