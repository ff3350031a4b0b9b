package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/jjenkins/whitehall/internal/config"
	"github.com/jjenkins/whitehall/internal/service"
)

// Connect opens a NATS connection and ensures the republishing stream exists
func Connect(ctx context.Context, cfg config.QueueConfig) (*nats.Conn, jetstream.JetStream, error) {
	conn, err := nats.Connect(cfg.URL, nats.Name("whitehall"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to nats: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("failed to create jetstream context: %w", err)
	}

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:      cfg.Stream,
		Subjects:  []string{cfg.Subject},
		Retention: jetstream.WorkQueuePolicy,
		Storage:   jetstream.FileStorage,
	})
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("failed to create stream %s: %w", cfg.Stream, err)
	}

	return conn, js, nil
}

// Publisher enqueues republishing jobs
type Publisher struct {
	js      jetstream.JetStream
	subject string
}

var _ service.JobEnqueuer = (*Publisher)(nil)

// NewPublisher creates a new Publisher
func NewPublisher(js jetstream.JetStream, subject string) *Publisher {
	return &Publisher{js: js, subject: subject}
}

// Enqueue publishes a job and waits for the stream to acknowledge it
func (p *Publisher) Enqueue(ctx context.Context, job Job) error {
	if err := job.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to encode job: %w", err)
	}

	if _, err := p.js.Publish(ctx, p.subject, data); err != nil {
		return fmt.Errorf("failed to enqueue document %d: %w", job.DocumentID, err)
	}

	return nil
}

// EnqueueRepublish enqueues a republish of one document
func (p *Publisher) EnqueueRepublish(ctx context.Context, documentID int64, opts service.Options) error {
	return p.Enqueue(ctx, NewJob(documentID, opts))
}
