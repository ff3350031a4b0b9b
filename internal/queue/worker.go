package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/jjenkins/whitehall/internal/config"
	"github.com/jjenkins/whitehall/internal/logger"
	"github.com/jjenkins/whitehall/internal/metrics"
	"github.com/jjenkins/whitehall/internal/service"
)

// Disposition is what the worker does with a message after handling it
type Disposition string

const (
	DispositionAck  Disposition = "ack"
	DispositionNak  Disposition = "nak"
	DispositionTerm Disposition = "term"
)

const (
	maxRetryDelay     = 30 * time.Minute
	defaultJobTimeout = 5 * time.Minute
)

// Worker consumes republishing jobs and runs them one at a time
type Worker struct {
	js          jetstream.JetStream
	cfg         config.QueueConfig
	republisher service.DocumentRepublisher
	logger      *logger.Logger
	metrics     *metrics.Metrics
}

// NewWorker creates a new Worker
func NewWorker(js jetstream.JetStream, cfg config.QueueConfig, republisher service.DocumentRepublisher, log *logger.Logger, m *metrics.Metrics) *Worker {
	if log == nil {
		log = logger.Nop()
	}
	return &Worker{
		js:          js,
		cfg:         cfg,
		republisher: republisher,
		logger:      log.Component("worker"),
		metrics:     m,
	}
}

// Start creates the durable consumer and processes jobs until ctx is cancelled
func (w *Worker) Start(ctx context.Context) error {
	stream, err := w.js.Stream(ctx, w.cfg.Stream)
	if err != nil {
		return fmt.Errorf("failed to get stream %s: %w", w.cfg.Stream, err)
	}

	consumer, err := stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		Durable:       w.cfg.Consumer,
		FilterSubject: w.cfg.Subject,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       w.cfg.AckWait,
		MaxDeliver:    w.cfg.MaxDeliver,
	})
	if err != nil {
		return fmt.Errorf("failed to create consumer: %w", err)
	}

	w.logger.Info().
		Str("stream", w.cfg.Stream).
		Str("consumer", w.cfg.Consumer).
		Str("subject", w.cfg.Subject).
		Msg("worker started")

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		msgs, err := consumer.Fetch(1, jetstream.FetchMaxWait(5*time.Second))
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			w.logger.Debug().Err(err).Msg("fetch timeout or error")
			continue
		}

		for msg := range msgs.Messages() {
			w.handleMessage(ctx, msg)
		}

		if msgs.Error() != nil && !errors.Is(msgs.Error(), context.DeadlineExceeded) && !errors.Is(msgs.Error(), jetstream.ErrNoMessages) {
			w.logger.Warn().Err(msgs.Error()).Msg("message fetch error")
		}
	}
}

func (w *Worker) handleMessage(ctx context.Context, msg jetstream.Msg) {
	delivered := uint64(1)
	if meta, err := msg.Metadata(); err == nil {
		delivered = meta.NumDelivered
	}

	err := w.run(ctx, msg.Data())
	d := disposition(err, delivered, w.cfg.MaxDeliver)
	w.metrics.RecordJob(string(d))

	switch d {
	case DispositionAck:
		err = msg.Ack()
	case DispositionNak:
		delay := retryDelay(w.cfg.RetryBackoff, delivered)
		w.logger.Warn().Err(err).Uint64("delivered", delivered).Dur("retry_in", delay).Msg("republish will be retried")
		err = msg.NakWithDelay(delay)
	case DispositionTerm:
		w.logger.Error().Err(err).Uint64("delivered", delivered).Msg("republish job dropped")
		err = msg.Term()
	}
	if err != nil {
		w.logger.Error().Err(err).Str("disposition", string(d)).Msg("failed to settle message")
	}
}

// run processes one job on a context detached from worker shutdown and
// bounded by the ack wait
func (w *Worker) run(ctx context.Context, data []byte) error {
	timeout := w.cfg.AckWait
	if timeout <= 0 {
		timeout = defaultJobTimeout
	}

	runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	return w.process(runCtx, data)
}

func (w *Worker) process(ctx context.Context, data []byte) error {
	job, err := decodeJob(data)
	if err != nil {
		return err
	}

	result, err := w.republisher.Republish(ctx, job.DocumentID, job.Options())
	if err != nil {
		return err
	}

	w.logger.Info().
		Int64("document_id", job.DocumentID).
		Bool("draft_skipped", result.DraftSkipped).
		Msg("republished document")
	return nil
}

// disposition decides how a handled message is settled. Only transient
// failures and interrupted runs are redelivered, and only while deliveries remain.
func disposition(err error, delivered uint64, maxDeliver int) Disposition {
	if err == nil {
		return DispositionAck
	}
	interrupted := errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
	if !interrupted && !service.IsRetryable(err) {
		return DispositionTerm
	}
	if maxDeliver > 0 && delivered >= uint64(maxDeliver) {
		return DispositionTerm
	}
	return DispositionNak
}

// retryDelay doubles the base delay for every previous delivery, capped at maxRetryDelay
func retryDelay(base time.Duration, delivered uint64) time.Duration {
	if base <= 0 {
		return 0
	}
	delay := base
	for i := uint64(1); i < delivered; i++ {
		delay *= 2
		if delay >= maxRetryDelay {
			return maxRetryDelay
		}
	}
	return delay
}
