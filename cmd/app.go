package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/jjenkins/whitehall/internal/config"
	"github.com/jjenkins/whitehall/internal/logger"
	"github.com/jjenkins/whitehall/internal/metrics"
	"github.com/jjenkins/whitehall/internal/queue"
	"github.com/jjenkins/whitehall/internal/service"
	"github.com/jjenkins/whitehall/internal/store"
)

// application holds the shared dependencies of every command
type application struct {
	cfg         *config.Config
	log         *logger.Logger
	db          *sql.DB
	registry    *prometheus.Registry
	metrics     *metrics.Metrics
	documents   *store.DocumentStore
	events      *store.RepublishingEventStore
	gateway     *service.PublishingAPIClient
	republisher *service.Republisher
	conn        *nats.Conn
	js          jetstream.JetStream
}

// loadConfig reads the config file and environment and builds the logger
func loadConfig() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	log := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	return cfg, log, nil
}

// newApplication connects to the database and, when configured, the queue
func newApplication(withQueue bool) (*application, error) {
	cfg, log, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log.Info().Msg("connecting to database")
	db, err := store.NewDB(cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	documents := store.NewDocumentStore(db)
	gateway := service.NewPublishingAPIClient(cfg.PublishingAPI, log, m)

	a := &application{
		cfg:         cfg,
		log:         log,
		db:          db,
		registry:    registry,
		metrics:     m,
		documents:   documents,
		events:      store.NewRepublishingEventStore(db),
		gateway:     gateway,
		republisher: service.NewRepublisher(documents, gateway, log, m),
	}

	if withQueue && cfg.Queue.URL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		conn, js, err := queue.Connect(ctx, cfg.Queue)
		if err != nil {
			db.Close()
			return nil, err
		}
		a.conn = conn
		a.js = js
	}

	return a, nil
}

// enqueuer returns the job publisher, or nil when no queue is configured
func (a *application) enqueuer() service.JobEnqueuer {
	if a.js == nil {
		return nil
	}
	return queue.NewPublisher(a.js, a.cfg.Queue.Subject)
}

func (a *application) Close() {
	if a.conn != nil {
		a.conn.Drain()
	}
	a.db.Close()
}

// signalContext returns a context cancelled on SIGINT or SIGTERM
func signalContext(log *logger.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigChan:
			log.Info().Str("signal", sig.String()).Msg("received signal, shutting down")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}

func requireQueue(a *application) error {
	if a.js == nil {
		return fmt.Errorf("queue.url (or NATS_URL) must be set")
	}
	return nil
}
