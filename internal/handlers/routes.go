package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jjenkins/whitehall/internal/logger"
	"github.com/jjenkins/whitehall/internal/service"
)

// Deps holds everything the admin routes need
type Deps struct {
	Documents     service.DocumentLoader
	Events        service.EventLister
	Recorder      *service.EventRecorder
	Republisher   service.DocumentRepublisher
	Enqueuer      service.JobEnqueuer // nil republishes inline
	Bulk          *service.BulkRepublisher
	Redirector    *service.Redirector
	ContentBlocks *service.ContentBlockPublisher
	BlockStore    ContentBlockInserter
	Stats         *service.StatsService
	Gatherer      prometheus.Gatherer
	Logger        *logger.Logger
}

// Register mounts the dashboard and admin API routes
func Register(app *fiber.App, d Deps) {
	log := d.Logger
	if log == nil {
		log = logger.Nop()
	}

	// Dashboard
	app.Get("/", HomeHandler(d.Stats, log))
	app.Get("/republishing-events", RepublishingEventsHandler(d.Events))

	// Admin API
	api := app.Group("/api")
	api.Post("/documents/:id/republish", RepublishDocumentHandler(d.Documents, d.Recorder, d.Republisher, d.Enqueuer))
	api.Get("/documents/:id/lifecycle", LifecycleHandler(d.Documents))
	api.Post("/republish/bulk", BulkRepublishHandler(d.Recorder, d.Bulk))
	api.Post("/redirects", RedirectHandler(d.Redirector))
	api.Post("/content-blocks", ContentBlockHandler(d.ContentBlocks, d.BlockStore, log))

	if d.Gatherer != nil {
		app.Get("/metrics", MetricsHandler(d.Gatherer))
	}
}
