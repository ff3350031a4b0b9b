package cmd

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/cobra"

	"github.com/jjenkins/whitehall/internal/handlers"
	"github.com/jjenkins/whitehall/internal/service"
	"github.com/jjenkins/whitehall/internal/store"
)

var port string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Whitehall admin server",
	Long: `Start the operator dashboard and the admin API used to republish
documents, publish redirects and create content blocks.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApplication(true)
		if err != nil {
			return err
		}
		defer a.Close()

		if port != "" {
			a.cfg.Server.Port = port
		}

		enqueuer := a.enqueuer()
		recorder := service.NewEventRecorder(a.events, a.metrics)

		app := fiber.New(fiber.Config{
			AppName: "Whitehall Publisher",
		})

		app.Use(logger.New())

		handlers.Register(app, handlers.Deps{
			Documents:     a.documents,
			Events:        a.events,
			Recorder:      recorder,
			Republisher:   a.republisher,
			Enqueuer:      enqueuer,
			Bulk:          service.NewBulkRepublisher(a.documents, a.republisher, enqueuer, a.log),
			Redirector:    service.NewRedirector(a.gateway),
			ContentBlocks: service.NewContentBlockPublisher(a.gateway),
			BlockStore:    store.NewContentBlockStore(a.db),
			Stats:         service.NewStatsService(a.documents, a.events),
			Gatherer:      a.registry,
			Logger:        a.log,
		})

		ctx, cancel := signalContext(a.log)
		defer cancel()
		go func() {
			<-ctx.Done()
			app.Shutdown()
		}()

		a.log.Info().Str("port", a.cfg.Server.Port).Bool("queue", enqueuer != nil).Msg("starting server")
		return app.Listen(":" + a.cfg.Server.Port)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&port, "port", "p", "", "Port to run the server on (overrides config)")
}
