package cmd

import (
	"github.com/spf13/cobra"

	"github.com/jjenkins/whitehall/internal/queue"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Process queued republishing jobs",
	Long: `Consume republishing jobs from NATS JetStream and run them one at a
time. Transient Publishing API failures are redelivered with backoff; other
failures are dropped and logged.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApplication(true)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := requireQueue(a); err != nil {
			return err
		}

		ctx, cancel := signalContext(a.log)
		defer cancel()

		worker := queue.NewWorker(a.js, a.cfg.Queue, a.republisher, a.log, a.metrics)
		return worker.Start(ctx)
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
