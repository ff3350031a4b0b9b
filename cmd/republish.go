package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jjenkins/whitehall/internal/service"
)

var (
	republishDocumentID int64
	republishUpdateType string
	republishEnqueue    bool
	republishAllowDraft bool
)

var republishCmd = &cobra.Command{
	Use:   "republish",
	Short: "Republish a single document",
	Long: `Push the current state of one document to the Publishing API.

Examples:
  # Republish inline
  whitehall republish --document-id 123

  # Hand the republish to a worker
  whitehall republish --document-id 123 --enqueue`,
	RunE: runRepublish,
}

func init() {
	rootCmd.AddCommand(republishCmd)

	republishCmd.Flags().Int64VarP(&republishDocumentID, "document-id", "d", 0, "Document to republish")
	republishCmd.Flags().StringVar(&republishUpdateType, "update-type", "republish", "Update type sent with publish calls")
	republishCmd.Flags().BoolVar(&republishEnqueue, "enqueue", false, "Enqueue the job instead of running it")
	republishCmd.Flags().BoolVar(&republishAllowDraft, "allow-draft", false, "Allow unpublishing to apply to drafts")
	republishCmd.MarkFlagRequired("document-id")
}

func runRepublish(cmd *cobra.Command, args []string) error {
	a, err := newApplication(republishEnqueue)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signalContext(a.log)
	defer cancel()

	opts := service.Options{UpdateType: republishUpdateType, AllowDraft: republishAllowDraft}

	if republishEnqueue {
		if err := requireQueue(a); err != nil {
			return err
		}
		if err := a.enqueuer().EnqueueRepublish(ctx, republishDocumentID, opts); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Enqueued document %d\n", republishDocumentID)
		return nil
	}

	result, err := a.republisher.Republish(ctx, republishDocumentID, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Republished document %d\n", result.DocumentID)
	if result.UnpublishedEditionID != 0 {
		fmt.Fprintf(out, "  Unpublishing re-sent for edition %d\n", result.UnpublishedEditionID)
	}
	if result.LiveEditionID != 0 {
		fmt.Fprintf(out, "  Live edition:  %d\n", result.LiveEditionID)
	}
	if result.DraftEditionID != 0 {
		fmt.Fprintf(out, "  Draft edition: %d\n", result.DraftEditionID)
	}
	if result.DraftSkipped {
		fmt.Fprintln(out, "  Draft skipped: missing change note")
	}
	return nil
}
