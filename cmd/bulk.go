package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jjenkins/whitehall/internal/model"
	"github.com/jjenkins/whitehall/internal/service"
)

var (
	bulkContentType    string
	bulkDocumentType   string
	bulkOrganisationID string
	bulkContentIDs     []string
	bulkReason         string
	bulkUser           string
	bulkEnqueue        bool
)

var bulkCmd = &cobra.Command{
	Use:   "bulk-republish",
	Short: "Republish every document matching a bulk selection",
	Long: `Select documents by bulk content type and republish them with bulk
publishing enabled. A republishing event is recorded for the run.

Bulk content types:
  ` + strings.Join([]string{
		model.BulkAllDocuments,
		model.BulkWithPrePublicationEditions,
		model.BulkWithPrePublicationHTMLAttachments,
		model.BulkWithPubliclyVisibleAttachments,
		model.BulkWithPubliclyVisibleHTMLAttachments,
		model.BulkAllByType,
		model.BulkByOrganisation,
		model.BulkByContentIDs,
	}, "\n  ") + `

Examples:
  # Republish every publication through the queue
  whitehall bulk-republish --type all_by_type --content-type publication --reason "Template change" --enqueue

  # Republish two documents inline
  whitehall bulk-republish --type all_documents_by_content_ids --content-ids a,b --reason "Fix"`,
	RunE: runBulkRepublish,
}

func init() {
	rootCmd.AddCommand(bulkCmd)

	bulkCmd.Flags().StringVarP(&bulkContentType, "type", "t", "", "Bulk content type")
	bulkCmd.Flags().StringVar(&bulkDocumentType, "content-type", "", "Document type for all_by_type")
	bulkCmd.Flags().StringVar(&bulkOrganisationID, "organisation-id", "", "Organisation content id for all_documents_by_organisation")
	bulkCmd.Flags().StringSliceVar(&bulkContentIDs, "content-ids", nil, "Content ids for all_documents_by_content_ids")
	bulkCmd.Flags().StringVarP(&bulkReason, "reason", "r", "", "Reason recorded with the republishing event")
	bulkCmd.Flags().StringVar(&bulkUser, "user", os.Getenv("USER"), "User recorded with the republishing event")
	bulkCmd.Flags().BoolVar(&bulkEnqueue, "enqueue", false, "Enqueue a job per document instead of republishing inline")
	bulkCmd.MarkFlagRequired("type")
	bulkCmd.MarkFlagRequired("reason")
}

func runBulkRepublish(cmd *cobra.Command, args []string) error {
	a, err := newApplication(bulkEnqueue)
	if err != nil {
		return err
	}
	defer a.Close()

	if bulkEnqueue {
		if err := requireQueue(a); err != nil {
			return err
		}
	}

	ctx, cancel := signalContext(a.log)
	defer cancel()

	event := &model.RepublishingEvent{
		Action:          fmt.Sprintf("Bulk republishing of %s", bulkContentType),
		Reason:          bulkReason,
		UserName:        bulkUser,
		Bulk:            true,
		BulkContentType: bulkContentType,
		ContentType:     bulkDocumentType,
		OrganisationID:  bulkOrganisationID,
		ContentIDs:      bulkContentIDs,
	}
	if err := service.NewEventRecorder(a.events, a.metrics).Record(ctx, event); err != nil {
		return err
	}

	var enqueuer service.JobEnqueuer
	if bulkEnqueue {
		enqueuer = a.enqueuer()
	}
	bulk := service.NewBulkRepublisher(a.documents, a.republisher, enqueuer, a.log)

	stats, err := bulk.Run(ctx, event.Selection())
	if stats != nil {
		bulk.PrintSummary(cmd.OutOrStdout(), stats)
	}
	if err != nil {
		return err
	}

	if stats.Failed > 0 {
		return fmt.Errorf("%d documents failed", stats.Failed)
	}
	return nil
}
