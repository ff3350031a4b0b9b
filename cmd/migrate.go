package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jjenkins/whitehall/internal/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}

		db, err := store.NewDB(cfg.Database.URL)
		if err != nil {
			return err
		}
		defer db.Close()

		applied, err := store.Migrate(context.Background(), db)
		if err != nil {
			return err
		}

		log.Info().Int("applied", applied).Msg("migrations complete")
		fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migrations\n", applied)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
