package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"eventhub/config"
	"eventhub/internal/repository/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Long:  `Apply the embedded goose migrations to DATABASE_URL and exit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		logger := config.NewLogger(cfg.Environment)
		ctx := cmd.Context()

		db, err := postgres.Open(ctx, cfg.DBUrl)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := postgres.Migrate(ctx, db); err != nil {
			return err
		}
		logger.InfoContext(ctx, "migrations applied")
		return nil
	},
}
