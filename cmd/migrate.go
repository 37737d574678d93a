package cmd

import (
	"fmt"

	"github.com/psds-microservice/ticket-reply-service/internal/config"
	"github.com/psds-microservice/ticket-reply-service/internal/database"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE:  runMigrateUp,
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := database.MigrateUp(cmd.Context(), cfg.DatabaseURL()); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	cmd.Println("migrate up: ok")
	return nil
}
