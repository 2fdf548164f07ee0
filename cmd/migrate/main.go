package main

// Run database migrations:
//   go run ./cmd/migrate up
//   go run ./cmd/migrate status
//   go run ./cmd/migrate down

import (
	"context"
	"database/sql"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"resume-tailor/internal/shared/config"
	"resume-tailor/internal/shared/storage/db"
	"resume-tailor/internal/shared/telemetry"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"error": err})
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Manage the resume-tailor database schema",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		migrationCmd("up", "Apply all pending migrations", db.RunMigrations),
		migrationCmd("status", "Print the applied state of each migration", db.MigrationStatus),
		migrationCmd("down", "Roll back the most recent migration", db.RollbackMigration),
	)
	return root
}

func migrationCmd(use, short string, run func(context.Context, *sql.DB) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			telemetry.SetLevel(cfg.LogLevel)
			if cfg.DatabaseURL == "" {
				return errors.New("DATABASE_URL is required")
			}
			ctx := cmd.Context()
			sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
			if err != nil {
				return err
			}
			defer sqlDB.Close()
			if err := run(ctx, sqlDB); err != nil {
				return err
			}
			telemetry.Info("migrate.done", map[string]any{"command": use})
			return nil
		},
	}
}
