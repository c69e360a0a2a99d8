package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Veraticus/moti-registry/internal/cli"
	"github.com/Veraticus/moti-registry/internal/config"
	"github.com/Veraticus/moti-registry/internal/storage"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Initialize or update the local SQLite schema to the latest version.

This command ensures the database behind the sqlite backend has all the
required tables and indexes.`,
		RunE: runMigrate,
	}

	cmd.Flags().Bool("status", false, "Show current migration status without applying changes")

	return cmd
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	status, _ := cmd.Flags().GetBool("status")

	storeCfg, err := config.LoadStoreConfig(config.BackendSQLite)
	if err != nil {
		return err
	}

	slog.Debug("Starting database migration",
		"database", storeCfg.SQLitePath,
		"status_only", status)

	store, err := storage.NewSQLiteStorage(storeCfg.SQLitePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	if status {
		current, err := store.SchemaVersion(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, cli.StyleTitle(cli.ChartIcon+" Database Migration Status"))
		fmt.Fprintf(out, "Database:        %s\n", store.Path())
		fmt.Fprintf(out, "Current version: %d\n", current)
		fmt.Fprintf(out, "Latest version:  %d\n", storage.ExpectedSchemaVersion)
		if current < storage.ExpectedSchemaVersion {
			fmt.Fprintln(out, cli.FormatWarning("Migrations pending; run 'registry migrate'"))
		}
		return nil
	}

	applied, err := store.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if applied == 0 {
		fmt.Fprintln(out, cli.FormatInfo("Database already up to date"))
		return nil
	}
	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Applied %d migrations to %s", applied, store.Path())))
	return nil
}
