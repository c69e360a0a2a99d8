package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/moti-registry/internal/cli"
	"github.com/Veraticus/moti-registry/internal/excel"
	"github.com/Veraticus/moti-registry/internal/sheets"
	"github.com/Veraticus/moti-registry/internal/storage"
)

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Prepare the register store",
		Long: `Prepare the configured store for use.

For Google Sheets this creates the spreadsheet when no spreadsheet_id is
configured, writes the header row and formats it. For SQLite it applies the
schema; for a workbook it writes an empty formatted register. Existing
records are never touched.`,
		RunE: runInit,
	}
}

func runInit(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	store, closeStore, err := openStore(ctx, "")
	if err != nil {
		return err
	}
	defer closeStore()

	switch s := store.(type) {
	case *sheets.Store:
		configured := viper.GetString("sheets.spreadsheet_id")
		id, err := s.Init(ctx)
		if err != nil {
			return fmt.Errorf("failed to initialize spreadsheet: %w", err)
		}
		fmt.Fprintln(out, cli.FormatSuccess("Spreadsheet ready: https://docs.google.com/spreadsheets/d/"+id))

		if configured == "" {
			viper.Set("sheets.spreadsheet_id", id)
			if err := saveConfig(); err != nil {
				slog.Warn("Failed to save spreadsheet id", "error", err)
				fmt.Fprintln(out, cli.FormatWarning("Add this to your config.yaml manually:"))
				fmt.Fprintf(out, "sheets:\n  spreadsheet_id: %q\n", id)
			}
		}

	case *storage.SQLiteStorage:
		if err := s.Init(ctx); err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		fmt.Fprintln(out, cli.FormatSuccess("Database ready at "+s.Path()))

	case *excel.Workbook:
		if err := s.Init(ctx); err != nil {
			return fmt.Errorf("failed to initialize workbook: %w", err)
		}
		fmt.Fprintln(out, cli.FormatSuccess("Workbook ready at "+s.Path()))
	}

	return nil
}
