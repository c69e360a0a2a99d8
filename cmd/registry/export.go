package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/moti-registry/internal/cli"
	"github.com/Veraticus/moti-registry/internal/common"
	"github.com/Veraticus/moti-registry/internal/config"
	"github.com/Veraticus/moti-registry/internal/excel"
)

func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file.xlsx>",
		Short: "Export the register to an Excel workbook",
		Long: `Write the current register to a formatted Excel workbook with a Data sheet
holding every record and a Summary sheet holding the dashboard metrics.`,
		Args: cobra.ExactArgs(1),
		RunE: runExport,
	}
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	path := config.ExpandPath(args[0])
	if !strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return common.NewUserError("The export file must end in .xlsx", common.ErrInvalidInput)
	}

	reg, closeStore, err := openRegistry(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	_, table, err := reg.Dashboard(ctx)
	if err != nil {
		return err
	}

	if err := excel.Export(ctx, path, table); err != nil {
		return fmt.Errorf("failed to export register: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Exported %d records to %s", len(table), path)))
	return nil
}
