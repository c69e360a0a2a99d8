package excel

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/Veraticus/moti-registry/internal/model"
	"github.com/Veraticus/moti-registry/internal/registry"
)

// SummarySheet holds the dashboard metrics in an export.
const SummarySheet = "Summary"

// Export writes table to a formatted workbook at path, with the dashboard
// metrics on a second worksheet.
func Export(ctx context.Context, path string, table model.Table) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	file, err := newRegisterFile(DefaultSheet, table)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	if err := writeSummary(file, registry.Summarize(table)); err != nil {
		return err
	}

	return saveAtomic(file, path)
}

func writeSummary(file *excelize.File, summary registry.Summary) error {
	if _, err := file.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("failed to add summary sheet: %w", err)
	}

	rows := [][]any{
		{"Metric", "Value"},
		{"Total Received", summary.Total},
		{"Pending Actions", summary.Pending},
		{"Completed", summary.Completed},
		{"Avg Turn Around (Days)", summary.RoundedAverageTAT()},
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := file.SetSheetRow(SummarySheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
	}

	bold, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create summary style: %w", err)
	}
	if err := file.SetCellStyle(SummarySheet, "A1", "B1", bold); err != nil {
		return fmt.Errorf("failed to style summary: %w", err)
	}
	return file.SetColWidth(SummarySheet, "A", "A", 26)
}
