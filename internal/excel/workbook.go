// Package excel keeps the correspondence register in a local .xlsx workbook
// and renders formatted exports.
package excel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/Veraticus/moti-registry/internal/model"
)

// DefaultSheet is the worksheet holding the register.
const DefaultSheet = "Data"

// ErrSheetNotFound is returned when the workbook lacks the register worksheet.
var ErrSheetNotFound = errors.New("worksheet not found")

// Workbook is a Tabular Store backed by one worksheet of an .xlsx file.
type Workbook struct {
	logger *slog.Logger
	path   string
	sheet  string
}

// NewWorkbook creates a store for the workbook at path.
func NewWorkbook(path, sheet string, logger *slog.Logger) *Workbook {
	if sheet == "" {
		sheet = DefaultSheet
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Workbook{
		path:   path,
		sheet:  sheet,
		logger: logger,
	}
}

// Path returns the workbook file path.
func (w *Workbook) Path() string {
	return w.path
}

// Read loads the register. A missing file is an empty register.
func (w *Workbook) Read(ctx context.Context) (model.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := excelize.OpenFile(w.path)
	if errors.Is(err, os.ErrNotExist) {
		return model.Table{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = file.Close() }()

	if idx, err := file.GetSheetIndex(w.sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: %s in %s", ErrSheetNotFound, w.sheet, w.path)
	}

	rows, err := file.GetRows(w.sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}

	table, err := model.DecodeTable(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", w.path, err)
	}
	return table, nil
}

// Write replaces the workbook with table. The new file is written next to
// the old one and renamed over it.
func (w *Workbook) Write(ctx context.Context, table model.Table) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	file, err := newRegisterFile(w.sheet, table)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	if err := saveAtomic(file, w.path); err != nil {
		return err
	}

	w.logger.Debug("wrote register", "path", w.path, "rows", len(table))
	return nil
}

// Init creates the workbook with a header row when it does not exist yet.
func (w *Workbook) Init(ctx context.Context) error {
	if _, err := os.Stat(w.path); err == nil {
		_, err = w.Read(ctx)
		return err
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to stat workbook: %w", err)
	}
	return w.Write(ctx, model.Table{})
}

// newRegisterFile builds an in-memory workbook with the register on sheet.
func newRegisterFile(sheet string, table model.Table) (*excelize.File, error) {
	file := excelize.NewFile()

	if err := file.SetSheetName("Sheet1", sheet); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to name worksheet: %w", err)
	}

	if err := writeTable(file, sheet, table); err != nil {
		_ = file.Close()
		return nil, err
	}
	return file, nil
}

func writeTable(file *excelize.File, sheet string, table model.Table) error {
	header := make([]any, len(model.Columns))
	for i, col := range model.Columns {
		header[i] = col
	}
	if err := file.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, rec := range table {
		cells := rec.Cells()
		row := make([]any, len(cells))
		for j, cell := range cells {
			row[j] = cell
		}
		// TAT stays numeric so spreadsheet formulas can use it
		row[len(row)-1] = rec.TATDays

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := file.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s: %w", rec.RefID, err)
		}
	}

	return formatSheet(file, sheet)
}

// formatSheet bolds and freezes the header and widens the columns.
func formatSheet(file *excelize.File, sheet string) error {
	headerStyle, err := file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	lastCol, err := excelize.ColumnNumberToName(len(model.Columns))
	if err != nil {
		return err
	}
	if err := file.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	if err := file.SetColWidth(sheet, "A", lastCol, 18); err != nil {
		return fmt.Errorf("failed to set column widths: %w", err)
	}
	if err := file.SetColWidth(sheet, "F", "F", 40); err != nil {
		return fmt.Errorf("failed to set subject width: %w", err)
	}

	return file.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func saveAtomic(file *excelize.File, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create workbook directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".registry-*.xlsx")
	if err != nil {
		return fmt.Errorf("failed to create temp workbook: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := file.Write(tmp); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp workbook: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace workbook: %w", err)
	}
	return nil
}
