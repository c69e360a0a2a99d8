package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/api/sheets/v4"

	"github.com/Veraticus/moti-registry/internal/common"
	"github.com/Veraticus/moti-registry/internal/model"
)

// ErrNoSpreadsheet is returned when reading or writing before a spreadsheet is configured.
var ErrNoSpreadsheet = errors.New("no spreadsheet configured; run 'registry init' or set sheets.spreadsheet_id")

// Store keeps the register on one worksheet: a header row followed by one
// row per record. Reads and writes always cover the whole worksheet.
type Store struct {
	api    spreadsheetAPI
	logger *slog.Logger
	config Config
}

// NewStore creates a Google Sheets backed store.
func NewStore(ctx context.Context, config Config, logger *slog.Logger) (*Store, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	service, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return newStore(&serviceAPI{service: service}, config, logger), nil
}

func newStore(api spreadsheetAPI, config Config, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		api:    api,
		config: config,
		logger: logger,
	}
}

// SpreadsheetID returns the id of the backing spreadsheet.
func (s *Store) SpreadsheetID() string {
	return s.config.SpreadsheetID
}

// Read loads the full register.
func (s *Store) Read(ctx context.Context) (model.Table, error) {
	if s.config.SpreadsheetID == "" {
		return nil, ErrNoSpreadsheet
	}

	var values [][]any
	err := common.WithRetry(ctx, func() error {
		var getErr error
		values, getErr = s.api.GetValues(ctx, s.config.SpreadsheetID, s.sheetRange("A:Z"))
		return getErr
	}, s.retryOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to read worksheet %s: %w", s.config.Worksheet, err)
	}

	table, err := model.DecodeTable(toStrings(values))
	if err != nil {
		return nil, fmt.Errorf("failed to decode worksheet %s: %w", s.config.Worksheet, err)
	}

	s.logger.Debug("read register", "spreadsheet_id", s.config.SpreadsheetID, "rows", len(table))
	return table, nil
}

// Write replaces the worksheet contents with table. Rows are overwritten in
// place before any leftover rows below the new end are cleared, so the sheet
// is never observed empty.
func (s *Store) Write(ctx context.Context, table model.Table) error {
	if s.config.SpreadsheetID == "" {
		return ErrNoSpreadsheet
	}

	values := toValues(table)
	retryOpts := s.retryOptions()

	err := common.WithRetry(ctx, func() error {
		return s.writeData(ctx, values)
	}, retryOpts)
	if err != nil {
		return fmt.Errorf("failed to write data: %w", err)
	}

	err = common.WithRetry(ctx, func() error {
		return s.api.ClearValues(ctx, s.config.SpreadsheetID, s.sheetRange(fmt.Sprintf("A%d:Z", len(values)+1)))
	}, retryOpts)
	if err != nil {
		return fmt.Errorf("failed to clear trailing rows: %w", err)
	}

	s.logger.Debug("wrote register", "spreadsheet_id", s.config.SpreadsheetID, "rows", len(table))
	return nil
}

// Init makes sure a spreadsheet with a header row exists, creating the
// spreadsheet when none is configured. Existing records are left untouched.
func (s *Store) Init(ctx context.Context) (string, error) {
	if s.config.SpreadsheetID == "" {
		id, url, err := s.api.Create(ctx, s.config.SpreadsheetName, s.config.TimeZone, s.config.Worksheet)
		if err != nil {
			return "", fmt.Errorf("unable to create spreadsheet: %w", err)
		}
		s.config.SpreadsheetID = id
		s.logger.Info("created new spreadsheet", "id", id, "url", url)
	}

	table, err := s.Read(ctx)
	if err != nil {
		return "", err
	}
	if len(table) == 0 {
		if err := s.Write(ctx, table); err != nil {
			return "", err
		}
	}

	if s.config.EnableFormatting {
		if err := s.applyFormatting(ctx); err != nil {
			s.logger.Warn("failed to apply formatting", "error", err)
		}
	}

	return s.config.SpreadsheetID, nil
}

// writeData writes the rows in batches to avoid API limits.
func (s *Store) writeData(ctx context.Context, values [][]any) error {
	for i := 0; i < len(values); i += s.config.BatchSize {
		end := min(i+s.config.BatchSize, len(values))

		batch := values[i:end]
		rangeStr := s.sheetRange(fmt.Sprintf("A%d", i+1))
		if err := s.api.UpdateValues(ctx, s.config.SpreadsheetID, rangeStr, batch); err != nil {
			return fmt.Errorf("failed to write batch starting at row %d: %w", i+1, err)
		}

		s.logger.Debug("wrote batch", "start_row", i+1, "rows", len(batch))
	}
	return nil
}

// applyFormatting bolds and freezes the header row and sizes the columns.
func (s *Store) applyFormatting(ctx context.Context) error {
	sheetID, err := s.api.SheetID(ctx, s.config.SpreadsheetID, s.config.Worksheet)
	if err != nil {
		return err
	}

	requests := []*sheets.Request{
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          sheetID,
					StartRowIndex:    0,
					EndRowIndex:      1,
					StartColumnIndex: 0,
					EndColumnIndex:   int64(len(model.Columns)),
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						TextFormat: &sheets.TextFormat{
							Bold: true,
						},
					},
				},
				Fields: "userEnteredFormat.textFormat",
			},
		},
		{
			UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
				Properties: &sheets.SheetProperties{
					SheetId: sheetID,
					GridProperties: &sheets.GridProperties{
						FrozenRowCount: 1,
					},
				},
				Fields: "gridProperties.frozenRowCount",
			},
		},
		{
			AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
				Dimensions: &sheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "COLUMNS",
					StartIndex: 0,
					EndIndex:   int64(len(model.Columns)),
				},
			},
		},
	}

	return s.api.BatchUpdate(ctx, s.config.SpreadsheetID, requests)
}

func (s *Store) retryOptions() common.RetryOptions {
	return common.RetryOptions{
		MaxAttempts:  s.config.RetryAttempts,
		InitialDelay: s.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
}

// sheetRange qualifies an A1 range with the quoted worksheet name.
func (s *Store) sheetRange(a1 string) string {
	return "'" + strings.ReplaceAll(s.config.Worksheet, "'", "''") + "'!" + a1
}

// toValues renders the table for the API. TAT stays numeric so the sheet can
// aggregate it.
func toValues(table model.Table) [][]any {
	values := make([][]any, 0, len(table)+1)

	header := make([]any, len(model.Columns))
	for i, col := range model.Columns {
		header[i] = col
	}
	values = append(values, header)

	for _, rec := range table {
		cells := rec.Cells()
		row := make([]any, len(cells))
		for i, cell := range cells {
			row[i] = cell
		}
		row[len(row)-1] = rec.TATDays
		values = append(values, row)
	}
	return values
}

func toStrings(values [][]any) [][]string {
	rows := make([][]string, len(values))
	for i, row := range values {
		cells := make([]string, len(row))
		for j, cell := range row {
			if cell != nil {
				cells[j] = fmt.Sprint(cell)
			}
		}
		rows[i] = cells
	}
	return rows
}
