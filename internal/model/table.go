package model

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Column headers as they appear on the register worksheet.
const (
	ColumnRefID          = "Ref ID"
	ColumnDateReceived   = "Date Received"
	ColumnType           = "Type"
	ColumnClassification = "Classification"
	ColumnSender         = "Sender"
	ColumnSubject        = "Subject"
	ColumnAssignedTo     = "Assigned To"
	ColumnStatus         = "Status"
	ColumnDateCompleted  = "Date Completed"
	ColumnTATDays        = "TAT (Days)"
)

// Columns is the header row in the order records are written.
var Columns = []string{
	ColumnRefID,
	ColumnDateReceived,
	ColumnType,
	ColumnClassification,
	ColumnSender,
	ColumnSubject,
	ColumnAssignedTo,
	ColumnStatus,
	ColumnDateCompleted,
	ColumnTATDays,
}

// requiredColumns must be present in any header read back from a store.
var requiredColumns = []string{ColumnRefID, ColumnDateReceived, ColumnStatus}

// Row decoding errors.
var (
	ErrInvalidRow    = errors.New("invalid row")
	ErrMissingColumn = errors.New("missing required column")
)

// dateLayouts are accepted when reading dates back; spreadsheets sometimes
// append a time to a date-only cell.
var dateLayouts = []string{
	DateLayout,
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// Header maps column names to their positions in a stored row.
type Header map[string]int

// NewHeader builds a Header from the first row of a stored table.
func NewHeader(cells []string) (Header, error) {
	h := make(Header, len(cells))
	for i, cell := range cells {
		name := strings.TrimSpace(cell)
		if name == "" {
			continue
		}
		if _, dup := h[name]; !dup {
			h[name] = i
		}
	}
	for _, col := range requiredColumns {
		if _, ok := h[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}
	return h, nil
}

func (h Header) value(row []string, column string) string {
	idx, ok := h[column]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// ParseRow decodes one stored row. rowNum is the 1-based sheet row used in errors.
func (h Header) ParseRow(row []string, rowNum int) (Correspondence, error) {
	var c Correspondence

	received, err := ParseDate(h.value(row, ColumnDateReceived))
	if err != nil {
		return c, fmt.Errorf("%w %d: date received: %v", ErrInvalidRow, rowNum, err)
	}

	c.RefID = h.value(row, ColumnRefID)
	c.DateReceived = received
	c.Sender = h.value(row, ColumnSender)
	c.Subject = h.value(row, ColumnSubject)
	c.AssignedTo = h.value(row, ColumnAssignedTo)

	// Hand-edited sheets may hold labels we do not know; keep them verbatim.
	raw := h.value(row, ColumnType)
	if c.Type, err = ParseType(raw); err != nil {
		c.Type = CorrespondenceType(raw)
	}
	raw = h.value(row, ColumnClassification)
	if c.Classification, err = ParseClassification(raw); err != nil {
		c.Classification = Classification(raw)
	}
	raw = h.value(row, ColumnStatus)
	if c.Status, err = ParseStatus(raw); err != nil {
		c.Status = Status(raw)
	}

	if raw = h.value(row, ColumnDateCompleted); raw != "" {
		completed, dateErr := ParseDate(raw)
		if dateErr != nil {
			return c, fmt.Errorf("%w %d: date completed: %v", ErrInvalidRow, rowNum, dateErr)
		}
		c.DateCompleted = &completed
	}

	tat, err := parseDays(h.value(row, ColumnTATDays))
	if err != nil {
		return c, fmt.Errorf("%w %d: tat days: %v", ErrInvalidRow, rowNum, err)
	}
	c.TATDays = tat

	return c, nil
}

// ParseInputDate parses a date typed by staff. Only YYYY-MM-DD is accepted;
// slash dates are ambiguous between day-first and month-first offices.
func ParseInputDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized date %q, use YYYY-MM-DD", s)
	}
	return CivilDate(t), nil
}

// ParseDate parses a calendar date cell into a CivilDate.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return CivilDate(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func parseDays(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	return int(math.Round(f)), nil
}

// DecodeTable turns stored rows (header first) into a Table. An empty input
// is an empty table; fully blank rows are skipped.
func DecodeTable(rows [][]string) (Table, error) {
	if len(rows) == 0 {
		return Table{}, nil
	}

	header, err := NewHeader(rows[0])
	if err != nil {
		return nil, err
	}

	table := make(Table, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		rec, err := header.ParseRow(row, i+2)
		if err != nil {
			return nil, err
		}
		table = append(table, rec)
	}
	return table, nil
}

// EncodeTable renders the table as rows with the header first.
func EncodeTable(table Table) [][]string {
	rows := make([][]string, 0, len(table)+1)
	rows = append(rows, append([]string(nil), Columns...))
	for _, rec := range table {
		rows = append(rows, rec.Cells())
	}
	return rows
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
