package cli

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/moti-registry/internal/model"
	"github.com/Veraticus/moti-registry/internal/registry"
)

// SearchColumns are shown for search results.
var SearchColumns = []string{
	model.ColumnRefID,
	model.ColumnSender,
	model.ColumnSubject,
	model.ColumnStatus,
}

// RenderSummary renders the three dashboard metrics side by side.
func RenderSummary(s registry.Summary) string {
	metric := func(label, value string) string {
		return BoxStyle.Render(lipgloss.JoinVertical(
			lipgloss.Left,
			SubtleStyle.Render(label),
			BoldStyle.Foreground(PrimaryColor).Render(value),
		))
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		metric("Total Received", strconv.Itoa(s.Total)),
		metric("Pending Actions", strconv.Itoa(s.Pending)),
		metric("Avg Turn Around (Days)", s.AverageTATLabel()),
	)
}

// WriteTable writes the given columns of table as aligned text. A nil
// columns slice means every column.
func WriteTable(w io.Writer, table model.Table, columns []string) error {
	if columns == nil {
		columns = model.Columns
	}
	idx, err := columnIndexes(columns)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(columns, "\t"))
	for _, rec := range table {
		cells := rec.Cells()
		row := make([]string, len(idx))
		for i, j := range idx {
			row[i] = cells[j]
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	// Style the header after alignment so escape codes don't skew widths
	header, body, _ := strings.Cut(buf.String(), "\n")
	_, err = fmt.Fprintf(w, "%s\n%s", TableHeaderStyle.Render(header), body)
	return err
}

// RenderRecord renders one record as a labelled box.
func RenderRecord(title string, rec model.Correspondence) string {
	var b strings.Builder
	cells := rec.Cells()
	for i, col := range model.Columns {
		value := cells[i]
		if value == "" {
			value = SubtleStyle.Render("-")
		}
		if col == model.ColumnStatus {
			value = StatusStyle(rec.Status).Render(value)
		}
		fmt.Fprintf(&b, "%-16s %s\n", col+":", value)
	}
	return RenderBox(title, strings.TrimRight(b.String(), "\n"))
}

// StatusStyle colors a status label.
func StatusStyle(status model.Status) lipgloss.Style {
	switch status {
	case model.StatusCompleted:
		return SuccessStyle
	case model.StatusInProgress:
		return InfoStyle
	case model.StatusPending:
		return WarningStyle
	default:
		return SubtleStyle
	}
}

func columnIndexes(columns []string) ([]int, error) {
	positions := make(map[string]int, len(model.Columns))
	for i, col := range model.Columns {
		positions[col] = i
	}

	idx := make([]int, len(columns))
	for i, col := range columns {
		pos, ok := positions[col]
		if !ok {
			return nil, fmt.Errorf("unknown column %q", col)
		}
		idx[i] = pos
	}
	return idx, nil
}
