// Package registry implements the correspondence register: summary metrics,
// logging new items, free-text search and status updates over a whole table.
package registry

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/moti-registry/internal/model"
)

// ErrRecordNotFound is returned when no row carries the requested ref id.
var ErrRecordNotFound = errors.New("record not found")

// Summary holds the dashboard metrics for a table.
type Summary struct {
	Total      int
	Pending    int
	Completed  int
	AverageTAT float64 // 0 when nothing is completed
}

// RoundedAverageTAT is the average turnaround rounded to one decimal.
func (s Summary) RoundedAverageTAT() float64 {
	return math.Round(s.AverageTAT*10) / 10
}

// AverageTATLabel renders the average for display: one decimal, or "0" when
// nothing has been completed.
func (s Summary) AverageTATLabel() string {
	if s.Completed == 0 {
		return "0"
	}
	return strconv.FormatFloat(s.RoundedAverageTAT(), 'f', 1, 64)
}

// Summarize computes the dashboard metrics.
func Summarize(table model.Table) Summary {
	s := Summary{Total: len(table)}

	tatSum := 0
	for _, rec := range table {
		if rec.IsCompleted() {
			s.Completed++
			tatSum += rec.TATDays
		}
	}
	s.Pending = s.Total - s.Completed

	if s.Completed > 0 {
		s.AverageTAT = float64(tatSum) / float64(s.Completed)
	}
	return s
}

// Submit appends a new pending record built from entry and returns the new
// table along with the created record. The input table is not modified.
func Submit(table model.Table, entry model.Entry, ids IDGenerator) (model.Table, model.Correspondence) {
	rec := model.Correspondence{
		RefID:          ids.NextID(table),
		DateReceived:   model.CivilDate(entry.DateReceived),
		Type:           entry.Type,
		Classification: entry.Classification,
		Sender:         entry.Sender,
		Subject:        entry.Subject,
		AssignedTo:     entry.AssignedTo,
		Status:         model.StatusPending,
	}

	out := make(model.Table, len(table), len(table)+1)
	copy(out, table)
	return append(out, rec), rec
}

// Search returns the rows where query occurs, ignoring case, in the string
// form of any field. Order is preserved.
func Search(table model.Table, query string) model.Table {
	needle := strings.ToLower(query)

	matches := make(model.Table, 0)
	for _, rec := range table {
		for _, cell := range rec.Cells() {
			if strings.Contains(strings.ToLower(cell), needle) {
				matches = append(matches, rec)
				break
			}
		}
	}
	return matches
}

// UpdateStatus sets the status of the first row whose ref id equals refID.
// Completing a row stamps today as the completion date and recomputes the
// turnaround, even when the row was already completed. Any other status
// clears the completion date and turnaround.
func UpdateStatus(table model.Table, refID string, status model.Status, today time.Time) (model.Table, model.Correspondence, error) {
	idx := -1
	for i, rec := range table {
		if rec.RefID == refID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return table, model.Correspondence{}, fmt.Errorf("%w: %s", ErrRecordNotFound, refID)
	}

	out := table.Clone()
	rec := &out[idx]
	rec.Status = status

	if status == model.StatusCompleted {
		completed := model.CivilDate(today)
		rec.DateCompleted = &completed
		rec.TATDays = TurnaroundDays(rec.DateReceived, completed)
	} else {
		rec.DateCompleted = nil
		rec.TATDays = 0
	}

	return out, *rec, nil
}

// TurnaroundDays counts whole calendar days from received to completed.
// The result is negative when received lies after completed.
func TurnaroundDays(received, completed time.Time) int {
	return int(model.CivilDate(completed).Sub(model.CivilDate(received)) / (24 * time.Hour))
}

// refSuffix extracts the trailing integer of a ref id such as MOTI-SME-1004.
func refSuffix(refID, prefix string) (int, bool) {
	rest, ok := strings.CutPrefix(refID, prefix+"-")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return n, true
}
