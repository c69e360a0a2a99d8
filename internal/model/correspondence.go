package model

import (
	"strconv"
	"time"
)

// DateLayout is the calendar-date format used in every table cell.
const DateLayout = "2006-01-02"

// Correspondence is one logged letter, memo or circular.
type Correspondence struct {
	DateReceived   time.Time
	DateCompleted  *time.Time // nil unless Status is Completed
	RefID          string
	Type           CorrespondenceType
	Classification Classification
	Sender         string
	Subject        string
	AssignedTo     string
	Status         Status
	TATDays        int
}

// Entry holds the fields staff fill in when logging new correspondence.
type Entry struct {
	DateReceived   time.Time
	Type           CorrespondenceType
	Classification Classification
	Sender         string
	Subject        string
	AssignedTo     string
}

// Table is the full correspondence register in store order.
type Table []Correspondence

// IsCompleted reports whether the item has been closed out.
func (c Correspondence) IsCompleted() bool {
	return c.Status == StatusCompleted
}

// Cells renders the record as table cells in Columns order.
func (c Correspondence) Cells() []string {
	completed := ""
	if c.DateCompleted != nil {
		completed = c.DateCompleted.Format(DateLayout)
	}
	return []string{
		c.RefID,
		c.DateReceived.Format(DateLayout),
		string(c.Type),
		string(c.Classification),
		c.Sender,
		c.Subject,
		c.AssignedTo,
		string(c.Status),
		completed,
		strconv.Itoa(c.TATDays),
	}
}

// Clone returns a copy of the table that shares no completion dates with t.
func (t Table) Clone() Table {
	if t == nil {
		return nil
	}
	out := make(Table, len(t))
	copy(out, t)
	for i := range out {
		if out[i].DateCompleted != nil {
			d := *out[i].DateCompleted
			out[i].DateCompleted = &d
		}
	}
	return out
}

// CivilDate truncates t to midnight UTC of its calendar day, so that
// day arithmetic is never skewed by zones or daylight saving.
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
