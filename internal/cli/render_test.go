package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/moti-registry/internal/model"
	"github.com/Veraticus/moti-registry/internal/registry"
)

func sampleTable() model.Table {
	completed := time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC)
	return model.Table{
		{
			RefID:          "MOTI-SME-1001",
			DateReceived:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			Type:           model.TypeExternal,
			Classification: model.ClassificationSMEDevelopment,
			Sender:         "Acme Traders",
			Subject:        "Loan request",
			AssignedTo:     "J. Kamara",
			Status:         model.StatusCompleted,
			DateCompleted:  &completed,
			TATDays:        10,
		},
		{
			RefID:        "MOTI-SME-1002",
			DateReceived: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
			Sender:       "Cabinet Office",
			Subject:      "Holiday schedule",
			Status:       model.StatusPending,
		},
	}
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, sampleTable(), SearchColumns))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Ref ID")
	assert.Contains(t, lines[0], "Subject")
	assert.NotContains(t, lines[0], "Assigned To")

	// Columns line up on the plain rows
	assert.Equal(t, strings.Index(lines[1], "Acme"), strings.Index(lines[2], "Cabinet"))
	assert.Contains(t, lines[2], "Pending")
}

func TestWriteTable_AllColumns(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, sampleTable(), nil))

	out := buf.String()
	assert.Contains(t, out, "TAT (Days)")
	assert.Contains(t, out, "2024-01-11")
}

func TestWriteTable_UnknownColumn(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, WriteTable(&buf, sampleTable(), []string{"Priority"}))
}

func TestRenderSummary(t *testing.T) {
	out := RenderSummary(registry.Summarize(sampleTable()))

	assert.Contains(t, out, "Total Received")
	assert.Contains(t, out, "Pending Actions")
	assert.Contains(t, out, "Avg Turn Around (Days)")
	assert.Contains(t, out, "10.0")

	empty := RenderSummary(registry.Summary{})
	assert.Contains(t, empty, "0")
}

func TestRenderRecord(t *testing.T) {
	out := RenderRecord("Record", sampleTable()[1])

	assert.Contains(t, out, "MOTI-SME-1002")
	assert.Contains(t, out, "Date Completed:")
	assert.Contains(t, out, "Pending")
}

func TestStatusStyle(t *testing.T) {
	assert.Equal(t, SuccessStyle.Render("x"), StatusStyle(model.StatusCompleted).Render("x"))
	assert.Equal(t, WarningStyle.Render("x"), StatusStyle(model.StatusPending).Render("x"))
	assert.Equal(t, SubtleStyle.Render("x"), StatusStyle(model.Status("On Hold")).Render("x"))
}

func TestProgressBar(t *testing.T) {
	var buf bytes.Buffer
	bar := NewProgressBar(&buf, 2, "Copying")

	Step(bar, "Reading")
	Step(bar, "Writing")

	assert.True(t, bar.IsFinished())
}
