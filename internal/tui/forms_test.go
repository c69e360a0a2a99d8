package tui

import (
	"testing"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/moti-registry/internal/model"
)

func TestEntryForm_Defaults(t *testing.T) {
	today := time.Date(2024, 3, 9, 15, 30, 0, 0, time.UTC)
	form := NewEntryForm(today)

	entry, err := form.Entry()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), entry.DateReceived)
	assert.Equal(t, model.TypeExternal, entry.Type)
	assert.Equal(t, model.ClassificationSMEDevelopment, entry.Classification)
}

func TestEntryForm_Entry(t *testing.T) {
	form := NewEntryForm(time.Now())
	form.fb.dateReceived = " 2024-02-01 "
	form.fb.corrType = model.TypeCircular
	form.fb.classification = model.ClassificationAdministration
	form.fb.sender = "  Cabinet Office "
	form.fb.subject = "Holiday schedule"
	form.fb.assignedTo = ""

	entry, err := form.Entry()
	require.NoError(t, err)
	assert.Equal(t, model.Entry{
		DateReceived:   time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		Type:           model.TypeCircular,
		Classification: model.ClassificationAdministration,
		Sender:         "Cabinet Office",
		Subject:        "Holiday schedule",
	}, entry)

	form.fb.dateReceived = "yesterday"
	_, err = form.Entry()
	assert.Error(t, err)
}

func TestEntryForm_BlankFreeText(t *testing.T) {
	form := NewEntryForm(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))

	for _, input := range []*huh.Input{form.sender, form.subject} {
		input.Blur()
		assert.NoError(t, input.Error())
	}

	entry, err := form.Entry()
	require.NoError(t, err)
	assert.Empty(t, entry.Sender)
	assert.Empty(t, entry.Subject)
}

func TestUpdateForm_Result(t *testing.T) {
	form := NewUpdateForm(testTable())
	assert.Equal(t, "MOTI-SME-1001", form.fb.refID, "first match is preselected")
	assert.Equal(t, model.StatusCompleted, form.fb.status)

	_, _, err := form.Result()
	assert.ErrorIs(t, err, ErrFormCanceled, "unconfirmed update is a cancellation")

	form.fb.refID = "MOTI-SME-1002"
	form.fb.status = model.StatusInProgress
	form.fb.confirmed = true

	refID, status, err := form.Result()
	require.NoError(t, err)
	assert.Equal(t, "MOTI-SME-1002", refID)
	assert.Equal(t, model.StatusInProgress, status)
}

func TestUpdateForm_NoMatches(t *testing.T) {
	form := NewUpdateForm(nil)
	form.fb.confirmed = true

	_, _, err := form.Result()
	assert.Error(t, err)
}

func TestValidators(t *testing.T) {
	assert.NoError(t, validateDate("2024-01-31"))
	assert.Error(t, validateDate(""))
	assert.Error(t, validateDate("31/01/2024"))

	required := validateRequired("Sender")
	assert.NoError(t, required("Acme"))
	assert.EqualError(t, required("   "), "Sender is required")
}

func TestRecordLabel(t *testing.T) {
	label := recordLabel(testTable()[1])
	assert.Equal(t, "MOTI-SME-1002 | HR | Leave roster (Pending)", label)
}
