package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/Veraticus/moti-registry/internal/model"
)

// ErrFormCanceled is returned when the user backs out of a form.
var ErrFormCanceled = errors.New("form canceled")

// entryBindings holds form field values on the heap so that huh's Value()
// pointers remain valid after the form is built.
type entryBindings struct {
	dateReceived   string
	corrType       model.CorrespondenceType
	classification model.Classification
	sender         string
	subject        string
	assignedTo     string
}

// EntryForm collects the fields of a new correspondence item. Free-text
// fields may be left blank.
type EntryForm struct {
	form    *huh.Form
	fb      *entryBindings
	sender  *huh.Input
	subject *huh.Input
}

// NewEntryForm builds the log form with the received date defaulting to today.
func NewEntryForm(today time.Time) *EntryForm {
	f := &EntryForm{
		fb: &entryBindings{
			dateReceived:   today.Format(model.DateLayout),
			corrType:       model.TypeExternal,
			classification: model.ClassificationSMEDevelopment,
		},
	}

	f.sender = huh.NewInput().
		Title("Sender / Organization").
		Value(&f.fb.sender)
	f.subject = huh.NewInput().
		Title("Subject / Description").
		Value(&f.fb.subject)

	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Date Received").
				Placeholder("YYYY-MM-DD").
				Value(&f.fb.dateReceived).
				Validate(validateDate),
			huh.NewSelect[model.CorrespondenceType]().
				Title("Type").
				Options(options(model.Types)...).
				Value(&f.fb.corrType),
			huh.NewSelect[model.Classification]().
				Title("Classification").
				Options(options(model.Classifications)...).
				Value(&f.fb.classification),
		),
		huh.NewGroup(
			f.sender,
			f.subject,
			huh.NewInput().
				Title("Assigned Officer").
				Value(&f.fb.assignedTo),
		),
	).WithTheme(huh.ThemeCharm())

	return f
}

// Run shows the form and returns the completed entry.
func (f *EntryForm) Run(ctx context.Context) (model.Entry, error) {
	if err := runForm(ctx, f.form); err != nil {
		return model.Entry{}, err
	}
	return f.Entry()
}

// Entry converts the bound values into an entry.
func (f *EntryForm) Entry() (model.Entry, error) {
	received, err := model.ParseInputDate(f.fb.dateReceived)
	if err != nil {
		return model.Entry{}, fmt.Errorf("date received: %w", err)
	}

	return model.Entry{
		DateReceived:   received,
		Type:           f.fb.corrType,
		Classification: f.fb.classification,
		Sender:         strings.TrimSpace(f.fb.sender),
		Subject:        strings.TrimSpace(f.fb.subject),
		AssignedTo:     strings.TrimSpace(f.fb.assignedTo),
	}, nil
}

type updateBindings struct {
	refID     string
	status    model.Status
	confirmed bool
}

// UpdateForm picks a record from a search result and the status to move it to.
type UpdateForm struct {
	form *huh.Form
	fb   *updateBindings
}

// NewUpdateForm builds the status form over matches. The first match is
// preselected.
func NewUpdateForm(matches model.Table) *UpdateForm {
	f := &UpdateForm{fb: &updateBindings{status: model.StatusCompleted}}
	if len(matches) > 0 {
		f.fb.refID = matches[0].RefID
	}

	records := make([]huh.Option[string], len(matches))
	for i, rec := range matches {
		records[i] = huh.NewOption(recordLabel(rec), rec.RefID)
	}

	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Select Correspondence").
				Options(records...).
				Value(&f.fb.refID),
			huh.NewSelect[model.Status]().
				Title("New Status").
				Options(options(model.UpdateStatuses)...).
				Value(&f.fb.status),
			huh.NewConfirm().
				Title("Update status?").
				Affirmative("Yes").
				Negative("No").
				Value(&f.fb.confirmed),
		),
	).WithTheme(huh.ThemeCharm())

	return f
}

// Run shows the form. It returns ErrFormCanceled when the user declines the
// confirmation.
func (f *UpdateForm) Run(ctx context.Context) (string, model.Status, error) {
	if err := runForm(ctx, f.form); err != nil {
		return "", "", err
	}
	return f.Result()
}

// Result returns the chosen ref id and status.
func (f *UpdateForm) Result() (string, model.Status, error) {
	if !f.fb.confirmed {
		return "", "", ErrFormCanceled
	}
	if f.fb.refID == "" {
		return "", "", errors.New("no correspondence selected")
	}
	return f.fb.refID, f.fb.status, nil
}

// PromptQuery asks for a search term.
func PromptQuery(ctx context.Context) (string, error) {
	var query string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Search by Sender, Subject or Ref ID").
				Value(&query).
				Validate(validateRequired("Search term")),
		),
	).WithTheme(huh.ThemeCharm())

	if err := runForm(ctx, form); err != nil {
		return "", err
	}
	return strings.TrimSpace(query), nil
}

func runForm(ctx context.Context, form *huh.Form) error {
	err := form.RunWithContext(ctx)
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrFormCanceled
	}
	return err
}

func options[T ~string](values []T) []huh.Option[T] {
	opts := make([]huh.Option[T], len(values))
	for i, v := range values {
		opts[i] = huh.NewOption(string(v), v)
	}
	return opts
}

func recordLabel(rec model.Correspondence) string {
	return fmt.Sprintf("%s | %s | %s (%s)", rec.RefID, rec.Sender, rec.Subject, rec.Status)
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("date is required")
	}
	if _, err := time.Parse(model.DateLayout, s); err != nil {
		return errors.New("invalid date format, use YYYY-MM-DD")
	}
	return nil
}
