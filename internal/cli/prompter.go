package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/moti-registry/internal/model"
)

// ErrNoInput is returned when the input stream ends before a prompt is answered.
var ErrNoInput = errors.New("no input")

// Prompter asks for registry input line by line. It is the fallback used when
// stdin is not a terminal and the interactive forms cannot run.
type Prompter struct {
	writer io.Writer
	reader *NonBlockingReader
	now    func() time.Time
}

// NewCLIPrompter creates a new CLI prompter with the given reader and writer.
func NewCLIPrompter(reader io.Reader, writer io.Writer) *Prompter {
	if writer == nil {
		writer = io.Discard
	}
	return &Prompter{
		reader: NewNonBlockingReader(reader),
		writer: writer,
		now:    time.Now,
	}
}

// PromptEntry asks for every field of a new correspondence item.
func (p *Prompter) PromptEntry(ctx context.Context) (model.Entry, error) {
	var entry model.Entry

	received, err := p.promptDate(ctx, "Date Received")
	if err != nil {
		return entry, err
	}
	entry.DateReceived = received

	typ, err := p.PromptChoice(ctx, "Type", Labels(model.Types), 0)
	if err != nil {
		return entry, err
	}
	entry.Type = model.CorrespondenceType(typ)

	class, err := p.PromptChoice(ctx, "Classification", Labels(model.Classifications), 0)
	if err != nil {
		return entry, err
	}
	entry.Classification = model.Classification(class)

	if entry.Sender, err = p.PromptLine(ctx, "Sender/Organization"); err != nil {
		return entry, err
	}
	if entry.Subject, err = p.PromptLine(ctx, "Subject"); err != nil {
		return entry, err
	}
	if entry.AssignedTo, err = p.PromptLine(ctx, "Assigned Officer"); err != nil {
		return entry, err
	}

	return entry, nil
}

// PromptLine asks a free-text question. Any answer, including an empty one, is accepted.
func (p *Prompter) PromptLine(ctx context.Context, label string) (string, error) {
	p.print(FormatPrompt(label))
	return p.readLine(ctx)
}

// PromptChoice asks the user to pick one option by number or name. An empty
// answer picks options[def].
func (p *Prompter) PromptChoice(ctx context.Context, label string, options []string, def int) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("no options for %s", label)
	}
	if def < 0 || def >= len(options) {
		def = 0
	}

	for {
		p.print(BoldStyle.Render(label) + "\n")
		for i, opt := range options {
			p.print(fmt.Sprintf("  %d) %s\n", i+1, opt))
		}
		p.print(FormatPrompt(fmt.Sprintf("Choice [%s]", options[def])))

		answer, err := p.readLine(ctx)
		if err != nil {
			return "", err
		}
		if answer == "" {
			return options[def], nil
		}
		if choice, ok := matchOption(answer, options); ok {
			return choice, nil
		}
		p.print(FormatWarning(fmt.Sprintf("%q is not one of the options", answer)) + "\n")
	}
}

// Confirm asks a yes/no question; anything but yes is no.
func (p *Prompter) Confirm(ctx context.Context, question string) (bool, error) {
	p.print(FormatPrompt(question + " [y/N]"))
	answer, err := p.readLine(ctx)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func (p *Prompter) promptDate(ctx context.Context, label string) (time.Time, error) {
	today := model.CivilDate(p.now())
	for {
		p.print(FormatPrompt(fmt.Sprintf("%s [%s]", label, today.Format(model.DateLayout))))
		answer, err := p.readLine(ctx)
		if err != nil {
			return time.Time{}, err
		}
		if answer == "" {
			return today, nil
		}
		d, err := model.ParseInputDate(answer)
		if err == nil {
			return d, nil
		}
		p.print(FormatWarning("Use the form YYYY-MM-DD") + "\n")
	}
}

func (p *Prompter) readLine(ctx context.Context) (string, error) {
	line, err := p.reader.ReadLine(ctx)
	if errors.Is(err, io.EOF) {
		return "", ErrNoInput
	}
	return line, err
}

func (p *Prompter) print(s string) {
	_, _ = fmt.Fprint(p.writer, s)
}

func matchOption(answer string, options []string) (string, bool) {
	if n, err := strconv.Atoi(answer); err == nil {
		if n >= 1 && n <= len(options) {
			return options[n-1], true
		}
		return "", false
	}
	for _, opt := range options {
		if strings.EqualFold(opt, answer) {
			return opt, true
		}
	}
	return "", false
}

// Labels renders enum values as plain strings.
func Labels[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
