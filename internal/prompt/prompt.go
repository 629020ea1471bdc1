// Package prompt asks the user for input. Workflows depend on the Prompter interface so
// tests can script answers and non-interactive runs can fall back to defaults.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rshade/pxpantheon/internal/choice"
	"github.com/rshade/pxpantheon/internal/tui"
)

// Errors returned by prompters.
var (
	// ErrNonInteractive indicates an answer was required but prompting is disabled.
	ErrNonInteractive = errors.New("input required but running non-interactively")
	// ErrCancelled indicates the user aborted the prompt.
	ErrCancelled = errors.New("prompt cancelled")
	// ErrNoOptions indicates a choice was requested from an empty table.
	ErrNoOptions = errors.New("no options to choose from")
)

// Validator checks an answer. A non-nil error rejects it.
type Validator = tui.Validator

// Prompter is the input capability handed to workflows.
type Prompter interface {
	// Ask reads free text. An empty answer yields def.
	Ask(ctx context.Context, question, def string, validate Validator) (string, error)
	// Confirm asks a yes/no question.
	Confirm(ctx context.Context, question string, def bool) (bool, error)
	// Choose returns one key of options. An empty answer yields def.
	Choose(ctx context.Context, question string, options choice.Table, def string) (string, error)
}

// maxAttempts bounds how often a line prompt re-asks after a rejected answer.
const maxAttempts = 3

// Terminal prompts on a reader/writer pair. With Interactive set, every question is a
// Bubble Tea program reading In directly; otherwise they are line based. With
// NonInteractive set, every question resolves to its default without reading input.
type Terminal struct {
	In             io.Reader
	Out            io.Writer
	Interactive    bool
	NonInteractive bool

	reader *bufio.Reader
}

// NewTerminal returns a line-based prompter over in/out.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{In: in, Out: out}
}

// Ask implements Prompter.
func (t *Terminal) Ask(ctx context.Context, question, def string, validate Validator) (string, error) {
	if t.NonInteractive {
		return t.defaultAnswer(def, validate)
	}
	if t.Interactive {
		model, err := t.runProgram(ctx, tui.NewInputModel(question, def, validate))
		if err != nil {
			return "", err
		}
		im := model.(tui.InputModel)
		if !im.Submitted() {
			return "", ErrCancelled
		}
		return im.Value(), nil
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		label := question
		if def != "" {
			label = fmt.Sprintf("%s [%s]", question, def)
		}
		answer, err := t.readLine(label + ": ")
		if err != nil {
			return "", err
		}
		if answer == "" {
			answer = def
		}
		if validate != nil {
			if verr := validate(answer); verr != nil {
				fmt.Fprintf(t.Out, "%s\n", verr)
				continue
			}
		}
		return answer, nil
	}
	return "", fmt.Errorf("%w: too many invalid answers", ErrCancelled)
}

// Confirm implements Prompter.
func (t *Terminal) Confirm(ctx context.Context, question string, def bool) (bool, error) {
	if t.NonInteractive {
		return def, nil
	}
	if t.Interactive {
		model, err := t.runProgram(ctx, tui.NewConfirmModel(question, def))
		if err != nil {
			return false, err
		}
		yes, ok := model.(tui.ConfirmModel).Answer()
		if !ok {
			return false, ErrCancelled
		}
		return yes, nil
	}

	hint := "[y/N]"
	if def {
		hint = "[Y/n]"
	}
	answer, err := t.readLine(fmt.Sprintf("? %s %s ", question, hint))
	if err != nil {
		if errors.Is(err, io.EOF) {
			return def, nil
		}
		return false, err
	}
	return parseYesNo(answer, def), nil
}

// Choose implements Prompter.
func (t *Terminal) Choose(ctx context.Context, question string, options choice.Table, def string) (string, error) {
	if options.Len() == 0 {
		return "", ErrNoOptions
	}
	if t.NonInteractive {
		if options.Has(def) {
			return def, nil
		}
		return "", fmt.Errorf("%w: %s", ErrNonInteractive, question)
	}
	if t.Interactive {
		model, err := t.runProgram(ctx, tui.NewChoiceModel(question, options, def))
		if err != nil {
			return "", err
		}
		key, ok := model.(tui.ChoiceModel).Selected()
		if !ok {
			return "", ErrCancelled
		}
		return key, nil
	}

	entries := options.Entries()
	fmt.Fprintln(t.Out, question)
	for i, e := range entries {
		fmt.Fprintf(t.Out, "  [%d] %s (%s)\n", i+1, e.Label, e.Key)
	}
	for attempt := 0; attempt < maxAttempts; attempt++ {
		label := "> "
		if options.Has(def) {
			label = fmt.Sprintf("[%s] > ", def)
		}
		answer, err := t.readLine(label)
		if err != nil {
			return "", err
		}
		if key, ok := resolveChoice(answer, entries, def); ok {
			return key, nil
		}
		fmt.Fprintf(t.Out, "Value %q is invalid.\n", answer)
	}
	return "", fmt.Errorf("%w: too many invalid answers", ErrCancelled)
}

func (t *Terminal) defaultAnswer(def string, validate Validator) (string, error) {
	if def == "" {
		return "", ErrNonInteractive
	}
	if validate != nil {
		if err := validate(def); err != nil {
			return "", err
		}
	}
	return def, nil
}

func (t *Terminal) readLine(label string) (string, error) {
	if t.reader == nil {
		t.reader = bufio.NewReader(t.In)
	}
	fmt.Fprint(t.Out, label)
	line, err := t.reader.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (t *Terminal) runProgram(ctx context.Context, model tea.Model) (tea.Model, error) {
	p := tea.NewProgram(model, tea.WithContext(ctx), tea.WithInput(t.In), tea.WithOutput(t.Out))
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("running prompt: %w", err)
	}
	return final, nil
}

func parseYesNo(answer string, def bool) bool {
	switch strings.ToLower(answer) {
	case "":
		return def
	case "y", "yes":
		return true
	default:
		return false
	}
}

func resolveChoice(answer string, entries []choice.Entry, def string) (string, bool) {
	if answer == "" {
		for _, e := range entries {
			if e.Key == def {
				return def, true
			}
		}
		return "", false
	}
	for _, e := range entries {
		if e.Key == answer {
			return e.Key, true
		}
	}
	if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(entries) {
		return entries[n-1].Key, true
	}
	return "", false
}
