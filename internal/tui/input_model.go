package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const inputCharLimit = 256

// Validator checks an answer; a non-nil error is shown and the question stays open.
type Validator func(string) error

// InputModel asks one free-text question.
//
//nolint:recvcheck // Bubble Tea requires value receivers for Init/Update/View interface methods.
type InputModel struct {
	question  string
	input     textinput.Model
	validate  Validator
	err       error
	submitted bool
	cancelled bool
	submit    key.Binding
	quit      key.Binding
}

// NewInputModel returns a text question. validate may be nil.
func NewInputModel(question, defaultValue string, validate Validator) InputModel {
	ti := textinput.New()
	ti.Placeholder = defaultValue
	ti.CharLimit = inputCharLimit
	ti.Focus()

	return InputModel{
		question: question,
		input:    ti,
		validate: validate,
		submit:   key.NewBinding(key.WithKeys("enter")),
		quit:     key.NewBinding(key.WithKeys("esc", "ctrl+c")),
	}
}

// Init implements tea.Model.
func (m InputModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m InputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, m.quit):
			m.cancelled = true
			return m, tea.Quit
		case key.Matches(keyMsg, m.submit):
			value := m.Value()
			if m.validate != nil {
				if err := m.validate(value); err != nil {
					m.err = err
					return m, nil
				}
			}
			m.submitted = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m InputModel) View() string {
	if m.submitted || m.cancelled {
		return ""
	}
	var b strings.Builder
	b.WriteString(HeaderStyle.Render(m.question))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(ErrorStyle.Render(m.err.Error()))
	}
	return b.String()
}

// Value returns the trimmed answer, falling back to the placeholder default.
func (m InputModel) Value() string {
	value := strings.TrimSpace(m.input.Value())
	if value == "" {
		return m.input.Placeholder
	}
	return value
}

// Submitted reports whether the question was answered.
func (m InputModel) Submitted() bool {
	return m.submitted
}
