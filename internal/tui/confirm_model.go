package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type confirmKeyMap struct {
	Yes    key.Binding
	No     key.Binding
	Toggle key.Binding
	Submit key.Binding
	Quit   key.Binding
}

func defaultConfirmKeys() confirmKeyMap {
	return confirmKeyMap{
		Yes:    key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "yes")),
		No:     key.NewBinding(key.WithKeys("n", "N"), key.WithHelp("n", "no")),
		Toggle: key.NewBinding(key.WithKeys("left", "right", "tab", "h", "l"), key.WithHelp("←/→", "toggle")),
		Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		Quit:   key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "cancel")),
	}
}

// ConfirmModel is a yes/no question. Enter accepts the highlighted answer.
//
//nolint:recvcheck // Bubble Tea requires value receivers for Init/Update/View interface methods.
type ConfirmModel struct {
	question  string
	yes       bool
	answered  bool
	cancelled bool
	keys      confirmKeyMap
}

// NewConfirmModel builds a question with def highlighted.
func NewConfirmModel(question string, def bool) ConfirmModel {
	return ConfirmModel{question: question, yes: def, keys: defaultConfirmKeys()}
}

// Init implements tea.Model.
func (m ConfirmModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.cancelled = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Yes):
		m.yes, m.answered = true, true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.No):
		m.yes, m.answered = false, true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Submit):
		m.answered = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Toggle):
		m.yes = !m.yes
	}
	return m, nil
}

// View implements tea.Model.
func (m ConfirmModel) View() string {
	if m.answered || m.cancelled {
		return ""
	}

	yes, no := "  Yes", "  No"
	if m.yes {
		yes = SelectedStyle.Render("> Yes")
	} else {
		no = SelectedStyle.Render("> No")
	}

	var b strings.Builder
	b.WriteString(HeaderStyle.Render(m.question))
	b.WriteString("\n")
	b.WriteString(yes + "   " + no + "\n")
	b.WriteString(MutedStyle.Render("y/n answer • enter confirm • esc cancel"))
	return b.String()
}

// Answer returns the chosen answer. ok is false when the question was cancelled.
func (m ConfirmModel) Answer() (yes, ok bool) {
	if !m.answered {
		return false, false
	}
	return m.yes, true
}
