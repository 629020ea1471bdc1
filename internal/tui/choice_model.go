package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rshade/pxpantheon/internal/choice"
)

type choiceKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Home   key.Binding
	End    key.Binding
	Choose key.Binding
	Quit   key.Binding
}

func defaultChoiceKeys() choiceKeyMap {
	return choiceKeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Home:   key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "first")),
		End:    key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "last")),
		Choose: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Quit:   key.NewBinding(key.WithKeys("esc", "ctrl+c", "q"), key.WithHelp("esc", "cancel")),
	}
}

// ChoiceModel is a single-selection list over a choice.Table.
//
//nolint:recvcheck // Bubble Tea requires value receivers for Init/Update/View interface methods.
type ChoiceModel struct {
	title     string
	entries   []choice.Entry
	cursor    int
	chosen    bool
	cancelled bool
	keys      choiceKeyMap
}

// NewChoiceModel builds a list positioned on defaultKey when present.
func NewChoiceModel(title string, table choice.Table, defaultKey string) ChoiceModel {
	m := ChoiceModel{
		title:   title,
		entries: table.Entries(),
		keys:    defaultChoiceKeys(),
	}
	for i, e := range m.entries {
		if e.Key == defaultKey {
			m.cursor = i
			break
		}
	}
	return m
}

// Init implements tea.Model.
func (m ChoiceModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m ChoiceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.cancelled = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Choose):
		if len(m.entries) > 0 {
			m.chosen = true
		}
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, m.keys.Home):
		m.cursor = 0
	case key.Matches(keyMsg, m.keys.End):
		if len(m.entries) > 0 {
			m.cursor = len(m.entries) - 1
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m ChoiceModel) View() string {
	if m.chosen || m.cancelled {
		return ""
	}

	var b strings.Builder
	b.WriteString(HeaderStyle.Render(m.title))
	b.WriteString("\n")
	for i, e := range m.entries {
		line := fmt.Sprintf("%s (%s)", e.Label, e.Key)
		if i == m.cursor {
			b.WriteString(SelectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	b.WriteString(MutedStyle.Render("enter select • esc cancel"))
	return b.String()
}

// Selected returns the chosen key. ok is false when the list was cancelled or empty.
func (m ChoiceModel) Selected() (string, bool) {
	if !m.chosen || len(m.entries) == 0 {
		return "", false
	}
	return m.entries[m.cursor].Key, true
}
