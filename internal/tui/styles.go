package tui

import "github.com/charmbracelet/lipgloss"

// Palette shared by the reporter and the prompt models.
var (
	ColorHeader    = lipgloss.Color("39")
	ColorLabel     = lipgloss.Color("245")
	ColorValue     = lipgloss.Color("255")
	ColorMuted     = lipgloss.Color("241")
	ColorHighlight = lipgloss.Color("212")
	ColorSuccess   = lipgloss.Color("42")
	ColorWarning   = lipgloss.Color("214")
	ColorError     = lipgloss.Color("196")
	ColorBanner    = lipgloss.Color("220")
)

// Styles.
var (
	BannerStyle   = lipgloss.NewStyle().Foreground(ColorBanner).Bold(true)
	HeaderStyle   = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	LabelStyle    = lipgloss.NewStyle().Foreground(ColorLabel)
	ValueStyle    = lipgloss.NewStyle().Foreground(ColorValue)
	MutedStyle    = lipgloss.NewStyle().Foreground(ColorMuted).Italic(true)
	SelectedStyle = lipgloss.NewStyle().Foreground(ColorHighlight).Bold(true)
	SuccessStyle  = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	WarningStyle  = lipgloss.NewStyle().Foreground(ColorWarning)
	ErrorStyle    = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
)
