package tui

import (
	"os"

	"golang.org/x/term"
)

// OutputMode is how much terminal capability the current session offers.
type OutputMode int

const (
	// OutputModePlain writes undecorated text.
	OutputModePlain OutputMode = iota
	// OutputModeStyled writes colored text but never starts an interactive program.
	OutputModeStyled
	// OutputModeInteractive allows full-screen prompts.
	OutputModeInteractive
)

// IsTTY reports whether stdout is a terminal.
func IsTTY() bool {
	return IsTerminal(os.Stdout)
}

// IsTerminal reports whether f refers to a terminal.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // file descriptors fit in int
}

// DetectOutputMode picks an output mode from flags, NO_COLOR/CI and the terminal state.
func DetectOutputMode(forceColor, noColor, plain bool) OutputMode {
	if plain {
		return OutputModePlain
	}
	if noColor || os.Getenv("NO_COLOR") != "" {
		return OutputModePlain
	}
	if !IsTTY() {
		if forceColor {
			return OutputModeStyled
		}
		return OutputModePlain
	}
	if os.Getenv("CI") != "" || !IsTerminal(os.Stdin) {
		return OutputModeStyled
	}
	return OutputModeInteractive
}
