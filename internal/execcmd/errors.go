package execcmd

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCommandFailed indicates a command ran but exited non-zero.
var ErrCommandFailed = errors.New("external command failed")

// ExitError describes a non-zero exit. It unwraps to ErrCommandFailed.
type ExitError struct {
	Command  string
	ExitCode int
	Stderr   string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s exited with code %d", e.Command, e.ExitCode)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	return msg
}

func (e *ExitError) Unwrap() error {
	return ErrCommandFailed
}

// Err returns nil for a successful result, otherwise an *ExitError naming command.
func (r ExecutionResult) Err(command string) error {
	if r.Succeeded {
		return nil
	}
	return &ExitError{Command: command, ExitCode: r.ExitCode, Stderr: r.Stderr}
}
