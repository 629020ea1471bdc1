package pantheon

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rshade/pxpantheon/internal/execcmd"
	"github.com/rshade/pxpantheon/internal/templates"
)

// Error kinds surfaced by every workflow.
var (
	// ErrInvalidEnvironment indicates an environment name the operation does not accept.
	ErrInvalidEnvironment = errors.New("the environment is invalid")

	// ErrMissingConfig indicates a required setting has not been configured.
	ErrMissingConfig = errors.New("missing configuration")

	// ErrExternalCommandFailed indicates a subprocess exited non-zero.
	ErrExternalCommandFailed = execcmd.ErrCommandFailed

	// ErrTemplateNotFound indicates a scaffolding template does not exist.
	ErrTemplateNotFound = templates.ErrTemplateNotFound

	// ErrInvalidInput indicates a rejected argument or answer.
	ErrInvalidInput = errors.New("invalid input")
)

// CommandError reports a failed external step. It unwraps to ErrExternalCommandFailed.
type CommandError struct {
	Operation string
	ExitCode  int
	Stderr    string
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s failed with exit code %d", e.Operation, e.ExitCode)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return ErrExternalCommandFailed
}

// checkResult turns a failed execution into a CommandError.
func checkResult(operation string, res execcmd.ExecutionResult, err error) error {
	if err != nil {
		return fmt.Errorf("%s: %w", operation, err)
	}
	if !res.Succeeded {
		return &CommandError{Operation: operation, ExitCode: res.ExitCode, Stderr: res.Stderr}
	}
	return nil
}

// asCommandError relabels an *execcmd.ExitError under operation.
func asCommandError(operation string, err error) error {
	var exitErr *execcmd.ExitError
	if errors.As(err, &exitErr) {
		return &CommandError{Operation: operation, ExitCode: exitErr.ExitCode, Stderr: exitErr.Stderr}
	}
	return fmt.Errorf("%s: %w", operation, err)
}

func missingConfig(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMissingConfig, fmt.Sprintf(format, args...))
}

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
