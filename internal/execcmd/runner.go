package execcmd

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
)

// Request describes one process to spawn.
type Request struct {
	Dir    string
	Name   string
	Args   []string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Runner spawns processes. Run returns the exit code; err is non-nil only when the
// process could not be started or was interrupted by the context.
type Runner interface {
	Run(ctx context.Context, req Request) (exitCode int, err error)
	LookPath(name string) (string, error)
}

// ExecRunner is the Runner backed by os/exec.
type ExecRunner struct{}

// NewExecRunner returns the default process runner.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run spawns the process and waits for it.
func (r *ExecRunner) Run(ctx context.Context, req Request) (int, error) {
	cmd := exec.CommandContext(ctx, req.Name, req.Args...)
	cmd.Dir = req.Dir
	cmd.Env = os.Environ()
	cmd.Stdin = req.Stdin
	cmd.Stdout = req.Stdout
	cmd.Stderr = req.Stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return -1, ctxErr
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}

// LookPath reports the full path of an executable on PATH.
func (r *ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
