package execcmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/rshade/pxpantheon/internal/logging"
)

// ErrBinaryNotFound indicates the invoker's binary is not on PATH.
var ErrBinaryNotFound = errors.New("executable not found in PATH")

// ExecutionResult is the outcome of one invocation.
type ExecutionResult struct {
	Succeeded bool
	Output    string
	Stderr    string
	ExitCode  int
}

// Invoker runs CommandSpecs against a single binary.
type Invoker struct {
	Binary  string
	Dir     string
	Timeout time.Duration
	Runner  Runner
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
}

// Run executes spec synchronously. A non-zero exit yields Succeeded=false and a nil
// error; the stderr content is captured but never interpreted.
func (i *Invoker) Run(ctx context.Context, spec *CommandSpec) (ExecutionResult, error) {
	log := logging.FromContext(ctx)

	if i.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.Timeout)
		defer cancel()
	}

	argv := spec.Argv()
	log.Debug().
		Ctx(ctx).
		Str("component", "execcmd").
		Str("binary", i.Binary).
		Str("sub_command", spec.SubCommand).
		Bool("silent", spec.Silent).
		Msg("running command")

	res, err := run(ctx, i.Runner, Request{Dir: i.Dir, Name: i.Binary, Args: argv},
		spec.Silent, spec.captures(), i.Stdin, i.Stdout, i.Stderr)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return res, fmt.Errorf("%s %s timed out after %s", i.Binary, spec.SubCommand, i.Timeout)
		}
		return res, fmt.Errorf("running %s %s: %w", i.Binary, spec.SubCommand, err)
	}

	log.Debug().
		Ctx(ctx).
		Str("component", "execcmd").
		Str("sub_command", spec.SubCommand).
		Int("exit_code", res.ExitCode).
		Int("output_bytes", len(res.Output)).
		Msg("command finished")

	return res, nil
}

// Installed reports whether the invoker's binary can be found.
func (i *Invoker) Installed() bool {
	runner := i.Runner
	if runner == nil {
		runner = NewExecRunner()
	}
	_, err := runner.LookPath(i.Binary)
	return err == nil
}

// Shell runs pipelines through sh -c.
type Shell struct {
	Dir    string
	Runner Runner
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Run executes script. silent suppresses echo; output is always captured.
func (s *Shell) Run(ctx context.Context, script string, silent bool) (ExecutionResult, error) {
	logging.FromContext(ctx).Debug().
		Ctx(ctx).
		Str("component", "execcmd").
		Str("operation", "shell").
		Bool("silent", silent).
		Msg("running shell pipeline")

	res, err := run(ctx, s.Runner, Request{Dir: s.Dir, Name: "sh", Args: []string{"-c", script}},
		silent, true, s.Stdin, s.Stdout, s.Stderr)
	if err != nil {
		return res, fmt.Errorf("running shell pipeline: %w", err)
	}
	return res, nil
}

// RunAll executes scripts in order, stopping at the first failure.
func (s *Shell) RunAll(ctx context.Context, scripts []string, silent bool) (ExecutionResult, error) {
	var res ExecutionResult
	for _, script := range scripts {
		var err error
		res, err = s.Run(ctx, script, silent)
		if err != nil || !res.Succeeded {
			return res, err
		}
	}
	return res, nil
}

func run(
	ctx context.Context,
	runner Runner,
	req Request,
	silent, capture bool,
	stdin io.Reader,
	stdout, stderr io.Writer,
) (ExecutionResult, error) {
	if runner == nil {
		runner = NewExecRunner()
	}

	var outBuf, errBuf bytes.Buffer
	req.Stdout = teeWriter(&outBuf, stdout, silent, capture)
	req.Stderr = teeWriter(&errBuf, stderr, silent, true)
	if !silent {
		req.Stdin = stdin
	}

	code, err := runner.Run(ctx, req)
	res := ExecutionResult{
		Succeeded: err == nil && code == 0,
		Output:    strings.TrimRight(outBuf.String(), "\r\n"),
		Stderr:    strings.TrimRight(errBuf.String(), "\r\n"),
		ExitCode:  code,
	}
	if err != nil && errors.Is(err, exec.ErrNotFound) {
		return res, fmt.Errorf("%w: %s", ErrBinaryNotFound, req.Name)
	}
	return res, err
}

// teeWriter picks where a stream goes: captured, echoed, or both.
func teeWriter(buf *bytes.Buffer, echo io.Writer, silent, capture bool) io.Writer {
	switch {
	case silent || echo == nil:
		return buf
	case capture:
		return io.MultiWriter(buf, echo)
	default:
		return echo
	}
}
