package execcmd_test

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/pxpantheon/internal/execcmd"
	"github.com/rshade/pxpantheon/internal/execcmd/execcmdtest"
)

func newInvoker(runner execcmd.Runner) (*execcmd.Invoker, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &execcmd.Invoker{Binary: "terminus", Runner: runner, Stdout: out, Stderr: out}, out
}

func TestInvoker_SuccessCapturesOutput(t *testing.T) {
	runner := execcmdtest.NewFakeRunner().
		On("terminus org:list", execcmdtest.Response{Stdout: `[{"name":"acme"}]` + "\n"})
	inv, out := newInvoker(runner)

	res, err := inv.Run(context.Background(), execcmd.NewCommand("org:list").Option("format", "json").Quiet())
	require.NoError(t, err)

	assert.True(t, res.Succeeded)
	assert.Equal(t, `[{"name":"acme"}]`, res.Output)
	assert.Empty(t, out.String(), "silent commands must not echo")
	assert.Equal(t, []string{"terminus org:list --format json"}, runner.Lines())
}

func TestInvoker_EchoAndCapture(t *testing.T) {
	runner := execcmdtest.NewFakeRunner().
		On("terminus connection:info", execcmdtest.Response{Stdout: "mysql -u pantheon\n"})
	inv, out := newInvoker(runner)

	res, err := inv.Run(context.Background(), execcmd.NewCommand("connection:info", "acme.dev").Capture())
	require.NoError(t, err)

	assert.Equal(t, "mysql -u pantheon", res.Output)
	assert.Equal(t, "mysql -u pantheon\n", out.String())
}

func TestInvoker_EchoWithoutCapture(t *testing.T) {
	runner := execcmdtest.NewFakeRunner().
		On("terminus auth:login", execcmdtest.Response{Stdout: "logged in\n"})
	inv, out := newInvoker(runner)

	res, err := inv.Run(context.Background(), execcmd.NewCommand("auth:login"))
	require.NoError(t, err)

	assert.True(t, res.Succeeded)
	assert.Empty(t, res.Output)
	assert.Equal(t, "logged in\n", out.String())
}

func TestInvoker_NonZeroExitIsFailedResult(t *testing.T) {
	runner := execcmdtest.NewFakeRunner().
		On("terminus site:create", execcmdtest.Response{Stderr: "[error] site exists", ExitCode: 1})
	inv, _ := newInvoker(runner)

	res, err := inv.Run(context.Background(), execcmd.NewCommand("site:create", "acme"))
	require.NoError(t, err)

	assert.False(t, res.Succeeded)
	assert.Equal(t, 1, res.ExitCode)
	assert.Equal(t, "[error] site exists", res.Stderr)
	assert.Len(t, runner.Calls(), 1, "no retries")
}

func TestInvoker_StartFailureIsError(t *testing.T) {
	runner := execcmdtest.NewFakeRunner().
		On("terminus", execcmdtest.Response{Err: exec.ErrNotFound})
	inv, _ := newInvoker(runner)

	res, err := inv.Run(context.Background(), execcmd.NewCommand("auth:login"))
	require.Error(t, err)
	assert.ErrorIs(t, err, execcmd.ErrBinaryNotFound)
	assert.False(t, res.Succeeded)
}

func TestInvoker_ContextCancelled(t *testing.T) {
	runner := execcmdtest.NewFakeRunner().
		On("terminus", execcmdtest.Response{Err: context.Canceled})
	inv, _ := newInvoker(runner)

	_, err := inv.Run(context.Background(), execcmd.NewCommand("env:wake", "acme.dev"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestInvoker_Installed(t *testing.T) {
	runner := execcmdtest.NewFakeRunner()
	inv, _ := newInvoker(runner)
	assert.False(t, inv.Installed())

	runner.Install("terminus")
	assert.True(t, inv.Installed())
}

func TestShell_RunAllStopsAtFirstFailure(t *testing.T) {
	runner := execcmdtest.NewFakeRunner().
		On("sh -c chmod", execcmdtest.Response{ExitCode: 1})
	shell := &execcmd.Shell{Runner: runner}

	res, err := shell.RunAll(context.Background(), []string{
		"mkdir -p /tmp/terminus",
		"chmod +x terminus",
		"ln -s terminus /usr/local/bin/terminus",
	}, true)
	require.NoError(t, err)

	assert.False(t, res.Succeeded)
	assert.Equal(t, []string{"sh -c mkdir -p /tmp/terminus", "sh -c chmod +x terminus"}, runner.Lines())
}

func TestExecRunner_RealProcess(t *testing.T) {
	runner := execcmd.NewExecRunner()
	if _, err := runner.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	shell := &execcmd.Shell{Runner: runner}

	res, err := shell.Run(context.Background(), "echo hello; exit 3", true)
	require.NoError(t, err)
	assert.False(t, res.Succeeded)
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, "hello", res.Output)

	res, err = shell.Run(context.Background(), "printf ok", true)
	require.NoError(t, err)
	assert.True(t, res.Succeeded)
	assert.Equal(t, "ok", res.Output)
}

func TestExecutionResult_Err(t *testing.T) {
	ok := execcmd.ExecutionResult{Succeeded: true}
	assert.NoError(t, ok.Err("terminus env:wake"))

	failed := execcmd.ExecutionResult{ExitCode: 3, Stderr: "  [error] asleep\n"}
	err := failed.Err("terminus env:wake")
	require.Error(t, err)
	assert.ErrorIs(t, err, execcmd.ErrCommandFailed)
	assert.Equal(t, "terminus env:wake exited with code 3: [error] asleep", err.Error())

	var exitErr *execcmd.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 3, exitErr.ExitCode)
}
