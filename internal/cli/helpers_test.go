package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rshade/pxpantheon/internal/cli"
	"github.com/rshade/pxpantheon/internal/execcmd/execcmdtest"
	"github.com/rshade/pxpantheon/internal/prompt"
)

type cliHarness struct {
	runner   *execcmdtest.FakeRunner
	prompter *prompt.Scripted
	home     string
	project  string
}

// newCLIHarness isolates the global and project config directories and points the
// site at "acme".
func newCLIHarness(t *testing.T, answers ...string) *cliHarness {
	t.Helper()
	h := &cliHarness{
		runner:   execcmdtest.NewFakeRunner(),
		prompter: prompt.NewScripted(answers...),
		home:     t.TempDir(),
		project:  t.TempDir(),
	}
	require.NoError(t, os.WriteFile(filepath.Join(h.project, "composer.json"), []byte("{}"), 0o644))

	t.Setenv("PXPANTHEON_HOME", h.home)
	t.Setenv("PXPANTHEON_PROJECT_DIR", h.project)
	t.Setenv("PXPANTHEON_LOG_LEVEL", "error")
	t.Setenv("PXPANTHEON_SITE", "acme")
	t.Setenv("PXPANTHEON_CACHE_DIR", "")
	t.Setenv("PXPANTHEON_CACHE_TTL_SECONDS", "")
	t.Setenv("PXPANTHEON_CACHE_ENABLED", "")
	t.Setenv("NO_COLOR", "1")
	return h
}

// run executes the command tree with args and returns stdout and the error.
func (h *cliHarness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := cli.NewRootCmdWithOverrides("test", cli.Overrides{
		Runner:   h.runner,
		Prompter: h.prompter,
		HomeDir:  h.home,
	})
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}
