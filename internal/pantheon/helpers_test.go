package pantheon_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rshade/pxpantheon/internal/composer"
	"github.com/rshade/pxpantheon/internal/config"
	"github.com/rshade/pxpantheon/internal/execcmd"
	"github.com/rshade/pxpantheon/internal/execcmd/execcmdtest"
	"github.com/rshade/pxpantheon/internal/pantheon"
	"github.com/rshade/pxpantheon/internal/prompt"
	"github.com/rshade/pxpantheon/internal/terminus"
	"github.com/rshade/pxpantheon/internal/tui"
)

type fakeReleases struct {
	version string
	err     error
}

func (f fakeReleases) LatestVersion(context.Context) (string, error) {
	return f.version, f.err
}

// fakeLocalDB records calls and writes a placeholder dump on export.
type fakeLocalDB struct {
	exported []string
	imported []string
	err      error
}

func (f *fakeLocalDB) Export(_ context.Context, dir, name string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", err
	}
	file := filepath.Join(dir, name+".sql")
	if err := os.WriteFile(file, []byte("CREATE TABLE t (id int);\n"), 0o600); err != nil {
		return "", err
	}
	f.exported = append(f.exported, file)
	return file, nil
}

func (f *fakeLocalDB) Import(_ context.Context, file string) error {
	if f.err != nil {
		return f.err
	}
	f.imported = append(f.imported, file)
	return nil
}

type harness struct {
	svc      *pantheon.Service
	cfg      *config.Config
	runner   *execcmdtest.FakeRunner
	prompter *prompt.Scripted
	localDB  *fakeLocalDB
	out      *bytes.Buffer
	errOut   *bytes.Buffer
	root     string
	home     string
}

type harnessOption func(*harness, *pantheon.Deps)

func withReleases(r pantheon.ReleaseSource) harnessOption {
	return func(_ *harness, d *pantheon.Deps) { d.Releases = r }
}

func withConfig(fn func(*config.Config)) harnessOption {
	return func(h *harness, _ *pantheon.Deps) { fn(h.cfg) }
}

func newHarness(t *testing.T, answers []string, opts ...harnessOption) *harness {
	t.Helper()
	t.Setenv(config.EnvHome, t.TempDir())

	h := &harness{
		cfg:      config.New(),
		runner:   execcmdtest.NewFakeRunner(),
		prompter: prompt.NewScripted(answers...),
		localDB:  &fakeLocalDB{},
		out:      &bytes.Buffer{},
		errOut:   &bytes.Buffer{},
		root:     t.TempDir(),
		home:     t.TempDir(),
	}
	h.cfg.Pantheon.Site = "acme"
	h.cfg.Pantheon.Framework = config.FrameworkDrupal
	h.cfg.Pantheon.PHPVersion = "8.1"
	h.cfg.Paths.ProjectRoot = h.root

	shell := &execcmd.Shell{Runner: h.runner, Stdout: h.out, Stderr: h.errOut}
	terminusInv := &execcmd.Invoker{Binary: "terminus", Runner: h.runner, Stdout: h.out, Stderr: h.errOut}
	composerInv := &execcmd.Invoker{Binary: "composer", Dir: h.root, Runner: h.runner, Stdout: h.out, Stderr: h.errOut}

	deps := pantheon.Deps{
		Config:   h.cfg,
		Terminus: terminus.NewClient(terminusInv, nil, time.Hour),
		Composer: composer.NewClient(composerInv),
		Shell:    shell,
		Prompter: h.prompter,
		Reporter: tui.NewReporter(h.out, h.errOut, false),
		LocalDB:  h.localDB,
		Releases: fakeReleases{version: "3.3.0"},
		HomeDir:  h.home,
	}
	for _, opt := range opts {
		opt(h, &deps)
	}
	h.svc = pantheon.New(deps)
	return h
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}
