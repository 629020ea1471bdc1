// Package cli implements the pxpantheon command tree.
package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/pxpantheon/internal/cache"
	"github.com/rshade/pxpantheon/internal/composer"
	"github.com/rshade/pxpantheon/internal/config"
	"github.com/rshade/pxpantheon/internal/execcmd"
	"github.com/rshade/pxpantheon/internal/logging"
	"github.com/rshade/pxpantheon/internal/pantheon"
	"github.com/rshade/pxpantheon/internal/prompt"
	"github.com/rshade/pxpantheon/internal/terminus"
	"github.com/rshade/pxpantheon/internal/tui"
)

// annotationConfigOptional marks commands that still run when the config file is broken.
const annotationConfigOptional = "pxpantheon/config-optional"

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// Overrides replaces collaborators of the command tree. Zero fields use the real ones.
type Overrides struct {
	Runner   execcmd.Runner
	Prompter prompt.Prompter
	Releases pantheon.ReleaseSource
	HomeDir  string
}

type rootFlags struct {
	debug          bool
	cacheTTL       string
	noCache        bool
	projectDir     string
	nonInteractive bool
}

// appState is the per-invocation state built before a command runs.
type appState struct {
	overrides Overrides
	flags     rootFlags

	cfg        *config.Config
	projectDir string
	ttlFlag    time.Duration
	mode       tui.OutputMode
	logResult  *logging.LogPathResult

	cache   *cache.Cache
	store   *cache.FileStore
	service *pantheon.Service
}

// NewRootCmd creates the root command for the pxpantheon CLI.
func NewRootCmd(ver string) *cobra.Command {
	return NewRootCmdWithOverrides(ver, Overrides{})
}

// NewRootCmdWithOverrides creates the root command with injected collaborators for tests.
func NewRootCmdWithOverrides(ver string, overrides Overrides) *cobra.Command {
	cmd, _ := newRootCmd(ver, overrides)
	return cmd
}

func newRootCmd(ver string, overrides Overrides) (*cobra.Command, *appState) {
	app := &appState{overrides: overrides}

	cmd := &cobra.Command{
		Use:           "pxpantheon",
		Short:         "Pantheon developer workflows on top of terminus",
		Long:          "pxpantheon drives the Pantheon terminus CLI for login, project setup, databases and site management.",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.init(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.BoolVar(&app.flags.debug, "debug", false, "enable debug logging")
	flags.StringVar(&app.flags.cacheTTL, "cache-ttl", "",
		"cache TTL as seconds or a duration such as 30m (overrides config file and env var)")
	flags.BoolVar(&app.flags.noCache, "no-cache", false, "bypass the terminus list cache")
	flags.StringVar(&app.flags.projectDir, "project-dir", "", "project root (default: discovered from the working directory)")
	flags.BoolVar(&app.flags.nonInteractive, "non-interactive", false, "never prompt; use defaults for every question")

	cmd.AddCommand(
		newLoginCmd(app),
		newSetupCmd(app),
		newInfoCmd(app),
		newInstallTerminusCmd(app),
		newMySQLCmd(app),
		newImportCmd(app),
		newExportCmd(app),
		newDrushCmd(app),
		newCreateSiteCmd(app),
		newAddMemberCmd(app),
		newSyncCmd(app),
		newEnvCmd(app),
		newCacheCmd(app),
		newConfigCmd(app),
	)
	app.finishRuns(cmd)
	return cmd, app
}

// finishRuns wraps every RunE so the outcome is logged and the log file closed,
// including when the command fails.
func (a *appState) finishRuns(cmd *cobra.Command) {
	for _, sub := range cmd.Commands() {
		a.finishRuns(sub)
	}
	run := cmd.RunE
	if run == nil {
		return
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) (err error) {
		defer func() {
			if err != nil {
				logger.Error().Ctx(cmd.Context()).Err(err).Str("command", cmd.CommandPath()).Msg("command failed")
			}
			err = errors.Join(err, a.logResult.Close())
		}()
		return run(cmd, args)
	}
}

const rootCmdExample = `  # Authenticate terminus
  pxpantheon login

  # Point the project at its Pantheon site
  pxpantheon config set pantheon.site acme

  # Write pantheon.yml and prepare the framework
  pxpantheon setup

  # Pull the dev database into the local environment
  pxpantheon sync dev

  # Run drush on the test environment
  pxpantheon drush --env test -- cr`

// init loads configuration, sets up logging and prepares the reporter. Collaborators
// that touch the filesystem or subprocesses are built on first use.
func (a *appState) init(cmd *cobra.Command) error {
	if a.flags.cacheTTL != "" {
		ttl, err := cache.ParseTTL(a.flags.cacheTTL)
		if err != nil {
			return fmt.Errorf("invalid --cache-ttl: %w", err)
		}
		a.ttlFlag = ttl
	}

	ctx := cmd.Context()
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	a.projectDir = config.ResolveProjectDir(ctx, a.flags.projectDir, wd)

	cfg, err := config.LoadWithProject(ctx, a.projectDir)
	if err != nil {
		if _, ok := cmd.Annotations[annotationConfigOptional]; !ok {
			return err
		}
		cmd.PrintErrf("Warning: %v; using defaults\n", err)
		cfg = config.New()
	}
	a.cfg = cfg

	result := setupLogging(cmd, cfg.Logging, a.flags.debug)
	a.logResult = &result

	if err := cfg.Validate(); err != nil {
		logger.Warn().Ctx(cmd.Context()).Err(err).Msg("configuration has invalid values")
	}

	a.mode = tui.DetectOutputMode(false, false, false)
	return nil
}

func (a *appState) reporter(cmd *cobra.Command) *tui.Reporter {
	return tui.NewReporter(cmd.OutOrStdout(), cmd.ErrOrStderr(), a.mode != tui.OutputModePlain)
}

// listTTL resolves the cache TTL: --cache-ttl, then the env var, then the config file.
func (a *appState) listTTL() time.Duration {
	if a.ttlFlag > 0 {
		return a.ttlFlag
	}
	ttl, err := cache.TTLFromEnv()
	if err != nil {
		logger.Warn().Err(err).Str("env", cache.EnvTTLSeconds).Msg("ignoring invalid cache TTL")
	} else if ttl > 0 {
		return ttl
	}
	ttl = time.Duration(a.cfg.Cache.TTLSeconds) * time.Second
	if err = cache.CheckTTL(ttl); err != nil {
		logger.Warn().Err(err).Int("ttl_seconds", a.cfg.Cache.TTLSeconds).Msg("invalid cache TTL, using default")
		return cache.DefaultTTL
	}
	return ttl
}

func (a *appState) cacheEnabled() bool {
	if a.flags.noCache {
		return false
	}
	if enabled, ok := cache.EnabledFromEnv(); ok {
		return enabled
	}
	return a.cfg.Cache.Enabled
}

func (a *appState) cacheDir() (string, error) {
	if dir := cache.DirFromEnv(); dir != "" {
		return dir, nil
	}
	return a.cfg.GetCacheDir()
}

// fileStore opens the persistent cache directory.
func (a *appState) fileStore() (*cache.FileStore, error) {
	if a.store != nil {
		return a.store, nil
	}
	dir, err := a.cacheDir()
	if err != nil {
		return nil, fmt.Errorf("resolving cache directory: %w", err)
	}
	store, err := cache.NewFileStore(dir)
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	a.store = store
	return store, nil
}

func (a *appState) listCache() *cache.Cache {
	if a.cache != nil {
		return a.cache
	}
	if !a.cacheEnabled() {
		a.cache = cache.New(cache.WithEnabled(false))
		return a.cache
	}

	opts := []cache.Option{}
	store, err := a.fileStore()
	if err != nil {
		logger.Warn().Err(err).Msg("persistent cache unavailable, caching in memory only")
	} else {
		opts = append(opts, cache.WithStore(store))
	}
	a.cache = cache.New(opts...)
	return a.cache
}

// pantheon returns the workflow service, wiring it on first use.
func (a *appState) pantheon(cmd *cobra.Command) *pantheon.Service {
	if a.service != nil {
		return a.service
	}

	cfg := a.cfg
	stdin, stdout, stderr := cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr()
	root := cfg.ProjectRoot()

	terminusInv := &execcmd.Invoker{
		Binary:  cfg.Terminus.Binary,
		Dir:     root,
		Timeout: time.Duration(cfg.Terminus.TimeoutSeconds) * time.Second,
		Runner:  a.overrides.Runner,
		Stdin:   stdin,
		Stdout:  stdout,
		Stderr:  stderr,
	}
	if terminusInv.Binary == "" {
		terminusInv.Binary = terminus.DefaultBinary
	}
	composerInv := &execcmd.Invoker{
		Binary: composer.DefaultBinary,
		Dir:    root,
		Runner: a.overrides.Runner,
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
	}
	shell := &execcmd.Shell{Dir: root, Runner: a.overrides.Runner, Stdin: stdin, Stdout: stdout, Stderr: stderr}

	prompter := a.overrides.Prompter
	if prompter == nil {
		prompter = &prompt.Terminal{
			In:             stdin,
			Out:            stdout,
			Interactive:    a.mode == tui.OutputModeInteractive,
			NonInteractive: a.flags.nonInteractive,
		}
	}

	a.service = pantheon.New(pantheon.Deps{
		Config:   cfg,
		Terminus: terminus.NewClient(terminusInv, a.listCache(), a.listTTL()),
		Composer: composer.NewClient(composerInv),
		Shell:    shell,
		Prompter: prompter,
		Reporter: a.reporter(cmd),
		Releases: a.overrides.Releases,
		HomeDir:  a.overrides.HomeDir,
	})
	return a.service
}
