// Package pantheon implements the developer workflows: login, project setup, site
// creation, team management, connection info, database import, export and sync,
// remote drush and terminus installation.
//
// Each operation validates its inputs before touching any subprocess, then runs its
// steps in order and stops at the first failure. Operations report exactly one
// confirmation on success or return exactly one error.
package pantheon

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rshade/pxpantheon/internal/choice"
	"github.com/rshade/pxpantheon/internal/composer"
	"github.com/rshade/pxpantheon/internal/config"
	"github.com/rshade/pxpantheon/internal/execcmd"
	"github.com/rshade/pxpantheon/internal/logging"
	"github.com/rshade/pxpantheon/internal/prompt"
	"github.com/rshade/pxpantheon/internal/templates"
	"github.com/rshade/pxpantheon/internal/terminus"
	"github.com/rshade/pxpantheon/internal/tui"
)

// dirPerm is the mode for directories created in the project.
const dirPerm = 0o750

// Deps are the collaborators a Service runs against.
type Deps struct {
	Config    *config.Config
	Terminus  *terminus.Client
	Composer  *composer.Client
	Shell     *execcmd.Shell
	Prompter  prompt.Prompter
	Reporter  *tui.Reporter
	Templates *templates.Loader
	// LocalDB defaults to a ShellDatabase over Config.LocalDatabase.
	LocalDB LocalDatabase
	// Releases defaults to the GitHub releases endpoint fetched with curl.
	Releases ReleaseSource
	// HomeDir is where terminus gets installed; defaults to the user's home directory.
	HomeDir string
}

// Service runs workflows against one project.
type Service struct {
	cfg       *config.Config
	terminus  *terminus.Client
	composer  *composer.Client
	shell     *execcmd.Shell
	prompter  prompt.Prompter
	reporter  *tui.Reporter
	templates *templates.Loader
	localDB   LocalDatabase
	releases  ReleaseSource
	homeDir   string
}

// New wires a Service. Config, Terminus, Shell, Prompter and Reporter are required.
func New(deps Deps) *Service {
	s := &Service{
		cfg:       deps.Config,
		terminus:  deps.Terminus,
		composer:  deps.Composer,
		shell:     deps.Shell,
		prompter:  deps.Prompter,
		reporter:  deps.Reporter,
		templates: deps.Templates,
		localDB:   deps.LocalDB,
		releases:  deps.Releases,
		homeDir:   deps.HomeDir,
	}
	if s.composer == nil {
		s.composer = composer.NewClient(&execcmd.Invoker{
			Binary: composer.DefaultBinary,
			Dir:    s.cfg.ProjectRoot(),
			Runner: s.shell.Runner,
			Stdin:  s.shell.Stdin,
			Stdout: s.shell.Stdout,
			Stderr: s.shell.Stderr,
		})
	}
	if s.templates == nil {
		s.templates = templates.NewLoader(s.cfg.Paths.TemplatesDir)
	}
	if s.localDB == nil {
		s.localDB = NewShellDatabase(s.shell, s.cfg.LocalDatabase)
	}
	if s.releases == nil {
		s.releases = NewGitHubReleases(s.shell)
	}
	if s.homeDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			s.homeDir = home
		}
	}
	return s
}

// Environments lists the site's environments minus exclude.
func (s *Service) Environments(ctx context.Context, exclude ...string) (choice.Table, error) {
	site, err := s.siteName()
	if err != nil {
		return choice.Table{}, err
	}
	return s.terminus.Environments(ctx, site).Without(exclude...), nil
}

// SelectEnvironment returns env when set, otherwise asks for one of the site's
// environments minus exclude, defaulting to def.
func (s *Service) SelectEnvironment(ctx context.Context, env, def string, exclude ...string) (string, error) {
	if env != "" {
		if err := validateEnvName(env); err != nil {
			return "", err
		}
		return env, nil
	}

	envs, err := s.Environments(ctx, exclude...)
	if err != nil {
		return "", err
	}
	return s.prompter.Choose(ctx, "Select the pantheon site environment", envs, def)
}

func (s *Service) siteName() (string, error) {
	site := s.cfg.Pantheon.Site
	if site == "" {
		return "", missingConfig("the pantheon site name is required; run `pxpantheon config set pantheon.site <name>`")
	}
	if err := config.ValidateSiteName(site); err != nil {
		return "", fmt.Errorf("%w: %w", ErrMissingConfig, err)
	}
	return site, nil
}

func (s *Service) banner() {
	s.reporter.Banner(s.templates.Banner())
}

func (s *Service) projectPath(name string) string {
	return filepath.Join(s.cfg.ProjectRoot(), name)
}

func (s *Service) logStart(ctx context.Context, operation string) {
	logging.FromContext(ctx).Info().
		Ctx(ctx).
		Str("component", "pantheon").
		Str("operation", operation).
		Str("site", s.cfg.Pantheon.Site).
		Msg("starting workflow")
}
