package pantheon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/rshade/pxpantheon/internal/composer"
	"github.com/rshade/pxpantheon/internal/config"
	"github.com/rshade/pxpantheon/internal/templates"
)

// Composer packages managed by Setup.
const (
	PackageDrupalCore            = "drupal/core"
	PackageDrupalCoreRecommended = "drupal/core-recommended"
	PackageDrupalIntegrations    = "pantheon-systems/drupal-integrations"
	PackageQuicksilver           = "pr0ject-x/pantheon-drupal-quicksilver"

	pantheonYMLFile = "pantheon.yml"
	filePerm        = 0o644
)

var workflowsLine = regexp.MustCompile(`(?m)^workflows:$`)

// SetupOptions controls Setup. Zero values fall back to the project config.
type SetupOptions struct {
	Framework  string
	PHPVersion string
}

// Setup writes pantheon.yml for the project and prepares the configured framework.
func (s *Service) Setup(ctx context.Context, opts SetupOptions) error {
	s.logStart(ctx, "setup")
	s.banner()

	framework := opts.Framework
	if framework == "" {
		framework = s.cfg.Pantheon.Framework
	}
	phpVersion := opts.PHPVersion
	if phpVersion == "" {
		phpVersion = s.cfg.Pantheon.PHPVersion
	}
	ymlPath := s.projectPath(pantheonYMLFile)
	drupal := framework == config.FrameworkDrupal

	var (
		manifest    *composer.Manifest
		quicksilver bool
	)

	err := NewWorkflow("setup").
		Validate("framework", func(context.Context) error {
			if framework == "" {
				return missingConfig("the pantheon framework has not been defined")
			}
			if err := config.ValidateFramework(framework); err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidInput, err)
			}
			return nil
		}).
		Validate("php version", func(context.Context) error {
			if phpVersion == "" {
				return missingConfig("the pantheon PHP version has not been defined")
			}
			if err := config.ValidatePHPVersion(phpVersion); err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidInput, err)
			}
			return nil
		}).
		Validate("drupal core", func(context.Context) error {
			if !drupal {
				return nil
			}
			var err error
			manifest, err = composer.ReadManifest(s.cfg.ProjectRoot())
			if err != nil && !errors.Is(err, composer.ErrNoManifest) {
				return err
			}
			if !manifest.HasAnyPackage(PackageDrupalCore, PackageDrupalCoreRecommended) {
				return invalidInput("install Drupal core prior to running the pantheon setup")
			}
			return nil
		}).
		Validate("quicksilver", func(ctx context.Context) error {
			if !drupal {
				return nil
			}
			var err error
			quicksilver, err = s.prompter.Confirm(ctx, "Add Drupal quicksilver scripts?", true)
			return err
		}).
		Then("write pantheon.yml", func(context.Context) error {
			content, err := s.templates.Render(templates.PantheonYML, map[string]string{"PHP_VERSION": phpVersion})
			if err != nil {
				return err
			}
			if err := os.WriteFile(ymlPath, []byte(content), filePerm); err != nil {
				return fmt.Errorf("writing %s: %w", ymlPath, err)
			}
			return nil
		}).
		ThenIf("drupal integrations", func() bool {
			return drupal && !manifest.HasPackage(PackageDrupalIntegrations)
		}, func(ctx context.Context) error {
			return s.composerAdd(ctx, "extra.drupal-scaffold.allowed-packages",
				[]string{PackageDrupalIntegrations}, PackageDrupalIntegrations, true)
		}).
		ThenIf("quicksilver workflows", func() bool { return quicksilver }, func(context.Context) error {
			return s.appendWorkflows(ymlPath)
		}).
		ThenIf("quicksilver scripts", func() bool {
			return quicksilver && !manifest.HasPackage(PackageQuicksilver)
		}, func(ctx context.Context) error {
			return s.composerAdd(ctx, "extra.installer-paths", map[string][]string{
				"web/private/scripts/quicksilver/{$name}/": {"type:quicksilver-script"},
			}, PackageQuicksilver, false)
		}).
		Run(ctx)
	if err != nil {
		return err
	}

	if drupal {
		s.reporter.Success("The pantheon setup was successful for the Drupal framework!")
	} else {
		s.reporter.Success(fmt.Sprintf("The pantheon setup was successful for the %s framework!", framework))
	}
	return nil
}

func (s *Service) composerAdd(ctx context.Context, key string, value any, pkg string, withAll bool) error {
	res, err := s.composer.ConfigMerge(ctx, key, value)
	if err := checkResult("composer config "+key, res, err); err != nil {
		return err
	}
	res, err = s.composer.Require(ctx, pkg, withAll)
	return checkResult("composer require "+pkg, res, err)
}

// appendWorkflows appends the Drupal workflows unless path already declares them.
func (s *Service) appendWorkflows(path string) error {
	current, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if workflowsLine.Match(current) {
		return nil
	}

	workflows, err := s.templates.Load(templates.DrupalWorkflows)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, filePerm)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	if _, err := f.WriteString(workflows); err != nil {
		_ = f.Close()
		return fmt.Errorf("appending to %s: %w", path, err)
	}
	return f.Close()
}
