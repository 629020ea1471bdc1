package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rshade/pxpantheon/internal/logging"
)

// EnvProjectDir overrides project root discovery.
const EnvProjectDir = "PXPANTHEON_PROJECT_DIR"

// ErrNoProject indicates no project marker was found walking up from the start directory.
var ErrNoProject = errors.New("no project found in current or parent directories")

// projectMarkers are the files that identify a project root, checked in order.
//
//nolint:gochecknoglobals // Constant lookup list.
var projectMarkers = []string{"pantheon.yml", "composer.json"}

// FindProjectRoot walks up the directory tree from dir looking for pantheon.yml or
// composer.json. Returns the directory containing the marker, or ErrNoProject.
func FindProjectRoot(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving absolute path: %w", err)
	}

	current := absDir
	for {
		for _, name := range projectMarkers {
			if _, statErr := os.Stat(filepath.Join(current, name)); statErr == nil {
				return current, nil
			}
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", ErrNoProject
		}
		current = parent
	}
}

// ResolveProjectDir determines the project root. It checks (in order):
//  1. flagValue (--project-dir CLI flag)
//  2. PXPANTHEON_PROJECT_DIR env var
//  3. FindProjectRoot(startDir) walk-up
//
// Returns an absolute path, or an empty string if no project was found.
func ResolveProjectDir(ctx context.Context, flagValue, startDir string) string {
	if flagValue != "" {
		return toAbs(ctx, flagValue)
	}

	if envDir := os.Getenv(EnvProjectDir); envDir != "" {
		return toAbs(ctx, envDir)
	}

	root, err := FindProjectRoot(startDir)
	if err != nil {
		if !errors.Is(err, ErrNoProject) {
			logging.FromContext(ctx).Warn().
				Str("component", "config").
				Err(err).
				Str("start_dir", startDir).
				Msg("unexpected error during project discovery")
		}
		return ""
	}
	return root
}

// ProjectConfigDir returns the project-local .pxpantheon directory.
func ProjectConfigDir(projectRoot string) string {
	return filepath.Join(projectRoot, homeDirName)
}

// LoadWithProject loads the global config file, shallow-merges the project overlay
// from <projectRoot>/.pxpantheon/config.yaml when present, and applies env overrides.
// The project root is recorded in Paths.ProjectRoot unless the config already sets one.
func LoadWithProject(ctx context.Context, projectRoot string) (*Config, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return nil, err
	}

	cfg, err := Load(filepath.Join(dir, configFileName))
	if err != nil {
		return nil, err
	}

	if projectRoot != "" {
		overlayPath := filepath.Join(ProjectConfigDir(projectRoot), configFileName)
		if _, statErr := os.Stat(overlayPath); statErr == nil {
			if mergeErr := ShallowMergeYAML(cfg, overlayPath); mergeErr != nil {
				logging.FromContext(ctx).Warn().
					Str("component", "config").
					Str("operation", "merge_project_config").
					Err(mergeErr).
					Str("overlay_path", overlayPath).
					Msg("failed to merge project config, using global settings")
			} else {
				cfg.SetConfigPath(overlayPath)
			}
		}
		if cfg.Paths.ProjectRoot == "" {
			cfg.Paths.ProjectRoot = projectRoot
		}
	}

	cfg.ApplyEnv()
	return cfg, nil
}

func toAbs(ctx context.Context, dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		logging.FromContext(ctx).Warn().
			Str("component", "config").
			Err(err).
			Str("dir", dir).
			Msg("failed to resolve absolute path for project directory")
		return dir
	}
	return abs
}
