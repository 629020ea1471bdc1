package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/pxpantheon/internal/config"
)

func writeComposerJSON(t *testing.T, dir string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "composer.json"), []byte("{}\n"), 0644))
}

func TestResolveProjectDir_FlagOverride(t *testing.T) {
	t.Setenv(config.EnvProjectDir, "")

	flagDir := t.TempDir()

	got := config.ResolveProjectDir(context.Background(), flagDir, "/does/not/matter")

	assert.Equal(t, flagDir, got)
	assert.True(t, filepath.IsAbs(got), "returned path must be absolute")
}

func TestResolveProjectDir_FlagOverridesEnv(t *testing.T) {
	envDir := t.TempDir()
	flagDir := t.TempDir()
	t.Setenv(config.EnvProjectDir, envDir)

	got := config.ResolveProjectDir(context.Background(), flagDir, "/does/not/matter")

	assert.Equal(t, flagDir, got)
}

func TestResolveProjectDir_EnvVarOverride(t *testing.T) {
	envDir := t.TempDir()
	t.Setenv(config.EnvProjectDir, envDir)

	got := config.ResolveProjectDir(context.Background(), "", "/does/not/matter")

	assert.Equal(t, envDir, got)
}

func TestResolveProjectDir_WalkUp(t *testing.T) {
	t.Setenv(config.EnvProjectDir, "")
	root := t.TempDir()
	writeComposerJSON(t, root)

	subDir := filepath.Join(root, "web", "modules", "custom")
	require.NoError(t, os.MkdirAll(subDir, 0755))

	got := config.ResolveProjectDir(context.Background(), "", subDir)

	assert.Equal(t, root, got)
}

func TestResolveProjectDir_NoProject(t *testing.T) {
	t.Setenv(config.EnvProjectDir, "")

	got := config.ResolveProjectDir(context.Background(), "", t.TempDir())

	assert.Empty(t, got)
}

func TestFindProjectRoot_PantheonYML(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "pantheon.yml"), []byte("api_version: 1\n"), 0644))

	got, err := config.FindProjectRoot(root)
	require.NoError(t, err)
	assert.Equal(t, root, got)
}

func TestFindProjectRoot_NotFound(t *testing.T) {
	_, err := config.FindProjectRoot(t.TempDir())
	require.ErrorIs(t, err, config.ErrNoProject)
}

func TestLoadWithProject_MergesOverlay(t *testing.T) {
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	t.Setenv(config.EnvSite, "")
	t.Setenv(config.EnvTerminusBinary, "")

	require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"), []byte(`
pantheon:
  site: global-site
logging:
  level: warn
`), 0600))

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(config.ProjectConfigDir(root), 0750))
	overlayPath := filepath.Join(config.ProjectConfigDir(root), "config.yaml")
	require.NoError(t, os.WriteFile(overlayPath, []byte(`
pantheon:
  site: project-site
  framework: drupal
  php_version: "8.2"
`), 0600))

	cfg, err := config.LoadWithProject(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, "project-site", cfg.Pantheon.Site)
	assert.Equal(t, "8.2", cfg.Pantheon.PHPVersion)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, root, cfg.Paths.ProjectRoot)
	assert.Equal(t, overlayPath, cfg.ConfigPath())
}

func TestLoadWithProject_EnvOverride(t *testing.T) {
	t.Setenv(config.EnvHome, t.TempDir())
	t.Setenv(config.EnvSite, "env-site")
	t.Setenv(config.EnvTerminusBinary, "/usr/local/bin/terminus")

	cfg, err := config.LoadWithProject(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, "env-site", cfg.Pantheon.Site)
	assert.Equal(t, "/usr/local/bin/terminus", cfg.Terminus.Binary)
}
