package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/pxpantheon/internal/config"
)

// newDefaultTarget returns a Config with known non-zero defaults so tests can
// verify that absent overlay keys leave the original values intact.
func newDefaultTarget() *config.Config {
	return &config.Config{
		Pantheon: config.PantheonConfig{
			Site:       "global-site",
			Framework:  config.FrameworkDrupal,
			PHPVersion: "8.1",
		},
		Terminus: config.TerminusConfig{Binary: "terminus"},
		Cache: config.CacheConfig{
			Enabled:    true,
			TTLSeconds: 3600,
		},
		Logging: config.LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		DatabaseApps: map[string]config.DatabaseApp{
			"existing": {Label: "Existing", Command: "open {url}"},
		},
	}
}

// writeOverlay is a test helper that writes YAML content to a temp file
// and returns its path.
func writeOverlay(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "overlay.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestShallowMergeYAML_SingleKeyOverride(t *testing.T) {
	target := newDefaultTarget()
	overlay := writeOverlay(t, `
pantheon:
  site: project-site
  framework: wordpress
`)

	err := config.ShallowMergeYAML(target, overlay)
	require.NoError(t, err)

	assert.Equal(t, "project-site", target.Pantheon.Site)
	assert.Equal(t, config.FrameworkWordPress, target.Pantheon.Framework)
	// The whole section is replaced, so the unset field is zeroed.
	assert.Empty(t, target.Pantheon.PHPVersion)

	assert.Equal(t, "info", target.Logging.Level)
	assert.True(t, target.Cache.Enabled)
	assert.Equal(t, 3600, target.Cache.TTLSeconds)
}

func TestShallowMergeYAML_MultipleKeyOverride(t *testing.T) {
	target := newDefaultTarget()
	overlay := writeOverlay(t, `
terminus:
  binary: /opt/terminus/terminus
  timeout_seconds: 300
cache:
  enabled: false
  ttl_seconds: 600
`)

	err := config.ShallowMergeYAML(target, overlay)
	require.NoError(t, err)

	assert.Equal(t, "/opt/terminus/terminus", target.Terminus.Binary)
	assert.Equal(t, 300, target.Terminus.TimeoutSeconds)
	assert.False(t, target.Cache.Enabled)
	assert.Equal(t, 600, target.Cache.TTLSeconds)
	assert.Equal(t, "global-site", target.Pantheon.Site)
}

func TestShallowMergeYAML_EmptyOverlayFile(t *testing.T) {
	target := newDefaultTarget()
	original := *target
	overlay := writeOverlay(t, "")

	err := config.ShallowMergeYAML(target, overlay)
	require.NoError(t, err)

	assert.Equal(t, original.Pantheon, target.Pantheon)
	assert.Equal(t, original.Logging, target.Logging)
	assert.Equal(t, original.Cache, target.Cache)
}

func TestShallowMergeYAML_CommentOnlyFile(t *testing.T) {
	target := newDefaultTarget()
	original := *target
	overlay := writeOverlay(t, "# this file is intentionally empty\n# just comments\n")

	err := config.ShallowMergeYAML(target, overlay)
	require.NoError(t, err)

	assert.Equal(t, original.Pantheon, target.Pantheon)
	assert.Equal(t, original.Logging, target.Logging)
}

func TestShallowMergeYAML_CorruptedYAMLReturnsError(t *testing.T) {
	target := newDefaultTarget()
	overlay := writeOverlay(t, "{{{{not valid yaml at all")

	err := config.ShallowMergeYAML(target, overlay)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing overlay YAML")
}

func TestShallowMergeYAML_MissingFileReturnsError(t *testing.T) {
	target := newDefaultTarget()

	err := config.ShallowMergeYAML(target, "/nonexistent/path/overlay.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading overlay file")
}

func TestShallowMergeYAML_OverrideDatabaseApps(t *testing.T) {
	target := newDefaultTarget()
	overlay := writeOverlay(t, `
database_apps:
  tableplus:
    label: TablePlus
    command: open -a TablePlus "{url}"
    default: true
`)

	err := config.ShallowMergeYAML(target, overlay)
	require.NoError(t, err)

	require.Contains(t, target.DatabaseApps, "tableplus")
	assert.Equal(t, "TablePlus", target.DatabaseApps["tableplus"].Label)
	assert.True(t, target.DatabaseApps["tableplus"].Default)
	// The map is replaced, not merged.
	assert.NotContains(t, target.DatabaseApps, "existing")
}

func TestShallowMergeYAML_OverrideLocalDatabase(t *testing.T) {
	target := newDefaultTarget()
	overlay := writeOverlay(t, `
local_database:
  export_command: ddev export-db --file={file}
  import_command: ddev import-db --file={file}
`)

	err := config.ShallowMergeYAML(target, overlay)
	require.NoError(t, err)

	assert.Equal(t, "ddev export-db --file={file}", target.LocalDatabase.ExportCommand)
	assert.Equal(t, "ddev import-db --file={file}", target.LocalDatabase.ImportCommand)
}

func TestShallowMergeYAML_ZeroValueFieldsReplaceDefaults(t *testing.T) {
	target := newDefaultTarget()
	require.True(t, target.Cache.Enabled)
	require.Equal(t, 3600, target.Cache.TTLSeconds)

	overlay := writeOverlay(t, `
cache:
  enabled: false
  ttl_seconds: 0
`)

	err := config.ShallowMergeYAML(target, overlay)
	require.NoError(t, err)

	assert.False(t, target.Cache.Enabled)
	assert.Equal(t, 0, target.Cache.TTLSeconds)
}

func TestShallowMergeYAML_UnknownKeysIgnored(t *testing.T) {
	target := newDefaultTarget()
	overlay := writeOverlay(t, `
logging:
  level: debug
  format: console
unknown_section:
  foo: bar
extra_key: 42
`)

	err := config.ShallowMergeYAML(target, overlay)
	require.NoError(t, err)

	assert.Equal(t, "debug", target.Logging.Level)
	assert.Equal(t, "console", target.Logging.Format)
	assert.Equal(t, "global-site", target.Pantheon.Site)
}

func TestShallowMergeYAML_NilTarget(t *testing.T) {
	overlay := writeOverlay(t, "logging:\n  level: debug\n")

	err := config.ShallowMergeYAML(nil, overlay)
	require.Error(t, err)
}
