package composer_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/pxpantheon/internal/composer"
	"github.com/rshade/pxpantheon/internal/execcmd"
	"github.com/rshade/pxpantheon/internal/execcmd/execcmdtest"
)

func TestReadManifest(t *testing.T) {
	dir := t.TempDir()
	content := `{
		// project manifest
		"name": "acme/site",
		"require": {
			"drupal/core-recommended": "^10",
		},
		"require-dev": {"drush/drush": "^12"},
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, composer.ManifestFile), []byte(content), 0o600))

	m, err := composer.ReadManifest(dir)
	require.NoError(t, err)
	assert.Equal(t, "acme/site", m.Name)
	assert.True(t, m.HasPackage("drupal/core-recommended"))
	assert.True(t, m.HasPackage("drush/drush"))
	assert.False(t, m.HasPackage("drupal/core"))
	assert.True(t, m.HasAnyPackage("drupal/core", "drupal/core-recommended"))
	assert.False(t, m.HasAnyPackage("pantheon-systems/drupal-integrations"))
}

func TestReadManifest_Missing(t *testing.T) {
	_, err := composer.ReadManifest(t.TempDir())
	assert.ErrorIs(t, err, composer.ErrNoManifest)
}

func TestParseManifest_Invalid(t *testing.T) {
	_, err := composer.ParseManifest([]byte(`{"require": [`))
	assert.Error(t, err)

	var nilManifest *composer.Manifest
	assert.False(t, nilManifest.HasPackage("x"))
}

func TestClient_Commands(t *testing.T) {
	runner := execcmdtest.NewFakeRunner()
	client := composer.NewClient(&execcmd.Invoker{
		Binary: composer.DefaultBinary,
		Dir:    "/project",
		Runner: runner,
		Stdout: io.Discard,
		Stderr: io.Discard,
	})
	ctx := context.Background()

	_, err := client.ConfigMerge(ctx, "extra.drupal-scaffold.allowed-packages", []string{"pantheon-systems/drupal-integrations"})
	require.NoError(t, err)
	_, err = client.Require(ctx, "pantheon-systems/drupal-integrations", true)
	require.NoError(t, err)
	_, err = client.Require(ctx, "pr0ject-x/pantheon-drupal-quicksilver", false)
	require.NoError(t, err)

	assert.Equal(t, []string{
		`composer config extra.drupal-scaffold.allowed-packages ["pantheon-systems/drupal-integrations"] --json --merge`,
		"composer require pantheon-systems/drupal-integrations --with-all-dependencies",
		"composer require pr0ject-x/pantheon-drupal-quicksilver",
	}, runner.Lines())
	assert.Equal(t, "/project", runner.Calls()[0].Dir)
}
