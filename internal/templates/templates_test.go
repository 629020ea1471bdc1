package templates

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_LoadEmbedded(t *testing.T) {
	l := NewLoader("")

	yml, err := l.Load(PantheonYML)
	require.NoError(t, err)
	assert.Contains(t, yml, "api_version: 1")
	assert.Contains(t, yml, "{PHP_VERSION}")

	workflows, err := l.Load(DrupalWorkflows)
	require.NoError(t, err)
	assert.Contains(t, workflows, "\nworkflows:\n")
}

func TestLoader_NotFound(t *testing.T) {
	l := NewLoader(t.TempDir())

	for _, name := range []string{"missing.yml", "../go.mod", "", "drupal/nope.txt"} {
		_, err := l.Load(name)
		assert.ErrorIs(t, err, ErrTemplateNotFound, name)
	}
}

func TestLoader_Override(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, PantheonYML), []byte("php_version: {PHP_VERSION}\n"), 0o600))

	l := NewLoader(dir)
	got, err := l.Render(PantheonYML, map[string]string{"PHP_VERSION": "8.2"})
	require.NoError(t, err)
	assert.Equal(t, "php_version: 8.2\n", got)

	// Names absent from the override dir fall back to the embedded set.
	_, err = l.Load(DrupalWorkflows)
	require.NoError(t, err)
}

func TestLoader_Render(t *testing.T) {
	got, err := NewLoader("").Render(PantheonYML, map[string]string{"PHP_VERSION": "8.1"})
	require.NoError(t, err)
	assert.Contains(t, got, "php_version: 8.1\n")
	assert.NotContains(t, got, "{PHP_VERSION}")
}

func TestLoader_Banner(t *testing.T) {
	var l *Loader
	assert.NotEmpty(t, l.Banner())
}
