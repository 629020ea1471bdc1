// Package templates loads the scaffolding files written into a project, such as
// pantheon.yml and the Drupal quicksilver workflow block.
//
// Templates are embedded in the binary. A Loader may be pointed at an override
// directory; files found there win over the embedded copies.
package templates

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// Template names.
const (
	PantheonYML      = "pantheon.yml"
	DrupalWorkflows  = "drupal/pantheon.workflows.txt"
	bannerName       = "banner.txt"
	filesRoot        = "files"
	placeholderOpen  = "{"
	placeholderClose = "}"
)

// ErrTemplateNotFound is returned when no template exists under the requested name.
var ErrTemplateNotFound = errors.New("template not found")

//go:embed files
var embedded embed.FS

// Loader resolves template names against an optional override directory, then the
// embedded set.
type Loader struct {
	overrideDir string
}

// NewLoader returns a loader. An empty overrideDir uses only embedded templates.
func NewLoader(overrideDir string) *Loader {
	return &Loader{overrideDir: overrideDir}
}

// Load returns the raw text of the named template.
func (l *Loader) Load(name string) (string, error) {
	clean := path.Clean(strings.TrimPrefix(filepath.ToSlash(name), "/"))
	if clean == "." || strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}

	if l != nil && l.overrideDir != "" {
		data, err := os.ReadFile(filepath.Join(l.overrideDir, filepath.FromSlash(clean)))
		if err == nil {
			return string(data), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("reading template %s: %w", name, err)
		}
	}

	data, err := embedded.ReadFile(path.Join(filesRoot, clean))
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}
	return string(data), nil
}

// Render loads the named template and replaces each {NAME} placeholder with vars[NAME].
// Placeholders without a value are left untouched.
func (l *Loader) Render(name string, vars map[string]string) (string, error) {
	text, err := l.Load(name)
	if err != nil {
		return "", err
	}

	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		pairs = append(pairs, placeholderOpen+k+placeholderClose, vars[k])
	}
	return strings.NewReplacer(pairs...).Replace(text), nil
}

// Banner returns the artwork shown before interactive workflows.
func (l *Loader) Banner() string {
	text, err := l.Load(bannerName)
	if err != nil {
		return ""
	}
	return text
}
