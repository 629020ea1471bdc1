// Package composer inspects a project's composer.json and drives the composer CLI for
// the package and config changes made during setup.
package composer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"

	"github.com/rshade/pxpantheon/internal/execcmd"
)

// ManifestFile is the composer manifest name.
const ManifestFile = "composer.json"

// DefaultBinary is the composer executable.
const DefaultBinary = "composer"

// ErrNoManifest indicates the project has no composer.json.
var ErrNoManifest = errors.New("composer.json not found")

// Manifest is the subset of composer.json this tool reads.
type Manifest struct {
	Name       string            `json:"name"`
	Require    map[string]string `json:"require"`
	RequireDev map[string]string `json:"require-dev"`
}

// HasPackage reports whether name is required in either require or require-dev.
func (m *Manifest) HasPackage(name string) bool {
	if m == nil {
		return false
	}
	if _, ok := m.Require[name]; ok {
		return true
	}
	_, ok := m.RequireDev[name]
	return ok
}

// HasAnyPackage reports whether any of names is required.
func (m *Manifest) HasAnyPackage(names ...string) bool {
	for _, name := range names {
		if m.HasPackage(name) {
			return true
		}
	}
	return false
}

// ParseManifest decodes composer.json content. Comments and trailing commas are tolerated.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(jsonc.ToJSON(data), &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", ManifestFile, err)
	}
	return &m, nil
}

// ReadManifest reads composer.json from projectRoot.
func ReadManifest(projectRoot string) (*Manifest, error) {
	path := filepath.Join(projectRoot, ManifestFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w in %s", ErrNoManifest, projectRoot)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ParseManifest(data)
}

// Client runs composer in the project root.
type Client struct {
	inv *execcmd.Invoker
}

// NewClient returns a composer client over inv. inv.Dir should be the project root.
func NewClient(inv *execcmd.Invoker) *Client {
	return &Client{inv: inv}
}

// ConfigMerge runs composer config --json --merge key value.
func (c *Client) ConfigMerge(ctx context.Context, key string, value any) (execcmd.ExecutionResult, error) {
	encoded, err := json.Marshal(value)
	if err != nil {
		return execcmd.ExecutionResult{}, fmt.Errorf("encoding %s: %w", key, err)
	}
	spec := execcmd.NewCommand("config", key, string(encoded)).Flag("json").Flag("merge")
	return c.inv.Run(ctx, spec)
}

// Require runs composer require for pkg.
func (c *Client) Require(ctx context.Context, pkg string, withAllDependencies bool) (execcmd.ExecutionResult, error) {
	spec := execcmd.NewCommand("require", pkg)
	if withAllDependencies {
		spec.Flag("with-all-dependencies")
	}
	return c.inv.Run(ctx, spec)
}
