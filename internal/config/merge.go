package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Top-level YAML config key names used for shallow merge.
const (
	keyPantheon      = "pantheon"
	keyTerminus      = "terminus"
	keyCache         = "cache"
	keyLogging       = "logging"
	keyPaths         = "paths"
	keyLocalDatabase = "local_database"
	keyDatabaseApps  = "database_apps"
)

// knownTopLevelKeys lists the YAML keys that correspond to exported Config fields.
// Keys not in this list are silently ignored during merge.
//
//nolint:gochecknoglobals // Compile-time constant lookup table.
var knownTopLevelKeys = map[string]bool{
	keyPantheon:      true,
	keyTerminus:      true,
	keyCache:         true,
	keyLogging:       true,
	keyPaths:         true,
	keyLocalDatabase: true,
	keyDatabaseApps:  true,
}

// ShallowMergeYAML loads a YAML file and merges its top-level keys onto
// the target Config. Keys present in the overlay replace entire sections
// in the target. Keys absent in the overlay are left unchanged.
func ShallowMergeYAML(target *Config, overlayPath string) error {
	if target == nil {
		return errors.New("nil target *Config in ShallowMergeYAML")
	}

	data, err := os.ReadFile(overlayPath)
	if err != nil {
		return fmt.Errorf("reading overlay file %s: %w", overlayPath, err)
	}

	// Discover which top-level keys are present in the overlay.
	var overlay map[string]interface{}
	if err = yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing overlay YAML from %s: %w", overlayPath, err)
	}

	// Empty or comment-only file: nothing to merge.
	if len(overlay) == 0 {
		return nil
	}

	for key, value := range overlay {
		if !knownTopLevelKeys[key] {
			continue
		}

		// Re-marshal the single section so we can unmarshal it onto the
		// strongly-typed target field.
		sectionBytes, marshalErr := yaml.Marshal(value)
		if marshalErr != nil {
			return fmt.Errorf("re-marshalling overlay section %q: %w", key, marshalErr)
		}

		if err = unmarshalSection(target, key, sectionBytes); err != nil {
			return fmt.Errorf("applying overlay section %q: %w", key, err)
		}
	}

	return nil
}

// unmarshalSection unmarshals raw YAML bytes into the correct field of target
// based on the given key name. Each section is unmarshalled into a fresh
// zero-value to ensure complete replacement (yaml.Unmarshal merges into
// existing maps, which would violate shallow-merge semantics).
func unmarshalSection(target *Config, key string, data []byte) error {
	switch key {
	case keyPantheon:
		return replaceSection(data, &target.Pantheon)
	case keyTerminus:
		return replaceSection(data, &target.Terminus)
	case keyCache:
		return replaceSection(data, &target.Cache)
	case keyLogging:
		return replaceSection(data, &target.Logging)
	case keyPaths:
		return replaceSection(data, &target.Paths)
	case keyLocalDatabase:
		return replaceSection(data, &target.LocalDatabase)
	case keyDatabaseApps:
		return replaceSection(data, &target.DatabaseApps)
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
}

// replaceSection decodes data into a zero value of T and then assigns it to dst.
func replaceSection[T any](data []byte, dst *T) error {
	var v T
	if err := yaml.Unmarshal(data, &v); err != nil {
		return err
	}
	*dst = v
	return nil
}
