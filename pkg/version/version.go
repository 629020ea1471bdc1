// Package version exposes build-time version information for pxpantheon.
package version

import "runtime/debug"

// These are overridden at build time via -ldflags "-X".
//
//nolint:gochecknoglobals // Set by the linker.
var (
	version   = ""
	gitCommit = ""
	buildDate = ""
)

// defaultVersion is reported when neither ldflags nor module build info provide one.
const defaultVersion = "0.0.0-dev"

// GetVersion returns the semantic version of the running binary.
func GetVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return defaultVersion
}

// GetGitCommit returns the git commit the binary was built from, if known.
func GetGitCommit() string {
	return gitCommit
}

// GetBuildDate returns the build timestamp, if known.
func GetBuildDate() string {
	return buildDate
}
