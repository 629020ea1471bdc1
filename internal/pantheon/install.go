package pantheon

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"al.essio.dev/pkg/shellescape"
	"github.com/Masterminds/semver/v3"

	"github.com/rshade/pxpantheon/internal/execcmd"
	"github.com/rshade/pxpantheon/internal/logging"
)

// Terminus release locations.
const (
	TerminusStableVersion = "3.0.5"
	terminusLatestURL     = "https://api.github.com/repos/pantheon-systems/terminus/releases/latest"
	terminusDownloadURL   = "https://github.com/pantheon-systems/terminus/releases/download/%s/terminus.phar"
	defaultLinkPath       = "/usr/local/bin/terminus"
)

// ReleaseSource looks up the latest terminus release tag.
type ReleaseSource interface {
	LatestVersion(ctx context.Context) (string, error)
}

// GitHubReleases reads the latest release tag from the GitHub API with curl.
type GitHubReleases struct {
	shell *execcmd.Shell
	url   string
}

// NewGitHubReleases returns a ReleaseSource backed by shell.
func NewGitHubReleases(shell *execcmd.Shell) *GitHubReleases {
	return &GitHubReleases{shell: shell, url: terminusLatestURL}
}

// LatestVersion implements ReleaseSource. An empty tag is returned as "".
func (g *GitHubReleases) LatestVersion(ctx context.Context) (string, error) {
	res, err := g.shell.Run(ctx, "curl --silent "+shellescape.Quote(g.url), true)
	if err = checkResult("fetching the latest terminus release", res, err); err != nil {
		return "", err
	}

	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := json.Unmarshal([]byte(res.Output), &release); err != nil {
		return "", fmt.Errorf("decoding the latest terminus release: %w", err)
	}
	return strings.TrimSpace(release.TagName), nil
}

// InstallTerminusOptions controls where terminus is installed.
type InstallTerminusOptions struct {
	// Version pins the release; defaults to the latest release tag.
	Version string
	// InstallDir defaults to ~/.terminus/bin.
	InstallDir string
	// LinkPath defaults to /usr/local/bin/terminus.
	LinkPath string
}

// InstallTerminus downloads the terminus phar and links it onto PATH. It does nothing
// when terminus is already installed.
func (s *Service) InstallTerminus(ctx context.Context, opts InstallTerminusOptions) error {
	s.logStart(ctx, "install-terminus")
	s.banner()

	if s.terminus.Installed() {
		s.reporter.Note("The terminus utility has already been installed!")
		return nil
	}

	var (
		version    string
		installDir = opts.InstallDir
		linkPath   = opts.LinkPath
	)
	err := NewWorkflow("install-terminus").
		Validate("version", func(ctx context.Context) error {
			var err error
			version, err = s.resolveTerminusVersion(ctx, opts.Version)
			return err
		}).
		Validate("paths", func(context.Context) error {
			if installDir == "" {
				if s.homeDir == "" {
					return missingConfig("unable to determine the home directory for the terminus install")
				}
				installDir = filepath.Join(s.homeDir, ".terminus", "bin")
			}
			if linkPath == "" {
				linkPath = defaultLinkPath
			}
			return nil
		}).
		Then("download", func(ctx context.Context) error {
			binary := filepath.Join(installDir, "terminus")
			res, err := s.shell.RunAll(ctx, []string{
				"mkdir -p " + shellescape.Quote(installDir),
				fmt.Sprintf("curl -L %s --output %s",
					shellescape.Quote(fmt.Sprintf(terminusDownloadURL, version)), shellescape.Quote(binary)),
				"chmod +x " + shellescape.Quote(binary),
				fmt.Sprintf("sudo ln -s %s %s", shellescape.Quote(binary), shellescape.Quote(linkPath)),
			}, false)
			return checkResult("terminus install", res, err)
		}).
		Run(ctx)
	if err != nil {
		return err
	}

	s.reporter.Success("The terminus utility has successfully been installed!")
	return nil
}

func (s *Service) resolveTerminusVersion(ctx context.Context, requested string) (string, error) {
	version := strings.TrimSpace(requested)
	if version == "" {
		latest, err := s.releases.LatestVersion(ctx)
		if err != nil {
			logging.FromContext(ctx).Warn().
				Ctx(ctx).
				Str("component", "pantheon").
				Str("operation", "install-terminus").
				Err(err).
				Msg("latest release lookup failed, using the stable version")
		}
		version = latest
	}
	if version == "" {
		version = TerminusStableVersion
	}

	if _, err := semver.NewVersion(version); err != nil {
		return "", invalidInput("the terminus version %q is not a valid semantic version", version)
	}
	return version, nil
}
