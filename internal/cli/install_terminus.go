package cli

import (
	"github.com/spf13/cobra"

	"github.com/rshade/pxpantheon/internal/pantheon"
)

// newInstallTerminusCmd creates the install-terminus command.
func newInstallTerminusCmd(app *appState) *cobra.Command {
	var opts pantheon.InstallTerminusOptions

	cmd := &cobra.Command{
		Use:   "install-terminus [version]",
		Short: "Install the terminus utility system-wide",
		Long: `Downloads terminus.phar from GitHub and links it onto PATH. Without a version the
latest release is used, falling back to ` + pantheon.TerminusStableVersion + `.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.Version = args[0]
			}
			return app.pantheon(cmd).InstallTerminus(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.InstallDir, "install-dir", "", "directory for terminus.phar (default ~/.terminus/bin)")
	cmd.Flags().StringVar(&opts.LinkPath, "link-path", "", "symlink created with sudo (default /usr/local/bin/terminus)")
	return cmd
}
