package cli

import (
	"github.com/spf13/cobra"

	"github.com/rshade/pxpantheon/internal/pantheon"
)

// newSetupCmd creates the setup command.
func newSetupCmd(app *appState) *cobra.Command {
	var opts pantheon.SetupOptions

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Write pantheon.yml and prepare the project framework",
		Long: `Writes pantheon.yml from the configured PHP version. For Drupal projects it also
adds pantheon-systems/drupal-integrations and, when confirmed, the quicksilver workflows.`,
		Example: `  # Use the framework and PHP version from the project config
  pxpantheon setup

  # Override the PHP version for this run
  pxpantheon setup --php-version 8.2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.pantheon(cmd).Setup(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.Framework, "framework", "", "framework to set up (drupal or wordpress)")
	cmd.Flags().StringVar(&opts.PHPVersion, "php-version", "", "PHP version written to pantheon.yml")
	return cmd
}
