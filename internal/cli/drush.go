package cli

import (
	"github.com/spf13/cobra"

	"github.com/rshade/pxpantheon/internal/pantheon"
)

// newDrushCmd creates the drush command.
func newDrushCmd(app *appState) *cobra.Command {
	var env string

	cmd := &cobra.Command{
		Use:     "drush [command...]",
		Aliases: []string{"remote:drush", "drupal"},
		Short:   "Run a drush command on a site environment",
		Example: `  # Rebuild caches on dev
  pxpantheon drush --env dev -- cr

  # One-time login link, asking for the environment
  pxpantheon drush -- uli --name=admin`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.pantheon(cmd).Drush(cmd.Context(), pantheon.DrushOptions{Env: env, Args: args})
		},
	}

	cmd.Flags().StringVar(&env, "env", "", "site environment (asked when omitted)")
	return cmd
}
