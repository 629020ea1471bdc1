package cli

import (
	"github.com/spf13/cobra"

	"github.com/rshade/pxpantheon/internal/pantheon"
)

// newCreateSiteCmd creates the create-site command.
func newCreateSiteCmd(app *appState) *cobra.Command {
	var org string

	cmd := &cobra.Command{
		Use:   "create-site [label] [upstream]",
		Short: "Create a new Pantheon site",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pantheon.CreateSiteOptions{Org: org}
			if len(args) > 0 {
				opts.Label = args[0]
			}
			if len(args) > 1 {
				opts.Upstream = args[1]
			}
			return app.pantheon(cmd).CreateSite(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&org, "org", "", "organization to associate the site with")
	return cmd
}
