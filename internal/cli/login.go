package cli

import (
	"github.com/spf13/cobra"
)

// newLoginCmd creates the login command.
func newLoginCmd(app *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Authenticate terminus with the Pantheon platform",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.pantheon(cmd).Login(cmd.Context())
		},
	}
}
