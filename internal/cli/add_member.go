package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/rshade/pxpantheon/internal/pantheon"
)

// newAddMemberCmd creates the add-member command.
func newAddMemberCmd(app *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "add-member [email] [role]",
		Short: "Add a user to the site team",
		Long:  "Adds a user to the site team. Roles: " + strings.Join(pantheon.Roles(), ", ") + ".",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts pantheon.AddMemberOptions
			if len(args) > 0 {
				opts.Email = args[0]
			}
			if len(args) > 1 {
				opts.Role = args[1]
			}
			return app.pantheon(cmd).AddMember(cmd.Context(), opts)
		},
	}
}
