package cli

import (
	"github.com/spf13/cobra"

	"github.com/rshade/pxpantheon/internal/pantheon"
)

// newMySQLCmd creates the mysql command.
func newMySQLCmd(app *appState) *cobra.Command {
	var opts pantheon.MySQLOptions

	cmd := &cobra.Command{
		Use:   "mysql [env]",
		Short: "Open a MySQL session on a site environment",
		Example: `  # Connect with the mysql client
  pxpantheon mysql dev

  # Open the database in a configured application
  pxpantheon mysql dev --launch --app-name tableplus`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.Env = args[0]
			}
			return app.pantheon(cmd).MySQL(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Launch, "launch", false, "open the database in a configured application")
	cmd.Flags().StringVar(&opts.AppName, "app-name", "", "application from database_apps to launch")
	return cmd
}
