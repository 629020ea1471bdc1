package cli

import (
	"github.com/spf13/cobra"

	"github.com/rshade/pxpantheon/internal/pantheon"
)

// newImportCmd creates the import command.
func newImportCmd(app *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "import [db-file] [env]",
		Short: "Import a database into the dev environment or a multidev",
		Long: `Imports a database dump into a Pantheon environment. Without a file the local
database is exported first. Only dev and multidev environments are accepted.`,
		Example: `  # Push the local database to dev
  pxpantheon import

  # Import a dump into a multidev
  pxpantheon import ./backup.sql.gz feature-x`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts pantheon.ImportOptions
			if len(args) > 0 {
				opts.File = args[0]
			}
			if len(args) > 1 {
				opts.Env = args[1]
			}
			return app.pantheon(cmd).Import(cmd.Context(), opts)
		},
	}
}
