package cli

import (
	"github.com/spf13/cobra"

	"github.com/rshade/pxpantheon/internal/pantheon"
)

// newExportCmd creates the export command.
func newExportCmd(app *appState) *cobra.Command {
	var opts pantheon.ExportOptions

	cmd := &cobra.Command{
		Use:   "export [env]",
		Short: "Download a database backup of a site environment",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.Env = args[0]
			}
			_, err := app.pantheon(cmd).Export(cmd.Context(), opts)
			return err
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "destination file (default <project>/<site>.<env>.sql.gz)")
	cmd.Flags().BoolVar(&opts.NoBackup, "no-backup", false, "download the latest backup instead of creating one")
	return cmd
}
