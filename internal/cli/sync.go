package cli

import (
	"github.com/spf13/cobra"

	"github.com/rshade/pxpantheon/internal/pantheon"
)

// newSyncCmd creates the sync command.
func newSyncCmd(app *appState) *cobra.Command {
	var opts pantheon.SyncOptions

	cmd := &cobra.Command{
		Use:   "sync [env]",
		Short: "Sync a site environment database into the local environment",
		Example: `  # Fresh backup of dev, downloaded and imported locally
  pxpantheon sync dev

  # Reuse the latest backup
  pxpantheon sync live --no-backup`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.Env = args[0]
			}
			return app.pantheon(cmd).Sync(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.NoBackup, "no-backup", false, "skip creating a new backup")
	cmd.Flags().StringVar(&opts.Filename, "filename", pantheon.DefaultSyncFilename, "backup file name in the project temp dir")
	return cmd
}
