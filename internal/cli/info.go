package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/pxpantheon/internal/pantheon"
)

// newInfoCmd creates the info command.
func newInfoCmd(app *appState) *cobra.Command {
	var opts pantheon.InfoOptions

	cmd := &cobra.Command{
		Use:   "info [env]",
		Short: "Show connection information for a site environment",
		Example: `  # Everything terminus knows about dev
  pxpantheon info dev

  # Just the mysql command, for use in scripts
  pxpantheon info dev --mysql-command --single --quiet`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.Env = args[0]
			}
			out, err := app.pantheon(cmd).Info(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if opts.Quiet {
				fmt.Fprintln(cmd.OutOrStdout(), out)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.GitCommand, "git-command", false, "show the git command")
	cmd.Flags().BoolVar(&opts.MySQLCommand, "mysql-command", false, "show the mysql command")
	cmd.Flags().BoolVar(&opts.RedisCommand, "redis-command", false, "show the redis command")
	cmd.Flags().BoolVar(&opts.Single, "single", false, "show only the first selected field")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "print only the value, without the banner")
	return cmd
}
