package cli

import (
	"github.com/spf13/cobra"
)

// newEnvCmd creates the env command group.
func newEnvCmd(app *appState) *cobra.Command {
	cmd := &cobra.Command{Use: "env", Short: "Site environment commands"}
	cmd.AddCommand(newEnvListCmd(app))
	return cmd
}

func newEnvListCmd(app *appState) *cobra.Command {
	var exclude []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the site's environments, including multidevs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			envs, err := app.pantheon(cmd).Environments(cmd.Context(), exclude...)
			if err != nil {
				return err
			}
			reporter := app.reporter(cmd)
			for _, entry := range envs.Entries() {
				reporter.KeyValue(entry.Key, entry.Label)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "environments to leave out")
	return cmd
}
