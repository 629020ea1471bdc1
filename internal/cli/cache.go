package cli

import (
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rshade/pxpantheon/internal/cache"
)

// newCacheCmd creates the cache command group for the terminus list cache.
func newCacheCmd(app *appState) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "cache",
		Short:       "Inspect and prune the terminus list cache",
		Annotations: map[string]string{annotationConfigOptional: "true"},
	}
	cmd.AddCommand(
		newCacheStatsCmd(app),
		newCacheListCmd(app),
		newCacheClearCmd(app),
		newCacheCleanupCmd(app),
	)
	return cmd
}

func newCacheStatsCmd(app *appState) *cobra.Command {
	return &cobra.Command{
		Use:         "stats",
		Short:       "Show cache location, size and TTL",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationConfigOptional: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := app.fileStore()
			if err != nil {
				return err
			}
			stats, err := store.Stats(time.Now())
			if err != nil {
				return err
			}

			p := message.NewPrinter(language.English)
			reporter := app.reporter(cmd)
			reporter.KeyValue("Directory", store.Dir())
			reporter.KeyValue("Enabled", p.Sprintf("%t", app.cacheEnabled()))
			reporter.KeyValue("Entries", p.Sprintf("%d", stats.Entries))
			reporter.KeyValue("Expired", p.Sprintf("%d", stats.Expired))
			reporter.KeyValue("Size", p.Sprintf("%d bytes", stats.Bytes))
			reporter.KeyValue("TTL", cache.FormatDuration(app.listTTL()))
			return nil
		},
	}
}

func newCacheListCmd(app *appState) *cobra.Command {
	return &cobra.Command{
		Use:         "list",
		Short:       "List cached entries and the time each has left",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationConfigOptional: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := app.fileStore()
			if err != nil {
				return err
			}
			entries, err := store.List()
			if err != nil {
				return err
			}

			now := time.Now()
			reporter := app.reporter(cmd)
			for _, entry := range entries {
				if entry.IsExpiredAt(now) {
					reporter.KeyValue(entry.Key, "expired")
					continue
				}
				reporter.KeyValue(entry.Key, cache.FormatDuration(entry.Remaining(now)))
			}
			return nil
		},
	}
}

func newCacheClearCmd(app *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "clear [sub-command...]",
		Short: "Remove cached entries",
		Long: `Removes every cached entry, or only the output of the named terminus
list sub-commands.`,
		Example: `  # Drop everything
  pxpantheon cache clear

  # Refetch the upstream list on the next site creation
  pxpantheon cache clear upstream:list`,
		Annotations: map[string]string{annotationConfigOptional: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.fileStore()
			if err != nil {
				return err
			}
			c := cache.New(cache.WithStore(store))
			reporter := app.reporter(cmd)

			if len(args) == 0 {
				if err = c.Clear(); err != nil {
					return err
				}
				reporter.Success("The cache was cleared.")
				return nil
			}
			for _, sub := range args {
				if err = c.Invalidate(cache.CommandOutputKey(sub)); err != nil {
					return err
				}
				reporter.Success("Removed the cached output of " + sub + ".")
			}
			return nil
		},
	}
}

func newCacheCleanupCmd(app *appState) *cobra.Command {
	return &cobra.Command{
		Use:         "cleanup",
		Short:       "Remove expired cache entries",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationConfigOptional: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := app.fileStore()
			if err != nil {
				return err
			}
			removed, err := store.CleanupExpired(time.Now())
			if err != nil {
				return err
			}
			p := message.NewPrinter(language.English)
			app.reporter(cmd).Success(p.Sprintf("Removed %d expired cache entries.", removed))
			return nil
		},
	}
}
