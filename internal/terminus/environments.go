package terminus

import (
	"context"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/rshade/pxpantheon/internal/choice"
	"github.com/rshade/pxpantheon/internal/logging"
)

// Standard environment names.
const (
	EnvDev  = "dev"
	EnvTest = "test"
	EnvLive = "live"
)

var titleCaser = cases.Title(language.English)

// StandardEnvironments returns dev, test and live with their display labels.
func StandardEnvironments() choice.Table {
	names := []string{EnvDev, EnvTest, EnvLive}
	entries := make([]choice.Entry, 0, len(names))
	for _, name := range names {
		entries = append(entries, choice.Entry{Key: name, Label: titleCaser.String(name)})
	}
	return choice.NewTable(entries...)
}

// IsStandardEnvironment reports whether env is dev, test or live.
func IsStandardEnvironment(env string) bool {
	return StandardEnvironments().Has(env)
}

// Environments returns the standard environments plus the site's multidevs. A failed
// multidev lookup is logged and yields only the standard set.
func (c *Client) Environments(ctx context.Context, site string) choice.Table {
	envs := StandardEnvironments()

	ids, err := c.MultidevIDs(ctx, site)
	if err != nil {
		logging.FromContext(ctx).Warn().
			Ctx(ctx).
			Str("component", "terminus").
			Str("site", site).
			Err(err).
			Msg("multidev lookup failed")
		return envs
	}

	multidevs := make([]choice.Entry, 0, len(ids))
	for _, id := range ids {
		multidevs = append(multidevs, choice.Entry{Key: id, Label: id})
	}
	return envs.Merge(choice.NewTable(multidevs...))
}
