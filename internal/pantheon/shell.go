package pantheon

import (
	"regexp"
	"sort"
	"strings"

	"al.essio.dev/pkg/shellescape"
)

var envNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

func validateEnvName(env string) error {
	if !envNamePattern.MatchString(env) {
		return invalidInput("environment name %q is malformed", env)
	}
	return nil
}

// renderCommand substitutes {name} placeholders in tmpl with shell-quoted values.
func renderCommand(tmpl string, vars map[string]string) string {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		pairs = append(pairs, "{"+k+"}", shellescape.Quote(vars[k]))
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}
