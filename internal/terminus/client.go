// Package terminus wraps the Pantheon terminus CLI with typed helpers. List output is
// memoized through the TTL cache; everything else goes straight to the invoker.
package terminus

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rshade/pxpantheon/internal/cache"
	"github.com/rshade/pxpantheon/internal/choice"
	"github.com/rshade/pxpantheon/internal/execcmd"
	"github.com/rshade/pxpantheon/internal/logging"
)

// DefaultBinary is the executable name looked up on PATH.
const DefaultBinary = "terminus"

// Client runs terminus sub-commands.
type Client struct {
	inv     *execcmd.Invoker
	cache   *cache.Cache
	listTTL time.Duration
}

// NewClient returns a client. A nil cache disables list memoization.
func NewClient(inv *execcmd.Invoker, c *cache.Cache, listTTL time.Duration) *Client {
	if c == nil {
		c = cache.New(cache.WithEnabled(false))
	}
	if listTTL <= 0 {
		listTTL = cache.DefaultTTL
	}
	return &Client{inv: inv, cache: c, listTTL: listTTL}
}

// SiteEnv joins a site and environment as terminus expects them.
func SiteEnv(site, env string) string {
	return site + "." + env
}

// Installed reports whether the terminus binary is on PATH.
func (c *Client) Installed() bool {
	return c.inv.Installed()
}

// Run executes an arbitrary spec.
func (c *Client) Run(ctx context.Context, spec *execcmd.CommandSpec) (execcmd.ExecutionResult, error) {
	return c.inv.Run(ctx, spec)
}

// Login runs auth:login interactively.
func (c *Client) Login(ctx context.Context) (execcmd.ExecutionResult, error) {
	return c.inv.Run(ctx, execcmd.NewCommand("auth:login"))
}

// InfoRequest selects connection:info fields.
type InfoRequest struct {
	GitCommand   bool
	MySQLCommand bool
	RedisCommand bool
	// Single prints only the first selected field with --field.
	Single bool
	Quiet  bool
}

// Fields returns the selected field names in fixed order.
func (r InfoRequest) Fields() []string {
	var fields []string
	if r.GitCommand {
		fields = append(fields, "git_command")
	}
	if r.MySQLCommand {
		fields = append(fields, "mysql_command")
	}
	if r.RedisCommand {
		fields = append(fields, "redis_command")
	}
	return fields
}

// ConnectionInfo runs connection:info for site.env.
func (c *Client) ConnectionInfo(ctx context.Context, site, env string, req InfoRequest) (execcmd.ExecutionResult, error) {
	spec := execcmd.NewCommand("connection:info", SiteEnv(site, env)).Capture()
	if fields := req.Fields(); len(fields) > 0 {
		if req.Single {
			spec.Option("field", fields[0])
		} else {
			spec.Option("fields", strings.Join(fields, ","))
		}
	}
	if req.Quiet {
		spec.Quiet()
	}
	return c.inv.Run(ctx, spec)
}

// MySQLCommand returns the mysql client command line for site.env.
func (c *Client) MySQLCommand(ctx context.Context, site, env string) (string, error) {
	spec := execcmd.NewCommand("connection:info", SiteEnv(site, env)).
		Option("field", "mysql_command").
		Quiet()
	res, err := c.inv.Run(ctx, spec)
	if err != nil {
		return "", err
	}
	if err := res.Err(c.describe(spec)); err != nil {
		return "", err
	}
	return strings.TrimSpace(res.Output), nil
}

// Credentials are the MySQL connection details of an environment.
type Credentials struct {
	Host     string      `json:"mysql_host"`
	Port     json.Number `json:"mysql_port"`
	Database string      `json:"mysql_database"`
	Username string      `json:"mysql_username"`
	Password string      `json:"mysql_password"`
}

// Valid reports whether enough is known to open a connection.
func (c Credentials) Valid() bool {
	return c.Host != "" && c.Port != "" && c.Username != "" && c.Database != ""
}

// DatabaseCredentials fetches MySQL connection details for site.env.
func (c *Client) DatabaseCredentials(ctx context.Context, site, env string) (Credentials, error) {
	spec := execcmd.NewCommand("connection:info", SiteEnv(site, env)).
		Option("format", "json").
		Option("fields", "mysql_host,mysql_port,mysql_database,mysql_username,mysql_password").
		Quiet()
	res, err := c.inv.Run(ctx, spec)
	if err != nil {
		return Credentials{}, err
	}
	if err := res.Err(c.describe(spec)); err != nil {
		return Credentials{}, err
	}

	var creds Credentials
	if err := json.Unmarshal([]byte(res.Output), &creds); err != nil {
		return Credentials{}, fmt.Errorf("decoding connection info: %w", err)
	}
	return creds, nil
}

// Wake wakes site.env and reports whether it succeeded.
func (c *Client) Wake(ctx context.Context, site, env string) (bool, error) {
	res, err := c.inv.Run(ctx, execcmd.NewCommand("env:wake", SiteEnv(site, env)).Quiet())
	if err != nil {
		return false, err
	}
	return res.Succeeded, nil
}

// MultidevIDs lists the multidev environment ids of site.
func (c *Client) MultidevIDs(ctx context.Context, site string) ([]string, error) {
	spec := execcmd.NewCommand("multidev:list", site).
		Flag("quiet").
		Option("field", "id").
		Quiet()
	res, err := c.inv.Run(ctx, spec)
	if err != nil {
		return nil, err
	}
	if err := res.Err(c.describe(spec)); err != nil {
		return nil, err
	}

	var ids []string
	for _, line := range strings.Split(res.Output, "\n") {
		if id := strings.TrimSpace(line); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// ListJSON returns the JSON output of a list sub-command such as org:list, memoized
// under cache.CommandOutputKey(subCommand).
func (c *Client) ListJSON(ctx context.Context, subCommand string) (json.RawMessage, error) {
	key := cache.CommandOutputKey(subCommand)
	return c.cache.Get(ctx, key, c.listTTL, func(ctx context.Context) (json.RawMessage, error) {
		logging.FromContext(ctx).Debug().
			Ctx(ctx).
			Str("component", "terminus").
			Str("sub_command", subCommand).
			Str("cache_key", key).
			Msg("fetching list output")

		spec := execcmd.NewCommand(subCommand).Option("format", "json").Quiet()
		res, err := c.inv.Run(ctx, spec)
		if err != nil {
			return nil, err
		}
		if err := res.Err(c.describe(spec)); err != nil {
			return nil, err
		}
		return json.RawMessage(res.Output), nil
	})
}

// ListOptions builds a key/label table from a list sub-command's cached output.
func (c *Client) ListOptions(ctx context.Context, subCommand, keyField, labelField string) (choice.Table, error) {
	raw, err := c.ListJSON(ctx, subCommand)
	if err != nil {
		return choice.Table{}, err
	}
	records, err := choice.DecodeRecords(raw)
	if err != nil {
		return choice.Table{}, fmt.Errorf("%s: %w", subCommand, err)
	}
	return choice.BuildTable(records, keyField, labelField), nil
}

// OrgOptions returns organizations keyed by name.
func (c *Client) OrgOptions(ctx context.Context) (choice.Table, error) {
	return c.ListOptions(ctx, "org:list", "name", "label")
}

// UpstreamOptions returns upstreams keyed by machine name.
func (c *Client) UpstreamOptions(ctx context.Context) (choice.Table, error) {
	return c.ListOptions(ctx, "upstream:list", "machine_name", "label")
}

// SiteCreateRequest holds site:create arguments.
type SiteCreateRequest struct {
	Name     string
	Label    string
	Upstream string
	Org      string
}

// SiteCreate runs site:create.
func (c *Client) SiteCreate(ctx context.Context, req SiteCreateRequest) (execcmd.ExecutionResult, error) {
	spec := execcmd.NewCommand("site:create", req.Name, req.Label, req.Upstream)
	if req.Org != "" {
		spec.Option("org", req.Org)
	}
	return c.inv.Run(ctx, spec)
}

// TeamAdd runs site:team:add.
func (c *Client) TeamAdd(ctx context.Context, site, email, role string) (execcmd.ExecutionResult, error) {
	return c.inv.Run(ctx, execcmd.NewCommand("site:team:add", site, email, role))
}

// BackupCreate creates a database backup of site.env.
func (c *Client) BackupCreate(ctx context.Context, site, env string) (execcmd.ExecutionResult, error) {
	return c.inv.Run(ctx, execcmd.NewCommand("backup:create", SiteEnv(site, env)).Option("element", "db"))
}

// BackupGet downloads the latest database backup of site.env to path.
func (c *Client) BackupGet(ctx context.Context, site, env, path string) (execcmd.ExecutionResult, error) {
	spec := execcmd.NewCommand("backup:get", SiteEnv(site, env)).
		Option("element", "db").
		Option("to", path)
	return c.inv.Run(ctx, spec)
}

// RemoteDrush runs drush on site.env. args are joined into a single command string.
func (c *Client) RemoteDrush(ctx context.Context, site, env string, args []string) (execcmd.ExecutionResult, error) {
	spec := execcmd.NewCommand("remote:drush", SiteEnv(site, env))
	if len(args) > 0 {
		spec.Arg("--", strings.Join(args, " "))
	}
	return c.inv.Run(ctx, spec)
}

func (c *Client) describe(spec *execcmd.CommandSpec) string {
	return c.inv.Binary + " " + spec.SubCommand
}
