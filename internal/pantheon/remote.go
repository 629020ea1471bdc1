package pantheon

import (
	"context"

	"github.com/rshade/pxpantheon/internal/terminus"
)

// Login authenticates terminus with the Pantheon platform.
func (s *Service) Login(ctx context.Context) error {
	s.logStart(ctx, "login")
	s.banner()

	res, err := s.terminus.Login(ctx)
	return checkResult("terminus auth:login", res, err)
}

// InfoOptions selects what Info shows.
type InfoOptions struct {
	Env          string
	GitCommand   bool
	MySQLCommand bool
	RedisCommand bool
	// Single shows only the first selected field.
	Single bool
	// Quiet suppresses the banner and the echo of terminus output.
	Quiet bool
}

// Info shows connection details for an environment and returns terminus' output.
func (s *Service) Info(ctx context.Context, opts InfoOptions) (string, error) {
	s.logStart(ctx, "info")
	if !opts.Quiet {
		s.banner()
	}

	var (
		site, env string
		output    string
	)
	wf := NewWorkflow("info").
		Validate("site", func(context.Context) error {
			var err error
			site, err = s.siteName()
			return err
		}).
		Validate("environment", func(ctx context.Context) error {
			var err error
			env, err = s.SelectEnvironment(ctx, opts.Env, terminus.EnvDev)
			return err
		}).
		Then("connection info", func(ctx context.Context) error {
			res, err := s.terminus.ConnectionInfo(ctx, site, env, terminus.InfoRequest{
				GitCommand:   opts.GitCommand,
				MySQLCommand: opts.MySQLCommand,
				RedisCommand: opts.RedisCommand,
				Single:       opts.Single,
				Quiet:        opts.Quiet,
			})
			if err := checkResult("terminus connection:info", res, err); err != nil {
				return err
			}
			output = res.Output
			return nil
		})

	if err := wf.Run(ctx); err != nil {
		return "", err
	}
	return output, nil
}

// DrushOptions holds a remote drush invocation.
type DrushOptions struct {
	Env  string
	Args []string
}

// Drush runs a drush command on the site's environment.
func (s *Service) Drush(ctx context.Context, opts DrushOptions) error {
	s.logStart(ctx, "drush")

	var site, env string
	return NewWorkflow("drush").
		Validate("site", func(context.Context) error {
			var err error
			site, err = s.siteName()
			return err
		}).
		Validate("environment", func(ctx context.Context) error {
			var err error
			env, err = s.SelectEnvironment(ctx, opts.Env, terminus.EnvDev)
			return err
		}).
		Then("remote drush", func(ctx context.Context) error {
			res, err := s.terminus.RemoteDrush(ctx, site, env, opts.Args)
			return checkResult("terminus remote:drush", res, err)
		}).
		Run(ctx)
}
