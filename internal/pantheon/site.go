package pantheon

import (
	"context"
	"fmt"
	"net/mail"
	"slices"
	"strings"

	"github.com/rshade/pxpantheon/internal/terminus"
)

// DefaultUpstream is preselected when choosing a site upstream.
const DefaultUpstream = "empty"

// Team roles accepted by AddMember.
const (
	RoleDeveloper  = "developer"
	RoleTeamMember = "team_member"
)

// Roles lists the accepted team roles.
func Roles() []string {
	return []string{RoleDeveloper, RoleTeamMember}
}

// CreateSiteOptions holds site:create inputs. Empty fields are prompted for.
type CreateSiteOptions struct {
	Label    string
	Upstream string
	// Org skips the organization prompt when set.
	Org string
}

// MachineName derives a site machine name from its label.
func MachineName(label string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(label), " ", "-"))
}

func requireLabel(v string) error {
	if strings.TrimSpace(v) == "" {
		return invalidInput("the site label is required")
	}
	return nil
}

// CreateSite creates a new site on the platform.
func (s *Service) CreateSite(ctx context.Context, opts CreateSiteOptions) error {
	s.logStart(ctx, "create-site")
	s.banner()

	req := terminus.SiteCreateRequest{Label: opts.Label, Upstream: opts.Upstream, Org: opts.Org}

	err := NewWorkflow("create-site").
		Validate("label", func(ctx context.Context) error {
			if req.Label != "" {
				return requireLabel(req.Label)
			}
			label, err := s.prompter.Ask(ctx, "Input the site label", "", requireLabel)
			req.Label = label
			return err
		}).
		Validate("upstream", func(ctx context.Context) error {
			upstreams, err := s.terminus.UpstreamOptions(ctx)
			if err != nil {
				return asCommandError("terminus upstream:list", err)
			}
			if req.Upstream == "" {
				req.Upstream, err = s.prompter.Choose(ctx, "Select the site upstream", upstreams, DefaultUpstream)
				if err != nil {
					return err
				}
			}
			if !upstreams.Has(req.Upstream) {
				return invalidInput("the site upstream value %q is invalid", req.Upstream)
			}
			req.Name = MachineName(req.Label)
			return nil
		}).
		Validate("organization", func(ctx context.Context) error {
			return s.resolveOrg(ctx, &req)
		}).
		Then("site create", func(ctx context.Context) error {
			res, err := s.terminus.SiteCreate(ctx, req)
			return checkResult("terminus site:create", res, err)
		}).
		Run(ctx)
	if err != nil {
		return err
	}

	s.reporter.Success("The pantheon site was successfully created!")
	return nil
}

func (s *Service) resolveOrg(ctx context.Context, req *terminus.SiteCreateRequest) error {
	if req.Org == "" {
		associate, err := s.prompter.Confirm(ctx, "Associate the site with an organization?", false)
		if err != nil || !associate {
			return err
		}
	}

	orgs, err := s.terminus.OrgOptions(ctx)
	if err != nil {
		return asCommandError("terminus org:list", err)
	}

	if req.Org != "" {
		if !orgs.Has(req.Org) {
			return invalidInput("the organization %q is not available", req.Org)
		}
		return nil
	}
	if orgs.Len() == 0 {
		return nil
	}
	req.Org, err = s.prompter.Choose(ctx, "Select an organization", orgs, "")
	return err
}

// AddMemberOptions holds site:team:add inputs.
type AddMemberOptions struct {
	Email string
	// Role defaults to team_member.
	Role string
}

func validateEmail(v string) error {
	if strings.TrimSpace(v) == "" {
		return invalidInput("the user email address is required")
	}
	addr, err := mail.ParseAddress(v)
	if err != nil || addr.Address != v {
		return invalidInput("the user email address %q is invalid", v)
	}
	return nil
}

// AddMember adds a user to the site's team.
func (s *Service) AddMember(ctx context.Context, opts AddMemberOptions) error {
	s.logStart(ctx, "add-member")
	s.banner()

	var site string
	email := opts.Email
	role := opts.Role
	if role == "" {
		role = RoleTeamMember
	}

	err := NewWorkflow("add-member").
		Validate("site", func(context.Context) error {
			var err error
			site, err = s.siteName()
			return err
		}).
		Validate("email", func(ctx context.Context) error {
			if email != "" {
				return validateEmail(email)
			}
			var err error
			email, err = s.prompter.Ask(ctx, "Input the site user email address", "", validateEmail)
			return err
		}).
		Validate("role", func(context.Context) error {
			if !slices.Contains(Roles(), role) {
				return invalidInput("the user role %q is invalid; expected one of %s", role, strings.Join(Roles(), ", "))
			}
			return nil
		}).
		Then("team add", func(ctx context.Context) error {
			res, err := s.terminus.TeamAdd(ctx, site, email, role)
			return checkResult("terminus site:team:add", res, err)
		}).
		Run(ctx)
	if err != nil {
		return err
	}

	s.reporter.Success(fmt.Sprintf("The user with %s email has successfully been added!", email))
	return nil
}
