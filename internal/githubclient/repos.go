package githubclient

import (
	"context"

	"github.com/google/go-github/v47/github"
	"github.com/hashicorp/go-hclog"

	"github.com/actionsguard/actionsguard/pkg/shared/errors"
)

const reposPerPage = 100

// ResolveOrganization lists an organization's repositories, dropping
// archived repos and applying the only/exclude filters.
func (c *Client) ResolveOrganization(ctx context.Context, orgName string, exclude, only []string) ([]RepositoryHandle, error) {
	c.logger.Info("fetching repositories from organization", "org", orgName)

	opts := &github.RepositoryListByOrgOptions{
		ListOptions: github.ListOptions{PerPage: reposPerPage},
	}

	var handles []RepositoryHandle
	for {
		var repos []*github.Repository
		var resp *github.Response
		err := c.withRetry(ctx, "list org repositories", func() error {
			var listErr error
			repos, resp, listErr = c.gh.Repositories.ListByOrg(ctx, orgName, opts)
			return listErr
		})
		if err != nil {
			switch errors.KindOf(err) {
			case errors.KindNotFound:
				return nil, errors.Wrap(errors.KindNotFound, err,
					"organization %q not found: check the name and ensure you have access", orgName)
			case errors.KindPermissionDenied:
				return nil, errors.Wrap(errors.KindPermissionDenied, err,
					"no permission to access organization %q: check token has 'read:org' scope", orgName)
			}
			return nil, err
		}

		handles = appendFiltered(handles, repos, filterOptions{exclude: exclude, only: only, includeForks: true}, c.logger)

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	c.logger.Info("resolved organization repositories", "org", orgName, "count", len(handles))
	return handles, nil
}

// ResolveUser lists a user's repositories. An empty username, or one that
// matches the authenticated identity, uses the authenticated endpoint so
// private repositories are visible. Forks are dropped unless includeForks
// is set or the fork is explicitly named in only.
func (c *Client) ResolveUser(ctx context.Context, username string, exclude, only []string, includeForks bool) ([]RepositoryHandle, error) {
	listUser := username
	if username == "" || username == c.login {
		// Authenticated endpoint; the empty string selects the token's owner.
		listUser = ""
		c.logger.Info("fetching repositories for authenticated user", "login", c.login)
	} else {
		c.logger.Info("fetching repositories for user", "user", username)
	}

	opts := &github.RepositoryListOptions{
		ListOptions: github.ListOptions{PerPage: reposPerPage},
	}

	var handles []RepositoryHandle
	for {
		var repos []*github.Repository
		var resp *github.Response
		err := c.withRetry(ctx, "list user repositories", func() error {
			var listErr error
			repos, resp, listErr = c.gh.Repositories.List(ctx, listUser, opts)
			return listErr
		})
		if err != nil {
			switch errors.KindOf(err) {
			case errors.KindNotFound:
				return nil, errors.Wrap(errors.KindNotFound, err,
					"user %q not found: check the name and ensure you have access", username)
			case errors.KindPermissionDenied:
				return nil, errors.Wrap(errors.KindPermissionDenied, err,
					"no permission to access user %q repositories", username)
			}
			return nil, err
		}

		handles = appendFiltered(handles, repos, filterOptions{exclude: exclude, only: only, includeForks: includeForks}, c.logger)

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	c.logger.Info("resolved user repositories", "user", username, "count", len(handles))
	return handles, nil
}

// ResolveSingle looks up one repository by its "owner/name" reference.
func (c *Client) ResolveSingle(ctx context.Context, fullName string) (RepositoryHandle, error) {
	owner, name, err := SplitFullName(fullName)
	if err != nil {
		return RepositoryHandle{}, err
	}

	var repo *github.Repository
	err = c.withRetry(ctx, "get repository", func() error {
		var getErr error
		repo, _, getErr = c.gh.Repositories.Get(ctx, owner, name)
		return getErr
	})
	if err != nil {
		switch errors.KindOf(err) {
		case errors.KindNotFound:
			return RepositoryHandle{}, errors.Wrap(errors.KindNotFound, err,
				"repository %q not found: check the name and ensure you have access", fullName)
		case errors.KindPermissionDenied:
			return RepositoryHandle{}, errors.Wrap(errors.KindPermissionDenied, err,
				"no permission to access repository %q", fullName)
		}
		return RepositoryHandle{}, err
	}

	c.logger.Debug("fetched repository", "repo", repo.GetFullName())
	return newHandle(repo), nil
}

type filterOptions struct {
	exclude      []string
	only         []string
	includeForks bool
}

// appendFiltered applies the archived/fork/only/exclude rules to one page
// of listing results.
func appendFiltered(handles []RepositoryHandle, repos []*github.Repository, opts filterOptions, logger hclog.Logger) []RepositoryHandle {
	for _, repo := range repos {
		handle := newHandle(repo)

		if handle.Archived {
			logger.Debug("skipping archived repo", "repo", handle.Name)
			continue
		}
		if handle.Fork && !opts.includeForks && !containsName(opts.only, handle.Name) {
			logger.Debug("skipping forked repo", "repo", handle.Name)
			continue
		}
		if len(opts.only) > 0 && !containsName(opts.only, handle.Name) {
			continue
		}
		if containsName(opts.exclude, handle.Name) {
			logger.Debug("excluding repo", "repo", handle.Name)
			continue
		}

		handles = append(handles, handle)
	}
	return handles
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
