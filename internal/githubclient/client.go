// Package githubclient resolves scan targets into concrete repository
// handles through the GitHub REST API.
package githubclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/go-github/v47/github"
	"github.com/gregjones/httpcache"
	"github.com/hashicorp/go-hclog"
	"golang.org/x/oauth2"

	"github.com/actionsguard/actionsguard/pkg/shared/errors"
)

// RepositoryHandle is an immutable reference to a remote repository.
type RepositoryHandle struct {
	FullName string `json:"full_name"`
	Name     string `json:"name"`
	URL      string `json:"url"`
	Archived bool   `json:"archived"`
	Fork     bool   `json:"fork"`
	Private  bool   `json:"private"`
}

// Client wraps the GitHub API for repository resolution and workflow checks.
type Client struct {
	gh     *github.Client
	login  string
	retry  RetryPolicy
	logger hclog.Logger
}

// NewClient creates an authenticated client and validates the token.
// The transport stack layers conditional-request caching under the OAuth2
// token source so repeated listing calls spend fewer rate-limit points.
func NewClient(ctx context.Context, token string, logger hclog.Logger) (*Client, error) {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   cacheTransport,
			Source: oauth2.ReuseTokenSource(nil, tokenSource),
		},
	}

	c := &Client{
		gh:     github.NewClient(httpClient),
		retry:  DefaultRetryPolicy(),
		logger: logger,
	}

	if err := c.validateToken(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// NewClientWithBaseURL creates an unauthenticated client against a custom
// API endpoint. Intended for tests with an httptest server.
func NewClientWithBaseURL(httpClient *http.Client, baseURL string, logger hclog.Logger) (*Client, error) {
	client := github.NewClient(httpClient)

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client.BaseURL = u

	return &Client{
		gh:     client,
		retry:  DefaultRetryPolicy(),
		logger: logger,
	}, nil
}

// SetRetryPolicy overrides the default retry behavior.
func (c *Client) SetRetryPolicy(policy RetryPolicy) {
	c.retry = policy
}

// validateToken resolves the authenticated identity, failing fast on an
// invalid token before any repository access starts.
func (c *Client) validateToken(ctx context.Context) error {
	user, resp, err := c.gh.Users.Get(ctx, "")
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return errors.Wrap(errors.KindPermissionDenied, err,
				"invalid GitHub token: check the token has 'repo' and 'read:org' scopes")
		}
		return classifyAPIError(err)
	}
	c.login = user.GetLogin()
	c.logger.Debug("authenticated to GitHub", "login", c.login)
	return nil
}

// AuthenticatedLogin returns the login resolved during token validation.
func (c *Client) AuthenticatedLogin() string {
	return c.login
}

// HasWorkflows reports whether the repository contains a CI workflow
// directory. A fetch error is reported as "no workflows" to keep scans
// moving; the error is still returned for callers that want to tell the
// two cases apart.
func (c *Client) HasWorkflows(ctx context.Context, handle RepositoryHandle) (bool, error) {
	owner, repo, err := SplitFullName(handle.FullName)
	if err != nil {
		return false, err
	}

	_, contents, resp, err := c.gh.Repositories.GetContents(ctx, owner, repo, ".github/workflows", nil)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return false, nil
		}
		c.logger.Warn("workflow directory check failed", "repo", handle.FullName, "error", err)
		return false, classifyAPIError(err)
	}
	return len(contents) > 0, nil
}

// CheckRateLimit logs the current core rate-limit status and warns when
// the remaining budget is low.
func (c *Client) CheckRateLimit(ctx context.Context) error {
	limits, _, err := c.gh.RateLimits(ctx)
	if err != nil {
		return classifyAPIError(err)
	}

	core := limits.GetCore()
	c.logger.Debug("GitHub API rate limit",
		"remaining", core.Remaining, "limit", core.Limit, "resets", core.Reset.Time)

	if core.Remaining < 100 {
		c.logger.Warn("low GitHub API rate limit",
			"remaining", core.Remaining, "resets", core.Reset.Time)
	}
	return nil
}

// SplitFullName splits an "owner/name" repository reference.
func SplitFullName(fullName string) (string, string, error) {
	for i := 0; i < len(fullName); i++ {
		if fullName[i] == '/' {
			owner, name := fullName[:i], fullName[i+1:]
			if owner == "" || name == "" {
				break
			}
			return owner, name, nil
		}
	}
	return "", "", fmt.Errorf("invalid repository name %q, expected 'owner/repo'", fullName)
}

func newHandle(repo *github.Repository) RepositoryHandle {
	return RepositoryHandle{
		FullName: repo.GetFullName(),
		Name:     repo.GetName(),
		URL:      repo.GetHTMLURL(),
		Archived: repo.GetArchived(),
		Fork:     repo.GetFork(),
		Private:  repo.GetPrivate(),
	}
}
