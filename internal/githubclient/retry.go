package githubclient

import (
	"context"
	goerrors "errors"
	"net"
	"net/url"
	"time"

	"github.com/google/go-github/v47/github"

	"github.com/actionsguard/actionsguard/pkg/shared/errors"
)

// RetryPolicy controls how listing calls behave under transient failures.
// Rate limits sleep until the reported reset plus a safety margin; server
// and network errors back off exponentially. Other 4xx responses are
// caller errors and never retried.
type RetryPolicy struct {
	MaxAttempts     int
	BaseDelay       time.Duration
	MaxDelay        time.Duration
	RateLimitMargin time.Duration
}

// DefaultRetryPolicy returns the retry behavior used in production.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:     3,
		BaseDelay:       2 * time.Second,
		MaxDelay:        60 * time.Second,
		RateLimitMargin: 10 * time.Second,
	}
}

// delayFor computes the sleep before the next attempt.
func (p RetryPolicy) delayFor(err error, attempt int) time.Duration {
	var rateLimitErr *github.RateLimitError
	if goerrors.As(err, &rateLimitErr) {
		delay := time.Until(rateLimitErr.Rate.Reset.Time) + p.RateLimitMargin
		if delay < 0 {
			delay = p.RateLimitMargin
		}
		if delay > p.MaxDelay {
			delay = p.MaxDelay
		}
		return delay
	}

	delay := p.BaseDelay << uint(attempt-1)
	if delay > p.MaxDelay {
		delay = p.MaxDelay
	}
	return delay
}

// withRetry runs op until it succeeds, fails with a non-retryable error,
// or exhausts the attempt budget.
func (c *Client) withRetry(ctx context.Context, desc string, op func() error) error {
	var err error
	for attempt := 1; attempt <= c.retry.MaxAttempts; attempt++ {
		err = op()
		if err == nil {
			return nil
		}

		err = classifyAPIError(err)
		if !errors.IsRetryable(err) {
			return err
		}
		if attempt == c.retry.MaxAttempts {
			c.logger.Error("retry attempts exhausted", "operation", desc, "error", err)
			return err
		}

		delay := c.retry.delayFor(err, attempt)
		c.logger.Warn("transient GitHub API error, retrying",
			"operation", desc, "attempt", attempt, "delay", delay, "error", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return err
}

// classifyAPIError tags a go-github error with an explicit kind.
func classifyAPIError(err error) error {
	if err == nil {
		return nil
	}

	var tagged *errors.Error
	if goerrors.As(err, &tagged) {
		return err
	}

	var rateLimitErr *github.RateLimitError
	if goerrors.As(err, &rateLimitErr) {
		return errors.Wrap(errors.KindRateLimited, err, "GitHub API rate limit exceeded")
	}
	var abuseErr *github.AbuseRateLimitError
	if goerrors.As(err, &abuseErr) {
		return errors.Wrap(errors.KindRateLimited, err, "GitHub API secondary rate limit hit")
	}

	var apiErr *github.ErrorResponse
	if goerrors.As(err, &apiErr) && apiErr.Response != nil {
		status := apiErr.Response.StatusCode
		switch {
		case status == 404:
			return errors.Wrap(errors.KindNotFound, err, "resource not found")
		case status == 401 || status == 403:
			return errors.Wrap(errors.KindPermissionDenied, err, "access denied")
		case status >= 500:
			return errors.Wrap(errors.KindServerError, err, "GitHub API server error")
		default:
			return err
		}
	}

	var urlErr *url.Error
	var netErr net.Error
	if goerrors.As(err, &urlErr) || goerrors.As(err, &netErr) {
		return errors.Wrap(errors.KindNetworkError, err, "network error")
	}

	return err
}
