// Package scorecard invokes the OpenSSF Scorecard CLI and translates its
// JSON output into the internal data model.
package scorecard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/actionsguard/actionsguard/pkg/shared/errors"
)

// Runner executes the scorecard binary with a per-invocation timeout.
type Runner struct {
	binary  string
	timeout time.Duration
	logger  hclog.Logger
}

// NewRunner creates a Runner for the given binary name or path.
func NewRunner(binary string, timeout time.Duration, logger hclog.Logger) *Runner {
	return &Runner{
		binary:  binary,
		timeout: timeout,
		logger:  logger,
	}
}

// CheckInstalled verifies the scorecard binary is on PATH.
func (r *Runner) CheckInstalled() error {
	if _, err := exec.LookPath(r.binary); err != nil {
		return errors.Wrap(errors.KindExecutionFailed, err,
			"OpenSSF Scorecard not found, install it with: go install github.com/ossf/scorecard/v5/cmd/scorecard@latest")
	}
	r.logger.Debug("scorecard CLI found", "binary", r.binary)
	return nil
}

// Run executes scorecard against a remote repository URL and decodes its
// JSON output. An empty checks slice requests every check.
func (r *Runner) Run(ctx context.Context, repoURL string, checks []string, token string) (*RawResult, error) {
	args := []string{
		fmt.Sprintf("--repo=%s", repoURL),
		"--format=json",
		"--show-details",
	}
	return r.run(ctx, args, checks, token)
}

// RunLocal executes scorecard against a local checkout directory.
func (r *Runner) RunLocal(ctx context.Context, dir string, checks []string, token string) (*RawResult, error) {
	args := []string{
		fmt.Sprintf("--local=%s", dir),
		"--format=json",
		"--show-details",
	}
	return r.run(ctx, args, checks, token)
}

func (r *Runner) run(ctx context.Context, args, checks []string, token string) (*RawResult, error) {
	for _, check := range checks {
		args = append(args, fmt.Sprintf("--checks=%s", check))
	}

	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, r.binary, args...)
	cmd.Env = os.Environ()
	if token != "" {
		cmd.Env = append(cmd.Env,
			fmt.Sprintf("GITHUB_TOKEN=%s", token),
			fmt.Sprintf("GITHUB_AUTH_TOKEN=%s", token),
		)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Debug("running scorecard", "args", strings.Join(args, " "))
	err := cmd.Run()

	if runCtx.Err() == context.DeadlineExceeded {
		return nil, errors.New(errors.KindTimeout,
			"scorecard execution timed out after %s", r.timeout)
	}
	if err != nil {
		message := strings.TrimSpace(stderr.String())
		if message == "" {
			message = strings.TrimSpace(stdout.String())
		}
		return nil, errors.Wrap(errors.KindExecutionFailed, err,
			"scorecard execution failed: %s", message)
	}

	var raw RawResult
	if err := json.Unmarshal(stdout.Bytes(), &raw); err != nil {
		r.logger.Error("failed to parse scorecard output", "error", err)
		return nil, errors.Wrap(errors.KindParseFailed, err, "failed to parse scorecard output")
	}
	return &raw, nil
}
