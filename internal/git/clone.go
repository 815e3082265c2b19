// Package git produces shallow local checkouts for the local-clone scan mode.
package git

import (
	"context"
	"fmt"
	"os"

	"github.com/gitsight/go-vcsurl"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/hashicorp/go-hclog"

	"github.com/actionsguard/actionsguard/pkg/shared/files"
)

// Cloner creates disposable shallow clones over HTTPS.
type Cloner struct {
	logger hclog.Logger
}

// NewCloner creates a Cloner.
func NewCloner(logger hclog.Logger) *Cloner {
	return &Cloner{logger: logger}
}

// ShallowClone clones the repository at url into dir with depth 1. An
// existing directory is recreated so the checkout is always fresh.
func (c *Cloner) ShallowClone(ctx context.Context, url, token, dir string) error {
	info, err := vcsurl.Parse(url)
	if err != nil {
		return fmt.Errorf("failed to parse repository URL %q: %w", url, err)
	}

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to clear clone target %q: %w", dir, err)
	}
	if err := files.CreateFolderIfNotExists(dir); err != nil {
		return err
	}

	options := &gogit.CloneOptions{
		URL:   url,
		Depth: 1,
	}
	if token != "" {
		// GitHub accepts any username with a token over HTTPS.
		options.Auth = &http.BasicAuth{Username: "x-access-token", Password: token}
	}

	c.logger.Debug("cloning repository", "repository", info.Name, "target", dir)
	if _, err := gogit.PlainCloneContext(ctx, dir, false, options); err != nil {
		return fmt.Errorf("error occurred during clone of %q: %w", url, err)
	}

	c.logger.Info("repository cloned", "repository", info.Name, "target", dir)
	return nil
}
