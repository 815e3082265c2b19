package scan

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// validateScanArgs validates the arguments provided to the scan command.
func validateScanArgs(cmd *cobra.Command, opts *RunOptionsScan) error {
	opts.User = strings.TrimSpace(opts.User)

	targets := 0
	if opts.Organization != "" {
		targets++
	}
	if cmd.Flags().Changed("user") {
		targets++
	}
	if opts.Repository != "" {
		targets++
	}
	if targets == 0 {
		return fmt.Errorf("one of the 'org', 'user' or 'repo' flags must be specified")
	}
	if targets > 1 {
		return fmt.Errorf("the 'org', 'user' and 'repo' flags are mutually exclusive")
	}

	if opts.Repository != "" && !strings.Contains(opts.Repository, "/") {
		return fmt.Errorf("the 'repo' flag must be a full name in the form owner/name, got %q", opts.Repository)
	}

	if cmd.Flags().Changed("parallel") && opts.Parallel < 1 {
		return fmt.Errorf("the 'parallel' flag must be a positive integer")
	}
	if cmd.Flags().Changed("cache-ttl") && opts.CacheTTL < 1 {
		return fmt.Errorf("the 'cache-ttl' flag must be a positive integer")
	}

	return nil
}
