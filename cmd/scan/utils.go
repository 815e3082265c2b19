package scan

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/actionsguard/actionsguard/internal/models"
	"github.com/actionsguard/actionsguard/pkg/shared/config"
)

// hasFlags reports whether any flag was set on the command line.
func hasFlags(flags *pflag.FlagSet) bool {
	found := false
	flags.Visit(func(f *pflag.Flag) {
		found = true
	})
	return found
}

// applyScanOptions overlays command-line flags onto the loaded configuration.
func applyScanOptions(cmd *cobra.Command, cfg *config.Config, opts *RunOptionsScan) {
	if len(opts.Checks) > 0 {
		cfg.Scanner.Checks = opts.Checks
	}
	if cmd.Flags().Changed("parallel") {
		cfg.Scanner.ParallelScans = opts.Parallel
	}
	if cmd.Flags().Changed("cache-ttl") {
		cfg.Cache.TTLHours = opts.CacheTTL
	}
	if opts.OutputDir != "" {
		cfg.Reports.OutputDir = opts.OutputDir
	}
	if len(opts.Formats) > 0 {
		cfg.Reports.Formats = opts.Formats
	}
	if opts.FailOnCrit {
		cfg.Scanner.FailOnCritical = true
	}
	if opts.LocalClone {
		cfg.Scanner.LocalClone = true
	}
}

// hasCriticalIssues reports whether any scanned repository landed at
// critical risk or carries a critical-severity check.
func hasCriticalIssues(summary models.ScanSummary) bool {
	for _, result := range summary.Results {
		if result.Error != "" {
			continue
		}
		if result.RiskLevel == models.RiskCritical || result.HasCriticalIssues() {
			return true
		}
	}
	return false
}

// printSummary writes the batch outcome to stdout for interactive use.
func printSummary(summary models.ScanSummary) {
	fmt.Println()
	fmt.Println("Scan Summary")
	fmt.Println("------------")
	fmt.Printf("Repositories scanned: %d (%d successful, %d failed)\n",
		summary.TotalRepos, summary.SuccessfulScans, summary.FailedScans)
	fmt.Printf("Average score: %.2f\n", summary.AverageScore)
	fmt.Printf("Issues: %d critical, %d high, %d medium, %d low\n",
		summary.CriticalCount, summary.HighCount, summary.MediumCount, summary.LowCount)
	if summary.ScanDuration > 0 {
		fmt.Printf("Duration: %.1fs\n", summary.ScanDuration)
	}

	for _, result := range summary.Results {
		if result.Error != "" {
			fmt.Printf("  %-50s scan failed: %s\n", result.RepoName, result.Error)
			continue
		}
		fmt.Printf("  %-50s %5.1f  %s\n", result.RepoName, result.Score, result.RiskLevel)
	}
}
