package scan

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/actionsguard/actionsguard/internal/cache"
	"github.com/actionsguard/actionsguard/internal/git"
	"github.com/actionsguard/actionsguard/internal/githubclient"
	"github.com/actionsguard/actionsguard/internal/inventory"
	"github.com/actionsguard/actionsguard/internal/models"
	"github.com/actionsguard/actionsguard/internal/report"
	"github.com/actionsguard/actionsguard/internal/scanner"
	"github.com/actionsguard/actionsguard/internal/scorecard"
	"github.com/actionsguard/actionsguard/internal/workflows"
	"github.com/actionsguard/actionsguard/pkg/shared/artifacts"
	"github.com/actionsguard/actionsguard/pkg/shared/config"
	"github.com/actionsguard/actionsguard/pkg/shared/logger"
)

// RunOptionsScan holds the arguments for the scan command.
type RunOptionsScan struct {
	Organization string
	User         string
	Repository   string
	Checks       []string
	Exclude      []string
	Only         []string
	IncludeForks bool
	Parallel     int
	NoCache      bool
	CacheTTL     int
	OutputDir    string
	Formats      []string
	FailOnCrit   bool
	LocalClone   bool
}

// Global variables for configuration and command arguments
var (
	AppConfig        *config.Config
	scanOptions      RunOptionsScan
	exampleScanUsage = `  # Scanning every repository of an organization
  actionsguard scan --org my-org

  # Scanning one repository
  actionsguard scan --repo my-org/my-repo

  # Scanning the authenticated user's repositories, forks included
  actionsguard scan --user --include-forks

  # Scanning an organization with a check subset and more workers
  actionsguard scan --org my-org --checks Dangerous-Workflow,Token-Permissions --parallel 10

  # Scanning without the result cache and failing the build on critical findings
  actionsguard scan --org my-org --no-cache --fail-on-critical

  # Scanning through shallow local clones instead of the remote API
  actionsguard scan --org my-org --local-clone`
)

// ScanCmd represents the scan command.
var ScanCmd = &cobra.Command{
	Use:                   "scan {--org NAME | --user [NAME] | --repo OWNER/NAME} [flags]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleScanUsage,
	Short:                 "Scans GitHub repositories' CI workflows with OpenSSF Scorecard",
	RunE:                  runScanCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

// runScanCommand executes the scan command.
func runScanCommand(cmd *cobra.Command, args []string) error {
	if !hasFlags(cmd.Flags()) {
		return cmd.Help()
	}

	if err := validateScanArgs(cmd, &scanOptions); err != nil {
		return err
	}
	applyScanOptions(cmd, AppConfig, &scanOptions)

	logger := logger.NewLogger(AppConfig, "core-scan")

	if err := config.ValidateToken(AppConfig); err != nil {
		logger.Error("missing GitHub token", "error", err)
		return err
	}

	runner := scorecard.NewRunner(
		AppConfig.Scanner.ScorecardBinary,
		time.Duration(AppConfig.Scanner.ScorecardTimeout)*time.Second,
		logger,
	)
	if err := runner.CheckInstalled(); err != nil {
		logger.Error("scorecard binary not usable", "error", err)
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := githubclient.NewClient(ctx, AppConfig.GitHub.Token, logger)
	if err != nil {
		logger.Error("failed to initialize GitHub client", "error", err)
		return err
	}
	client.CheckRateLimit(ctx)

	var store scanner.ResultStore
	if AppConfig.CacheEnabled() && !scanOptions.NoCache {
		ttl := time.Duration(AppConfig.Cache.TTLHours) * time.Hour
		resultCache, err := cache.NewResultCache(AppConfig.Cache.Dir, ttl, logger)
		if err != nil {
			logger.Error("failed to initialize result cache", "error", err)
			return err
		}
		store = resultCache
	}

	var cloner scanner.Cloner
	if AppConfig.Scanner.LocalClone {
		cloner = git.NewCloner(logger)
	}

	s := scanner.New(AppConfig, client, runner, workflows.NewAnalyzer(logger), store, cloner, logger)

	summary, err := runScanTarget(ctx, s, &scanOptions)
	if err != nil {
		logger.Error("scan failed", "error", err)
		return err
	}

	inv, err := inventory.NewInventory(AppConfig.Inventory.Path, logger)
	if err != nil {
		logger.Error("failed to open inventory", "error", err)
		return err
	}
	if _, err := inv.ApplyScanResults(summary.Results); err != nil {
		logger.Error("failed to update inventory", "error", err)
		return err
	}

	paths, err := report.GenerateReports(summary, AppConfig.Reports.OutputDir, AppConfig.Reports.Formats, logger)
	if err != nil {
		logger.Error("failed to generate reports", "error", err)
		return err
	}

	if AppConfig.Publish.URL != "" {
		publisher := report.NewPublisher(AppConfig.Publish.URL, AppConfig.Publish.Token, logger)
		if err := publisher.Publish(summary); err != nil {
			logger.Warn("failed to publish scan summary", "error", err)
		}
	}

	if AppConfig.Artifacts.S3Bucket != "" {
		uploader := artifacts.NewUploader(AppConfig, logger)
		if _, err := uploader.UploadReports(paths); err != nil {
			logger.Warn("failed to upload reports", "error", err)
		}
	}

	printSummary(summary)

	if AppConfig.Scanner.FailOnCritical && hasCriticalIssues(summary) {
		logger.Error("critical issues found, failing as requested")
		os.Exit(2)
	}

	logger.Info("scan command completed successfully")
	return nil
}

// runScanTarget dispatches on the selected target kind. A single
// repository is wrapped into a one-element summary so every target kind
// flows through the same reporting path.
func runScanTarget(ctx context.Context, s *scanner.Scanner, opts *RunOptionsScan) (models.ScanSummary, error) {
	switch {
	case opts.Organization != "":
		return s.ScanOrganization(ctx, opts.Organization, opts.Exclude, opts.Only)
	case opts.Repository != "":
		start := time.Now()
		result, err := s.ScanSingleRepository(ctx, opts.Repository)
		if err != nil {
			return models.ScanSummary{}, err
		}
		return models.SummarizeResults([]models.ScanResult{result}, time.Since(start).Seconds()), nil
	default:
		return s.ScanUser(ctx, opts.User, opts.Exclude, opts.Only, opts.IncludeForks)
	}
}

// Initialize flags for the scan command.
func init() {
	ScanCmd.Flags().StringVar(&scanOptions.Organization, "org", "", "Name of the GitHub organization whose repositories will be scanned.")
	ScanCmd.Flags().StringVar(&scanOptions.User, "user", "", "GitHub username whose repositories will be scanned. An empty value targets the authenticated user.")
	ScanCmd.Flags().StringVar(&scanOptions.Repository, "repo", "", "Full name (owner/name) of a single repository to scan.")
	ScanCmd.Flags().StringSliceVar(&scanOptions.Checks, "checks", nil, "Scorecard checks to run. Use 'all' for the full check suite.")
	ScanCmd.Flags().StringSliceVar(&scanOptions.Exclude, "exclude", nil, "Repository names to skip.")
	ScanCmd.Flags().StringSliceVar(&scanOptions.Only, "only", nil, "Restrict the scan to these repository names.")
	ScanCmd.Flags().BoolVar(&scanOptions.IncludeForks, "include-forks", false, "Include forked repositories when scanning a user.")
	ScanCmd.Flags().IntVarP(&scanOptions.Parallel, "parallel", "j", 0, "Number of concurrent repository scans.")
	ScanCmd.Flags().BoolVar(&scanOptions.NoCache, "no-cache", false, "Bypass the result cache for this run.")
	ScanCmd.Flags().IntVar(&scanOptions.CacheTTL, "cache-ttl", 0, "Result cache lifetime in hours.")
	ScanCmd.Flags().StringVarP(&scanOptions.OutputDir, "output-dir", "o", "", "Directory where reports will be written.")
	ScanCmd.Flags().StringSliceVarP(&scanOptions.Formats, "formats", "f", nil, "Report formats to generate (json, html, csv, markdown, sarif).")
	ScanCmd.Flags().BoolVar(&scanOptions.FailOnCrit, "fail-on-critical", false, "Exit with code 2 when critical issues are found.")
	ScanCmd.Flags().BoolVar(&scanOptions.LocalClone, "local-clone", false, "Scan shallow local clones instead of the remote API.")

	// `--user` with no value targets the authenticated user.
	ScanCmd.Flags().Lookup("user").NoOptDefVal = " "
}
