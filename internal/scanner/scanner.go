// Package scanner drives repository scans across a resolved repository
// set with bounded parallelism and per-repository failure isolation.
package scanner

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/actionsguard/actionsguard/internal/cache"
	"github.com/actionsguard/actionsguard/internal/githubclient"
	"github.com/actionsguard/actionsguard/internal/models"
	"github.com/actionsguard/actionsguard/internal/scorecard"
	"github.com/actionsguard/actionsguard/internal/workflows"
	"github.com/actionsguard/actionsguard/pkg/shared/config"
)

// RepositoryResolver turns scan targets into repository handles and
// answers workflow-presence queries.
type RepositoryResolver interface {
	ResolveOrganization(ctx context.Context, orgName string, exclude, only []string) ([]githubclient.RepositoryHandle, error)
	ResolveUser(ctx context.Context, username string, exclude, only []string, includeForks bool) ([]githubclient.RepositoryHandle, error)
	ResolveSingle(ctx context.Context, fullName string) (githubclient.RepositoryHandle, error)
	HasWorkflows(ctx context.Context, handle githubclient.RepositoryHandle) (bool, error)
}

// ScorecardRunner executes the external scorer.
type ScorecardRunner interface {
	Run(ctx context.Context, repoURL string, checks []string, token string) (*scorecard.RawResult, error)
	RunLocal(ctx context.Context, dir string, checks []string, token string) (*scorecard.RawResult, error)
}

// ResultStore caches finished scan results. A nil store disables caching.
type ResultStore interface {
	Get(repoName string, checks []string) *models.ScanResult
	Set(repoName string, checks []string, result models.ScanResult) error
}

// Cloner produces local checkouts for the local-clone scan mode.
type Cloner interface {
	ShallowClone(ctx context.Context, url, token, dir string) error
}

var _ ResultStore = (*cache.ResultCache)(nil)
var _ RepositoryResolver = (*githubclient.Client)(nil)
var _ ScorecardRunner = (*scorecard.Runner)(nil)

// Scanner orchestrates per-repository scans.
type Scanner struct {
	cfg      *config.Config
	resolver RepositoryResolver
	runner   ScorecardRunner
	analyzer *workflows.Analyzer
	store    ResultStore
	cloner   Cloner
	logger   hclog.Logger
}

// New creates a Scanner. Pass a nil store to disable result caching and a
// nil cloner to always scan through the remote API.
func New(cfg *config.Config, resolver RepositoryResolver, runner ScorecardRunner, analyzer *workflows.Analyzer, store ResultStore, cloner Cloner, logger hclog.Logger) *Scanner {
	return &Scanner{
		cfg:      cfg,
		resolver: resolver,
		runner:   runner,
		analyzer: analyzer,
		store:    store,
		cloner:   cloner,
		logger:   logger,
	}
}

// requestedChecks returns the check subset flags for the scorer; empty
// means every check.
func (s *Scanner) requestedChecks() []string {
	if s.cfg.AllChecks() {
		return nil
	}
	return s.cfg.Scanner.Checks
}

// ScanRepository runs the full per-repository procedure: cache lookup,
// workflow-presence shortcut, scorer invocation, finding extraction and
// cache store. Failures never propagate; they come back as a
// failure-shaped ScanResult.
func (s *Scanner) ScanRepository(ctx context.Context, handle githubclient.RepositoryHandle) models.ScanResult {
	s.logger.Info("scanning repository", "repo", handle.FullName)

	// The cache key always uses the configured check set, not the subset
	// flags actually sent to the scorer.
	cacheChecks := s.cfg.Scanner.Checks
	if s.store != nil {
		if cached := s.store.Get(handle.FullName, cacheChecks); cached != nil {
			return *cached
		}
	}

	result := s.scanFresh(ctx, handle)

	// Failures are never cached; a later run should retry them.
	if s.store != nil && result.Error == "" {
		if err := s.store.Set(handle.FullName, cacheChecks, result); err != nil {
			s.logger.Warn("failed to cache result", "repo", handle.FullName, "error", err)
		}
	}

	return result
}

func (s *Scanner) scanFresh(ctx context.Context, handle githubclient.RepositoryHandle) models.ScanResult {
	hasWorkflows, _ := s.resolver.HasWorkflows(ctx, handle)
	if !hasWorkflows {
		s.logger.Warn("repository has no CI workflows", "repo", handle.FullName)
		return models.ScanResult{
			RepoName:  handle.FullName,
			RepoURL:   handle.URL,
			Score:     10.0, // no workflows, no workflow risk
			RiskLevel: models.RiskLow,
			ScanDate:  time.Now(),
			Checks:    []models.CheckResult{},
			Metadata:  map[string]interface{}{"has_workflows": false},
		}
	}

	raw, err := s.runScorecard(ctx, handle)
	if err != nil {
		return s.failureResult(handle, err)
	}

	checks := scorecard.ParseChecks(raw)
	score := raw.OverallScore()
	metadata := raw.Metadata()
	metadata["has_workflows"] = true

	result := models.ScanResult{
		RepoName:  handle.FullName,
		RepoURL:   handle.URL,
		Score:     score,
		RiskLevel: models.RiskLevelForScore(score),
		ScanDate:  time.Now(),
		Checks:    checks,
		Workflows: s.analyzer.Analyze(raw, checks),
		Metadata:  metadata,
	}

	s.logger.Info("completed scan",
		"repo", handle.FullName, "score", result.Score, "risk", result.RiskLevel)
	return result
}

func (s *Scanner) runScorecard(ctx context.Context, handle githubclient.RepositoryHandle) (*scorecard.RawResult, error) {
	checks := s.requestedChecks()
	token := s.cfg.GitHub.Token

	if s.cfg.Scanner.LocalClone && s.cloner != nil {
		dir := filepath.Join(s.cfg.Scanner.CloneDir, filepath.FromSlash(handle.FullName))
		if err := s.cloner.ShallowClone(ctx, handle.URL, token, dir); err != nil {
			return nil, err
		}
		defer os.RemoveAll(dir)
		return s.runner.RunLocal(ctx, dir, checks, token)
	}

	return s.runner.Run(ctx, handle.URL, checks, token)
}

func (s *Scanner) failureResult(handle githubclient.RepositoryHandle, err error) models.ScanResult {
	s.logger.Error("failed to scan repository", "repo", handle.FullName, "error", err)
	return models.ScanResult{
		RepoName:  handle.FullName,
		RepoURL:   handle.URL,
		Score:     0.0,
		RiskLevel: models.RiskCritical,
		ScanDate:  time.Now(),
		Checks:    []models.CheckResult{},
		Error:     err.Error(),
	}
}
