package scanner

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/actionsguard/actionsguard/internal/githubclient"
	"github.com/actionsguard/actionsguard/internal/models"
)

// ScanRepositories scans every handle and always returns one result per
// handle regardless of individual failures. Completion order carries no
// meaning. A parallelism of 1 degrades to a strictly sequential loop.
func (s *Scanner) ScanRepositories(ctx context.Context, handles []githubclient.RepositoryHandle) []models.ScanResult {
	if len(handles) == 0 {
		s.logger.Warn("no repositories to scan")
		return []models.ScanResult{}
	}

	parallel := s.cfg.Scanner.ParallelScans
	runID := uuid.New().String()
	s.logger.Info("starting scan", "run_id", runID, "total", len(handles), "parallel", parallel)
	start := time.Now()

	var results []models.ScanResult
	if parallel > 1 && len(handles) > 1 {
		results = s.scanParallel(ctx, handles, parallel)
	} else {
		results = s.scanSequential(ctx, handles)
	}

	s.logger.Info("completed scanning repositories", "run_id", runID,
		"total", len(handles), "duration", time.Since(start).Round(time.Millisecond))
	return results
}

func (s *Scanner) scanSequential(ctx context.Context, handles []githubclient.RepositoryHandle) []models.ScanResult {
	results := make([]models.ScanResult, len(handles))
	for i, handle := range handles {
		if ctx.Err() != nil {
			results[i] = s.abandonedResult(handle, ctx.Err())
			continue
		}
		results[i] = s.ScanRepository(ctx, handle)
	}
	return results
}

// scanParallel fans the per-repository procedure out over a bounded pool.
// The guard channel blocks dispatch once `limit` scans are in flight;
// in-flight scans finish their repository even after cancellation, while
// queued repositories are abandoned.
func (s *Scanner) scanParallel(ctx context.Context, handles []githubclient.RepositoryHandle, limit int) []models.ScanResult {
	results := make([]models.ScanResult, len(handles))
	guard := make(chan struct{}, limit)
	var wg sync.WaitGroup

	for i, handle := range handles {
		if ctx.Err() != nil {
			results[i] = s.abandonedResult(handle, ctx.Err())
			continue
		}

		guard <- struct{}{}
		wg.Add(1)
		go func(i int, handle githubclient.RepositoryHandle) {
			defer wg.Done()
			defer func() { <-guard }()
			results[i] = s.ScanRepository(ctx, handle)
		}(i, handle)
	}

	wg.Wait()
	return results
}

// abandonedResult marks a queued repository that never started scanning.
func (s *Scanner) abandonedResult(handle githubclient.RepositoryHandle, err error) models.ScanResult {
	s.logger.Warn("abandoning queued repository", "repo", handle.FullName, "reason", err)
	return s.failureResult(handle, err)
}

// ScanOrganization resolves an organization's repositories, scans them and
// summarizes the batch. Resolution failures abort the whole operation.
func (s *Scanner) ScanOrganization(ctx context.Context, orgName string, exclude, only []string) (models.ScanSummary, error) {
	start := time.Now()

	handles, err := s.resolver.ResolveOrganization(ctx, orgName, exclude, only)
	if err != nil {
		return models.ScanSummary{}, err
	}
	if len(handles) == 0 {
		s.logger.Warn("no repositories found in organization", "org", orgName)
		return models.SummarizeResults([]models.ScanResult{}, time.Since(start).Seconds()), nil
	}

	results := s.ScanRepositories(ctx, handles)
	summary := models.SummarizeResults(results, time.Since(start).Seconds())

	s.logger.Info("organization scan complete", "org", orgName,
		"successful", summary.SuccessfulScans, "failed", summary.FailedScans,
		"avg_score", summary.AverageScore)
	return summary, nil
}

// ScanUser resolves a user's repositories, scans them and summarizes the
// batch. An empty username targets the authenticated user.
func (s *Scanner) ScanUser(ctx context.Context, username string, exclude, only []string, includeForks bool) (models.ScanSummary, error) {
	start := time.Now()

	handles, err := s.resolver.ResolveUser(ctx, username, exclude, only, includeForks)
	if err != nil {
		return models.ScanSummary{}, err
	}

	userDisplay := username
	if userDisplay == "" {
		userDisplay = "authenticated user"
	}
	if len(handles) == 0 {
		s.logger.Warn("no repositories found for user", "user", userDisplay)
		return models.SummarizeResults([]models.ScanResult{}, time.Since(start).Seconds()), nil
	}

	results := s.ScanRepositories(ctx, handles)
	summary := models.SummarizeResults(results, time.Since(start).Seconds())

	s.logger.Info("user scan complete", "user", userDisplay,
		"successful", summary.SuccessfulScans, "failed", summary.FailedScans,
		"avg_score", summary.AverageScore)
	return summary, nil
}

// ScanSingleRepository resolves and scans one repository by full name.
func (s *Scanner) ScanSingleRepository(ctx context.Context, fullName string) (models.ScanResult, error) {
	handle, err := s.resolver.ResolveSingle(ctx, fullName)
	if err != nil {
		return models.ScanResult{}, err
	}
	return s.ScanRepository(ctx, handle), nil
}
