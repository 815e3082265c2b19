// Package cache persists per-repository scan results keyed by repository
// and check set, bounded by a TTL, to avoid redundant scorer invocations.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/actionsguard/actionsguard/internal/models"
	"github.com/actionsguard/actionsguard/pkg/shared/files"
)

// ResultCache is a file-per-entry scan result cache. Entries are keyed
// uniquely per (repo, check-set), so concurrent workers only ever contend
// on identical keys; last writer wins there.
type ResultCache struct {
	dir    string
	ttl    time.Duration
	logger hclog.Logger
}

// entry is the on-disk cache record.
type entry struct {
	CachedAt time.Time         `json:"cached_at"`
	RepoName string            `json:"repo_name"`
	Checks   []string          `json:"checks"`
	Result   models.ScanResult `json:"result"`
}

// NewResultCache creates the cache directory if needed and drops a
// .gitignore into it so cached results never end up committed.
func NewResultCache(dir string, ttl time.Duration, logger hclog.Logger) (*ResultCache, error) {
	if err := files.CreateFolderIfNotExists(dir); err != nil {
		return nil, err
	}

	gitignore := filepath.Join(dir, ".gitignore")
	if _, err := os.Stat(gitignore); os.IsNotExist(err) {
		if err := os.WriteFile(gitignore, []byte("*\n!.gitignore\n"), 0644); err != nil {
			return nil, fmt.Errorf("failed to write cache .gitignore: %w", err)
		}
	}

	return &ResultCache{
		dir:    dir,
		ttl:    ttl,
		logger: logger,
	}, nil
}

// Key computes the cache key for a repository and check set. The check
// order never affects the key.
func Key(repoName string, checks []string) string {
	sorted := append([]string(nil), checks...)
	sort.Strings(sorted)

	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%s", repoName, strings.Join(sorted, ","))))
	return hex.EncodeToString(sum[:])[:16]
}

func (c *ResultCache) path(key string) string {
	return filepath.Join(c.dir, key+".json")
}

// Get returns the cached result for (repo, checks) when present and fresh.
// Expired or corrupt entries are deleted eagerly and reported as a miss.
func (c *ResultCache) Get(repoName string, checks []string) *models.ScanResult {
	path := c.path(Key(repoName, checks))

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			c.logger.Warn("failed to read cache entry", "repo", repoName, "error", err)
		}
		return nil
	}

	var cached entry
	if err := json.Unmarshal(data, &cached); err != nil {
		c.logger.Warn("corrupt cache entry, removing", "repo", repoName, "error", err)
		os.Remove(path)
		return nil
	}

	age := time.Since(cached.CachedAt)
	if age > c.ttl {
		c.logger.Debug("cache entry expired, removing", "repo", repoName, "age", age)
		os.Remove(path)
		return nil
	}

	c.logger.Info("using cached result", "repo", repoName, "age", age)
	return &cached.Result
}

// Set persists a scan result with the current timestamp.
func (c *ResultCache) Set(repoName string, checks []string, result models.ScanResult) error {
	cached := entry{
		CachedAt: time.Now(),
		RepoName: repoName,
		Checks:   checks,
		Result:   result,
	}

	data, err := json.MarshalIndent(cached, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize cache entry for %q: %w", repoName, err)
	}
	if err := files.WriteJsonFile(c.path(Key(repoName, checks)), data); err != nil {
		return fmt.Errorf("failed to write cache entry for %q: %w", repoName, err)
	}

	c.logger.Debug("cached result", "repo", repoName)
	return nil
}

// Clear deletes every entry for the given repository across all check
// combinations and returns the count deleted.
func (c *ResultCache) Clear(repoName string) int {
	count := 0
	for _, path := range c.entryFiles() {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var cached entry
		if err := json.Unmarshal(data, &cached); err != nil {
			continue
		}
		if cached.RepoName == repoName {
			if os.Remove(path) == nil {
				count++
			}
		}
	}
	c.logger.Info("cleared cache entries", "repo", repoName, "count", count)
	return count
}

// ClearAll deletes every cache entry and returns the count deleted.
func (c *ResultCache) ClearAll() int {
	count := 0
	for _, path := range c.entryFiles() {
		if os.Remove(path) == nil {
			count++
		}
	}
	c.logger.Info("cleared all cache entries", "count", count)
	return count
}

// Stats describes the cache contents for operational tooling.
type Stats struct {
	TotalEntries   int     `json:"total_entries"`
	FreshEntries   int     `json:"fresh_entries"`
	ExpiredEntries int     `json:"expired_entries"`
	TotalSizeBytes int64   `json:"total_size_bytes"`
	CacheDir       string  `json:"cache_dir"`
	TTLHours       float64 `json:"ttl_hours"`
}

// Stats counts total, fresh and expired entries plus their aggregate size.
func (c *ResultCache) Stats() Stats {
	stats := Stats{
		CacheDir: c.dir,
		TTLHours: c.ttl.Hours(),
	}

	for _, path := range c.entryFiles() {
		stats.TotalEntries++
		if info, err := os.Stat(path); err == nil {
			stats.TotalSizeBytes += info.Size()
		}

		data, err := os.ReadFile(path)
		if err != nil {
			stats.ExpiredEntries++
			continue
		}
		var cached entry
		if err := json.Unmarshal(data, &cached); err != nil {
			stats.ExpiredEntries++
			continue
		}
		if time.Since(cached.CachedAt) <= c.ttl {
			stats.FreshEntries++
		} else {
			stats.ExpiredEntries++
		}
	}

	return stats
}

func (c *ResultCache) entryFiles() []string {
	matches, err := filepath.Glob(filepath.Join(c.dir, "*.json"))
	if err != nil {
		return nil
	}
	return matches
}
