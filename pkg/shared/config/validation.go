package config

import "fmt"

// ValidateConfig checks that the loaded configuration has usable values.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration object is nil")
	}
	if cfg.Scanner.ParallelScans < 1 {
		return fmt.Errorf("scanner.parallel_scans must be at least 1, got %d", cfg.Scanner.ParallelScans)
	}
	if cfg.Scanner.ScorecardTimeout < 1 {
		return fmt.Errorf("scanner.scorecard_timeout must be positive, got %d", cfg.Scanner.ScorecardTimeout)
	}
	if cfg.Cache.TTLHours < 1 {
		return fmt.Errorf("cache.ttl_hours must be positive, got %d", cfg.Cache.TTLHours)
	}
	for _, format := range cfg.Reports.Formats {
		switch format {
		case "json", "html", "csv", "markdown", "sarif":
		default:
			return fmt.Errorf("unsupported report format %q", format)
		}
	}
	return nil
}

// ValidateToken checks that a GitHub token is available before any
// repository access starts.
func ValidateToken(cfg *Config) error {
	if cfg.GitHub.Token == "" {
		return fmt.Errorf("GitHub token not found: set GITHUB_TOKEN or the github.token config value")
	}
	return nil
}
