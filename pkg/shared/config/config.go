// Package config loads and validates the application configuration.
package config

import (
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v2"
)

// Config is the top-level application configuration.
type Config struct {
	Logger    Logger    `yaml:"logger"`
	GitHub    GitHub    `yaml:"github"`
	Scanner   Scanner   `yaml:"scanner"`
	Cache     Cache     `yaml:"cache"`
	Inventory Inventory `yaml:"inventory"`
	Reports   Reports   `yaml:"reports"`
	Publish   Publish   `yaml:"publish"`
	Artifacts Artifacts `yaml:"artifacts"`
}

// Logger controls log output.
type Logger struct {
	Level string `yaml:"level"`
}

// GitHub holds API access settings. The token falls back to the
// GITHUB_TOKEN environment variable when unset.
type GitHub struct {
	Token string `yaml:"token"`
}

// Scanner holds scan orchestration settings.
type Scanner struct {
	Checks           []string `yaml:"checks"`
	ParallelScans    int      `yaml:"parallel_scans"`
	ScorecardBinary  string   `yaml:"scorecard_binary"`
	ScorecardTimeout int      `yaml:"scorecard_timeout"`
	FailOnCritical   bool     `yaml:"fail_on_critical"`
	LocalClone       bool     `yaml:"local_clone"`
	CloneDir         string   `yaml:"clone_dir"`
}

// Cache holds result-cache settings.
type Cache struct {
	Enabled  *bool  `yaml:"enabled"`
	Dir      string `yaml:"dir"`
	TTLHours int    `yaml:"ttl_hours"`
}

// Inventory holds the cross-run ledger location.
type Inventory struct {
	Path string `yaml:"path"`
}

// Reports holds report generation settings.
type Reports struct {
	OutputDir string   `yaml:"output_dir"`
	Formats   []string `yaml:"formats"`
}

// Publish holds the optional webhook target for finished summaries.
type Publish struct {
	URL   string `yaml:"url"`
	Token string `yaml:"token"`
}

// Artifacts holds the optional S3 upload target for generated reports.
type Artifacts struct {
	S3Bucket string `yaml:"s3_bucket"`
	S3Region string `yaml:"s3_region"`
}

// DefaultChecks are the workflow-focused scorecard checks run when the
// config does not name any.
var DefaultChecks = []string{
	"Dangerous-Workflow",
	"Token-Permissions",
	"Pinned-Dependencies",
}

// ValidateConfigPath checks that the given path points to a regular file.
func ValidateConfigPath(path string) error {
	s, err := os.Stat(path)
	if err != nil {
		return err
	}
	if s.IsDir() {
		return fmt.Errorf("'%s' is a directory, not a file", path)
	}
	return nil
}

// LoadYAML decodes a YAML file into data.
func LoadYAML(configPath string, data interface{}) error {
	if err := ValidateConfigPath(configPath); err != nil {
		return err
	}

	file, err := os.Open(configPath)
	if err != nil {
		return err
	}
	defer file.Close()

	d := yaml.NewDecoder(file)
	if err := d.Decode(data); err != nil {
		return err
	}

	return nil
}

// NewConfig loads the configuration from configPath and applies defaults.
// An empty path yields the default configuration.
func NewConfig(configPath string) (*Config, error) {
	config := &Config{}

	if configPath != "" {
		if err := LoadYAML(configPath, config); err != nil {
			return nil, err
		}
	}

	applyDefaults(config)
	return config, nil
}

func applyDefaults(cfg *Config) {
	if cfg.GitHub.Token == "" {
		cfg.GitHub.Token = os.Getenv("GITHUB_TOKEN")
	}
	if len(cfg.Scanner.Checks) == 0 {
		cfg.Scanner.Checks = append([]string(nil), DefaultChecks...)
	}
	cfg.Scanner.ParallelScans = SetThen(cfg.Scanner.ParallelScans, 5)
	cfg.Scanner.ScorecardBinary = SetThen(cfg.Scanner.ScorecardBinary, "scorecard")
	cfg.Scanner.ScorecardTimeout = SetThen(cfg.Scanner.ScorecardTimeout, 300)
	cfg.Scanner.CloneDir = SetThen(cfg.Scanner.CloneDir, ".actionsguard/clones")
	cfg.Cache.Dir = SetThen(cfg.Cache.Dir, ".actionsguard_cache")
	cfg.Cache.TTLHours = SetThen(cfg.Cache.TTLHours, 24)
	cfg.Inventory.Path = SetThen(cfg.Inventory.Path, ".actionsguard/inventory.json")
	cfg.Reports.OutputDir = SetThen(cfg.Reports.OutputDir, "reports")
	if len(cfg.Reports.Formats) == 0 {
		cfg.Reports.Formats = []string{"json", "html", "csv", "markdown"}
	}
}

// CacheEnabled reports whether result caching is on. Defaults to true.
func (c *Config) CacheEnabled() bool {
	if c.Cache.Enabled == nil {
		return true
	}
	return *c.Cache.Enabled
}

// AllChecks reports whether the configured check list requests every
// scorecard check instead of a subset.
func (c *Config) AllChecks() bool {
	for _, check := range c.Scanner.Checks {
		if check == "all" || check == "ALL" {
			return true
		}
	}
	return false
}
