package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg, err := NewConfig("")
	require.NoError(t, err)

	assert.Equal(t, DefaultChecks, cfg.Scanner.Checks)
	assert.Equal(t, 5, cfg.Scanner.ParallelScans)
	assert.Equal(t, "scorecard", cfg.Scanner.ScorecardBinary)
	assert.Equal(t, 300, cfg.Scanner.ScorecardTimeout)
	assert.Equal(t, ".actionsguard_cache", cfg.Cache.Dir)
	assert.Equal(t, 24, cfg.Cache.TTLHours)
	assert.Equal(t, ".actionsguard/inventory.json", cfg.Inventory.Path)
	assert.Equal(t, "reports", cfg.Reports.OutputDir)
	assert.Equal(t, []string{"json", "html", "csv", "markdown"}, cfg.Reports.Formats)
	assert.True(t, cfg.CacheEnabled())
}

func TestNewConfigFromFile(t *testing.T) {
	content := `
github:
  token: file-token
scanner:
  checks:
    - Dangerous-Workflow
  parallel_scans: 10
cache:
  enabled: false
  ttl_hours: 48
reports:
  formats:
    - json
    - sarif
`
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := NewConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "file-token", cfg.GitHub.Token)
	assert.Equal(t, []string{"Dangerous-Workflow"}, cfg.Scanner.Checks)
	assert.Equal(t, 10, cfg.Scanner.ParallelScans)
	assert.False(t, cfg.CacheEnabled())
	assert.Equal(t, 48, cfg.Cache.TTLHours)
	assert.Equal(t, []string{"json", "sarif"}, cfg.Reports.Formats)
	// Unset fields still receive defaults.
	assert.Equal(t, "scorecard", cfg.Scanner.ScorecardBinary)
}

func TestNewConfigTokenEnvFallback(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "env-token")

	cfg, err := NewConfig("")
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.GitHub.Token)
}

func TestNewConfigMissingFile(t *testing.T) {
	_, err := NewConfig(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestAllChecks(t *testing.T) {
	cfg := &Config{}
	cfg.Scanner.Checks = []string{"Dangerous-Workflow"}
	assert.False(t, cfg.AllChecks())

	cfg.Scanner.Checks = []string{"all"}
	assert.True(t, cfg.AllChecks())

	cfg.Scanner.Checks = []string{"Dangerous-Workflow", "ALL"}
	assert.True(t, cfg.AllChecks())
}

func TestValidateConfig(t *testing.T) {
	valid, err := NewConfig("")
	require.NoError(t, err)
	assert.NoError(t, ValidateConfig(valid))

	assert.Error(t, ValidateConfig(nil))

	cfg, _ := NewConfig("")
	cfg.Scanner.ParallelScans = 0
	assert.Error(t, ValidateConfig(cfg))

	cfg, _ = NewConfig("")
	cfg.Scanner.ScorecardTimeout = 0
	assert.Error(t, ValidateConfig(cfg))

	cfg, _ = NewConfig("")
	cfg.Cache.TTLHours = 0
	assert.Error(t, ValidateConfig(cfg))

	cfg, _ = NewConfig("")
	cfg.Reports.Formats = []string{"xml"}
	assert.Error(t, ValidateConfig(cfg))
}

func TestValidateToken(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, ValidateToken(cfg))

	cfg.GitHub.Token = "token"
	assert.NoError(t, ValidateToken(cfg))
}
