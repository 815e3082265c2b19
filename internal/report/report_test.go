package report

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/actionsguard/actionsguard/internal/models"
)

func testSummary() models.ScanSummary {
	results := []models.ScanResult{
		{
			RepoName:  "org/good",
			RepoURL:   "https://github.com/org/good",
			Score:     9.0,
			RiskLevel: models.RiskLow,
			ScanDate:  time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
			Checks: []models.CheckResult{
				{Name: "Token-Permissions", Score: 9, Status: models.StatusPass, Severity: models.SeverityInfo},
			},
		},
		{
			RepoName:  "org/risky",
			RepoURL:   "https://github.com/org/risky",
			Score:     2.0,
			RiskLevel: models.RiskCritical,
			ScanDate:  time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
			Checks: []models.CheckResult{
				{Name: "Dangerous-Workflow", Score: 0, Status: models.StatusFail, Severity: models.SeverityCritical},
			},
			Workflows: []models.WorkflowAnalysis{
				{
					Path: ".github/workflows/release.yml",
					Findings: []models.WorkflowFinding{
						{
							WorkflowPath:   ".github/workflows/release.yml",
							CheckName:      "Dangerous-Workflow",
							Severity:       models.SeverityCritical,
							Message:        "script injection",
							LineNumber:     12,
							Recommendation: "avoid untrusted input",
						},
					},
				},
			},
		},
		{
			RepoName: "org/broken",
			Error:    "scorecard exited with status 1",
		},
	}
	return models.SummarizeResults(results, 3.2)
}

func TestNewReporter(t *testing.T) {
	logger := hclog.NewNullLogger()
	for _, format := range []string{"json", "csv", "markdown", "html", "sarif"} {
		reporter, err := NewReporter(format, logger)
		require.NoError(t, err, format)
		assert.NotEmpty(t, reporter.Extension())
	}

	_, err := NewReporter("xml", logger)
	assert.Error(t, err)
}

func TestJSONReporter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	reporter := &JSONReporter{logger: hclog.NewNullLogger()}
	require.NoError(t, reporter.Generate(testSummary(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, float64(3), decoded["total_repos"])
	assert.Contains(t, decoded, "executive_summary")
}

func TestCSVReporter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")
	reporter := &CSVReporter{logger: hclog.NewNullLogger()}
	require.NoError(t, reporter.Generate(testSummary(), path))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)

	// Header plus one row per repository, failed ones included.
	require.Len(t, rows, 4)
	assert.Equal(t, "repo_name", rows[0][0])
	assert.Equal(t, "org/good", rows[1][0])
	assert.Equal(t, "9.0", rows[1][2])
	assert.Equal(t, "scorecard exited with status 1", rows[3][10])
}

func TestMarkdownReporter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")
	reporter := &MarkdownReporter{logger: hclog.NewNullLogger()}
	require.NoError(t, reporter.Generate(testSummary(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "# ActionsGuard Scan Report")
	assert.Contains(t, content, "org/risky")
	assert.Contains(t, content, "script injection")
	assert.Contains(t, content, "Scan failed: scorecard exited with status 1")
}

func TestHTMLReporter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.html")
	reporter := &HTMLReporter{logger: hclog.NewNullLogger()}
	require.NoError(t, reporter.Generate(testSummary(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "<title>ActionsGuard Scan Report</title>")
	assert.Contains(t, content, "org/good")
	assert.Contains(t, content, "risk-critical")
}

func TestSARIFReporter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.sarif")
	reporter := &SARIFReporter{logger: hclog.NewNullLogger()}
	require.NoError(t, reporter.Generate(testSummary(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "Dangerous-Workflow")
	assert.Contains(t, content, ".github/workflows/release.yml")
	assert.Contains(t, content, `"level": "error"`)
}

func TestGenerateReports(t *testing.T) {
	dir := t.TempDir()
	paths, err := GenerateReports(testSummary(), dir, []string{"json", "csv"}, hclog.NewNullLogger())
	require.NoError(t, err)

	require.Len(t, paths, 2)
	assert.True(t, strings.HasSuffix(paths[0], ".json"))
	assert.True(t, strings.HasSuffix(paths[1], ".csv"))
	for _, path := range paths {
		_, err := os.Stat(path)
		assert.NoError(t, err)
	}
}

func TestGenerateReportsUnsupportedFormat(t *testing.T) {
	_, err := GenerateReports(testSummary(), t.TempDir(), []string{"xml"}, hclog.NewNullLogger())
	assert.Error(t, err)
}
