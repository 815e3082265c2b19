package workflows

import (
	"encoding/json"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/actionsguard/actionsguard/internal/models"
	"github.com/actionsguard/actionsguard/internal/scorecard"
)

func checkResult(name string, severity models.Severity) models.CheckResult {
	return models.CheckResult{Name: name, Severity: severity}
}

func TestAnalyzeExtractsFindingsFromPath(t *testing.T) {
	raw := &scorecard.RawResult{
		Checks: []scorecard.RawCheck{
			{
				Name: "Dangerous-Workflow",
				Details: []json.RawMessage{
					json.RawMessage(`{"msg":"script injection","path":".github/workflows/release.yml","line":42,"snippet":"run: echo ${{ github.event.issue.title }}"}`),
				},
			},
		},
	}
	checks := []models.CheckResult{checkResult("Dangerous-Workflow", models.SeverityCritical)}

	analyses := NewAnalyzer(hclog.NewNullLogger()).Analyze(raw, checks)
	require.Len(t, analyses, 1)
	assert.Equal(t, ".github/workflows/release.yml", analyses[0].Path)

	require.Len(t, analyses[0].Findings, 1)
	finding := analyses[0].Findings[0]
	assert.Equal(t, "Dangerous-Workflow", finding.CheckName)
	assert.Equal(t, models.SeverityCritical, finding.Severity)
	assert.Equal(t, 42, finding.LineNumber)
	assert.Equal(t, "run: echo ${{ github.event.issue.title }}", finding.Snippet)
	assert.NotEmpty(t, finding.Recommendation)
}

func TestAnalyzeExtractsPathFromMessage(t *testing.T) {
	raw := &scorecard.RawResult{
		Checks: []scorecard.RawCheck{
			{
				Name: "Token-Permissions",
				Details: []json.RawMessage{
					json.RawMessage(`{"msg":"no topLevel permission defined: .github/workflows/ci.yaml","offset":1}`),
				},
			},
		},
	}
	checks := []models.CheckResult{checkResult("Token-Permissions", models.SeverityHigh)}

	analyses := NewAnalyzer(hclog.NewNullLogger()).Analyze(raw, checks)
	require.Len(t, analyses, 1)
	assert.Equal(t, ".github/workflows/ci.yaml", analyses[0].Path)
	assert.Equal(t, 1, analyses[0].Findings[0].LineNumber)
}

func TestAnalyzeSurvivesMalformedDetails(t *testing.T) {
	raw := &scorecard.RawResult{
		Checks: []scorecard.RawCheck{
			{
				Name: "Dangerous-Workflow",
				Details: []json.RawMessage{
					json.RawMessage(`null`),
					json.RawMessage(`"bare string"`),
					json.RawMessage(`{"msg":"injection risk","path":".github/workflows/build.yml"}`),
				},
			},
		},
	}
	checks := []models.CheckResult{checkResult("Dangerous-Workflow", models.SeverityCritical)}

	analyses := NewAnalyzer(hclog.NewNullLogger()).Analyze(raw, checks)
	require.Len(t, analyses, 1)
	assert.Len(t, analyses[0].Findings, 1)
}

func TestAnalyzeSkipsNonWorkflowDetails(t *testing.T) {
	raw := &scorecard.RawResult{
		Checks: []scorecard.RawCheck{
			{
				Name: "Pinned-Dependencies",
				Details: []json.RawMessage{
					json.RawMessage(`{"msg":"dependency not pinned","path":"Dockerfile","line":3}`),
				},
			},
		},
	}
	checks := []models.CheckResult{checkResult("Pinned-Dependencies", models.SeverityMedium)}

	analyses := NewAnalyzer(hclog.NewNullLogger()).Analyze(raw, checks)
	assert.Empty(t, analyses)
}

func TestAnalyzeOrdersWorstFilesFirst(t *testing.T) {
	raw := &scorecard.RawResult{
		Checks: []scorecard.RawCheck{
			{
				Name: "Token-Permissions",
				Details: []json.RawMessage{
					json.RawMessage(`{"msg":"write-all permissions","path":".github/workflows/benign.yml"}`),
				},
			},
			{
				Name: "Dangerous-Workflow",
				Details: []json.RawMessage{
					json.RawMessage(`{"msg":"script injection","path":".github/workflows/risky.yml"}`),
				},
			},
		},
	}
	checks := []models.CheckResult{
		checkResult("Token-Permissions", models.SeverityHigh),
		checkResult("Dangerous-Workflow", models.SeverityCritical),
	}

	analyses := NewAnalyzer(hclog.NewNullLogger()).Analyze(raw, checks)
	require.Len(t, analyses, 2)
	assert.Equal(t, ".github/workflows/risky.yml", analyses[0].Path)
	assert.Equal(t, ".github/workflows/benign.yml", analyses[1].Path)
}

func TestRecommendationFor(t *testing.T) {
	testCases := []struct {
		name     string
		check    string
		message  string
		contains string
	}{
		{
			name:     "pull_request_target trigger",
			check:    "Dangerous-Workflow",
			message:  "workflow uses pull_request_target with checkout",
			contains: "Replace 'pull_request_target'",
		},
		{
			name:     "untrusted input",
			check:    "Dangerous-Workflow",
			message:  "untrusted input in run step",
			contains: "GITHUB_ENV",
		},
		{
			name:     "write-all permissions",
			check:    "Token-Permissions",
			message:  "permissions set to write-all",
			contains: "minimal permissions",
		},
		{
			name:     "unpinned action with version",
			check:    "Pinned-Dependencies",
			message:  "action actions/checkout@v3 not pinned by hash",
			contains: "https://github.com/actions/checkout/releases",
		},
		{
			name:     "unpinned action without version",
			check:    "Pinned-Dependencies",
			message:  "dependency not pinned",
			contains: "actions/checkout@8e5e7e5ab8b370d6c329ec480221332ada57f0ab",
		},
		{
			name:     "unknown check",
			check:    "Binary-Artifacts",
			message:  "binary found",
			contains: "Review and remediate",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Contains(t, recommendationFor(tc.check, tc.message), tc.contains)
		})
	}
}
