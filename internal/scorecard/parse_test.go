package scorecard

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/actionsguard/actionsguard/internal/models"
)

func intPtr(v int) *int { return &v }

func TestStatusForScore(t *testing.T) {
	testCases := []struct {
		name     string
		score    int
		expected models.Status
	}{
		{name: "sentinel is skip", score: SentinelScore, expected: models.StatusSkip},
		{name: "perfect score passes", score: 10, expected: models.StatusPass},
		{name: "lower pass boundary", score: 7, expected: models.StatusPass},
		{name: "upper warn boundary", score: 6, expected: models.StatusWarn},
		{name: "lower warn boundary", score: 4, expected: models.StatusWarn},
		{name: "upper fail boundary", score: 3, expected: models.StatusFail},
		{name: "zero fails", score: 0, expected: models.StatusFail},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, StatusForScore(tc.score))
		})
	}
}

func TestParseChecks(t *testing.T) {
	raw := &RawResult{
		Checks: []RawCheck{
			{
				Name:   "Token-Permissions",
				Score:  intPtr(9),
				Reason: "tokens are read-only",
				Documentation: RawDocumentation{
					URL:   "https://example.com/token-permissions",
					Short: "Checks workflow token scopes",
				},
				Details: []json.RawMessage{
					json.RawMessage(`{"msg":"topLevel permissions set to read-only"}`),
				},
			},
			{
				Name:  "Dangerous-Workflow",
				Score: intPtr(0),
			},
		},
	}

	checks := ParseChecks(raw)
	require.Len(t, checks, 2)

	first := checks[0]
	assert.Equal(t, "Token-Permissions", first.Name)
	assert.Equal(t, 9, first.Score)
	assert.Equal(t, models.StatusPass, first.Status)
	assert.Equal(t, models.SeverityInfo, first.Severity)
	assert.Equal(t, "tokens are read-only", first.Reason)
	assert.Equal(t, "https://example.com/token-permissions", first.DocumentationURL)
	require.NotNil(t, first.Details)
	assert.Equal(t, []string{"topLevel permissions set to read-only"}, first.Details.Details)

	second := checks[1]
	assert.Equal(t, models.StatusFail, second.Status)
	assert.Equal(t, models.SeverityCritical, second.Severity)
	assert.Equal(t, "No reason provided", second.Reason)
}

func TestParseChecksSentinelScore(t *testing.T) {
	raw := &RawResult{
		Checks: []RawCheck{
			{Name: "Pinned-Dependencies", Score: intPtr(SentinelScore)},
		},
	}

	checks := ParseChecks(raw)
	require.Len(t, checks, 1)

	// A not-applicable check is skipped, rated info and stored as zero.
	assert.Equal(t, 0, checks[0].Score)
	assert.Equal(t, models.StatusSkip, checks[0].Status)
	assert.Equal(t, models.SeverityInfo, checks[0].Severity)
}

func TestParseChecksMissingFields(t *testing.T) {
	raw := &RawResult{
		Checks: []RawCheck{{}},
	}

	checks := ParseChecks(raw)
	require.Len(t, checks, 1)
	assert.Equal(t, "Unknown", checks[0].Name)
	assert.Equal(t, 0, checks[0].Score)
	assert.Equal(t, "No reason provided", checks[0].Reason)
}

func TestMetadata(t *testing.T) {
	raw := &RawResult{
		Date: "2026-08-30",
		Repo: RawRepo{Name: "github.com/org/repo", Commit: "abc123"},
		Scorecard: RawToolVersion{
			Version: "v4.13.1",
			Commit:  "def456",
		},
	}

	metadata := raw.Metadata()
	assert.Equal(t, "v4.13.1", metadata["scorecard_version"])
	assert.Equal(t, "def456", metadata["scorecard_commit"])
	assert.Equal(t, "github.com/org/repo", metadata["repo"])
	assert.Equal(t, "abc123", metadata["commit"])
	assert.Equal(t, "2026-08-30", metadata["scan_timestamp"])
}

func TestMetadataDefaults(t *testing.T) {
	metadata := (&RawResult{}).Metadata()
	assert.Equal(t, "unknown", metadata["scorecard_version"])
	assert.Equal(t, "unknown", metadata["scorecard_commit"])
	assert.NotEmpty(t, metadata["scan_timestamp"])
}

func TestDetailMessagesDropsMalformedItems(t *testing.T) {
	details := []json.RawMessage{
		json.RawMessage(`{"msg":"first"}`),
		json.RawMessage(`"just a string"`),
		json.RawMessage(`{"msg":""}`),
		json.RawMessage(`{"msg":"second"}`),
	}
	assert.Equal(t, []string{"first", "second"}, detailMessages(details))
}
