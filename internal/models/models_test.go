package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeverityForScore(t *testing.T) {
	testCases := []struct {
		name     string
		score    int
		expected Severity
	}{
		{name: "perfect score is info", score: 10, expected: SeverityInfo},
		{name: "lower info boundary", score: 8, expected: SeverityInfo},
		{name: "upper low boundary", score: 7, expected: SeverityLow},
		{name: "lower low boundary", score: 6, expected: SeverityLow},
		{name: "upper medium boundary", score: 5, expected: SeverityMedium},
		{name: "lower medium boundary", score: 4, expected: SeverityMedium},
		{name: "upper high boundary", score: 3, expected: SeverityHigh},
		{name: "lower high boundary", score: 2, expected: SeverityHigh},
		{name: "upper critical boundary", score: 1, expected: SeverityCritical},
		{name: "zero is critical", score: 0, expected: SeverityCritical},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, SeverityForScore(tc.score))
		})
	}
}

func TestRiskLevelForScore(t *testing.T) {
	testCases := []struct {
		name     string
		score    float64
		expected RiskLevel
	}{
		{name: "lower low boundary", score: 8.0, expected: RiskLow},
		{name: "just below low", score: 7.99, expected: RiskMedium},
		{name: "lower medium boundary", score: 6.0, expected: RiskMedium},
		{name: "just below medium", score: 5.99, expected: RiskHigh},
		{name: "lower high boundary", score: 4.0, expected: RiskHigh},
		{name: "just below high", score: 3.99, expected: RiskCritical},
		{name: "zero is critical", score: 0.0, expected: RiskCritical},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, RiskLevelForScore(tc.score))
		})
	}
}

func TestSeverityCounts(t *testing.T) {
	result := ScanResult{
		Checks: []CheckResult{
			{Name: "A", Severity: SeverityCritical},
			{Name: "B", Severity: SeverityCritical},
			{Name: "C", Severity: SeverityHigh},
			{Name: "D", Severity: SeverityInfo},
		},
	}

	counts := result.SeverityCounts()
	assert.Equal(t, 2, counts[SeverityCritical])
	assert.Equal(t, 1, counts[SeverityHigh])
	assert.Equal(t, 0, counts[SeverityMedium])
	assert.Equal(t, 0, counts[SeverityLow])
	assert.Equal(t, 1, counts[SeverityInfo])
}

func TestHasCriticalIssues(t *testing.T) {
	failed := ScanResult{Checks: []CheckResult{
		{Name: "A", Severity: SeverityCritical, Status: StatusFail},
	}}
	assert.True(t, failed.HasCriticalIssues())

	// A critical severity on a skipped check does not count.
	skipped := ScanResult{Checks: []CheckResult{
		{Name: "A", Severity: SeverityCritical, Status: StatusSkip},
	}}
	assert.False(t, skipped.HasCriticalIssues())

	clean := ScanResult{Checks: []CheckResult{
		{Name: "A", Severity: SeverityInfo, Status: StatusPass},
	}}
	assert.False(t, clean.HasCriticalIssues())
}
