// Package models defines the result types shared by the scanner core and reporters.
package models

import "time"

// Severity represents the security severity of an individual check.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
	SeverityInfo     Severity = "INFO"
)

// Status represents the outcome of a single check.
type Status string

const (
	StatusPass  Status = "PASS"
	StatusWarn  Status = "WARN"
	StatusFail  Status = "FAIL"
	StatusError Status = "ERROR"
	StatusSkip  Status = "SKIP"
)

// RiskLevel is the coarse risk bucket for a repository's overall score.
type RiskLevel string

const (
	RiskCritical RiskLevel = "CRITICAL"
	RiskHigh     RiskLevel = "HIGH"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskLow      RiskLevel = "LOW"
)

// SeverityForScore maps a check score (0-10) to a severity tier.
func SeverityForScore(score int) Severity {
	switch {
	case score >= 8:
		return SeverityInfo
	case score >= 6:
		return SeverityLow
	case score >= 4:
		return SeverityMedium
	case score >= 2:
		return SeverityHigh
	default:
		return SeverityCritical
	}
}

// RiskLevelForScore maps an overall score (0.0-10.0) to a risk level.
// The thresholds are a coarser scale than check severity.
func RiskLevelForScore(score float64) RiskLevel {
	switch {
	case score >= 8.0:
		return RiskLow
	case score >= 6.0:
		return RiskMedium
	case score >= 4.0:
		return RiskHigh
	default:
		return RiskCritical
	}
}

// CheckResult holds the outcome of one named security check.
// Status and severity are always derived from the score, never set independently.
type CheckResult struct {
	Name             string       `json:"name"`
	Score            int          `json:"score"`
	Status           Status       `json:"status"`
	Reason           string       `json:"reason"`
	DocumentationURL string       `json:"documentation_url"`
	Severity         Severity     `json:"severity"`
	Details          *CheckDetail `json:"details,omitempty"`
}

// CheckDetail carries the raw detail lines reported by the scorer for a check.
type CheckDetail struct {
	Short   string   `json:"short"`
	Details []string `json:"details"`
}

// WorkflowFinding is a single security issue localized to one workflow file.
type WorkflowFinding struct {
	WorkflowPath   string   `json:"workflow_path"`
	CheckName      string   `json:"check_name"`
	Severity       Severity `json:"severity"`
	Message        string   `json:"message"`
	LineNumber     int      `json:"line_number,omitempty"`
	Snippet        string   `json:"snippet,omitempty"`
	Recommendation string   `json:"recommendation,omitempty"`
}

// WorkflowAnalysis groups findings by workflow file path.
type WorkflowAnalysis struct {
	Path     string            `json:"path"`
	Findings []WorkflowFinding `json:"findings"`
}

// CriticalCount returns the number of critical findings for the workflow.
func (w WorkflowAnalysis) CriticalCount() int {
	return w.severityCount(SeverityCritical)
}

// HighCount returns the number of high findings for the workflow.
func (w WorkflowAnalysis) HighCount() int {
	return w.severityCount(SeverityHigh)
}

func (w WorkflowAnalysis) severityCount(severity Severity) int {
	count := 0
	for _, f := range w.Findings {
		if f.Severity == severity {
			count++
		}
	}
	return count
}

// ScanResult is the outcome of one repository scan attempt. Immutable after
// construction; a failed scan has Error set, empty checks and score 0.
type ScanResult struct {
	RepoName  string                 `json:"repo_name"`
	RepoURL   string                 `json:"repo_url"`
	Score     float64                `json:"score"`
	RiskLevel RiskLevel              `json:"risk_level"`
	ScanDate  time.Time              `json:"scan_date"`
	Checks    []CheckResult          `json:"checks"`
	Workflows []WorkflowAnalysis     `json:"workflows,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Error     string                 `json:"error,omitempty"`
}

// SeverityCounts returns the number of checks per severity tier.
func (r ScanResult) SeverityCounts() map[Severity]int {
	counts := map[Severity]int{
		SeverityCritical: 0,
		SeverityHigh:     0,
		SeverityMedium:   0,
		SeverityLow:      0,
		SeverityInfo:     0,
	}
	for _, check := range r.Checks {
		counts[check.Severity]++
	}
	return counts
}

// HasCriticalIssues reports whether any check failed with critical severity.
func (r ScanResult) HasCriticalIssues() bool {
	for _, check := range r.Checks {
		if check.Severity == SeverityCritical && check.Status == StatusFail {
			return true
		}
	}
	return false
}
