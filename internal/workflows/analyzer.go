// Package workflows synthesizes per-file security findings from scorecard
// check details, which report at repository granularity only.
package workflows

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/actionsguard/actionsguard/internal/models"
	"github.com/actionsguard/actionsguard/internal/scorecard"
)

const workflowDir = ".github/workflows/"

var workflowPathPattern = regexp.MustCompile(`\.github/workflows/[\w\-.]+\.ya?ml`)

// Analyzer extracts workflow-level findings from scorecard results.
type Analyzer struct {
	logger hclog.Logger
}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer(logger hclog.Logger) *Analyzer {
	return &Analyzer{logger: logger}
}

// rawDetail is the tool-defined shape of one detail item. Items that do
// not decode as objects are skipped, never fatal.
type rawDetail struct {
	Msg     string `json:"msg"`
	Type    string `json:"type"`
	Path    string `json:"path"`
	Line    *int   `json:"line"`
	Offset  *int   `json:"offset"`
	Snippet string `json:"snippet"`
}

// Analyze groups the details of every check by workflow file and returns
// one WorkflowAnalysis per file, worst files first.
func (a *Analyzer) Analyze(raw *scorecard.RawResult, checks []models.CheckResult) []models.WorkflowAnalysis {
	if raw == nil || len(checks) == 0 || len(raw.Checks) == 0 {
		return nil
	}

	severityByCheck := make(map[string]models.Severity, len(checks))
	for _, check := range checks {
		severityByCheck[check.Name] = check.Severity
	}

	findingsByPath := make(map[string][]models.WorkflowFinding)

	for _, check := range raw.Checks {
		severity, ok := severityByCheck[check.Name]
		if !ok {
			continue
		}

		for _, rawItem := range check.Details {
			detail := decodeDetail(rawItem)
			if detail == nil {
				continue
			}

			path := extractWorkflowPath(detail)
			if path == "" {
				// Detail cannot be localized to a workflow file.
				continue
			}

			finding := models.WorkflowFinding{
				WorkflowPath:   path,
				CheckName:      check.Name,
				Severity:       severity,
				Message:        detail.Msg,
				LineNumber:     extractLineNumber(detail),
				Snippet:        detail.Snippet,
				Recommendation: recommendationFor(check.Name, detail.Msg),
			}
			findingsByPath[path] = append(findingsByPath[path], finding)
		}
	}

	analyses := make([]models.WorkflowAnalysis, 0, len(findingsByPath))
	for path, findings := range findingsByPath {
		analyses = append(analyses, models.WorkflowAnalysis{
			Path:     path,
			Findings: findings,
		})
	}

	sort.Slice(analyses, func(i, j int) bool {
		ci, cj := analyses[i].CriticalCount(), analyses[j].CriticalCount()
		if ci != cj {
			return ci > cj
		}
		hi, hj := analyses[i].HighCount(), analyses[j].HighCount()
		if hi != hj {
			return hi > hj
		}
		if len(analyses[i].Findings) != len(analyses[j].Findings) {
			return len(analyses[i].Findings) > len(analyses[j].Findings)
		}
		return analyses[i].Path < analyses[j].Path
	})

	return analyses
}

// decodeDetail decodes one detail item, returning nil for null or
// non-object items.
func decodeDetail(raw json.RawMessage) *rawDetail {
	var detail *rawDetail
	if err := json.Unmarshal(raw, &detail); err != nil {
		return nil
	}
	return detail
}

// extractWorkflowPath prefers the explicit path field when it names the
// workflow directory, then falls back to scanning the message text.
func extractWorkflowPath(detail *rawDetail) string {
	if detail.Path != "" && strings.Contains(detail.Path, workflowDir) {
		return detail.Path
	}
	if strings.Contains(detail.Msg, workflowDir) {
		return workflowPathPattern.FindString(detail.Msg)
	}
	return ""
}

func extractLineNumber(detail *rawDetail) int {
	if detail.Line != nil {
		return *detail.Line
	}
	if detail.Offset != nil {
		return *detail.Offset
	}
	return 0
}
