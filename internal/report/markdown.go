package report

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/actionsguard/actionsguard/internal/models"
)

// MarkdownReporter renders the summary for pull requests and wikis.
type MarkdownReporter struct {
	logger hclog.Logger
}

// Generate implements Reporter.
func (r *MarkdownReporter) Generate(summary models.ScanSummary, path string) error {
	var b strings.Builder

	b.WriteString("# ActionsGuard Scan Report\n\n")
	b.WriteString(fmt.Sprintf("Generated: %s\n\n", time.Now().UTC().Format("2006-01-02 15:04:05 MST")))

	b.WriteString("## Summary\n\n")
	b.WriteString("| Metric | Value |\n")
	b.WriteString("|--------|-------|\n")
	b.WriteString(fmt.Sprintf("| Repositories scanned | %d |\n", summary.TotalRepos))
	b.WriteString(fmt.Sprintf("| Successful scans | %d |\n", summary.SuccessfulScans))
	b.WriteString(fmt.Sprintf("| Failed scans | %d |\n", summary.FailedScans))
	b.WriteString(fmt.Sprintf("| Average score | %.2f |\n", summary.AverageScore))
	b.WriteString(fmt.Sprintf("| Critical issues | %d |\n", summary.CriticalCount))
	b.WriteString(fmt.Sprintf("| High issues | %d |\n", summary.HighCount))
	b.WriteString(fmt.Sprintf("| Medium issues | %d |\n", summary.MediumCount))
	b.WriteString(fmt.Sprintf("| Low issues | %d |\n\n", summary.LowCount))

	executive := summary.ExecutiveSummary()
	if len(executive.TopIssues) > 0 {
		b.WriteString("## Top Issues\n\n")
		b.WriteString("| Check | Instances | Repositories affected |\n")
		b.WriteString("|-------|-----------|----------------------|\n")
		for _, issue := range executive.TopIssues {
			b.WriteString(fmt.Sprintf("| %s | %d | %d |\n", issue.CheckName, issue.Instances, issue.ReposAffected))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Repositories\n\n")
	b.WriteString("| Repository | Score | Risk |\n")
	b.WriteString("|------------|-------|------|\n")
	for _, result := range summary.Results {
		if result.Error != "" {
			b.WriteString(fmt.Sprintf("| %s | - | scan failed |\n", result.RepoName))
			continue
		}
		b.WriteString(fmt.Sprintf("| %s | %.1f | %s |\n", result.RepoName, result.Score, result.RiskLevel))
	}
	b.WriteString("\n")

	for _, result := range summary.Results {
		if result.Error != "" {
			b.WriteString(fmt.Sprintf("### %s\n\nScan failed: %s\n\n", result.RepoName, result.Error))
			continue
		}

		b.WriteString(fmt.Sprintf("### %s\n\n", result.RepoName))
		b.WriteString(fmt.Sprintf("Score: **%.1f** | Risk: **%s**\n\n", result.Score, result.RiskLevel))

		if len(result.Checks) > 0 {
			b.WriteString("| Check | Score | Status | Severity |\n")
			b.WriteString("|-------|-------|--------|----------|\n")
			for _, check := range result.Checks {
				b.WriteString(fmt.Sprintf("| %s | %d | %s | %s |\n",
					check.Name, check.Score, check.Status, check.Severity))
			}
			b.WriteString("\n")
		}

		for _, workflow := range result.Workflows {
			if len(workflow.Findings) == 0 {
				continue
			}
			b.WriteString(fmt.Sprintf("#### Workflow: `%s`\n\n", workflow.Path))
			for _, finding := range workflow.Findings {
				b.WriteString(fmt.Sprintf("- **%s** (%s): %s", finding.CheckName, finding.Severity, finding.Message))
				if finding.LineNumber > 0 {
					b.WriteString(fmt.Sprintf(" (line %d)", finding.LineNumber))
				}
				b.WriteString("\n")
				if finding.Recommendation != "" {
					b.WriteString(fmt.Sprintf("  - Recommendation: %s\n", finding.Recommendation))
				}
			}
			b.WriteString("\n")
		}
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("error writing markdown report: %w", err)
	}
	return nil
}

// Extension implements Reporter.
func (r *MarkdownReporter) Extension() string {
	return ".md"
}
