package report

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/actionsguard/actionsguard/internal/models"
)

// SARIFReporter emits workflow findings in a form code-scanning UIs ingest.
type SARIFReporter struct {
	logger hclog.Logger
}

// Generate implements Reporter. Each distinct check becomes a rule; each
// workflow finding becomes a result located at the workflow file.
func (r *SARIFReporter) Generate(summary models.ScanSummary, path string) error {
	reportSarif, err := sarif.New(sarif.Version210)
	if err != nil {
		return fmt.Errorf("failed to create SARIF report: %w", err)
	}

	run := sarif.NewRunWithInformationURI("actionsguard", "https://github.com/actionsguard/actionsguard")

	for _, result := range summary.Results {
		if result.Error != "" {
			continue
		}
		for _, workflow := range result.Workflows {
			for _, finding := range workflow.Findings {
				rule := run.AddRule(finding.CheckName).
					WithDescription(finding.CheckName).
					WithDefaultConfiguration(&sarif.ReportingConfiguration{
						Level: toSarifErrorLevel(finding.Severity),
					})

				location := sarif.NewLocation().WithPhysicalLocation(
					sarif.NewPhysicalLocation().
						WithArtifactLocation(sarif.NewArtifactLocation().WithUri(finding.WorkflowPath)).
						WithRegion(sarif.NewRegion().WithStartLine(finding.LineNumber)),
				)

				message := finding.Message
				if finding.Recommendation != "" {
					message = fmt.Sprintf("%s Recommendation: %s", message, finding.Recommendation)
				}

				sarifResult := sarif.NewRuleResult(rule.ID).
					WithMessage(sarif.NewTextMessage(fmt.Sprintf("[%s] %s", result.RepoName, message))).
					WithLevel(toSarifErrorLevel(finding.Severity)).
					WithLocations([]*sarif.Location{location})
				run.AddResult(sarifResult)
			}
		}
	}

	reportSarif.AddRun(run)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("error writing SARIF report: %w", err)
	}
	defer func() { _ = file.Close() }()
	return reportSarif.PrettyWrite(file)
}

// Extension implements Reporter.
func (r *SARIFReporter) Extension() string {
	return ".sarif"
}

func toSarifErrorLevel(severity models.Severity) string {
	switch severity {
	case models.SeverityCritical, models.SeverityHigh:
		return "error"
	case models.SeverityMedium:
		return "warning"
	case models.SeverityLow:
		return "note"
	default:
		return "none"
	}
}
