package report

import (
	"fmt"
	"html/template"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/actionsguard/actionsguard/internal/models"
)

// HTMLReporter renders a standalone dashboard page.
type HTMLReporter struct {
	logger hclog.Logger
}

type htmlReportData struct {
	GeneratedAt time.Time
	Summary     models.ScanSummary
	Executive   models.ExecutiveSummary
}

// riskClass maps a risk level onto the CSS class used by the page.
// helper function for html template
func riskClass(risk models.RiskLevel) string {
	return "risk-" + strings.ToLower(string(risk))
}

// severityClass maps a severity onto the CSS class used by the page.
// helper function for html template
func severityClass(severity models.Severity) string {
	return "sev-" + strings.ToLower(string(severity))
}

// formatDateTime formats a time.Time object into the report's date format.
// helper function for html template
func formatDateTime(t time.Time) string {
	return t.Format("2006-01-02 15:04:05 MST")
}

func newReportTemplate() (*template.Template, error) {
	return template.New("report.html").
		Funcs(template.FuncMap{
			"riskClass":      riskClass,
			"severityClass":  severityClass,
			"formatDateTime": formatDateTime,
		}).
		Parse(reportTemplate)
}

// Generate implements Reporter.
func (r *HTMLReporter) Generate(summary models.ScanSummary, path string) error {
	tmpl, err := newReportTemplate()
	if err != nil {
		return fmt.Errorf("failed to parse report template: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed creating file: %w", err)
	}
	defer file.Close()

	data := htmlReportData{
		GeneratedAt: time.Now().UTC(),
		Summary:     summary,
		Executive:   summary.ExecutiveSummary(),
	}
	if err := tmpl.Execute(file, data); err != nil {
		return fmt.Errorf("error rendering HTML report: %w", err)
	}
	return nil
}

// Extension implements Reporter.
func (r *HTMLReporter) Extension() string {
	return ".html"
}

const reportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>ActionsGuard Scan Report</title>
<style>
body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; margin: 2em; color: #24292f; }
h1, h2, h3 { border-bottom: 1px solid #d0d7de; padding-bottom: .3em; }
table { border-collapse: collapse; margin: 1em 0; width: 100%; }
th, td { border: 1px solid #d0d7de; padding: 6px 12px; text-align: left; }
th { background: #f6f8fa; }
.risk-low { color: #1a7f37; font-weight: bold; }
.risk-medium { color: #9a6700; font-weight: bold; }
.risk-high { color: #bc4c00; font-weight: bold; }
.risk-critical { color: #cf222e; font-weight: bold; }
.sev-info { color: #57606a; }
.sev-low { color: #1a7f37; }
.sev-medium { color: #9a6700; }
.sev-high { color: #bc4c00; }
.sev-critical { color: #cf222e; font-weight: bold; }
.error { color: #cf222e; }
.finding { margin: .5em 0; padding: .5em; background: #f6f8fa; border-left: 3px solid #d0d7de; }
.recommendation { color: #57606a; font-size: .9em; }
</style>
</head>
<body>
<h1>ActionsGuard Scan Report</h1>
<p>Generated: {{ formatDateTime .GeneratedAt }}</p>

<h2>Summary</h2>
<table>
<tr><th>Repositories scanned</th><td>{{ .Summary.TotalRepos }}</td></tr>
<tr><th>Successful scans</th><td>{{ .Summary.SuccessfulScans }}</td></tr>
<tr><th>Failed scans</th><td>{{ .Summary.FailedScans }}</td></tr>
<tr><th>Average score</th><td>{{ printf "%.2f" .Summary.AverageScore }}</td></tr>
<tr><th>Critical issues</th><td>{{ .Summary.CriticalCount }}</td></tr>
<tr><th>High issues</th><td>{{ .Summary.HighCount }}</td></tr>
<tr><th>Medium issues</th><td>{{ .Summary.MediumCount }}</td></tr>
<tr><th>Low issues</th><td>{{ .Summary.LowCount }}</td></tr>
</table>

{{ if .Executive.TopIssues }}
<h2>Top Issues</h2>
<table>
<tr><th>Check</th><th>Instances</th><th>Repositories affected</th></tr>
{{ range .Executive.TopIssues }}
<tr><td>{{ .CheckName }}</td><td>{{ .Instances }}</td><td>{{ .ReposAffected }}</td></tr>
{{ end }}
</table>
{{ end }}

<h2>Repositories</h2>
<table>
<tr><th>Repository</th><th>Score</th><th>Risk</th></tr>
{{ range .Summary.Results }}
{{ if .Error }}
<tr><td>{{ .RepoName }}</td><td>-</td><td class="error">scan failed</td></tr>
{{ else }}
<tr><td><a href="#{{ .RepoName }}">{{ .RepoName }}</a></td><td>{{ printf "%.1f" .Score }}</td><td class="{{ riskClass .RiskLevel }}">{{ .RiskLevel }}</td></tr>
{{ end }}
{{ end }}
</table>

{{ range .Summary.Results }}
<h3 id="{{ .RepoName }}">{{ .RepoName }}</h3>
{{ if .Error }}
<p class="error">Scan failed: {{ .Error }}</p>
{{ else }}
<p>Score: <strong>{{ printf "%.1f" .Score }}</strong> | Risk: <span class="{{ riskClass .RiskLevel }}">{{ .RiskLevel }}</span></p>
{{ if .Checks }}
<table>
<tr><th>Check</th><th>Score</th><th>Status</th><th>Severity</th><th>Reason</th></tr>
{{ range .Checks }}
<tr><td>{{ .Name }}</td><td>{{ .Score }}</td><td>{{ .Status }}</td><td class="{{ severityClass .Severity }}">{{ .Severity }}</td><td>{{ .Reason }}</td></tr>
{{ end }}
</table>
{{ end }}
{{ range .Workflows }}
{{ if .Findings }}
<h4>Workflow: <code>{{ .Path }}</code></h4>
{{ range .Findings }}
<div class="finding">
<strong>{{ .CheckName }}</strong> <span class="{{ severityClass .Severity }}">({{ .Severity }})</span>: {{ .Message }}{{ if .LineNumber }} (line {{ .LineNumber }}){{ end }}
{{ if .Recommendation }}<div class="recommendation">{{ .Recommendation }}</div>{{ end }}
</div>
{{ end }}
{{ end }}
{{ end }}
{{ end }}
{{ end }}

</body>
</html>
`
