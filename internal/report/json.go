package report

import (
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/actionsguard/actionsguard/internal/models"
	"github.com/actionsguard/actionsguard/pkg/shared/files"
)

// JSONReporter writes the full summary plus its executive view.
type JSONReporter struct {
	logger hclog.Logger
}

type jsonReport struct {
	models.ScanSummary
	ExecutiveSummary models.ExecutiveSummary `json:"executive_summary"`
}

// Generate implements Reporter.
func (r *JSONReporter) Generate(summary models.ScanSummary, path string) error {
	payload := jsonReport{
		ScanSummary:      summary,
		ExecutiveSummary: summary.ExecutiveSummary(),
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling the report data: %w", err)
	}
	return files.WriteJsonFile(path, data)
}

// Extension implements Reporter.
func (r *JSONReporter) Extension() string {
	return ".json"
}
