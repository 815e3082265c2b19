package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/hashicorp/go-hclog"

	"github.com/actionsguard/actionsguard/internal/models"
)

// CSVReporter writes one row per repository with severity counts.
type CSVReporter struct {
	logger hclog.Logger
}

// Generate implements Reporter.
func (r *CSVReporter) Generate(summary models.ScanSummary, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed creating file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{
		"repo_name", "repo_url", "score", "risk_level", "scan_date",
		"critical", "high", "medium", "low", "info", "error",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("error writing CSV header: %w", err)
	}

	for _, result := range summary.Results {
		counts := result.SeverityCounts()
		row := []string{
			result.RepoName,
			result.RepoURL,
			strconv.FormatFloat(result.Score, 'f', 1, 64),
			string(result.RiskLevel),
			result.ScanDate.Format("2006-01-02 15:04:05"),
			strconv.Itoa(counts[models.SeverityCritical]),
			strconv.Itoa(counts[models.SeverityHigh]),
			strconv.Itoa(counts[models.SeverityMedium]),
			strconv.Itoa(counts[models.SeverityLow]),
			strconv.Itoa(counts[models.SeverityInfo]),
			result.Error,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("error writing CSV row for %q: %w", result.RepoName, err)
		}
	}

	return nil
}

// Extension implements Reporter.
func (r *CSVReporter) Extension() string {
	return ".csv"
}
