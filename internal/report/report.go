// Package report renders finished scan summaries into the supported
// output formats and publishes them to configured targets.
package report

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/actionsguard/actionsguard/internal/models"
	"github.com/actionsguard/actionsguard/pkg/shared/files"
)

// Reporter renders a summary into one output format.
type Reporter interface {
	Generate(summary models.ScanSummary, path string) error
	Extension() string
}

// NewReporter returns the reporter for a format name.
func NewReporter(format string, logger hclog.Logger) (Reporter, error) {
	switch format {
	case "json":
		return &JSONReporter{logger: logger}, nil
	case "csv":
		return &CSVReporter{logger: logger}, nil
	case "markdown":
		return &MarkdownReporter{logger: logger}, nil
	case "html":
		return &HTMLReporter{logger: logger}, nil
	case "sarif":
		return &SARIFReporter{logger: logger}, nil
	default:
		return nil, fmt.Errorf("unsupported report format %q", format)
	}
}

// GenerateReports writes the summary in every requested format under
// outputDir and returns the generated file paths.
func GenerateReports(summary models.ScanSummary, outputDir string, formats []string, logger hclog.Logger) ([]string, error) {
	if err := files.CreateFolderIfNotExists(outputDir); err != nil {
		return nil, err
	}

	timestamp := time.Now().UTC().Format("2006-01-02T15-04-05")
	var paths []string

	for _, format := range formats {
		reporter, err := NewReporter(format, logger)
		if err != nil {
			return paths, err
		}

		path := filepath.Join(outputDir, fmt.Sprintf("actionsguard-report-%s%s", timestamp, reporter.Extension()))
		if err := reporter.Generate(summary, path); err != nil {
			return paths, fmt.Errorf("failed to generate %s report: %w", format, err)
		}

		logger.Info("report generated", "format", format, "path", path)
		paths = append(paths, path)
	}

	return paths, nil
}
