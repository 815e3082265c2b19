package report

import (
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-hclog"

	"github.com/actionsguard/actionsguard/internal/models"
)

// Publisher posts finished summaries to an external webhook endpoint.
type Publisher struct {
	httpc  *resty.Client
	url    string
	logger hclog.Logger
}

// NewPublisher creates a Publisher for the given webhook URL. The token,
// when set, is sent as an Authorization header on every request.
func NewPublisher(url, token string, logger hclog.Logger) *Publisher {
	httpc := resty.New()
	httpc.SetBaseURL(url)
	if token != "" {
		httpc.SetHeader("Authorization", fmt.Sprintf("Token %s", token))
	}

	return &Publisher{
		httpc:  httpc,
		url:    url,
		logger: logger,
	}
}

type publishPayload struct {
	Source           string                  `json:"source"`
	Summary          models.ScanSummary      `json:"summary"`
	ExecutiveSummary models.ExecutiveSummary `json:"executive_summary"`
}

// Publish posts the summary as JSON. Any response outside 2xx is an error.
func (p *Publisher) Publish(summary models.ScanSummary) error {
	payload := publishPayload{
		Source:           "actionsguard",
		Summary:          summary,
		ExecutiveSummary: summary.ExecutiveSummary(),
	}

	resp, err := p.httpc.R().
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post("")
	if err != nil {
		return fmt.Errorf("failed to publish scan summary: %w", err)
	}
	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		return fmt.Errorf("%d on publishing scan summary to '%s'", resp.StatusCode(), p.url)
	}

	p.logger.Info("scan summary published", "url", p.url, "status", resp.StatusCode())
	return nil
}
