package scorecard

import (
	"encoding/json"
	"time"

	"github.com/actionsguard/actionsguard/internal/models"
)

// RawResult is the scorecard JSON output, decoded once at this boundary.
// Downstream components never touch untyped JSON.
type RawResult struct {
	Date      string         `json:"date"`
	Score     float64        `json:"score"`
	Checks    []RawCheck     `json:"checks"`
	Repo      RawRepo        `json:"repo"`
	Scorecard RawToolVersion `json:"scorecard"`
}

// RawCheck is one check entry in the scorecard output. A missing score is
// treated as 0 and a missing name as "Unknown" during parsing.
type RawCheck struct {
	Name          string            `json:"name"`
	Score         *int              `json:"score"`
	Reason        string            `json:"reason"`
	Documentation RawDocumentation  `json:"documentation"`
	Details       []json.RawMessage `json:"details"`
}

// RawDocumentation holds the check's documentation pointers.
type RawDocumentation struct {
	URL   string `json:"url"`
	Short string `json:"short"`
}

// RawRepo identifies the scanned repository revision.
type RawRepo struct {
	Name   string `json:"name"`
	Commit string `json:"commit"`
}

// RawToolVersion identifies the scorecard build that produced the output.
type RawToolVersion struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
}

// SentinelScore is scorecard's "check not applicable" marker.
const SentinelScore = -1

// StatusForScore maps a raw check score to a status.
func StatusForScore(score int) models.Status {
	switch {
	case score == SentinelScore:
		return models.StatusSkip
	case score >= 7:
		return models.StatusPass
	case score >= 4:
		return models.StatusWarn
	default:
		return models.StatusFail
	}
}

// ParseChecks converts the raw check entries into CheckResults. Sentinel
// scores are stored as 0 but rated for severity as a perfect score, so a
// skipped check carries Info severity.
func ParseChecks(raw *RawResult) []models.CheckResult {
	checks := make([]models.CheckResult, 0, len(raw.Checks))

	for _, check := range raw.Checks {
		name := check.Name
		if name == "" {
			name = "Unknown"
		}
		score := 0
		if check.Score != nil {
			score = *check.Score
		}
		reason := check.Reason
		if reason == "" {
			reason = "No reason provided"
		}

		severityScore := score
		if score == SentinelScore {
			severityScore = 10
		}

		storedScore := score
		if storedScore < 0 {
			storedScore = 0
		}

		checks = append(checks, models.CheckResult{
			Name:             name,
			Score:            storedScore,
			Status:           StatusForScore(score),
			Reason:           reason,
			DocumentationURL: check.Documentation.URL,
			Severity:         models.SeverityForScore(severityScore),
			Details: &models.CheckDetail{
				Short:   check.Documentation.Short,
				Details: detailMessages(check.Details),
			},
		})
	}

	return checks
}

// OverallScore extracts the overall score, defaulting to 0.0.
func (r *RawResult) OverallScore() float64 {
	return r.Score
}

// Metadata extracts tool and target identification, substituting "unknown"
// for absent tool fields.
func (r *RawResult) Metadata() map[string]interface{} {
	version := r.Scorecard.Version
	if version == "" {
		version = "unknown"
	}
	commit := r.Scorecard.Commit
	if commit == "" {
		commit = "unknown"
	}
	timestamp := r.Date
	if timestamp == "" {
		timestamp = time.Now().Format(time.RFC3339)
	}

	return map[string]interface{}{
		"scorecard_version": version,
		"scorecard_commit":  commit,
		"repo":              r.Repo.Name,
		"commit":            r.Repo.Commit,
		"scan_timestamp":    timestamp,
	}
}

// detailMessages flattens well-formed detail items to their messages for
// the stored check detail blob. Malformed items are dropped.
func detailMessages(details []json.RawMessage) []string {
	messages := make([]string, 0, len(details))
	for _, raw := range details {
		var item struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(raw, &item); err != nil {
			continue
		}
		if item.Msg != "" {
			messages = append(messages, item.Msg)
		}
	}
	return messages
}
