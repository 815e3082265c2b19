// Package inventory keeps a durable cross-run ledger of per-repository
// score history.
package inventory

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/actionsguard/actionsguard/internal/models"
	"github.com/actionsguard/actionsguard/pkg/shared/files"
)

// Change classifies how one repository's ledger entry moved during a fold.
type Change string

const (
	ChangeNew       Change = "new"
	ChangeUpdated   Change = "updated"
	ChangeUnchanged Change = "unchanged"
)

// HistoryPoint is one appended score observation.
type HistoryPoint struct {
	Date  string           `json:"date"`
	Score float64          `json:"score"`
	Risk  models.RiskLevel `json:"risk"`
}

// CheckSnapshot is the latest recorded state of one check.
type CheckSnapshot struct {
	Score    int             `json:"score"`
	Status   models.Status   `json:"status"`
	Severity models.Severity `json:"severity"`
}

// Entry is one repository's ledger record. History is append-only; the
// current fields are overwritten on every scan.
type Entry struct {
	RepoName     string                   `json:"repo_name"`
	RepoURL      string                   `json:"repo_url"`
	CurrentScore float64                  `json:"current_score"`
	CurrentRisk  models.RiskLevel         `json:"current_risk"`
	FirstSeen    string                   `json:"first_seen"`
	LastUpdated  string                   `json:"last_updated"`
	ScanCount    int                      `json:"scan_count"`
	ScoreHistory []HistoryPoint           `json:"score_history"`
	LatestChecks map[string]CheckSnapshot `json:"latest_checks"`
	Metadata     map[string]interface{}   `json:"metadata,omitempty"`
}

// Inventory owns the ledger file. It is mutated single-threaded, after a
// batch completes.
type Inventory struct {
	path   string
	data   map[string]*Entry
	logger hclog.Logger
}

// NewInventory loads the ledger from path, starting empty when the file
// does not exist yet.
func NewInventory(path string, logger hclog.Logger) (*Inventory, error) {
	if err := files.CreateFolderIfNotExists(filepath.Dir(path)); err != nil {
		return nil, err
	}

	inv := &Inventory{
		path:   path,
		data:   make(map[string]*Entry),
		logger: logger,
	}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return inv, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory %q: %w", path, err)
	}
	if err := json.Unmarshal(raw, &inv.data); err != nil {
		return nil, fmt.Errorf("failed to parse inventory %q: %w", path, err)
	}
	return inv, nil
}

func (inv *Inventory) save() error {
	data, err := json.MarshalIndent(inv.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize inventory: %w", err)
	}
	if err := files.WriteJsonFile(inv.path, data); err != nil {
		return fmt.Errorf("failed to save inventory: %w", err)
	}
	inv.logger.Debug("saved inventory", "path", inv.path)
	return nil
}

// ApplyScanResults folds finished scan results into the ledger and
// persists it. Results with an error are skipped entirely. Every applied
// result appends exactly one history point.
func (inv *Inventory) ApplyScanResults(results []models.ScanResult) (map[string]Change, error) {
	changes := make(map[string]Change)
	now := time.Now().Format(time.RFC3339)

	for _, result := range results {
		if result.Error != "" {
			inv.logger.Warn("skipping failed scan in inventory", "repo", result.RepoName)
			continue
		}

		point := HistoryPoint{Date: now, Score: result.Score, Risk: result.RiskLevel}
		snapshots := checkSnapshots(result.Checks)

		if entry, ok := inv.data[result.RepoName]; ok {
			if entry.CurrentScore != result.Score {
				changes[result.RepoName] = ChangeUpdated
			} else {
				changes[result.RepoName] = ChangeUnchanged
			}

			entry.CurrentScore = result.Score
			entry.CurrentRisk = result.RiskLevel
			entry.LastUpdated = now
			entry.ScanCount++
			entry.ScoreHistory = append(entry.ScoreHistory, point)
			entry.LatestChecks = snapshots
		} else {
			changes[result.RepoName] = ChangeNew
			inv.data[result.RepoName] = &Entry{
				RepoName:     result.RepoName,
				RepoURL:      result.RepoURL,
				CurrentScore: result.Score,
				CurrentRisk:  result.RiskLevel,
				FirstSeen:    now,
				LastUpdated:  now,
				ScanCount:    1,
				ScoreHistory: []HistoryPoint{point},
				LatestChecks: snapshots,
				Metadata:     result.Metadata,
			}
		}
	}

	if err := inv.save(); err != nil {
		return changes, err
	}
	return changes, nil
}

func checkSnapshots(checks []models.CheckResult) map[string]CheckSnapshot {
	snapshots := make(map[string]CheckSnapshot, len(checks))
	for _, check := range checks {
		snapshots[check.Name] = CheckSnapshot{
			Score:    check.Score,
			Status:   check.Status,
			Severity: check.Severity,
		}
	}
	return snapshots
}

// All returns every entry, sorted by repository name.
func (inv *Inventory) All() []*Entry {
	entries := make([]*Entry, 0, len(inv.data))
	for _, entry := range inv.data {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].RepoName < entries[j].RepoName
	})
	return entries
}

// Get returns the entry for a repository, or nil when unseen.
func (inv *Inventory) Get(repoName string) *Entry {
	return inv.data[repoName]
}

// ScoreChange reports a repository whose last two recorded scores differ.
type ScoreChange struct {
	RepoName      string           `json:"repo_name"`
	PreviousScore float64          `json:"previous_score"`
	CurrentScore  float64          `json:"current_score"`
	Change        float64          `json:"change"`
	PreviousRisk  models.RiskLevel `json:"previous_risk"`
	CurrentRisk   models.RiskLevel `json:"current_risk"`
	Date          string           `json:"date"`
}

// ScoreChanges compares the last two history points of every entry and
// returns the repositories that moved, most improved first.
func (inv *Inventory) ScoreChanges() []ScoreChange {
	var changes []ScoreChange

	for _, entry := range inv.data {
		if len(entry.ScoreHistory) < 2 {
			continue
		}
		previous := entry.ScoreHistory[len(entry.ScoreHistory)-2]
		current := entry.ScoreHistory[len(entry.ScoreHistory)-1]
		if previous.Score == current.Score {
			continue
		}
		changes = append(changes, ScoreChange{
			RepoName:      entry.RepoName,
			PreviousScore: previous.Score,
			CurrentScore:  current.Score,
			Change:        current.Score - previous.Score,
			PreviousRisk:  previous.Risk,
			CurrentRisk:   current.Risk,
			Date:          current.Date,
		})
	}

	sort.Slice(changes, func(i, j int) bool {
		if changes[i].Change != changes[j].Change {
			return changes[i].Change > changes[j].Change
		}
		return changes[i].RepoName < changes[j].RepoName
	})
	return changes
}

// Stats summarizes the ledger for operational tooling.
type Stats struct {
	TotalRepos    int                      `json:"total_repos"`
	AvgScore      float64                  `json:"avg_score"`
	RiskBreakdown map[models.RiskLevel]int `json:"risk_breakdown"`
	LastUpdated   string                   `json:"last_updated"`
}

// Stats computes the current ledger summary.
func (inv *Inventory) Stats() Stats {
	stats := Stats{
		RiskBreakdown: map[models.RiskLevel]int{
			models.RiskCritical: 0,
			models.RiskHigh:     0,
			models.RiskMedium:   0,
			models.RiskLow:      0,
		},
		LastUpdated: "never",
	}
	if len(inv.data) == 0 {
		return stats
	}

	var scoreSum float64
	for _, entry := range inv.data {
		stats.TotalRepos++
		scoreSum += entry.CurrentScore
		stats.RiskBreakdown[entry.CurrentRisk]++
		if entry.LastUpdated > stats.LastUpdated || stats.LastUpdated == "never" {
			stats.LastUpdated = entry.LastUpdated
		}
	}
	stats.AvgScore = math.Round(scoreSum/float64(stats.TotalRepos)*100) / 100
	return stats
}

// Export is the full-ledger view consumed by the export command.
type Export struct {
	Metadata     ExportMetadata `json:"metadata"`
	Summary      Stats          `json:"summary"`
	Repositories []*Entry       `json:"repositories"`
}

// ExportMetadata describes when and how big an export was.
type ExportMetadata struct {
	ExportedAt string `json:"exported_at"`
	TotalRepos int    `json:"total_repos"`
}

// Export snapshots the entire ledger.
func (inv *Inventory) Export() Export {
	return Export{
		Metadata: ExportMetadata{
			ExportedAt: time.Now().Format(time.RFC3339),
			TotalRepos: len(inv.data),
		},
		Summary:      inv.Stats(),
		Repositories: inv.All(),
	}
}
