package models

import (
	"math"
	"sort"
)

// ScanSummary aggregates a finished batch of scan results.
type ScanSummary struct {
	TotalRepos      int          `json:"total_repos"`
	SuccessfulScans int          `json:"successful_scans"`
	FailedScans     int          `json:"failed_scans"`
	AverageScore    float64      `json:"average_score"`
	CriticalCount   int          `json:"critical_count"`
	HighCount       int          `json:"high_count"`
	MediumCount     int          `json:"medium_count"`
	LowCount        int          `json:"low_count"`
	Results         []ScanResult `json:"results"`
	ScanDuration    float64      `json:"scan_duration,omitempty"`
}

// SummarizeResults builds a ScanSummary from a finished result list.
// The average score covers successful scans only; severity totals pool
// every check of every successful result.
func SummarizeResults(results []ScanResult, duration float64) ScanSummary {
	summary := ScanSummary{
		TotalRepos:   len(results),
		Results:      results,
		ScanDuration: duration,
	}

	var scoreSum float64
	for _, result := range results {
		if result.Error != "" {
			summary.FailedScans++
			continue
		}
		summary.SuccessfulScans++
		scoreSum += result.Score

		counts := result.SeverityCounts()
		summary.CriticalCount += counts[SeverityCritical]
		summary.HighCount += counts[SeverityHigh]
		summary.MediumCount += counts[SeverityMedium]
		summary.LowCount += counts[SeverityLow]
	}

	if summary.SuccessfulScans > 0 {
		avg := scoreSum / float64(summary.SuccessfulScans)
		summary.AverageScore = math.Round(avg*100) / 100
	}

	return summary
}

// TopIssue is one entry in the executive summary's most-frequent issue ranking.
type TopIssue struct {
	CheckName     string `json:"check_name"`
	Instances     int    `json:"instances"`
	ReposAffected int    `json:"repos_affected"`
}

// ExecutiveSummary is the derived management view over a ScanSummary.
type ExecutiveSummary struct {
	RiskDistribution map[RiskLevel]int `json:"risk_distribution"`
	TopIssues        []TopIssue        `json:"top_issues"`
}

// ExecutiveSummary computes the risk distribution and top-issue ranking on
// demand. A check counts as an issue instance when it failed or scored
// below 7; issues are ranked by instance count, then repos affected,
// truncated to the top 10.
func (s ScanSummary) ExecutiveSummary() ExecutiveSummary {
	distribution := map[RiskLevel]int{
		RiskCritical: 0,
		RiskHigh:     0,
		RiskMedium:   0,
		RiskLow:      0,
	}

	instances := make(map[string]int)
	repos := make(map[string]map[string]struct{})

	for _, result := range s.Results {
		if result.Error != "" {
			continue
		}
		distribution[result.RiskLevel]++

		for _, check := range result.Checks {
			if check.Status != StatusFail && check.Score >= 7 {
				continue
			}
			instances[check.Name]++
			if repos[check.Name] == nil {
				repos[check.Name] = make(map[string]struct{})
			}
			repos[check.Name][result.RepoName] = struct{}{}
		}
	}

	issues := make([]TopIssue, 0, len(instances))
	for name, count := range instances {
		issues = append(issues, TopIssue{
			CheckName:     name,
			Instances:     count,
			ReposAffected: len(repos[name]),
		})
	}
	sort.Slice(issues, func(i, j int) bool {
		if issues[i].Instances != issues[j].Instances {
			return issues[i].Instances > issues[j].Instances
		}
		if issues[i].ReposAffected != issues[j].ReposAffected {
			return issues[i].ReposAffected > issues[j].ReposAffected
		}
		return issues[i].CheckName < issues[j].CheckName
	})
	if len(issues) > 10 {
		issues = issues[:10]
	}

	return ExecutiveSummary{
		RiskDistribution: distribution,
		TopIssues:        issues,
	}
}
