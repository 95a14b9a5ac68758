package run

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Summary is the fixed-shape run record written once per run.
type Summary struct {
	StartedAt       string   `json:"started_at"`
	FinishedAt      string   `json:"finished_at"`
	ElapsedSeconds  float64  `json:"elapsed_seconds"`
	TotalFeeds      int      `json:"total_feeds"`
	Successful      int      `json:"successful"`
	Failed          int      `json:"failed"`
	FailedFeeds     []string `json:"failed_feeds"`
	BytesDownloaded int64    `json:"bytes_downloaded"`
	SuccessRate     float64  `json:"success_rate"`
	ErrorRate       float64  `json:"error_rate"`
}

type Reporter struct{}

func NewReporter() *Reporter {
	return &Reporter{}
}

// Finalize assembles the summary record from finished run statistics.
func (r *Reporter) Finalize(stats *Stats) Summary {
	failedFeeds := stats.FailedFeeds
	if failedFeeds == nil {
		failedFeeds = []string{}
	}

	return Summary{
		StartedAt:       stats.StartedAt.Format(time.RFC3339),
		FinishedAt:      stats.FinishedAt.Format(time.RFC3339),
		ElapsedSeconds:  stats.Elapsed().Seconds(),
		TotalFeeds:      stats.Total,
		Successful:      stats.Successful,
		Failed:          stats.Failed,
		FailedFeeds:     failedFeeds,
		BytesDownloaded: stats.BytesDownloaded,
		SuccessRate:     stats.SuccessRate(),
		ErrorRate:       stats.ErrorRate(),
	}
}

// Write persists the summary, overwriting any prior one at the path.
func (r *Reporter) Write(path string, stats *Stats) error {
	data, err := json.MarshalIndent(r.Finalize(stats), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize run summary: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write run summary: %w", err)
	}

	return nil
}
