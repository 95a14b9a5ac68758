package run

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFinalizeRates(t *testing.T) {
	stats := NewStats()
	stats.RecordSuccess(100)
	stats.RecordSuccess(0)
	stats.RecordFailure("beta")
	stats.RecordFailure("gamma")
	stats.Finish()

	summary := NewReporter().Finalize(stats)

	if summary.TotalFeeds != 4 {
		t.Errorf("Expected 4 total feeds, got %d", summary.TotalFeeds)
	}
	if summary.SuccessRate != 0.5 {
		t.Errorf("Expected success rate 0.5, got %f", summary.SuccessRate)
	}
	if summary.ErrorRate != 0.5 {
		t.Errorf("Expected error rate 0.5, got %f", summary.ErrorRate)
	}
	if summary.BytesDownloaded != 100 {
		t.Errorf("Expected 100 bytes, got %d", summary.BytesDownloaded)
	}
	if len(summary.FailedFeeds) != 2 || summary.FailedFeeds[0] != "beta" || summary.FailedFeeds[1] != "gamma" {
		t.Errorf("Expected sorted failed feeds [beta gamma], got %v", summary.FailedFeeds)
	}
}

func TestFinalizeZeroTotal(t *testing.T) {
	stats := NewStats()
	stats.Finish()

	summary := NewReporter().Finalize(stats)

	if summary.SuccessRate != 0 {
		t.Errorf("Expected success rate 0 for empty run, got %f", summary.SuccessRate)
	}
	if summary.ErrorRate != 0 {
		t.Errorf("Expected error rate 0 for empty run, got %f", summary.ErrorRate)
	}
}

func TestFinalizeTimestamps(t *testing.T) {
	stats := NewStats()
	stats.Finish()

	summary := NewReporter().Finalize(stats)

	started, err := time.Parse(time.RFC3339, summary.StartedAt)
	if err != nil {
		t.Fatalf("started_at is not RFC 3339: %v", err)
	}
	finished, err := time.Parse(time.RFC3339, summary.FinishedAt)
	if err != nil {
		t.Fatalf("finished_at is not RFC 3339: %v", err)
	}
	if finished.Before(started) {
		t.Error("finished_at must not precede started_at")
	}
	if summary.ElapsedSeconds < 0 {
		t.Errorf("Expected non-negative elapsed seconds, got %f", summary.ElapsedSeconds)
	}
}

func TestWriteSummaryFile(t *testing.T) {
	stats := NewStats()
	stats.RecordSuccess(100)
	stats.RecordFailure("beta")
	stats.Finish()

	path := filepath.Join(t.TempDir(), "run_summary.json")
	if err := NewReporter().Write(path, stats); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}

	for _, field := range []string{
		"started_at", "finished_at", "elapsed_seconds", "total_feeds",
		"successful", "failed", "failed_feeds", "bytes_downloaded",
		"success_rate", "error_rate",
	} {
		if _, ok := raw[field]; !ok {
			t.Errorf("Expected field '%s' in summary", field)
		}
	}

	if raw["total_feeds"] != float64(2) {
		t.Errorf("Expected total_feeds 2, got %v", raw["total_feeds"])
	}
	failedFeeds, ok := raw["failed_feeds"].([]any)
	if !ok {
		t.Fatalf("Expected failed_feeds to be a list, got %T", raw["failed_feeds"])
	}
	if len(failedFeeds) != 1 || failedFeeds[0] != "beta" {
		t.Errorf("Expected failed_feeds [beta], got %v", failedFeeds)
	}
}

func TestWriteSummaryOverwritesPrevious(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run_summary.json")

	stats := NewStats()
	stats.RecordFailure("beta")
	stats.Finish()
	if err := NewReporter().Write(path, stats); err != nil {
		t.Fatal(err)
	}

	stats = NewStats()
	stats.RecordSuccess(10)
	stats.Finish()
	if err := NewReporter().Write(path, stats); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var summary Summary
	if err := json.Unmarshal(data, &summary); err != nil {
		t.Fatal(err)
	}
	if summary.Failed != 0 || summary.Successful != 1 {
		t.Errorf("Expected the later summary on disk, got %+v", summary)
	}
}
