package run

import (
	"sort"
	"sync"
	"time"
)

// Stats accumulates run statistics. Mutation is serialized behind a mutex
// so worker goroutines can record outcomes concurrently; reads are only
// valid after Finish.
type Stats struct {
	StartedAt       time.Time
	FinishedAt      time.Time
	Total           int
	Successful      int
	Failed          int
	FailedFeeds     []string
	BytesDownloaded int64

	mu sync.Mutex
}

func NewStats() *Stats {
	return &Stats{
		StartedAt:   time.Now().UTC(),
		FailedFeeds: []string{},
	}
}

func (s *Stats) RecordSuccess(bytes int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Total++
	s.Successful++
	s.BytesDownloaded += bytes
}

func (s *Stats) RecordFailure(feedName string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Total++
	s.Failed++
	s.FailedFeeds = append(s.FailedFeeds, feedName)
}

// Finish stamps the end of the run. Failed feed names are sorted so the
// summary is stable regardless of worker completion order.
func (s *Stats) Finish() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.FinishedAt = time.Now().UTC()
	sort.Strings(s.FailedFeeds)
}

func (s *Stats) Elapsed() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}

func (s *Stats) SuccessRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Successful) / float64(s.Total)
}

func (s *Stats) ErrorRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Failed) / float64(s.Total)
}
