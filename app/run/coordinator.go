package run

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/collectress/collectress/app/cache"
	"github.com/collectress/collectress/app/feed"
	"github.com/collectress/collectress/app/fetch"
	"github.com/collectress/collectress/app/storage"
)

// Coordinator drives one run: it consults the cache, fetches each feed,
// stores new payloads and accumulates statistics. Feeds are independent;
// one feed's outcome never affects another's.
type Coordinator struct {
	store        *cache.Store
	fetcher      *fetch.Fetcher
	writer       *storage.Writer
	workerCount  int
	carryForward bool
}

func NewCoordinator(store *cache.Store, fetcher *fetch.Fetcher, writer *storage.Writer,
	workerCount int, carryForward bool) *Coordinator {
	return &Coordinator{
		store:        store,
		fetcher:      fetcher,
		writer:       writer,
		workerCount:  workerCount,
		carryForward: carryForward,
	}
}

// Run processes the feed list with a bounded worker pool and returns the
// finished statistics. Per-feed failures are recorded, never raised.
func (c *Coordinator) Run(ctx context.Context, feeds []feed.Descriptor) *Stats {
	stats := NewStats()

	g := new(errgroup.Group)
	g.SetLimit(c.workerCount)

	for _, d := range feeds {
		g.Go(func() error {
			c.processFeed(ctx, d, stats)
			return nil
		})
	}
	_ = g.Wait()

	stats.Finish()
	return stats
}

func (c *Coordinator) processFeed(ctx context.Context, d feed.Descriptor, stats *Stats) {
	var prior *cache.Entry
	if entry, ok := c.store.Get(d.Name); ok {
		prior = &entry
	}

	result := c.fetcher.Fetch(ctx, d, prior)

	switch result.Status {
	case fetch.StatusUnchanged:
		c.store.Put(d.Name, refreshedEntry(prior, result.ETag))
		if c.carryForward {
			if _, err := c.writer.CarryForward(d, time.Now().UTC()); err != nil {
				slog.Warn("Failed to carry forward previous file", "feed", d.Name, "error", err)
			}
		}
		slog.Info("Feed unchanged", "feed", d.Name)
		stats.RecordSuccess(0)

	case fetch.StatusFetched:
		writeResult, err := c.writer.Write(d, time.Now().UTC(), result.Payload)
		if err != nil {
			slog.Error("Failed to store feed payload", "feed", d.Name, "error", err)
			stats.RecordFailure(d.Name)
			return
		}

		c.store.Put(d.Name, fetchedEntry(result))
		slog.Info("Feed processed", "feed", d.Name, "result", writeResult.String(), "size", result.Size)
		stats.RecordSuccess(result.Size)

	case fetch.StatusFailed:
		// The cache entry is left untouched: a failed attempt must not
		// poison the validator from the last good fetch.
		slog.Error("Failed to fetch feed", "feed", d.Name, "error", result.Err)
		stats.RecordFailure(d.Name)
	}
}

func fetchedEntry(result fetch.Result) cache.Entry {
	size := result.Size
	entry := cache.Entry{Size: &size}
	if result.ETag != "" {
		etag := result.ETag
		entry.ETag = &etag
	}
	return entry
}

// refreshedEntry keeps the prior entry but adopts a reissued validator.
// A 304 carries no body, so the last known size is retained.
func refreshedEntry(prior *cache.Entry, etag string) cache.Entry {
	var entry cache.Entry
	if prior != nil {
		entry = *prior
	}
	if etag != "" {
		entry.ETag = &etag
	}
	return entry
}
