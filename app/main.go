package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-multierror"

	"github.com/collectress/collectress/app/cache"
	"github.com/collectress/collectress/app/cfg"
	"github.com/collectress/collectress/app/feed"
	"github.com/collectress/collectress/app/fetch"
	"github.com/collectress/collectress/app/run"
	"github.com/collectress/collectress/app/storage"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	if appCfg.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	slog.Info("Starting Collectress run", "version", appCfg.Version)

	// Setup errors are fatal: nothing is fetched before the feed list and
	// the output root are known good.
	feeds, err := feed.Load(appCfg.FeedFile)
	if err != nil {
		slog.Error("Failed to load feeds", "file", appCfg.FeedFile, "error", err)
		os.Exit(1)
	}
	slog.Info("Loaded feed descriptors", "file", appCfg.FeedFile, "count", len(feeds))

	if err := os.MkdirAll(appCfg.Workdir, 0755); err != nil {
		slog.Error("Failed to prepare output directory", "workdir", appCfg.Workdir, "error", err)
		os.Exit(1)
	}

	store := cache.Load(appCfg.CacheFile)
	slog.Info("Cache loaded", "file", appCfg.CacheFile, "entries", store.Len())

	fetcher := fetch.NewFetcher(fetch.NewClient(), appCfg.UserAgent,
		time.Duration(appCfg.Timeout)*time.Second)
	writer := storage.NewWriter(appCfg.Workdir)
	coordinator := run.NewCoordinator(store, fetcher, writer,
		appCfg.WorkerCount, appCfg.CarryForward)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stats := coordinator.Run(ctx, feeds)

	if ctx.Err() != nil {
		// Interrupted mid-run: leave the cache and summary unpersisted so
		// the next run treats this run's updates as never having happened.
		slog.Warn("Run interrupted, cache and summary not persisted")
		os.Exit(1)
	}

	var persistErr *multierror.Error
	if err := store.Save(appCfg.CacheFile); err != nil {
		slog.Error("Failed to save cache", "file", appCfg.CacheFile, "error", err)
		persistErr = multierror.Append(persistErr, err)
	}
	if err := run.NewReporter().Write(appCfg.SummaryFile, stats); err != nil {
		slog.Error("Failed to write run summary", "file", appCfg.SummaryFile, "error", err)
		persistErr = multierror.Append(persistErr, err)
	}

	slog.Info("Run complete",
		"total", stats.Total,
		"successful", stats.Successful,
		"failed", stats.Failed,
		"downloaded", humanize.Bytes(uint64(stats.BytesDownloaded)),
		"elapsed", stats.Elapsed().String())

	// Per-feed failures are recoverable and never change the exit code;
	// failing to durably record the run's bookkeeping does.
	if persistErr.ErrorOrNil() != nil {
		os.Exit(1)
	}
}
