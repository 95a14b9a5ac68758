package cfg

import (
	"cmp"
	"fmt"
	"path/filepath"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	FeedFile    string `short:"f" long:"feed" env:"FEED_FILE" required:"true" description:"YAML file containing the feeds"`
	Workdir     string `short:"w" long:"workdir" env:"WORKDIR" required:"true" description:"Root of the output directory"`
	CacheFile   string `long:"cache-file" env:"CACHE_FILE" description:"Path to the ETag cache file (default: <workdir>/etag_cache.json)"`
	SummaryFile string `long:"summary-file" env:"SUMMARY_FILE" description:"Path to the run summary file (default: <workdir>/run_summary.json)"`

	Timeout      int    `long:"timeout" env:"FETCH_TIMEOUT" default:"30" description:"Per-request timeout in seconds"`
	WorkerCount  int    `long:"workers" env:"WORKER_COUNT" default:"5" description:"Number of concurrent fetch workers"`
	UserAgent    string `long:"user-agent" env:"USER_AGENT" default:"Collectress/1.0" description:"User agent string for HTTP requests"`
	CarryForward bool   `long:"carry-forward" env:"CARRY_FORWARD" description:"Copy the previous day's file into today's directory when a feed is unchanged"`

	Debug bool `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

// Load parses configuration from command-line flags and environment
// variables. Returns (nil, nil) when help was requested.
func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		FeedFile:     raw.FeedFile,
		Workdir:      raw.Workdir,
		CacheFile:    raw.CacheFile,
		SummaryFile:  raw.SummaryFile,
		Timeout:      raw.Timeout,
		WorkerCount:  raw.WorkerCount,
		UserAgent:    raw.UserAgent,
		CarryForward: raw.CarryForward,
		Debug:        raw.Debug,
		Version:      GetVersion(),
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyDefaults(cfg *Cfg) {
	if cfg.CacheFile == "" {
		cfg.CacheFile = filepath.Join(cfg.Workdir, "etag_cache.json")
	}
	if cfg.SummaryFile == "" {
		cfg.SummaryFile = filepath.Join(cfg.Workdir, "run_summary.json")
	}
}

func validate(cfg *Cfg) error {
	if cfg.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %d", cfg.Timeout)
	}
	if cfg.WorkerCount <= 0 {
		return fmt.Errorf("worker count must be positive, got %d", cfg.WorkerCount)
	}
	return nil
}
