package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/collectress/collectress/app/cache"
	"github.com/collectress/collectress/app/feed"
)

// NewClient builds the HTTP client shared by all fetch workers. Redirects
// are followed by the client itself; per-request deadlines come from the
// fetcher's context timeout.
func NewClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        10,
			IdleConnTimeout:     30 * time.Second,
			DisableCompression:  false,
			DisableKeepAlives:   false,
			MaxIdleConnsPerHost: 5,
		},
	}
}

type Fetcher struct {
	client    *http.Client
	userAgent string
	timeout   time.Duration
}

func NewFetcher(client *http.Client, userAgent string, timeout time.Duration) *Fetcher {
	return &Fetcher{
		client:    client,
		userAgent: userAgent,
		timeout:   timeout,
	}
}

// Fetch performs one conditional retrieval. Every failure path resolves to
// a StatusFailed result: a single bad feed must never abort the run.
func (f *Fetcher) Fetch(ctx context.Context, d feed.Descriptor, prior *cache.Entry) Result {
	timeoutCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodGet, d.URL, nil)
	if err != nil {
		return Result{Status: StatusFailed, Err: fmt.Errorf("failed to create request: %w", err)}
	}

	req.Header.Set("User-Agent", f.userAgent)
	if prior != nil && prior.ETag != nil && *prior.ETag != "" {
		req.Header.Set("If-None-Match", *prior.ETag)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return Result{Status: StatusFailed, Err: fmt.Errorf("failed to fetch feed: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified {
		// The origin may reissue the validator alongside a 304.
		return Result{Status: StatusUnchanged, ETag: resp.Header.Get("ETag")}
	}

	// Only an exact 200 is a usable payload. Anything else, including
	// other 2xx codes and redirect statuses surfaced to us, is a failure
	// for this feed in this run.
	if resp.StatusCode != http.StatusOK {
		return Result{Status: StatusFailed, Err: fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{Status: StatusFailed, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	return Result{
		Status:  StatusFetched,
		Payload: data,
		ETag:    resp.Header.Get("ETag"),
		Size:    int64(len(data)),
	}
}
