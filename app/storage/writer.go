package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/collectress/collectress/app/feed"
)

// Result classifies a write attempt.
type Result int

const (
	Stored Result = iota
	Skipped
)

func (r Result) String() string {
	if r == Skipped {
		return "skipped"
	}
	return "stored"
}

// Writer places fetched payloads under a per-feed, date-partitioned
// directory tree rooted at the working directory.
type Writer struct {
	root string
}

func NewWriter(root string) *Writer {
	return &Writer{root: root}
}

// Path computes the destination for a feed's payload on the given UTC
// date: <root>/<name>/<YYYY>/<MM>/<DD>/<YYYY_MM_DD[_org]_name.txt>.
func (w *Writer) Path(d feed.Descriptor, date time.Time) string {
	date = date.UTC()
	year := fmt.Sprintf("%04d", date.Year())
	month := fmt.Sprintf("%02d", date.Month())
	day := fmt.Sprintf("%02d", date.Day())

	name := fmt.Sprintf("%s_%s_%s_%s.txt", year, month, day, d.Name)
	if d.Org != "" {
		name = fmt.Sprintf("%s_%s_%s_%s_%s.txt", year, month, day, d.Org, d.Name)
	}

	return filepath.Join(w.root, d.Name, year, month, day, name)
}

// Write stores a payload at the computed date path. An existing file of
// equal byte size is left untouched and reported as Skipped. Size equality
// is a heuristic, not a content hash: a same-size-but-different-content
// update is treated as unchanged.
func (w *Writer) Write(d feed.Descriptor, date time.Time, payload []byte) (Result, error) {
	path := w.Path(d, date)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return Stored, fmt.Errorf("failed to create directory: %w", err)
	}

	if info, err := os.Stat(path); err == nil && info.Size() == int64(len(payload)) {
		return Skipped, nil
	}

	if err := os.WriteFile(path, payload, 0644); err != nil {
		return Stored, fmt.Errorf("failed to write %s: %w", path, err)
	}

	return Stored, nil
}

// CarryForward copies the previous day's stored file into today's
// directory when a feed came back unchanged. Returns true when today's
// file exists afterwards. A missing yesterday file is a no-op, not an
// error.
func (w *Writer) CarryForward(d feed.Descriptor, date time.Time) (bool, error) {
	today := w.Path(d, date)
	if _, err := os.Stat(today); err == nil {
		return true, nil
	}

	yesterday := w.Path(d, date.AddDate(0, 0, -1))
	data, err := os.ReadFile(yesterday)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read %s: %w", yesterday, err)
	}

	if err := os.MkdirAll(filepath.Dir(today), 0755); err != nil {
		return false, fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(today, data, 0644); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", today, err)
	}

	return true, nil
}
