package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Entry holds the last-seen validator metadata for one feed.
type Entry struct {
	ETag *string `json:"etag"`
	Size *int64  `json:"size"`
}

// Store maps feed names to cache entries and persists the whole mapping as
// a single JSON snapshot. A single process owns the cache file for the
// duration of a run; concurrent runs against the same file are not
// supported and there is no file locking.
type Store struct {
	entries map[string]Entry
	mu      sync.RWMutex
}

// Load reads the cache snapshot from disk. Fails soft: a missing or
// corrupt file yields an empty store, treated as a cold start.
func Load(path string) *Store {
	store := &Store{entries: make(map[string]Entry)}

	data, err := os.ReadFile(path)
	if err != nil {
		return store
	}

	var entries map[string]Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return store
	}

	store.entries = entries
	return store
}

func (s *Store) Get(name string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[name]
	return entry, ok
}

// Put overwrites the entry for a feed unconditionally.
func (s *Store) Put(name string, entry Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[name] = entry
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}

// Save serializes the full mapping atomically via a temp file and rename.
// A failed save leaves any already-written feed files in place: the cache
// and the file tree may diverge until the next successful run.
func (s *Store) Save(path string) error {
	s.mu.RLock()
	data, err := json.MarshalIndent(s.entries, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to serialize cache: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".etag_cache-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp cache file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp cache file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace cache file: %w", err)
	}

	return nil
}
