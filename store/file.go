package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/mohiawrai2609/commant-center/signal"
)

// FileStore is the local fallback store, one JSON file per day under a base
// directory. Writes are serialized per store instance.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

// NewFileStore creates the base directory if needed and returns the store.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(dayKey string) string {
	return filepath.Join(s.dir, stripDayPrefix(dayKey)+".json")
}

// SaveDay overwrites the day's signal list. The write goes through a temp
// file and rename so a crash never leaves a truncated bucket.
func (s *FileStore) SaveDay(_ context.Context, dayKey string, signals []signal.Signal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(signals, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal day bucket: %w", err)
	}

	tmp := s.path(dayKey) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrUnavailable, dayKey, err)
	}
	if err := os.Rename(tmp, s.path(dayKey)); err != nil {
		return fmt.Errorf("%w: rename %s: %v", ErrUnavailable, dayKey, err)
	}
	return nil
}

// LoadDay returns the day's signal list.
func (s *FileStore) LoadDay(_ context.Context, dayKey string) ([]signal.Signal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(dayKey))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: read %s: %v", ErrUnavailable, dayKey, err)
	}

	var signals []signal.Signal
	if err := json.Unmarshal(data, &signals); err != nil {
		return nil, fmt.Errorf("unmarshal day bucket %s: %w", dayKey, err)
	}
	return signals, nil
}

// Days lists all persisted day keys, most recent first.
func (s *FileStore) Days(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: list store directory: %v", ErrUnavailable, err)
	}

	var days []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		days = append(days, addDayPrefix(strings.TrimSuffix(name, ".json")))
	}
	sort.Sort(sort.Reverse(sort.StringSlice(days)))
	return days, nil
}

// DeleteDay removes the day's file.
func (s *FileStore) DeleteDay(_ context.Context, dayKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(dayKey)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: remove %s: %v", ErrUnavailable, dayKey, err)
	}
	return nil
}
