// Package memory keeps run history in process memory. It is meant for
// tests and for deployments that do not want a database file.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"listfilter/internal/storage"
)

func init() {
	storage.RegisterFactory("memory", func(string) (storage.StorageInterface, error) {
		return New(), nil
	})
}

type Storage struct {
	runs *runStore
}

func New() *Storage {
	return &Storage{runs: &runStore{}}
}

func (s *Storage) Runs() storage.RunStore {
	return s.runs
}

func (s *Storage) Close(ctx context.Context) error {
	return nil
}

type runStore struct {
	mu   sync.RWMutex
	runs []storage.Run
	seen map[string]bool
}

func (s *runStore) Record(ctx context.Context, run storage.Run) error {
	if run.ID == "" {
		return fmt.Errorf("run id is required")
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	run.CreatedAt = run.CreatedAt.UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.seen == nil {
		s.seen = make(map[string]bool)
	}
	if s.seen[run.ID] {
		return nil
	}
	s.seen[run.ID] = true
	s.runs = append(s.runs, run)
	return nil
}

func (s *runStore) ListRecent(ctx context.Context, limit int) ([]storage.Run, error) {
	s.mu.RLock()
	runs := make([]storage.Run, len(s.runs))
	copy(runs, s.runs)
	s.mu.RUnlock()

	// Insertion order breaks ties, newest first.
	for i, j := 0, len(runs)-1; i < j; i, j = i+1, j-1 {
		runs[i], runs[j] = runs[j], runs[i]
	}
	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].CreatedAt.After(runs[j].CreatedAt)
	})

	if limit >= 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

func (s *runStore) DeleteOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	cutoff := time.Now().Add(-age)

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.runs[:0]
	var deleted int64
	for _, run := range s.runs {
		if run.CreatedAt.Before(cutoff) {
			delete(s.seen, run.ID)
			deleted++
			continue
		}
		kept = append(kept, run)
	}
	s.runs = kept
	return deleted, nil
}
