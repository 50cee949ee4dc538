package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/ids"
	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/ingest"
	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/internalerr"
	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/store"
)

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu           sync.RWMutex
	runs         map[string]store.Run
	translations map[string]string
}

var _ store.Store = (*Store)(nil)

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		runs:         make(map[string]store.Run),
		translations: make(map[string]string),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// SaveRun inserts or replaces a run, keyed by ID.
func (s *Store) SaveRun(ctx context.Context, r store.Run) error {
	if r.ID == "" {
		return fmt.Errorf("run without id: %w", internalerr.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[r.ID] = copyRun(r)
	return nil
}

// GetRun returns a run by ID.
func (s *Store) GetRun(ctx context.Context, id string) (store.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.runs[id]
	if !ok {
		return store.Run{}, fmt.Errorf("run %s: %w", id, internalerr.ErrNotFound)
	}
	return copyRun(r), nil
}

// LatestRun returns the newest run.
func (s *Store) LatestRun(ctx context.Context) (store.Run, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ordered := s.newestFirst()
	if len(ordered) == 0 {
		return store.Run{}, false, nil
	}
	return copyRun(ordered[0]), true, nil
}

// ListRuns returns run summaries, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]store.RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	ordered := s.newestFirst()
	if len(ordered) > limit {
		ordered = ordered[:limit]
	}
	out := make([]store.RunSummary, len(ordered))
	for i, r := range ordered {
		out[i] = r.Summary()
	}
	return out, nil
}

// GetTranslation returns a cached translation.
func (s *Store) GetTranslation(ctx context.Context, id, target string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.translations[translationKey(id, target)]
	return v, ok, nil
}

// PutTranslation caches a translation.
func (s *Store) PutTranslation(ctx context.Context, id, target, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.translations[translationKey(id, target)] = value
	return nil
}

func (s *Store) newestFirst() []store.Run {
	out := make([]store.Run, 0, len(s.runs))
	for _, r := range s.runs {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func copyRun(r store.Run) store.Run {
	r.Articles = append([]ingest.Article(nil), r.Articles...)
	r.Results = append(ids.ResultTable(nil), r.Results...)
	return r
}

func translationKey(id, target string) string {
	return target + "\x00" + id
}
