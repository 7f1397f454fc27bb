package searchstore

import (
	"context"
	"sort"
	"sync"

	"github.com/Slothdemon22/CampusMinus/internal/domain/question"
)

// MemoryStore is the in-process question.SearchLog fallback.
type MemoryStore struct {
	mu       sync.Mutex
	counts   map[string]int64
	displays map[string]string
}

// NewMemoryStore constructs the store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		counts:   make(map[string]int64),
		displays: make(map[string]string),
	}
}

// IncrementQuery implements question.SearchLog.
func (s *MemoryStore) IncrementQuery(_ context.Context, canonical, display string) error {
	if canonical == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[canonical]++
	if _, ok := s.displays[canonical]; !ok && display != "" {
		s.displays[canonical] = display
	}
	return nil
}

// TopQueries implements question.SearchLog.
func (s *MemoryStore) TopQueries(_ context.Context, limit int) ([]question.TrendingQuery, error) {
	if limit <= 0 {
		limit = 10
	}
	s.mu.Lock()
	out := make([]question.TrendingQuery, 0, len(s.counts))
	for canonical, count := range s.counts {
		display := s.displays[canonical]
		if display == "" {
			display = canonical
		}
		out = append(out, question.TrendingQuery{Query: display, Count: count})
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Query < out[j].Query
	})
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

var _ question.SearchLog = (*MemoryStore)(nil)
