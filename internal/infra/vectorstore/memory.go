package vectorstore

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/Slothdemon22/CampusMinus/internal/domain/question"
)

// Memory is an in-process question.VectorStore used for tests/dev. It
// mirrors the postgres adapter's semantics, including the degraded
// mode where the capability is absent.
type Memory struct {
	mu       sync.RWMutex
	vectors  map[uuid.UUID][]float32
	seq      map[uuid.UUID]int64
	nextSeq  int64
	disabled bool
}

// NewMemory constructs an empty store.
func NewMemory() *Memory {
	return &Memory{
		vectors: make(map[uuid.UUID][]float32),
		seq:     make(map[uuid.UUID]int64),
	}
}

// Disable switches the store into the capability-missing mode: writes
// report Skipped, queries return nothing.
func (s *Memory) Disable() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disabled = true
}

// Upsert implements question.VectorStore.
func (s *Memory) Upsert(_ context.Context, id uuid.UUID, embedding []float32) (question.UpsertOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disabled {
		return question.Skipped("vector capability disabled"), nil
	}
	if embedding == nil {
		delete(s.vectors, id)
		delete(s.seq, id)
		return question.Stored(), nil
	}
	s.vectors[id] = append([]float32(nil), embedding...)
	if _, ok := s.seq[id]; !ok {
		s.nextSeq++
		s.seq[id] = s.nextSeq
	}
	return question.Stored(), nil
}

// NearestNeighbors implements question.VectorStore with a linear scan.
func (s *Memory) NearestNeighbors(_ context.Context, embedding []float32, limit int) ([]uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.disabled || limit <= 0 {
		return nil, nil
	}

	type scored struct {
		id       uuid.UUID
		distance float64
		seq      int64
	}
	candidates := make([]scored, 0, len(s.vectors))
	for id, stored := range s.vectors {
		candidates = append(candidates, scored{
			id:       id,
			distance: l2Distance(embedding, stored),
			seq:      s.seq[id],
		})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].distance != candidates[j].distance {
			return candidates[i].distance < candidates[j].distance
		}
		// newest first on ties, matching the postgres adapter
		return candidates[i].seq > candidates[j].seq
	})

	if limit > len(candidates) {
		limit = len(candidates)
	}
	ids := make([]uuid.UUID, 0, limit)
	for _, c := range candidates[:limit] {
		ids = append(ids, c.id)
	}
	return ids, nil
}

// HasVector implements question.VectorStore.
func (s *Memory) HasVector(_ context.Context, id uuid.UUID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.disabled {
		return false, nil
	}
	_, ok := s.vectors[id]
	return ok, nil
}

// Remove drops the vector for a deleted row.
func (s *Memory) Remove(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.vectors, id)
	delete(s.seq, id)
}

func l2Distance(a, b []float32) float64 {
	length := len(a)
	if len(b) < length {
		length = len(b)
	}
	var sum float64
	for i := 0; i < length; i++ {
		diff := float64(a[i] - b[i])
		sum += diff * diff
	}
	return math.Sqrt(sum)
}

var _ question.VectorStore = (*Memory)(nil)
