package questionrepo

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/Slothdemon22/CampusMinus/internal/domain/question"
	"github.com/Slothdemon22/CampusMinus/internal/domain/user"
	"github.com/Slothdemon22/CampusMinus/internal/infra/vectorstore"
	"github.com/Slothdemon22/CampusMinus/pkg/util"
)

// MemoryRepository is an in-memory question.Repository used for
// tests/dev. It composes the memory vector store so the degrade-path
// semantics match the postgres pairing.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]question.Question
	vectors *vectorstore.Memory
	users   user.Repository
}

// NewMemoryRepository constructs a repo backed by memory.
func NewMemoryRepository(vectors *vectorstore.Memory, users user.Repository) *MemoryRepository {
	return &MemoryRepository{
		records: make(map[uuid.UUID]question.Question),
		vectors: vectors,
		users:   users,
	}
}

// Create implements question.Repository.
func (r *MemoryRepository) Create(ctx context.Context, draft question.Draft, embedding []float32) (question.Question, error) {
	now := util.NowUTC()
	q := question.Question{
		ID:          uuid.New(),
		Title:       draft.Title,
		Description: draft.Description,
		Images:      append([]string(nil), draft.Images...),
		AuthorID:    draft.AuthorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if embedding != nil {
		outcome, err := r.vectors.Upsert(ctx, q.ID, embedding)
		if err == nil && outcome.Status == question.UpsertStored {
			q.Embedding = append([]float32(nil), embedding...)
		}
	}

	r.mu.Lock()
	r.records[q.ID] = q
	r.mu.Unlock()

	return r.hydrate(ctx, q), nil
}

// Get implements question.Repository.
func (r *MemoryRepository) Get(ctx context.Context, id uuid.UUID) (question.Question, bool, error) {
	r.mu.RLock()
	q, ok := r.records[id]
	r.mu.RUnlock()
	if !ok {
		return question.Question{}, false, nil
	}
	return r.hydrate(ctx, q), true, nil
}

// List implements question.Repository.
func (r *MemoryRepository) List(ctx context.Context) ([]question.Question, error) {
	r.mu.RLock()
	questions := make([]question.Question, 0, len(r.records))
	for _, q := range r.records {
		questions = append(questions, q)
	}
	r.mu.RUnlock()

	sort.Slice(questions, func(i, j int) bool {
		return questions[i].CreatedAt.After(questions[j].CreatedAt)
	})
	for i := range questions {
		questions[i] = r.hydrate(ctx, questions[i])
	}
	return questions, nil
}

// ListByAuthor implements question.Repository.
func (r *MemoryRepository) ListByAuthor(ctx context.Context, authorID int64) ([]question.Question, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []question.Question
	for _, q := range all {
		if q.AuthorID != nil && *q.AuthorID == authorID {
			out = append(out, q)
		}
	}
	return out, nil
}

// Update implements question.Repository. The embedding is untouched.
func (r *MemoryRepository) Update(ctx context.Context, id uuid.UUID, update question.Update) (question.Question, bool, error) {
	r.mu.Lock()
	q, ok := r.records[id]
	if !ok {
		r.mu.Unlock()
		return question.Question{}, false, nil
	}
	if update.Title != nil {
		q.Title = *update.Title
	}
	if update.Description != nil {
		q.Description = *update.Description
	}
	if update.Images != nil {
		q.Images = append([]string(nil), update.Images...)
	}
	q.UpdatedAt = util.NowUTC()
	r.records[id] = q
	r.mu.Unlock()

	return r.hydrate(ctx, q), true, nil
}

// Delete implements question.Repository, removing row and vector
// together.
func (r *MemoryRepository) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	_, ok := r.records[id]
	if ok {
		delete(r.records, id)
	}
	r.mu.Unlock()
	if ok {
		r.vectors.Remove(id)
	}
	return ok, nil
}

// SearchByEmbedding implements question.Repository.
func (r *MemoryRepository) SearchByEmbedding(ctx context.Context, embedding []float32, limit int) ([]question.Question, error) {
	ids, err := r.vectors.NearestNeighbors(ctx, embedding, limit)
	if err != nil {
		return nil, err
	}
	var ranked []question.Question
	r.mu.RLock()
	for _, id := range ids {
		if q, ok := r.records[id]; ok {
			ranked = append(ranked, q)
		}
	}
	r.mu.RUnlock()
	for i := range ranked {
		ranked[i] = r.hydrate(ctx, ranked[i])
	}
	return ranked, nil
}

// ReindexEmbedding implements question.Repository.
func (r *MemoryRepository) ReindexEmbedding(ctx context.Context, id uuid.UUID, embedding []float32) (question.UpsertOutcome, error) {
	r.mu.RLock()
	_, ok := r.records[id]
	r.mu.RUnlock()
	if !ok {
		return question.UpsertOutcome{}, errors.New("question not found")
	}
	outcome, err := r.vectors.Upsert(ctx, id, embedding)
	if err != nil {
		return question.UpsertOutcome{}, err
	}
	if outcome.Status == question.UpsertStored {
		r.mu.Lock()
		q := r.records[id]
		if embedding == nil {
			q.Embedding = nil
		} else {
			q.Embedding = append([]float32(nil), embedding...)
		}
		r.records[id] = q
		r.mu.Unlock()
	}
	return outcome, nil
}

func (r *MemoryRepository) hydrate(ctx context.Context, q question.Question) question.Question {
	q.Images = append([]string(nil), q.Images...)
	if q.AuthorID == nil {
		q.Author = question.DeletedAuthor()
		return q
	}
	if r.users != nil {
		if owner, found, err := r.users.GetByID(ctx, *q.AuthorID); err == nil && found {
			q.Author = question.Author{ID: owner.ID, DisplayName: owner.DisplayName}
			return q
		}
	}
	q.Author = question.DeletedAuthor()
	return q
}

var _ question.Repository = (*MemoryRepository)(nil)
