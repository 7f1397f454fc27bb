package userrepo

import (
	"context"
	"sync"

	"github.com/Slothdemon22/CampusMinus/internal/domain/user"
)

// MemoryRepository is an in-memory user.Repository used for tests/dev.
type MemoryRepository struct {
	mu    sync.RWMutex
	users map[int64]user.User
}

// NewMemoryRepository constructs the repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[int64]user.User)}
}

// Put registers a user.
func (r *MemoryRepository) Put(u user.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u
}

// Remove deletes a user, simulating an account deletion.
func (r *MemoryRepository) Remove(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
}

// GetByID implements user.Repository.
func (r *MemoryRepository) GetByID(_ context.Context, id int64) (user.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	return u, ok, nil
}

var _ user.Repository = (*MemoryRepository)(nil)
