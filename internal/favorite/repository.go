package favorite

import (
	"context"
	"sync"
)

// Repository stores the ordered list of destinations a user has saved.
// Add and Remove are idempotent and return the resulting list.
type Repository interface {
	Add(ctx context.Context, userID, destinationID int) ([]int, error)
	Remove(ctx context.Context, userID, destinationID int) ([]int, error)
	IDs(ctx context.Context, userID int) ([]int, error)
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu    sync.RWMutex
	saved map[int][]int
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{saved: make(map[int][]int)}
}

func (r *InMemoryRepository) Add(_ context.Context, userID, destinationID int) ([]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := r.saved[userID]
	for _, id := range ids {
		if id == destinationID {
			return clone(ids), nil
		}
	}
	ids = append(ids, destinationID)
	r.saved[userID] = ids
	return clone(ids), nil
}

func (r *InMemoryRepository) Remove(_ context.Context, userID, destinationID int) ([]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := r.saved[userID]
	kept := make([]int, 0, len(ids))
	for _, id := range ids {
		if id != destinationID {
			kept = append(kept, id)
		}
	}
	r.saved[userID] = kept
	return clone(kept), nil
}

func (r *InMemoryRepository) IDs(_ context.Context, userID int) ([]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return clone(r.saved[userID]), nil
}

func clone(ids []int) []int {
	out := make([]int, len(ids))
	copy(out, ids)
	return out
}
