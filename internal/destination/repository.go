package destination

import (
	"context"
	"errors"
	"sync"
)

var ErrNotFound = errors.New("destination not found")

type Repository interface {
	List(ctx context.Context, f Filter) (Page, error)
	ListActive(ctx context.Context) ([]Destination, error)
	ListByIDs(ctx context.Context, ids []int) ([]Destination, error)
	GetByID(ctx context.Context, id int) (Destination, error)
	Create(ctx context.Context, d Destination) (Destination, error)
	Update(ctx context.Context, d Destination) (Destination, error)
	Delete(ctx context.Context, id int) error
	SetRatings(ctx context.Context, id int, r Ratings) error
	Reset(ctx context.Context, ds []Destination) ([]Destination, error)
}

// InMemoryRepository keeps destinations in creation order, which is also
// the listing order.
type InMemoryRepository struct {
	mu           sync.RWMutex
	destinations []Destination
	nextID       int
}

func NewInMemoryRepository(seed []Destination) *InMemoryRepository {
	r := &InMemoryRepository{
		destinations: make([]Destination, 0, len(seed)),
		nextID:       1,
	}
	maxID := 0
	for _, d := range seed {
		r.destinations = append(r.destinations, withDefaults(d))
		if d.ID > maxID {
			maxID = d.ID
		}
	}
	r.nextID = maxID + 1
	return r
}

func (r *InMemoryRepository) List(_ context.Context, f Filter) (Page, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Apply(f, r.destinations), nil
}

func (r *InMemoryRepository) ListActive(_ context.Context) ([]Destination, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Destination, 0, len(r.destinations))
	for _, d := range r.destinations {
		if d.IsActive {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) ListByIDs(_ context.Context, ids []int) ([]Destination, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Destination, 0, len(ids))
	for _, id := range ids {
		if i := r.indexOf(id); i >= 0 {
			out = append(out, r.destinations[i])
		}
	}
	return out, nil
}

func (r *InMemoryRepository) GetByID(_ context.Context, id int) (Destination, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOf(id); i >= 0 {
		return r.destinations[i], nil
	}
	return Destination{}, ErrNotFound
}

func (r *InMemoryRepository) Create(_ context.Context, d Destination) (Destination, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d.ID = r.nextID
	r.nextID++
	d = withDefaults(d)
	r.destinations = append(r.destinations, d)
	return d, nil
}

func (r *InMemoryRepository) Update(_ context.Context, d Destination) (Destination, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(d.ID)
	if i < 0 {
		return Destination{}, ErrNotFound
	}
	// ratings only move through SetRatings
	d.Ratings = r.destinations[i].Ratings
	d.CreatedAt = r.destinations[i].CreatedAt
	d = withDefaults(d)
	r.destinations[i] = d
	return d, nil
}

func (r *InMemoryRepository) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	r.destinations = append(r.destinations[:i], r.destinations[i+1:]...)
	return nil
}

func (r *InMemoryRepository) SetRatings(_ context.Context, id int, ratings Ratings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	r.destinations[i].Ratings = ratings
	return nil
}

func (r *InMemoryRepository) Reset(_ context.Context, ds []Destination) ([]Destination, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.destinations = make([]Destination, 0, len(ds))
	for i, d := range ds {
		d.ID = i + 1
		r.destinations = append(r.destinations, withDefaults(d))
	}
	r.nextID = len(ds) + 1

	out := make([]Destination, len(r.destinations))
	copy(out, r.destinations)
	return out, nil
}

func (r *InMemoryRepository) indexOf(id int) int {
	for i, d := range r.destinations {
		if d.ID == id {
			return i
		}
	}
	return -1
}
