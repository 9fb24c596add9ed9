package review

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/wichananm65/travel-destination-backend/internal/destination"
	"github.com/wichananm65/travel-destination-backend/internal/user"
)

var ErrAlreadyReviewed = errors.New("you have already reviewed this destination")

type Repository interface {
	// Create stores r, or returns ErrAlreadyReviewed when the user already
	// reviewed the destination.
	Create(ctx context.Context, r Review) (Review, error)
	Ratings(ctx context.Context, destinationID int) ([]int, error)
	ListByDestination(ctx context.Context, destinationID int) ([]DestinationReview, error)
	ListByUser(ctx context.Context, userID int) ([]UserReview, error)
}

type AuthorLookup interface {
	GetByID(ctx context.Context, id int) (user.User, error)
}

type PlaceLookup interface {
	GetByID(ctx context.Context, id int) (destination.Destination, error)
}

type reviewKey struct {
	destinationID int
	userID        int
}

// InMemoryRepository resolves author and destination names through the
// optional lookups when listing.
type InMemoryRepository struct {
	mu      sync.RWMutex
	reviews []Review
	byKey   map[reviewKey]struct{}
	nextID  int
	authors AuthorLookup
	places  PlaceLookup
}

func NewInMemoryRepository(authors AuthorLookup, places PlaceLookup) *InMemoryRepository {
	return &InMemoryRepository{
		byKey:   make(map[reviewKey]struct{}),
		nextID:  1,
		authors: authors,
		places:  places,
	}
}

func (r *InMemoryRepository) Create(_ context.Context, rv Review) (Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := reviewKey{destinationID: rv.DestinationID, userID: rv.UserID}
	if _, exists := r.byKey[key]; exists {
		return Review{}, ErrAlreadyReviewed
	}
	rv.ID = r.nextID
	r.nextID++
	r.reviews = append(r.reviews, rv)
	r.byKey[key] = struct{}{}
	return rv, nil
}

func (r *InMemoryRepository) Ratings(_ context.Context, destinationID int) ([]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]int, 0)
	for _, rv := range r.reviews {
		if rv.DestinationID == destinationID {
			out = append(out, rv.Rating)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) ListByDestination(ctx context.Context, destinationID int) ([]DestinationReview, error) {
	r.mu.RLock()
	matched := make([]Review, 0)
	for _, rv := range r.reviews {
		if rv.DestinationID == destinationID {
			matched = append(matched, rv)
		}
	}
	r.mu.RUnlock()

	out := make([]DestinationReview, 0, len(matched))
	for _, rv := range sortByCreated(matched) {
		item := DestinationReview{Review: rv, User: Author{ID: rv.UserID}}
		if r.authors != nil {
			if u, err := r.authors.GetByID(ctx, rv.UserID); err == nil {
				item.User.FirstName = u.Profile.FirstName
				item.User.LastName = u.Profile.LastName
			}
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *InMemoryRepository) ListByUser(ctx context.Context, userID int) ([]UserReview, error) {
	r.mu.RLock()
	matched := make([]Review, 0)
	for _, rv := range r.reviews {
		if rv.UserID == userID {
			matched = append(matched, rv)
		}
	}
	r.mu.RUnlock()

	out := make([]UserReview, 0, len(matched))
	for _, rv := range sortByCreated(matched) {
		item := UserReview{Review: rv, Destination: Place{ID: rv.DestinationID}}
		if r.places != nil {
			d, err := r.places.GetByID(ctx, rv.DestinationID)
			if errors.Is(err, destination.ErrNotFound) {
				// deleted destinations take their reviews with them
				continue
			}
			if err != nil {
				return nil, err
			}
			item.Destination.Name = d.Name
		}
		out = append(out, item)
	}
	return out, nil
}

func sortByCreated(rs []Review) []Review {
	sort.SliceStable(rs, func(i, j int) bool {
		if rs[i].CreatedAt.Equal(rs[j].CreatedAt) {
			return rs[i].ID < rs[j].ID
		}
		return rs[i].CreatedAt.Before(rs[j].CreatedAt)
	})
	return rs
}
