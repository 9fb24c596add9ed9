package review

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/wichananm65/travel-destination-backend/internal/destination"
	"github.com/wichananm65/travel-destination-backend/internal/logging"
	"github.com/wichananm65/travel-destination-backend/internal/metrics"
	"github.com/wichananm65/travel-destination-backend/internal/validation"
)

// Destinations is the part of the destination service reviews depend on.
type Destinations interface {
	GetByID(ctx context.Context, id int) (destination.Destination, error)
	SetRatings(ctx context.Context, id int, r destination.Ratings) error
}

type InvalidReviewError struct {
	Fields map[string]string
}

func (e *InvalidReviewError) Error() string {
	return fmt.Sprintf("invalid review: %v", e.Fields)
}

type Service struct {
	repo         Repository
	destinations Destinations
	now          func() time.Time

	// recompute serialises aggregate refreshes per destination so a slow
	// refresh cannot overwrite a newer one
	recompute sync.Map
}

func NewService(repo Repository, destinations Destinations) *Service {
	return &Service{repo: repo, destinations: destinations, now: time.Now}
}

// Add stores a user's review and refreshes the destination's ratings
// aggregate. A second review by the same user is rejected with
// ErrAlreadyReviewed and leaves the aggregate untouched.
func (s *Service) Add(ctx context.Context, userID, destinationID, rating int, comment string) (Review, destination.Ratings, error) {
	rv := Review{
		DestinationID: destinationID,
		UserID:        userID,
		Rating:        rating,
		Comment:       strings.TrimSpace(comment),
		CreatedAt:     s.now().UTC(),
	}
	if errs := validation.Struct(rv); errs != nil {
		return Review{}, destination.Ratings{}, &InvalidReviewError{Fields: errs}
	}

	if _, err := s.destinations.GetByID(ctx, destinationID); err != nil {
		return Review{}, destination.Ratings{}, err
	}

	created, err := s.repo.Create(ctx, rv)
	if err != nil {
		return Review{}, destination.Ratings{}, err
	}
	metrics.RecordReviewCreated()

	// the review is stored; a failed refresh is repaired by the next one
	agg, err := s.Recompute(ctx, destinationID)
	if err != nil {
		logging.Warn().Err(err).Int("destination_id", destinationID).Msg("refresh ratings after review")
	}
	return created, agg, nil
}

// Recompute derives the aggregate from stored reviews and writes it to the
// destination. When only the write fails the derived aggregate is still
// returned with the error.
func (s *Service) Recompute(ctx context.Context, destinationID int) (destination.Ratings, error) {
	mu, _ := s.recompute.LoadOrStore(destinationID, &sync.Mutex{})
	mu.(*sync.Mutex).Lock()
	defer mu.(*sync.Mutex).Unlock()

	ratings, err := s.repo.Ratings(ctx, destinationID)
	if err != nil {
		return destination.Ratings{}, err
	}
	agg := Aggregate(ratings)
	if err := s.destinations.SetRatings(ctx, destinationID, agg); err != nil {
		return agg, err
	}
	return agg, nil
}

func (s *Service) ListForDestination(ctx context.Context, destinationID int) ([]DestinationReview, error) {
	if _, err := s.destinations.GetByID(ctx, destinationID); err != nil {
		return nil, err
	}
	return s.repo.ListByDestination(ctx, destinationID)
}

func (s *Service) ListForUser(ctx context.Context, userID int) ([]UserReview, error) {
	return s.repo.ListByUser(ctx, userID)
}
