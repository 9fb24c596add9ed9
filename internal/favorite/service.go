package favorite

import (
	"context"

	"github.com/wichananm65/travel-destination-backend/internal/destination"
)

// Destinations is the part of the destination service favorites depend on.
type Destinations interface {
	GetByID(ctx context.Context, id int) (destination.Destination, error)
	ListByIDs(ctx context.Context, ids []int) ([]destination.Destination, error)
}

type Service struct {
	repo         Repository
	destinations Destinations
}

func NewService(repo Repository, destinations Destinations) *Service {
	return &Service{repo: repo, destinations: destinations}
}

// Add saves a destination for the user. Saving it again is a no-op.
func (s *Service) Add(ctx context.Context, userID, destinationID int) ([]int, error) {
	if _, err := s.destinations.GetByID(ctx, destinationID); err != nil {
		return nil, err
	}
	return s.repo.Add(ctx, userID, destinationID)
}

// Remove never checks that the destination exists.
func (s *Service) Remove(ctx context.Context, userID, destinationID int) ([]int, error) {
	return s.repo.Remove(ctx, userID, destinationID)
}

// List returns the saved destinations in the order they were saved.
// Destinations deleted since are skipped.
func (s *Service) List(ctx context.Context, userID int) ([]destination.Destination, error) {
	ids, err := s.repo.IDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []destination.Destination{}, nil
	}
	return s.destinations.ListByIDs(ctx, ids)
}
