package recommendation

import (
	"context"
	"fmt"

	"github.com/wichananm65/travel-destination-backend/internal/destination"
	"github.com/wichananm65/travel-destination-backend/internal/logging"
	"github.com/wichananm65/travel-destination-backend/internal/metrics"
	"github.com/wichananm65/travel-destination-backend/internal/user"
)

type PreferenceSource interface {
	Preferences(ctx context.Context, userID int) (user.Preferences, error)
}

type CandidateSource interface {
	ListActive(ctx context.Context) ([]destination.Destination, error)
}

type Service struct {
	users        PreferenceSource
	destinations CandidateSource
	cache        Cache
	weights      Weights
}

// NewService accepts a nil cache, in which case every request is ranked
// from scratch.
func NewService(users PreferenceSource, destinations CandidateSource, cache Cache) *Service {
	return &Service{
		users:        users,
		destinations: destinations,
		cache:        cache,
		weights:      DefaultWeights(),
	}
}

// Recommend returns up to TopN active destinations for the user, best
// match first. A missing user surfaces as user.ErrNotFound.
func (s *Service) Recommend(ctx context.Context, userID int) ([]Scored, error) {
	prefs, err := s.users.Preferences(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, userID, prefs)
		switch {
		case err != nil:
			metrics.RecordCacheError()
			logging.Warn().Err(err).Int("user_id", userID).Msg("recommendation cache get failed")
		case cached != nil:
			metrics.RecordCacheHit()
			return cached, nil
		default:
			metrics.RecordCacheMiss()
		}
	}

	candidates, err := s.destinations.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch candidates: %w", err)
	}
	recs := RankScored(s.weights, prefs, candidates)

	if s.cache != nil {
		if err := s.cache.Set(ctx, userID, prefs, recs); err != nil {
			logging.Warn().Err(err).Int("user_id", userID).Msg("recommendation cache set failed")
		}
	}
	return recs, nil
}
