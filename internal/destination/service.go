package destination

import (
	"context"
	"strings"
	"time"

	"github.com/wichananm65/travel-destination-backend/internal/validation"
)

// ValidationError lists the offending fields of a rejected document.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for k, v := range e.Fields {
		parts = append(parts, k+": "+v)
	}
	return "invalid destination: " + strings.Join(parts, "; ")
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) List(ctx context.Context, f Filter) (Page, error) {
	return s.repo.List(ctx, f.Normalize())
}

// ListActive returns the recommendation candidate set.
func (s *Service) ListActive(ctx context.Context) ([]Destination, error) {
	return s.repo.ListActive(ctx)
}

func (s *Service) ListByIDs(ctx context.Context, ids []int) ([]Destination, error) {
	return s.repo.ListByIDs(ctx, ids)
}

func (s *Service) GetByID(ctx context.Context, id int) (Destination, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, p Patch) (Destination, error) {
	now := s.now().UTC()
	d := Destination{IsActive: true, CreatedAt: now, UpdatedAt: now}
	p.applyTo(&d)
	d = withDefaults(d)
	if errs := validation.Struct(d); errs != nil {
		return Destination{}, &ValidationError{Fields: errs}
	}
	return s.repo.Create(ctx, d)
}

// Update merges p over the stored document. The ratings aggregate and
// identity are never taken from the patch.
func (s *Service) Update(ctx context.Context, id int, p Patch) (Destination, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Destination{}, err
	}
	p.applyTo(&d)
	d.ID = id
	d.UpdatedAt = s.now().UTC()
	d = withDefaults(d)
	if errs := validation.Struct(d); errs != nil {
		return Destination{}, &ValidationError{Fields: errs}
	}
	return s.repo.Update(ctx, d)
}

func (s *Service) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) SetRatings(ctx context.Context, id int, r Ratings) error {
	return s.repo.SetRatings(ctx, id, r)
}

// Reset replaces every destination, used by the development seed endpoint.
func (s *Service) Reset(ctx context.Context, ds []Destination) ([]Destination, error) {
	now := s.now().UTC()
	for i := range ds {
		if ds[i].CreatedAt.IsZero() {
			ds[i].CreatedAt = now
		}
		ds[i].UpdatedAt = now
	}
	return s.repo.Reset(ctx, ds)
}
