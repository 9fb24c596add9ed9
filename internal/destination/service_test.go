package destination

import (
	"context"
	"errors"
	"testing"
)

func TestServiceCreateAppliesDefaults(t *testing.T) {
	svc := NewService(NewInMemoryRepository(nil))
	name, desc := "Maya Bay", "Bay"
	d, err := svc.Create(context.Background(), Patch{
		Name:          &name,
		Description:   &desc,
		Location:      &Location{Country: "Thailand", City: "Krabi"},
		Categories:    []string{"beach"},
		EstimatedCost: &EstimatedCost{MidRange: &CostRange{Min: 10, Max: 20}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if d.ID != 1 || !d.IsActive || d.CreatedAt.IsZero() {
		t.Fatalf("unexpected destination %+v", d)
	}
	if d.EstimatedCost.MidRange.Currency != DefaultCurrency {
		t.Fatalf("expected default currency, got %q", d.EstimatedCost.MidRange.Currency)
	}
	if d.Tags == nil || d.Ratings.Count != 0 {
		t.Fatalf("expected empty tags and zero ratings, got %+v", d)
	}
}

func TestServiceCreateRejectsInvalid(t *testing.T) {
	svc := NewService(NewInMemoryRepository(nil))
	name := "Nowhere"
	_, err := svc.Create(context.Background(), Patch{Name: &name, Categories: []string{"moon"}})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, field := range []string{"description", "location.country", "location.city", "categories[0]"} {
		if _, ok := verr.Fields[field]; !ok {
			t.Fatalf("expected %s error, got %v", field, verr.Fields)
		}
	}
}

func TestServiceUpdateMergesAndKeepsRatings(t *testing.T) {
	seed := SampleDestinations()[:1]
	seed[0].ID = 1
	seed[0].Ratings = Ratings{Average: 4.5, Count: 2}
	svc := NewService(NewInMemoryRepository(seed))

	trending := false
	d, err := svc.Update(context.Background(), 1, Patch{Trending: &trending, Tags: []string{"quiet"}})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if d.Name != "Maya Bay" || d.Trending || len(d.Tags) != 1 {
		t.Fatalf("patch not merged: %+v", d)
	}
	if d.Ratings.Average != 4.5 || d.Ratings.Count != 2 {
		t.Fatalf("ratings must survive updates, got %+v", d.Ratings)
	}

	if _, err := svc.Update(context.Background(), 99, Patch{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestInMemoryListActiveAndByIDs(t *testing.T) {
	repo := NewInMemoryRepository([]Destination{
		{ID: 1, Name: "a", IsActive: true},
		{ID: 2, Name: "b", IsActive: false},
		{ID: 3, Name: "c", IsActive: true},
	})
	ctx := context.Background()

	active, _ := repo.ListActive(ctx)
	if got := ids(active); !equalInts(got, []int{1, 3}) {
		t.Fatalf("expected [1 3], got %v", got)
	}
	byIDs, _ := repo.ListByIDs(ctx, []int{3, 9, 1})
	if got := ids(byIDs); !equalInts(got, []int{3, 1}) {
		t.Fatalf("expected [3 1], got %v", got)
	}
}
