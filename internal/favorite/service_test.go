package favorite

import (
	"context"
	"errors"
	"testing"

	"github.com/wichananm65/travel-destination-backend/internal/destination"
)

func newTestService() *Service {
	dests := destination.NewService(destination.NewInMemoryRepository([]destination.Destination{
		{ID: 1, Name: "Maya Bay", IsActive: true},
		{ID: 2, Name: "Zermatt", IsActive: true},
		{ID: 3, Name: "Kyoto", IsActive: true},
	}))
	return NewService(NewInMemoryRepository(), dests)
}

func TestAddTwiceKeepsOneEntry(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.Add(ctx, 7, 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	ids, err := svc.Add(ctx, 7, 2)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if len(ids) != 1 || ids[0] != 2 {
		t.Fatalf("expected [2], got %v", ids)
	}
}

func TestRemoveIsNoOpWhenNotSaved(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	svc.Add(ctx, 7, 1)
	ids, err := svc.Remove(ctx, 7, 3)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(ids) != 1 || ids[0] != 1 {
		t.Fatalf("expected [1], got %v", ids)
	}
	// unknown destinations are not checked on remove
	if _, err := svc.Remove(ctx, 7, 99); err != nil {
		t.Fatalf("remove unknown: %v", err)
	}
}

func TestAddUnknownDestination(t *testing.T) {
	svc := newTestService()
	if _, err := svc.Add(context.Background(), 7, 99); !errors.Is(err, destination.ErrNotFound) {
		t.Fatalf("expected destination.ErrNotFound, got %v", err)
	}
}

func TestListKeepsSavedOrder(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	empty, err := svc.List(ctx, 7)
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty list, got %v %v", empty, err)
	}

	svc.Add(ctx, 7, 3)
	svc.Add(ctx, 7, 1)
	svc.Add(ctx, 8, 2)

	list, err := svc.List(ctx, 7)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].Name != "Kyoto" || list[1].Name != "Maya Bay" {
		t.Fatalf("unexpected favorites %+v", list)
	}
}
