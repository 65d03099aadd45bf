package services

import (
	"context"
	"errors"
	"testing"

	"github.com/almaxtex/inventory-backend/internal/store"
)

func TestLocationLifecycle(t *testing.T) {
	svc := NewLocationService(store.NewMemoryStore())
	ctx := context.Background()

	locations, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list empty: %v", err)
	}
	if len(locations) != 0 {
		t.Fatalf("expected no locations yet, got %v", locations)
	}

	for _, name := range []string{"Depo", "Atölye", "Dikimhane"} {
		if err := svc.Add(ctx, name); err != nil {
			t.Fatalf("add %s: %v", name, err)
		}
	}

	// Insertion order is preserved for dropdown rendering.
	locations, err = svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"Depo", "Atölye", "Dikimhane"}
	if len(locations) != len(want) {
		t.Fatalf("expected %v, got %v", want, locations)
	}
	for i := range want {
		if locations[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, locations)
		}
	}

	if err := svc.Add(ctx, "Depo"); !errors.Is(err, ErrLocationExists) {
		t.Fatalf("expected ErrLocationExists, got %v", err)
	}
	if err := svc.Add(ctx, "   "); !errors.Is(err, ErrEmptyLocation) {
		t.Fatalf("expected ErrEmptyLocation, got %v", err)
	}

	if ok, err := svc.Contains(ctx, "Atölye"); err != nil || !ok {
		t.Fatalf("contains Atölye = %v, %v", ok, err)
	}
	if ok, _ := svc.Contains(ctx, "Mars"); ok {
		t.Fatal("unknown location reported as defined")
	}

	if err := svc.Remove(ctx, "Atölye"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := svc.Remove(ctx, "Atölye"); !errors.Is(err, ErrLocationNotFound) {
		t.Fatalf("expected ErrLocationNotFound, got %v", err)
	}

	locations, _ = svc.List(ctx)
	if len(locations) != 2 || locations[0] != "Depo" || locations[1] != "Dikimhane" {
		t.Fatalf("unexpected list after remove: %v", locations)
	}
}
