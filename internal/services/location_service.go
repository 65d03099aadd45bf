package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/almaxtex/inventory-backend/internal/models"
	"github.com/almaxtex/inventory-backend/internal/store"
)

var (
	ErrLocationExists   = errors.New("location already defined")
	ErrLocationNotFound = errors.New("location not found")
	ErrEmptyLocation    = errors.New("location name is empty")
)

// LocationService manages the reference list of locations, stored as a
// single ordered-list document. Transfer destinations are validated
// against it.
type LocationService struct {
	store store.Store
}

func NewLocationService(st store.Store) *LocationService {
	return &LocationService{store: st}
}

func (s *LocationService) List(ctx context.Context) ([]string, error) {
	doc, err := s.store.Get(ctx, models.CollectionConfig, models.ConfigDocLocations)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read locations: %w", err)
	}

	raw, _ := doc.Fields["values"].([]any)
	locations := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			locations = append(locations, s)
		}
	}
	return locations, nil
}

func (s *LocationService) Contains(ctx context.Context, name string) (bool, error) {
	locations, err := s.List(ctx)
	if err != nil {
		return false, err
	}
	for _, loc := range locations {
		if loc == name {
			return true, nil
		}
	}
	return false, nil
}

// Add appends a location to the end of the list; order is preserved for
// dropdown rendering.
func (s *LocationService) Add(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyLocation
	}

	locations, err := s.List(ctx)
	if err != nil {
		return err
	}
	for _, loc := range locations {
		if loc == name {
			return ErrLocationExists
		}
	}
	return s.save(ctx, append(locations, name))
}

func (s *LocationService) Remove(ctx context.Context, name string) error {
	locations, err := s.List(ctx)
	if err != nil {
		return err
	}

	kept := locations[:0]
	found := false
	for _, loc := range locations {
		if loc == name {
			found = true
			continue
		}
		kept = append(kept, loc)
	}
	if !found {
		return ErrLocationNotFound
	}
	return s.save(ctx, kept)
}

func (s *LocationService) save(ctx context.Context, locations []string) error {
	values := make([]any, len(locations))
	for i, loc := range locations {
		values[i] = loc
	}
	if err := s.store.Set(ctx, models.CollectionConfig, models.ConfigDocLocations, map[string]any{"values": values}); err != nil {
		return fmt.Errorf("failed to save locations: %w", err)
	}
	return nil
}
