// Package tables tracks the named inventory tables as an explicit
// registry, persisted as a single config document. The underlying store
// stays schemaless, but create/drop become deliberate operations instead
// of side effects of the first or last write.
package tables

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/almaxtex/inventory-backend/internal/models"
	"github.com/almaxtex/inventory-backend/internal/store"
)

var (
	ErrInvalidName   = errors.New("invalid table name")
	ErrReservedName  = errors.New("table name is reserved for system use")
	ErrAlreadyExists = errors.New("table already exists")
	ErrNotFound      = errors.New("table not found")
)

// Registry reads and mutates the persisted table list. The mutex only
// serializes registry-document read-modify-write cycles within this
// process; the store itself stays last-write-wins.
type Registry struct {
	store store.Store
	mu    sync.Mutex
}

func NewRegistry(st store.Store) *Registry {
	return &Registry{store: st}
}

// List returns every known table: registered names merged with any
// non-reserved collection present in the store, so tables created
// out-of-band still show up in the menu.
func (r *Registry) List(ctx context.Context) ([]string, error) {
	registered, err := r.registered(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(registered))
	for _, name := range registered {
		seen[name] = struct{}{}
	}

	collections, err := r.store.ListCollections(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	for _, name := range collections {
		if models.IsReservedCollection(name) {
			continue
		}
		seen[name] = struct{}{}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (r *Registry) Exists(ctx context.Context, name string) (bool, error) {
	names, err := r.List(ctx)
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// Create registers a new table name. The collection itself appears in the
// store once the first record is written.
func (r *Registry) Create(ctx context.Context, name string) error {
	if err := validateName(name); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	exists, err := r.Exists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadyExists
	}

	registered, err := r.registered(ctx)
	if err != nil {
		return err
	}
	return r.save(ctx, append(registered, name))
}

// Register adds a name if absent, without failing on duplicates. Used by
// the bulk importer, where re-importing a sheet is not an error.
func (r *Registry) Register(ctx context.Context, name string) error {
	if err := validateName(name); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	registered, err := r.registered(ctx)
	if err != nil {
		return err
	}
	for _, n := range registered {
		if n == name {
			return nil
		}
	}
	return r.save(ctx, append(registered, name))
}

// Drop unregisters a table name. Callers are responsible for deleting the
// collection's documents first.
func (r *Registry) Drop(ctx context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	registered, err := r.registered(ctx)
	if err != nil {
		return err
	}

	kept := registered[:0]
	found := false
	for _, n := range registered {
		if n == name {
			found = true
			continue
		}
		kept = append(kept, n)
	}
	if !found {
		return ErrNotFound
	}
	return r.save(ctx, kept)
}

func (r *Registry) registered(ctx context.Context) ([]string, error) {
	doc, err := r.store.Get(ctx, models.CollectionConfig, models.ConfigDocTables)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read table registry: %w", err)
	}

	raw, _ := doc.Fields["names"].([]any)
	names := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			names = append(names, s)
		}
	}
	return names, nil
}

func (r *Registry) save(ctx context.Context, names []string) error {
	sort.Strings(names)
	values := make([]any, len(names))
	for i, n := range names {
		values[i] = n
	}
	if err := r.store.Set(ctx, models.CollectionConfig, models.ConfigDocTables, map[string]any{"names": values}); err != nil {
		return fmt.Errorf("failed to save table registry: %w", err)
	}
	return nil
}

func validateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || trimmed != name {
		return ErrInvalidName
	}
	if models.IsReservedCollection(name) {
		return ErrReservedName
	}
	return nil
}
