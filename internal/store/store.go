package store

import (
	"context"
	"errors"
)

// MaxBatchWrites is the hard per-commit write limit imposed by the
// document store. Chunking policies must stay strictly below it.
const MaxBatchWrites = 500

var (
	ErrNotFound      = errors.New("document not found")
	ErrBatchTooLarge = errors.New("write batch exceeds store limit")
	ErrEmptyBatch    = errors.New("write batch is empty")
)

// Document is one schemaless record: its identifier plus a field-value map.
type Document struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

// Store is the document-database surface the application consumes.
// Collections are created implicitly by the first write and disappear
// when their last document is deleted.
type Store interface {
	// ListCollections returns the names of all non-empty collections.
	ListCollections(ctx context.Context) ([]string, error)

	// Stream reads documents from a collection. limit <= 0 means no limit.
	Stream(ctx context.Context, collection string, limit int) ([]Document, error)

	Get(ctx context.Context, collection, id string) (Document, error)

	// Set writes a document, overwriting any existing one with the same id.
	Set(ctx context.Context, collection, id string, fields map[string]any) error

	// SetMerge upserts a document, merging fields into whatever already
	// exists instead of replacing the whole document.
	SetMerge(ctx context.Context, collection, id string, fields map[string]any) error

	// Add writes a document under a store-assigned identifier.
	Add(ctx context.Context, collection string, fields map[string]any) (string, error)

	Delete(ctx context.Context, collection, id string) error

	// NewBatch returns an empty write batch. Commit is atomic: either
	// every buffered write persists, or none do.
	NewBatch() Batch

	Close() error
}

// Batch buffers writes for a single atomic commit.
type Batch interface {
	Set(collection, id string, fields map[string]any)
	SetMerge(collection, id string, fields map[string]any)
	Add(collection string, fields map[string]any)
	Len() int
	Commit(ctx context.Context) error
}
