package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store used by tests and local development.
// It mirrors the managed store's semantics: collections exist only while
// they hold at least one document, and batch commits are all-or-nothing.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]map[string]any
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]map[string]map[string]any)}
}

func (s *MemoryStore) ListCollections(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.collections))
	for name, docs := range s.collections {
		if len(docs) > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *MemoryStore) Stream(_ context.Context, collection string, limit int) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := s.collections[collection]
	ids := make([]string, 0, len(docs))
	for id := range docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]Document, 0, len(ids))
	for _, id := range ids {
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, Document{ID: id, Fields: cloneFields(docs[id])})
	}
	return out, nil
}

func (s *MemoryStore) Get(_ context.Context, collection, id string) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fields, ok := s.collections[collection][id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return Document{ID: id, Fields: cloneFields(fields)}, nil
}

func (s *MemoryStore) Set(_ context.Context, collection, id string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set(collection, id, fields)
	return nil
}

func (s *MemoryStore) SetMerge(_ context.Context, collection, id string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setMerge(collection, id, fields)
	return nil
}

func (s *MemoryStore) Add(_ context.Context, collection string, fields map[string]any) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := newDocID()
	s.set(collection, id, fields)
	return id, nil
}

func (s *MemoryStore) Delete(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	docs, ok := s.collections[collection]
	if !ok {
		return nil
	}
	delete(docs, id)
	if len(docs) == 0 {
		delete(s.collections, collection)
	}
	return nil
}

func (s *MemoryStore) NewBatch() Batch {
	return &memoryBatch{store: s}
}

func (s *MemoryStore) Close() error {
	return nil
}

// set and setMerge assume the caller holds the write lock.
func (s *MemoryStore) set(collection, id string, fields map[string]any) {
	docs, ok := s.collections[collection]
	if !ok {
		docs = make(map[string]map[string]any)
		s.collections[collection] = docs
	}
	docs[id] = cloneFields(fields)
}

func (s *MemoryStore) setMerge(collection, id string, fields map[string]any) {
	docs, ok := s.collections[collection]
	if !ok {
		docs = make(map[string]map[string]any)
		s.collections[collection] = docs
	}
	existing, ok := docs[id]
	if !ok {
		docs[id] = cloneFields(fields)
		return
	}
	for k, v := range fields {
		existing[k] = v
	}
}

type batchOp struct {
	collection string
	id         string
	fields     map[string]any
	merge      bool
}

type memoryBatch struct {
	store *MemoryStore
	ops   []batchOp
}

func (b *memoryBatch) Set(collection, id string, fields map[string]any) {
	b.ops = append(b.ops, batchOp{collection: collection, id: id, fields: cloneFields(fields)})
}

func (b *memoryBatch) SetMerge(collection, id string, fields map[string]any) {
	b.ops = append(b.ops, batchOp{collection: collection, id: id, fields: cloneFields(fields), merge: true})
}

func (b *memoryBatch) Add(collection string, fields map[string]any) {
	b.ops = append(b.ops, batchOp{collection: collection, id: newDocID(), fields: cloneFields(fields)})
}

func (b *memoryBatch) Len() int {
	return len(b.ops)
}

func (b *memoryBatch) Commit(_ context.Context) error {
	if len(b.ops) == 0 {
		return ErrEmptyBatch
	}
	if len(b.ops) > MaxBatchWrites {
		return ErrBatchTooLarge
	}

	b.store.mu.Lock()
	defer b.store.mu.Unlock()
	for _, op := range b.ops {
		if op.merge {
			b.store.setMerge(op.collection, op.id, op.fields)
		} else {
			b.store.set(op.collection, op.id, op.fields)
		}
	}
	b.ops = nil
	return nil
}

func newDocID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:20]
}

func cloneFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}
