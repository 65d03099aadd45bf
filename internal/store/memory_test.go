package store

import (
	"context"
	"testing"
)

func TestMemoryStoreCollectionLifecycle(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	names, err := st.ListCollections(ctx)
	if err != nil {
		t.Fatalf("list collections: %v", err)
	}
	if len(names) != 0 {
		t.Fatalf("expected no collections, got %v", names)
	}

	// First write creates the collection implicitly.
	if err := st.Set(ctx, "Makineler", "m1", map[string]any{"Seri No": "A-100"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	names, _ = st.ListCollections(ctx)
	if len(names) != 1 || names[0] != "Makineler" {
		t.Fatalf("expected [Makineler], got %v", names)
	}

	// Deleting the last document removes the collection.
	if err := st.Delete(ctx, "Makineler", "m1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	names, _ = st.ListCollections(ctx)
	if len(names) != 0 {
		t.Fatalf("expected empty store after delete, got %v", names)
	}
}

func TestMemoryStoreGetSetMerge(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	if _, err := st.Get(ctx, "t", "missing"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := st.Set(ctx, "t", "r1", map[string]any{"a": "1", "b": "2"}); err != nil {
		t.Fatalf("set: %v", err)
	}

	// Merge overwrites present fields and leaves absent ones alone.
	if err := st.SetMerge(ctx, "t", "r1", map[string]any{"b": "3", "c": "4"}); err != nil {
		t.Fatalf("merge: %v", err)
	}
	doc, err := st.Get(ctx, "t", "r1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if doc.Fields["a"] != "1" || doc.Fields["b"] != "3" || doc.Fields["c"] != "4" {
		t.Fatalf("unexpected fields after merge: %v", doc.Fields)
	}

	// Plain Set replaces the whole document.
	if err := st.Set(ctx, "t", "r1", map[string]any{"x": "9"}); err != nil {
		t.Fatalf("set overwrite: %v", err)
	}
	doc, _ = st.Get(ctx, "t", "r1")
	if len(doc.Fields) != 1 || doc.Fields["x"] != "9" {
		t.Fatalf("expected full overwrite, got %v", doc.Fields)
	}
}

func TestMemoryStoreAddAssignsUniqueIDs(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	id1, err := st.Add(ctx, "t", map[string]any{"n": 1})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	id2, err := st.Add(ctx, "t", map[string]any{"n": 2})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if id1 == "" || id1 == id2 {
		t.Fatalf("expected distinct non-empty ids, got %q and %q", id1, id2)
	}

	docs, err := st.Stream(ctx, "t", 0)
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
}

func TestMemoryStoreStreamLimit(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if _, err := st.Add(ctx, "t", map[string]any{"n": i}); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	docs, err := st.Stream(ctx, "t", 2)
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected limit of 2, got %d", len(docs))
	}
}

func TestMemoryStoreStreamReturnsCopies(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()
	if err := st.Set(ctx, "t", "r1", map[string]any{"a": "1"}); err != nil {
		t.Fatalf("set: %v", err)
	}

	docs, _ := st.Stream(ctx, "t", 0)
	docs[0].Fields["a"] = "mutated"

	doc, _ := st.Get(ctx, "t", "r1")
	if doc.Fields["a"] != "1" {
		t.Fatalf("stream result aliased stored document: %v", doc.Fields)
	}
}

func TestMemoryBatchCommit(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	batch := st.NewBatch()
	batch.Set("t", "r1", map[string]any{"a": "1"})
	batch.Add("t", map[string]any{"b": "2"})
	if batch.Len() != 2 {
		t.Fatalf("expected batch length 2, got %d", batch.Len())
	}

	// Nothing lands before commit.
	docs, _ := st.Stream(ctx, "t", 0)
	if len(docs) != 0 {
		t.Fatalf("expected no documents before commit, got %d", len(docs))
	}

	if err := batch.Commit(ctx); err != nil {
		t.Fatalf("commit: %v", err)
	}
	docs, _ = st.Stream(ctx, "t", 0)
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents after commit, got %d", len(docs))
	}
}

func TestMemoryBatchLimits(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	if err := st.NewBatch().Commit(ctx); err != ErrEmptyBatch {
		t.Fatalf("expected ErrEmptyBatch, got %v", err)
	}

	batch := st.NewBatch()
	for i := 0; i <= MaxBatchWrites; i++ {
		batch.Add("t", map[string]any{"n": i})
	}
	if err := batch.Commit(ctx); err != ErrBatchTooLarge {
		t.Fatalf("expected ErrBatchTooLarge, got %v", err)
	}

	// An oversized batch must not partially apply.
	docs, _ := st.Stream(ctx, "t", 0)
	if len(docs) != 0 {
		t.Fatalf("oversized batch leaked %d documents", len(docs))
	}
}
