package store

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// FirestoreStore implements Store on top of the managed Firestore client.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore creates the Firestore-backed store. credentialsFile may
// be empty, in which case application-default credentials are used.
func NewFirestoreStore(ctx context.Context, projectID, credentialsFile string) (*FirestoreStore, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID must be provided to create a firestore store")
	}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}

	return &FirestoreStore{client: client}, nil
}

func (s *FirestoreStore) ListCollections(ctx context.Context) ([]string, error) {
	var names []string
	it := s.client.Collections(ctx)
	for {
		col, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list collections: %w", err)
		}
		names = append(names, col.ID)
	}
	return names, nil
}

func (s *FirestoreStore) Stream(ctx context.Context, collection string, limit int) ([]Document, error) {
	query := s.client.Collection(collection).Query
	if limit > 0 {
		query = query.Limit(limit)
	}

	var docs []Document
	it := query.Documents(ctx)
	defer it.Stop()
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to stream collection %q: %w", collection, err)
		}
		docs = append(docs, Document{ID: snap.Ref.ID, Fields: snap.Data()})
	}
	return docs, nil
}

func (s *FirestoreStore) Get(ctx context.Context, collection, id string) (Document, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if snap != nil && !snap.Exists() {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("failed to get %s/%s: %w", collection, id, err)
	}
	return Document{ID: snap.Ref.ID, Fields: snap.Data()}, nil
}

func (s *FirestoreStore) Set(ctx context.Context, collection, id string, fields map[string]any) error {
	_, err := s.client.Collection(collection).Doc(id).Set(ctx, fields)
	return err
}

func (s *FirestoreStore) SetMerge(ctx context.Context, collection, id string, fields map[string]any) error {
	_, err := s.client.Collection(collection).Doc(id).Set(ctx, fields, firestore.MergeAll)
	return err
}

func (s *FirestoreStore) Add(ctx context.Context, collection string, fields map[string]any) (string, error) {
	ref, _, err := s.client.Collection(collection).Add(ctx, fields)
	if err != nil {
		return "", err
	}
	return ref.ID, nil
}

func (s *FirestoreStore) Delete(ctx context.Context, collection, id string) error {
	_, err := s.client.Collection(collection).Doc(id).Delete(ctx)
	return err
}

func (s *FirestoreStore) NewBatch() Batch {
	return &firestoreBatch{store: s, batch: s.client.Batch()}
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

type firestoreBatch struct {
	store *FirestoreStore
	batch *firestore.WriteBatch
	size  int
}

func (b *firestoreBatch) Set(collection, id string, fields map[string]any) {
	b.batch.Set(b.store.client.Collection(collection).Doc(id), fields)
	b.size++
}

func (b *firestoreBatch) SetMerge(collection, id string, fields map[string]any) {
	b.batch.Set(b.store.client.Collection(collection).Doc(id), fields, firestore.MergeAll)
	b.size++
}

func (b *firestoreBatch) Add(collection string, fields map[string]any) {
	b.batch.Set(b.store.client.Collection(collection).NewDoc(), fields)
	b.size++
}

func (b *firestoreBatch) Len() int {
	return b.size
}

func (b *firestoreBatch) Commit(ctx context.Context) error {
	if b.size == 0 {
		return ErrEmptyBatch
	}
	if b.size > MaxBatchWrites {
		return ErrBatchTooLarge
	}
	if _, err := b.batch.Commit(ctx); err != nil {
		return fmt.Errorf("batch commit failed: %w", err)
	}
	return nil
}
