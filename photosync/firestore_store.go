package photosync

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	defaultPhotosCollection = "gallery-photos"
	defaultRunsCollection   = "gallery-runs"
)

// MetadataStoreOption configures FirestoreMetadataStore
type MetadataStoreOption func(*FirestoreMetadataStore)

// WithPhotosCollection overrides the Firestore collection photo records live in
func WithPhotosCollection(name string) MetadataStoreOption {
	return func(s *FirestoreMetadataStore) {
		s.collection = name
	}
}

// FirestoreMetadataStore implements MetadataStore using Firestore.
// Document ids are the photo id with slashes swapped for pipes, since
// Firestore document ids cannot contain a forward slash.
type FirestoreMetadataStore struct {
	client     *firestore.Client
	collection string
}

// NewFirestoreMetadataStore creates a new Firestore-backed metadata store
func NewFirestoreMetadataStore(client *firestore.Client, opts ...MetadataStoreOption) *FirestoreMetadataStore {
	s := &FirestoreMetadataStore{
		client:     client,
		collection: defaultPhotosCollection,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Get retrieves a photo record by id
func (s *FirestoreMetadataStore) Get(ctx context.Context, id string) (*PhotoRecord, error) {
	doc, err := s.client.Collection(s.collection).Doc(docIDForPhoto(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var record PhotoRecord
	if err := doc.DataTo(&record); err != nil {
		return nil, err
	}
	record.ID = photoIDForDoc(doc.Ref.ID)

	return &record, nil
}

// List retrieves all photo records
func (s *FirestoreMetadataStore) List(ctx context.Context) ([]*PhotoRecord, error) {
	return s.list(ctx, s.client.Collection(s.collection).Query)
}

// ListPublished retrieves the photo records marked as published
func (s *FirestoreMetadataStore) ListPublished(ctx context.Context) ([]*PhotoRecord, error) {
	return s.list(ctx, s.client.Collection(s.collection).Where("published", "==", true))
}

func (s *FirestoreMetadataStore) list(ctx context.Context, q firestore.Query) ([]*PhotoRecord, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	var records []*PhotoRecord
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		var record PhotoRecord
		if err := doc.DataTo(&record); err != nil {
			return nil, err
		}
		record.ID = photoIDForDoc(doc.Ref.ID)

		records = append(records, &record)
	}

	return records, nil
}

// Put creates or replaces a photo record
func (s *FirestoreMetadataStore) Put(ctx context.Context, record *PhotoRecord) error {
	if record.ID == "" {
		return fmt.Errorf("photo ID is required")
	}

	_, err := s.client.Collection(s.collection).Doc(docIDForPhoto(record.ID)).Set(ctx, record)
	return err
}

// Delete removes a photo record. Deleting an absent record is not an error.
func (s *FirestoreMetadataStore) Delete(ctx context.Context, id string) error {
	_, err := s.client.Collection(s.collection).Doc(docIDForPhoto(id)).Delete(ctx)
	return err
}

// UpdateUserFields applies a partial update to a record's user-owned fields
// and returns the updated record
func (s *FirestoreMetadataStore) UpdateUserFields(ctx context.Context, id string, patch UserFieldPatch) (*PhotoRecord, error) {
	updates := []firestore.Update{
		{Path: "updatedAt", Value: time.Now().UTC()},
	}
	if patch.Published != nil {
		updates = append(updates, firestore.Update{Path: "published", Value: *patch.Published})
	}
	if patch.CustomTitle != nil {
		updates = append(updates, firestore.Update{Path: "customTitle", Value: *patch.CustomTitle})
	}
	if patch.Description != nil {
		updates = append(updates, firestore.Update{Path: "description", Value: *patch.Description})
	}
	if patch.Tags != nil {
		updates = append(updates, firestore.Update{Path: "tags", Value: patch.Tags})
	}
	if patch.Notes != nil {
		updates = append(updates, firestore.Update{Path: "notes", Value: *patch.Notes})
	}

	_, err := s.client.Collection(s.collection).Doc(docIDForPhoto(id)).Update(ctx, updates)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return s.Get(ctx, id)
}
