package photosync

import (
	"context"
	"errors"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

// GCSObjectStore implements ObjectStore using Google Cloud Storage
type GCSObjectStore struct {
	client *storage.Client
	bucket string
}

// NewGCSObjectStore creates a new GCS-backed object store for the given bucket
func NewGCSObjectStore(client *storage.Client, bucket string) *GCSObjectStore {
	return &GCSObjectStore{client: client, bucket: bucket}
}

// ListKeys returns every object key currently in the bucket
func (g *GCSObjectStore) ListKeys(ctx context.Context) ([]string, error) {
	iter := g.client.Bucket(g.bucket).Objects(ctx, nil)

	var keys []string
	for {
		attrs, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		keys = append(keys, attrs.Name)
	}

	return keys, nil
}

// Upload writes an object under key with the given content type
func (g *GCSObjectStore) Upload(ctx context.Context, key string, body io.Reader, contentType string) error {
	w := g.client.Bucket(g.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, body); err != nil {
		w.Close()
		return &UploadError{Key: key, Err: err}
	}
	if err := w.Close(); err != nil {
		return &UploadError{Key: key, Err: err}
	}

	return nil
}

// Delete removes the object under key. Deleting an absent key is not an error.
func (g *GCSObjectStore) Delete(ctx context.Context, key string) error {
	err := g.client.Bucket(g.bucket).Object(key).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return &DeleteError{Key: key, Err: err}
	}
	return nil
}
