package photosync

import (
	"context"
	"io"
)

// Scanner discovers photo files under a root directory
type Scanner interface {
	// Scan walks the photo root and sends a ScanEntry for each matching file.
	// Returns channels for entries and errors. Both channels are closed when the walk completes.
	Scan(ctx context.Context, rootDir string) (<-chan ScanEntry, <-chan error)
}

// Extractor reads capture metadata from photo files
type Extractor interface {
	// ExtractCapture reads the dimensions and EXIF fields of the image at path
	ExtractCapture(path string) (CaptureMetadata, error)
}

// Thumbnailer produces and caches thumbnail renditions of photos
type Thumbnailer interface {
	// EnsureThumbnail returns JPEG thumbnail bytes for the photo, reporting
	// whether a fresh rendition was encoded
	EnsureThumbnail(photoID, srcPath, signature string) ([]byte, bool, error)

	// Remove drops the cached rendition for a deleted photo
	Remove(photoID string)
}

// MetadataStore persists photo records
type MetadataStore interface {
	// Get retrieves a photo record by id. Returns ErrNotFound if absent.
	Get(ctx context.Context, id string) (*PhotoRecord, error)

	// List returns all photo records
	List(ctx context.Context) ([]*PhotoRecord, error)

	// ListPublished returns the records marked as published
	ListPublished(ctx context.Context) ([]*PhotoRecord, error)

	// Put creates or replaces a photo record
	Put(ctx context.Context, record *PhotoRecord) error

	// Delete removes a photo record. Deleting an absent record is not an error.
	Delete(ctx context.Context, id string) error

	// UpdateUserFields applies a partial update to a record's user-owned
	// fields and returns the updated record. Returns ErrNotFound if absent.
	UpdateUserFields(ctx context.Context, id string, patch UserFieldPatch) (*PhotoRecord, error)
}

// ObjectStore is the remote bucket photos are deployed to
type ObjectStore interface {
	// ListKeys returns every object key currently in the bucket
	ListKeys(ctx context.Context) ([]string, error)

	// Upload writes an object under key with the given content type
	Upload(ctx context.Context, key string, body io.Reader, contentType string) error

	// Delete removes the object under key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// RunStore records sync and deploy run history
type RunStore interface {
	// StartRun records the beginning of a run and returns its id
	StartRun(ctx context.Context, kind string) (string, error)

	// FinishRun records a run's terminal status and summary counters
	FinishRun(ctx context.Context, id string, status string, summary map[string]interface{}) error
}
