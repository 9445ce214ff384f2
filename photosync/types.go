package photosync

import "time"

// UnknownField is the sentinel stored for any capture attribute that could
// not be read from the image's embedded tags.
const UnknownField = "Unknown"

// CaptureMetadata holds the attributes extracted from an image's embedded
// EXIF tags plus its pixel geometry. String fields are UnknownField when the
// corresponding tag is absent or unreadable.
type CaptureMetadata struct {
	Camera       string  `firestore:"camera" json:"camera"`
	Lens         string  `firestore:"lens" json:"lens"`
	ISO          string  `firestore:"iso" json:"iso"`
	Aperture     string  `firestore:"aperture" json:"aperture"`
	ShutterSpeed string  `firestore:"shutterSpeed" json:"shutter_speed"`
	DateTaken    string  `firestore:"dateTaken" json:"date_taken"`
	Width        int     `firestore:"width" json:"width"`
	Height       int     `firestore:"height" json:"height"`
	AspectRatio  float64 `firestore:"aspectRatio" json:"aspect_ratio"`
}

// PhotoRecord is one row of the metadata store, keyed by the photo's
// identity (its relative path under the photo root).
//
// Structural fields (path, filename, album, signature, capture) are owned by
// the sync reconciler; user fields are owned by the edit path and survive
// any re-sync of an already-known record.
type PhotoRecord struct {
	ID           string          `firestore:"-" json:"id"`
	RelativePath string          `firestore:"relativePath" json:"path"`
	Filename     string          `firestore:"filename" json:"filename"`
	Album        string          `firestore:"album" json:"album"`
	Signature    string          `firestore:"signature" json:"signature"`
	Capture      CaptureMetadata `firestore:"capture" json:"capture"`

	Published   bool     `firestore:"published" json:"published"`
	CustomTitle string   `firestore:"customTitle" json:"custom_title"`
	Description string   `firestore:"description" json:"description"`
	Tags        []string `firestore:"tags" json:"tags"`
	Notes       string   `firestore:"notes" json:"notes"`

	CreatedAt time.Time `firestore:"createdAt" json:"created_at"`
	UpdatedAt time.Time `firestore:"updatedAt" json:"updated_at"`
}

// UserFieldPatch carries an edit-API update. Nil pointers leave the
// corresponding field untouched.
type UserFieldPatch struct {
	Published   *bool    `json:"published,omitempty"`
	CustomTitle *string  `json:"custom_title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Notes       *string  `json:"notes,omitempty"`
}

// ScanEntry describes one supported image file found under the photo root.
type ScanEntry struct {
	Path         string // absolute path on disk
	RelativePath string // slash-separated path under the root
	Album        string // first path element, empty for root-level files
	Signature    string
	Size         int64
	ModTime      time.Time
}

// SyncReport aggregates the outcome of one sync pass.
type SyncReport struct {
	Added    int      `json:"added"`
	Removed  int      `json:"removed"`
	Changed  int      `json:"changed"`
	Warnings []string `json:"warnings"`
}

// DeployReport aggregates the outcome of one deploy pass. Success reflects
// whether the pass could start and complete (store readable, bucket
// listable); per-item failures land in Errors without flipping it.
type DeployReport struct {
	Success             bool     `json:"success"`
	ThumbnailsGenerated int      `json:"thumbnails_generated"`
	Uploaded            int      `json:"uploaded"`
	Deleted             int      `json:"deleted"`
	UploadedFiles       []string `json:"uploaded_files"`
	DeletedFiles        []string `json:"deleted_files"`
	Warnings            []string `json:"warnings"`
	Errors              []string `json:"errors"`
}
