package photosync

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	// ErrNotFound is returned when a photo record does not exist
	ErrNotFound = errors.New("not found")

	// ErrCorruptMedia is returned when an image file cannot be decoded
	ErrCorruptMedia = errors.New("corrupt media")

	// ErrCancelled is returned when an operation is cancelled
	ErrCancelled = errors.New("operation cancelled")

	// ErrConflict is returned when a sync or deploy is already running
	ErrConflict = errors.New("operation already in progress")
)

// ScanError represents an error reading a directory entry during a scan
type ScanError struct {
	Path string
	Err  error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scan error at %s: %v", e.Path, e.Err)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// CorruptMediaError represents a structurally invalid image file
type CorruptMediaError struct {
	Path string
	Err  error
}

func (e *CorruptMediaError) Error() string {
	return fmt.Sprintf("corrupt media %s: %v", e.Path, e.Err)
}

func (e *CorruptMediaError) Unwrap() error {
	return ErrCorruptMedia
}

// ExtractionError represents a capture-metadata extraction failure
type ExtractionError struct {
	Path string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction error for %s: %v", e.Path, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// UploadError represents a failed put of one remote object
type UploadError struct {
	Key string
	Err error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload error for %s: %v", e.Key, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// DeleteError represents a failed delete of one remote object
type DeleteError struct {
	Key string
	Err error
}

func (e *DeleteError) Error() string {
	return fmt.Sprintf("delete error for %s: %v", e.Key, e.Err)
}

func (e *DeleteError) Unwrap() error {
	return e.Err
}

// ConcurrencyConflictError is returned when a sync or deploy is invoked
// while another run of the same kind has not yet finished. Nothing is
// mutated by the rejected call.
type ConcurrencyConflictError struct {
	Op string
}

func (e *ConcurrencyConflictError) Error() string {
	return fmt.Sprintf("%s already in progress", e.Op)
}

func (e *ConcurrencyConflictError) Unwrap() error {
	return ErrConflict
}
