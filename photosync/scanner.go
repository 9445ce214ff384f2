package photosync

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// ScannerOption configures PhotoScanner
type ScannerOption func(*PhotoScanner)

// PhotoScanner walks a photo root and emits a ScanEntry for every
// supported image file found.
type PhotoScanner struct {
	extensions []string // Extensions to match (lowercase, with dot)
	skipHidden bool     // Skip files/dirs starting with "."
	bufferSize int      // Channel buffer size (default 100)
}

// WithScanExtensions configures the file extensions the scanner accepts
func WithScanExtensions(exts ...string) ScannerOption {
	return func(s *PhotoScanner) {
		normalized := make([]string, len(exts))
		for i, ext := range exts {
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			normalized[i] = strings.ToLower(ext)
		}
		s.extensions = normalized
	}
}

// WithScanSkipHidden configures whether to skip hidden files and directories
func WithScanSkipHidden(skip bool) ScannerOption {
	return func(s *PhotoScanner) {
		s.skipHidden = skip
	}
}

// WithScanBufferSize configures the channel buffer size
func WithScanBufferSize(size int) ScannerOption {
	return func(s *PhotoScanner) {
		s.bufferSize = size
	}
}

// NewPhotoScanner creates a new PhotoScanner with the given options.
// By default it matches the common web image formats and skips hidden
// files and directories.
func NewPhotoScanner(opts ...ScannerOption) *PhotoScanner {
	s := &PhotoScanner{
		extensions: []string{".jpg", ".jpeg", ".png", ".gif", ".webp"},
		skipHidden: true,
		bufferSize: 100,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Scan walks the photo root and sends a ScanEntry for each matching file.
// Returns channels for entries and errors. Both channels are closed when
// the walk completes. Per-file errors are reported and the walk continues;
// only context cancellation aborts it.
func (s *PhotoScanner) Scan(ctx context.Context, rootDir string) (<-chan ScanEntry, <-chan error) {
	entryChan := make(chan ScanEntry, s.bufferSize)
	errChan := make(chan error, s.bufferSize)

	go func() {
		defer close(entryChan)
		defer close(errChan)

		rootDir = filepath.Clean(rootDir)

		err := filepath.WalkDir(rootDir, func(path string, entry fs.DirEntry, err error) error {
			select {
			case <-ctx.Done():
				return &ScanError{Path: path, Err: ErrCancelled}
			default:
			}

			if err != nil {
				errChan <- &ScanError{Path: path, Err: err}
				// Skip this entry but continue walking
				return nil
			}

			if s.skipHidden && strings.HasPrefix(entry.Name(), ".") {
				if entry.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if entry.IsDir() {
				return nil
			}

			ext := strings.ToLower(filepath.Ext(path))
			matched := false
			for _, allowed := range s.extensions {
				if ext == allowed {
					matched = true
					break
				}
			}
			if !matched {
				return nil
			}

			info, err := entry.Info()
			if err != nil {
				errChan <- &ScanError{Path: path, Err: err}
				return nil
			}

			relPath, err := filepath.Rel(rootDir, path)
			if err != nil {
				errChan <- &ScanError{Path: path, Err: err}
				return nil
			}

			scanEntry := ScanEntry{
				Path:         path,
				RelativePath: filepath.ToSlash(relPath),
				Album:        AlbumOf(relPath),
				Signature:    fmt.Sprintf("%d-%d", info.Size(), info.ModTime().UnixNano()),
				Size:         info.Size(),
				ModTime:      info.ModTime(),
			}

			select {
			case entryChan <- scanEntry:
			case <-ctx.Done():
				return &ScanError{Path: path, Err: ErrCancelled}
			}

			return nil
		})

		if err != nil {
			if _, ok := err.(*ScanError); !ok {
				err = &ScanError{Path: rootDir, Err: err}
			}
			errChan <- err
		}
	}()

	return entryChan, errChan
}
