// Package photosync reconciles a local photo library against a metadata
// store and a published subset of that store against a remote bucket.
// The workflow is two-phase:
//  1. Sync: the filesystem is scanned and the metadata store updated to
//     match it, extracting capture metadata for new and changed photos.
//  2. Deploy: published records are diffed against the bucket's live
//     listing and originals plus thumbnails uploaded or pruned.
//
// Sync never touches the bucket and Deploy never touches the filesystem
// records, so either pass can be re-run safely on its own.
package photosync

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// SyncConfig configures syncer behavior
type SyncConfig struct {
	ConcurrentJobs int // Number of concurrent extraction jobs (default 8)
}

// DefaultSyncConfig returns the default syncer configuration
func DefaultSyncConfig() SyncConfig {
	return SyncConfig{
		ConcurrentJobs: 8,
	}
}

// Validate validates the syncer configuration
func (c SyncConfig) Validate() error {
	if c.ConcurrentJobs < 1 {
		return fmt.Errorf("ConcurrentJobs must be >= 1, got %d", c.ConcurrentJobs)
	}
	return nil
}

// SyncOption is a functional option for configuring a Syncer
type SyncOption func(*Syncer)

// WithSyncConcurrentJobs sets the number of concurrent extraction jobs
func WithSyncConcurrentJobs(jobs int) SyncOption {
	return func(s *Syncer) {
		s.config.ConcurrentJobs = jobs
	}
}

// WithSyncRunStore records run history for each sync pass. Run store
// failures degrade to warnings, they never fail a sync.
func WithSyncRunStore(runs RunStore) SyncOption {
	return func(s *Syncer) {
		s.runs = runs
	}
}

// WithSyncThumbnailer drops cached renditions when their photo is removed
func WithSyncThumbnailer(thumbs Thumbnailer) SyncOption {
	return func(s *Syncer) {
		s.thumbs = thumbs
	}
}

// WithSyncObjectStore lets DeletePhoto prune a published photo's remote
// objects immediately instead of waiting for the next deploy
func WithSyncObjectStore(objects ObjectStore) SyncOption {
	return func(s *Syncer) {
		s.objects = objects
	}
}

// Syncer reconciles the photo root against the metadata store.
// Photos on disk but not in the store are inserted, photos in the store
// but gone from disk are removed, and photos whose signature changed are
// re-extracted while their user-owned fields are preserved.
type Syncer struct {
	scanner   Scanner
	extractor Extractor
	store     MetadataStore
	thumbs    Thumbnailer
	objects   ObjectStore
	runs      RunStore
	config    SyncConfig
	guard     *opGuard

	rootDir string
}

// NewSyncer creates a new syncer for the given photo root
func NewSyncer(rootDir string, scanner Scanner, extractor Extractor, store MetadataStore, opts ...SyncOption) (*Syncer, error) {
	if rootDir == "" {
		return nil, fmt.Errorf("rootDir is required")
	}
	if scanner == nil {
		return nil, fmt.Errorf("scanner is required")
	}
	if extractor == nil {
		return nil, fmt.Errorf("extractor is required")
	}
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}

	s := &Syncer{
		scanner:   scanner,
		extractor: extractor,
		store:     store,
		config:    DefaultSyncConfig(),
		guard:     newOpGuard("sync"),
		rootDir:   rootDir,
	}

	for _, opt := range opts {
		opt(s)
	}

	if err := s.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid syncer configuration: %w", err)
	}

	return s, nil
}

// Sync scans the photo root and updates the metadata store to match it.
// A sync already in flight causes a conflict error. Per-photo failures
// degrade to warnings so one bad file never blocks the rest.
func (s *Syncer) Sync(ctx context.Context) (*SyncReport, error) {
	if err := s.guard.acquire(); err != nil {
		return nil, err
	}
	defer s.guard.release()

	runID := startRun(ctx, s.runs, RunKindSync)

	existing, err := s.store.List(ctx)
	if err != nil {
		finishRun(ctx, s.runs, runID, RunStatusFailed, nil)
		return nil, fmt.Errorf("failed to list photo records: %w", err)
	}

	existingByID := make(map[string]*PhotoRecord, len(existing))
	for _, record := range existing {
		existingByID[record.ID] = record
	}

	report := &SyncReport{Warnings: []string{}}

	scanned, scanWarnings := s.collectScan(ctx)
	report.Warnings = append(report.Warnings, scanWarnings...)

	var added, changed []ScanEntry
	for id, entry := range scanned {
		prev, ok := existingByID[id]
		if !ok {
			added = append(added, entry)
		} else if prev.Signature != entry.Signature {
			changed = append(changed, entry)
		}
	}

	s.processEntries(ctx, report, added, changed, existingByID)

	// Remove records whose file is gone from disk
	for id := range existingByID {
		if _, ok := scanned[id]; ok {
			continue
		}
		if err := ctx.Err(); err != nil {
			report.Warnings = append(report.Warnings, fmt.Sprintf("sync interrupted: %v", err))
			break
		}
		if err := s.store.Delete(ctx, id); err != nil {
			report.Warnings = append(report.Warnings, fmt.Sprintf("failed to remove record for %s: %v", id, err))
			continue
		}
		if s.thumbs != nil {
			s.thumbs.Remove(id)
		}
		report.Removed++
	}

	sort.Strings(report.Warnings)

	log.Printf("INFO: Sync completed: %d added, %d changed, %d removed, %d warnings",
		report.Added, report.Changed, report.Removed, len(report.Warnings))

	finishRun(ctx, s.runs, runID, RunStatusCompleted, map[string]interface{}{
		"added":    report.Added,
		"changed":  report.Changed,
		"removed":  report.Removed,
		"warnings": len(report.Warnings),
	})

	return report, nil
}

// collectScan drains both scanner channels until closed, keeping the last
// entry per photo id and turning scan errors into warnings
func (s *Syncer) collectScan(ctx context.Context) (map[string]ScanEntry, []string) {
	entryCh, errCh := s.scanner.Scan(ctx, s.rootDir)

	scanned := make(map[string]ScanEntry)
	var warnings []string

	for entryCh != nil || errCh != nil {
		select {
		case entry, ok := <-entryCh:
			if !ok {
				entryCh = nil
				continue
			}
			scanned[PhotoID(entry.RelativePath)] = entry
		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			warnings = append(warnings, fmt.Sprintf("scan: %v", err))
		}
	}

	return scanned, warnings
}

// processEntries extracts capture metadata for added and changed photos
// concurrently and writes the resulting records
func (s *Syncer) processEntries(ctx context.Context, report *SyncReport, added, changed []ScanEntry, existingByID map[string]*PhotoRecord) {
	sem := semaphore.NewWeighted(int64(s.config.ConcurrentJobs))

	var wg sync.WaitGroup
	var mu sync.Mutex

	warn := func(format string, args ...interface{}) {
		mu.Lock()
		report.Warnings = append(report.Warnings, fmt.Sprintf(format, args...))
		mu.Unlock()
	}

	process := func(entry ScanEntry, prev *PhotoRecord) {
		defer wg.Done()
		defer sem.Release(1)

		id := PhotoID(entry.RelativePath)

		capture, err := s.extractor.ExtractCapture(entry.Path)
		if err != nil {
			if errors.Is(err, ErrCorruptMedia) {
				if prev != nil {
					warn("corrupt file %s: keeping previous record: %v", id, err)
				} else {
					warn("corrupt file %s: skipped: %v", id, err)
				}
			} else {
				warn("failed to extract metadata for %s: %v", id, err)
			}
			return
		}

		now := time.Now().UTC()
		record := &PhotoRecord{
			ID:           id,
			RelativePath: entry.RelativePath,
			Filename:     filepath.Base(entry.RelativePath),
			Album:        entry.Album,
			Signature:    entry.Signature,
			Capture:      capture,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if prev != nil {
			// User-owned fields survive re-extraction
			record.Published = prev.Published
			record.CustomTitle = prev.CustomTitle
			record.Description = prev.Description
			record.Tags = prev.Tags
			record.Notes = prev.Notes
			record.CreatedAt = prev.CreatedAt
		}

		if err := s.store.Put(ctx, record); err != nil {
			warn("failed to store record for %s: %v", id, err)
			return
		}

		mu.Lock()
		if prev != nil {
			report.Changed++
		} else {
			report.Added++
		}
		mu.Unlock()
	}

	dispatch := func(entry ScanEntry, prev *PhotoRecord) bool {
		if err := sem.Acquire(ctx, 1); err != nil {
			warn("sync interrupted: %v", err)
			return false
		}
		wg.Add(1)
		go process(entry, prev)
		return true
	}

	for _, entry := range added {
		if !dispatch(entry, nil) {
			break
		}
	}
	for _, entry := range changed {
		if !dispatch(entry, existingByID[PhotoID(entry.RelativePath)]) {
			break
		}
	}

	wg.Wait()
}

// DeletePhoto removes a photo's file, its record, and any cached rendition.
// Returns ErrNotFound if no record exists for the id.
func (s *Syncer) DeletePhoto(ctx context.Context, id string) error {
	record, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}

	path := filepath.Join(s.rootDir, filepath.FromSlash(record.RelativePath))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file for %s: %w", id, err)
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete record for %s: %w", id, err)
	}

	if s.thumbs != nil {
		s.thumbs.Remove(id)
	}

	// Remote objects of a published photo are pruned immediately. Failures
	// degrade to warnings; the next deploy reclaims any leftovers.
	if record.Published && s.objects != nil {
		for _, key := range []string{OriginalKey(id), ThumbnailKey(id)} {
			if err := s.objects.Delete(ctx, key); err != nil {
				log.Printf("WARNING: Failed to delete remote object %s: %v", key, err)
			}
		}
	}

	return nil
}

