package photosync

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/semaphore"
)

// DeployConfig configures deployer behavior
type DeployConfig struct {
	ConcurrentJobs int // Number of concurrent upload jobs (default 8)
}

// DefaultDeployConfig returns the default deployer configuration
func DefaultDeployConfig() DeployConfig {
	return DeployConfig{
		ConcurrentJobs: 8,
	}
}

// Validate validates the deployer configuration
func (c DeployConfig) Validate() error {
	if c.ConcurrentJobs < 1 {
		return fmt.Errorf("ConcurrentJobs must be >= 1, got %d", c.ConcurrentJobs)
	}
	return nil
}

// DeployOption is a functional option for configuring a Deployer
type DeployOption func(*Deployer)

// WithDeployConcurrentJobs sets the number of concurrent upload jobs
func WithDeployConcurrentJobs(jobs int) DeployOption {
	return func(d *Deployer) {
		d.config.ConcurrentJobs = jobs
	}
}

// WithDeployRunStore records run history for each deploy pass. Run store
// failures degrade to warnings, they never fail a deploy.
func WithDeployRunStore(runs RunStore) DeployOption {
	return func(d *Deployer) {
		d.runs = runs
	}
}

// Deployer reconciles the published subset of the metadata store against
// the remote bucket. The bucket's live listing is the source of truth for
// what is already deployed: keys missing from it are uploaded, keys no
// longer desired are pruned. Re-running a deploy with nothing changed is
// a no-op.
type Deployer struct {
	store   MetadataStore
	objects ObjectStore
	thumbs  Thumbnailer
	runs    RunStore
	config  DeployConfig
	guard   *opGuard

	rootDir string
}

// NewDeployer creates a new deployer for the given photo root
func NewDeployer(rootDir string, store MetadataStore, objects ObjectStore, thumbs Thumbnailer, opts ...DeployOption) (*Deployer, error) {
	if rootDir == "" {
		return nil, fmt.Errorf("rootDir is required")
	}
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if objects == nil {
		return nil, fmt.Errorf("objects is required")
	}
	if thumbs == nil {
		return nil, fmt.Errorf("thumbs is required")
	}

	d := &Deployer{
		store:   store,
		objects: objects,
		thumbs:  thumbs,
		config:  DefaultDeployConfig(),
		guard:   newOpGuard("deploy"),
		rootDir: rootDir,
	}

	for _, opt := range opts {
		opt(d)
	}

	if err := d.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid deployer configuration: %w", err)
	}

	return d, nil
}

type deployItem struct {
	record    *PhotoRecord
	localPath string
}

// Deploy uploads published photos missing from the bucket and prunes
// objects no longer desired. A deploy already in flight causes a conflict
// error. Setup failures fail the whole deploy; per-photo failures are
// recorded in the report and the remaining photos still deploy.
func (d *Deployer) Deploy(ctx context.Context) (*DeployReport, error) {
	if err := d.guard.acquire(); err != nil {
		return nil, err
	}
	defer d.guard.release()

	runID := startRun(ctx, d.runs, RunKindDeploy)

	report := &DeployReport{
		Success:       true,
		UploadedFiles: []string{},
		DeletedFiles:  []string{},
		Warnings:      []string{},
		Errors:        []string{},
	}

	published, err := d.store.ListPublished(ctx)
	if err != nil {
		finishRun(ctx, d.runs, runID, RunStatusFailed, nil)
		report.Success = false
		return report, fmt.Errorf("failed to list published photos: %w", err)
	}

	actualKeys, err := d.objects.ListKeys(ctx)
	if err != nil {
		finishRun(ctx, d.runs, runID, RunStatusFailed, nil)
		report.Success = false
		return report, fmt.Errorf("failed to list bucket objects: %w", err)
	}

	actual := make(map[string]bool, len(actualKeys))
	for _, key := range actualKeys {
		actual[key] = true
	}

	// Desired state: every published record whose file still exists on disk.
	// Records with a missing file are excluded, so their remote objects get
	// pruned below.
	desired := make(map[string]bool)
	var items []deployItem
	for _, record := range published {
		localPath := filepath.Join(d.rootDir, filepath.FromSlash(record.RelativePath))
		if _, err := os.Stat(localPath); err != nil {
			report.Warnings = append(report.Warnings, fmt.Sprintf("published photo %s missing locally, skipping: %v", record.ID, err))
			continue
		}
		desired[OriginalKey(record.ID)] = true
		desired[ThumbnailKey(record.ID)] = true
		items = append(items, deployItem{record: record, localPath: localPath})
	}

	sort.Slice(items, func(i, j int) bool { return items[i].record.ID < items[j].record.ID })

	if interrupted := d.uploadItems(ctx, items, actual, report); interrupted {
		sort.Strings(report.UploadedFiles)
		finishRun(ctx, d.runs, runID, RunStatusFailed, d.runSummary(report))
		return report, nil
	}

	// Prune objects nobody wants anymore. Site metadata exports live under
	// their own prefix and are never pruned.
	var orphans []string
	for _, key := range actualKeys {
		if desired[key] || strings.HasPrefix(key, MetadataPrefix) {
			continue
		}
		orphans = append(orphans, key)
	}
	sort.Strings(orphans)

	for _, key := range orphans {
		if err := ctx.Err(); err != nil {
			report.Warnings = append(report.Warnings, fmt.Sprintf("deploy interrupted: %v", err))
			finishRun(ctx, d.runs, runID, RunStatusFailed, d.runSummary(report))
			return report, nil
		}
		if err := d.objects.Delete(ctx, key); err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("failed to delete %s: %v", key, err))
			continue
		}
		report.Deleted++
		report.DeletedFiles = append(report.DeletedFiles, key)
	}

	sort.Strings(report.UploadedFiles)
	sort.Strings(report.DeletedFiles)
	sort.Strings(report.Warnings)
	sort.Strings(report.Errors)

	log.Printf("INFO: Deploy completed: %d uploaded, %d deleted, %d thumbnails generated, %d errors",
		report.Uploaded, report.Deleted, report.ThumbnailsGenerated, len(report.Errors))

	finishRun(ctx, d.runs, runID, RunStatusCompleted, d.runSummary(report))

	return report, nil
}

// uploadItems deploys the photos on a bounded worker pool. The actual key
// set is read-only here; the report is shared and mutex-guarded. Reports
// whether the run was interrupted before dispatching every photo.
func (d *Deployer) uploadItems(ctx context.Context, items []deployItem, actual map[string]bool, report *DeployReport) bool {
	sem := semaphore.NewWeighted(int64(d.config.ConcurrentJobs))

	var wg sync.WaitGroup
	var mu sync.Mutex
	interrupted := false

	for _, item := range items {
		if err := sem.Acquire(ctx, 1); err != nil {
			mu.Lock()
			report.Warnings = append(report.Warnings, fmt.Sprintf("deploy interrupted: %v", err))
			mu.Unlock()
			interrupted = true
			break
		}
		wg.Add(1)
		go func(item deployItem) {
			defer wg.Done()
			defer sem.Release(1)
			d.deployPhoto(ctx, item, actual, report, &mu)
		}(item)
	}

	wg.Wait()
	return interrupted
}

// deployPhoto uploads whichever of the photo's two objects the bucket is
// missing. Thumbnail generation failure degrades to uploading the original
// alone; upload failure is recorded once for the photo.
func (d *Deployer) deployPhoto(ctx context.Context, item deployItem, actual map[string]bool, report *DeployReport, mu *sync.Mutex) {
	id := item.record.ID
	originalKey := OriginalKey(id)
	thumbKey := ThumbnailKey(id)

	needOriginal := !actual[originalKey]
	needThumb := !actual[thumbKey]
	if !needOriginal && !needThumb {
		return
	}

	fail := func(err error) {
		mu.Lock()
		report.Errors = append(report.Errors, fmt.Sprintf("failed to upload %s: %v", id, err))
		mu.Unlock()
	}

	if needOriginal {
		f, err := os.Open(item.localPath)
		if err != nil {
			fail(err)
			return
		}
		err = d.objects.Upload(ctx, originalKey, f, ContentTypeForPath(item.localPath))
		f.Close()
		if err != nil {
			fail(err)
			return
		}
		mu.Lock()
		report.Uploaded++
		report.UploadedFiles = append(report.UploadedFiles, originalKey)
		mu.Unlock()
	}

	if needThumb {
		data, generated, err := d.thumbs.EnsureThumbnail(id, item.localPath, item.record.Signature)
		if err != nil {
			mu.Lock()
			report.Warnings = append(report.Warnings, fmt.Sprintf("failed to generate thumbnail for %s: %v", id, err))
			mu.Unlock()
			return
		}
		if err := d.objects.Upload(ctx, thumbKey, bytes.NewReader(data), "image/jpeg"); err != nil {
			fail(err)
			return
		}
		mu.Lock()
		if generated {
			report.ThumbnailsGenerated++
		}
		report.Uploaded++
		report.UploadedFiles = append(report.UploadedFiles, thumbKey)
		mu.Unlock()
	}
}

func (d *Deployer) runSummary(report *DeployReport) map[string]interface{} {
	return map[string]interface{}{
		"uploaded":             report.Uploaded,
		"deleted":              report.Deleted,
		"thumbnails_generated": report.ThumbnailsGenerated,
		"warnings":             len(report.Warnings),
		"errors":               len(report.Errors),
	}
}

