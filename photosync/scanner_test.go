package photosync

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func collectEntries(t *testing.T, scanner *PhotoScanner, rootDir string) ([]ScanEntry, []error) {
	t.Helper()

	entryCh, errCh := scanner.Scan(context.Background(), rootDir)

	var entries []ScanEntry
	var errs []error
	for entryCh != nil || errCh != nil {
		select {
		case entry, ok := <-entryCh:
			if !ok {
				entryCh = nil
				continue
			}
			entries = append(entries, entry)
		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			errs = append(errs, err)
		}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].RelativePath < entries[j].RelativePath })
	return entries, errs
}

func TestScanFindsImages(t *testing.T) {
	rootDir := t.TempDir()

	files := map[string]string{
		"portrait.jpg":          "aa",
		"landscapes/dunes.jpeg": "bbb",
		"landscapes/mesa.png":   "cccc",
		"notes.txt":             "not an image",
		"raw/shot.cr2":          "unsupported",
	}
	for rel, content := range files {
		path := filepath.Join(rootDir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	entries, errs := collectEntries(t, NewPhotoScanner(), rootDir)
	if len(errs) != 0 {
		t.Fatalf("scan errors: %v", errs)
	}

	var got []string
	for _, entry := range entries {
		got = append(got, entry.RelativePath)
	}
	want := []string{"landscapes/dunes.jpeg", "landscapes/mesa.png", "portrait.jpg"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("scanned = %v, want %v", got, want)
	}

	for _, entry := range entries {
		if entry.RelativePath == "landscapes/dunes.jpeg" {
			if entry.Album != "landscapes" {
				t.Errorf("Album = %q, want %q", entry.Album, "landscapes")
			}
			if entry.Size != 3 {
				t.Errorf("Size = %d, want 3", entry.Size)
			}
			want := fmt.Sprintf("%d-%d", entry.Size, entry.ModTime.UnixNano())
			if entry.Signature != want {
				t.Errorf("Signature = %q, want %q", entry.Signature, want)
			}
		}
	}
}

func TestScanSkipsHidden(t *testing.T) {
	rootDir := t.TempDir()

	for _, rel := range []string{".hidden.jpg", ".cache/thumb.jpg", "visible.jpg"} {
		path := filepath.Join(rootDir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	entries, errs := collectEntries(t, NewPhotoScanner(), rootDir)
	if len(errs) != 0 {
		t.Fatalf("scan errors: %v", errs)
	}
	if len(entries) != 1 || entries[0].RelativePath != "visible.jpg" {
		t.Errorf("entries = %v, want only visible.jpg", entries)
	}

	entries, _ = collectEntries(t, NewPhotoScanner(WithScanSkipHidden(false)), rootDir)
	if len(entries) != 3 {
		t.Errorf("entries with hidden = %d, want 3", len(entries))
	}
}

func TestScanCustomExtensions(t *testing.T) {
	rootDir := t.TempDir()
	for _, rel := range []string{"a.jpg", "b.png"} {
		if err := os.WriteFile(filepath.Join(rootDir, rel), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	entries, errs := collectEntries(t, NewPhotoScanner(WithScanExtensions("jpg")), rootDir)
	if len(errs) != 0 {
		t.Fatalf("scan errors: %v", errs)
	}
	if len(entries) != 1 || entries[0].RelativePath != "a.jpg" {
		t.Errorf("entries = %v, want only a.jpg", entries)
	}
}

func TestScanMissingRoot(t *testing.T) {
	entries, errs := collectEntries(t, NewPhotoScanner(), filepath.Join(t.TempDir(), "does-not-exist"))
	if len(entries) != 0 {
		t.Errorf("entries = %v, want none", entries)
	}
	if len(errs) == 0 {
		t.Fatal("no error for missing root")
	}
	scanErr, ok := errs[0].(*ScanError)
	if !ok {
		t.Fatalf("error type = %T, want *ScanError", errs[0])
	}
	if scanErr.Path == "" {
		t.Error("ScanError has empty path")
	}
}

func TestScanCancellation(t *testing.T) {
	rootDir := t.TempDir()
	for i := 0; i < 20; i++ {
		name := filepath.Join(rootDir, fmt.Sprintf("p%02d.jpg", i))
		if err := os.WriteFile(name, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Unbuffered so the walk cannot outrun the consumer
	entryCh, errCh := NewPhotoScanner(WithScanBufferSize(0)).Scan(ctx, rootDir)

	sawCancel := false
	for entryCh != nil || errCh != nil {
		select {
		case _, ok := <-entryCh:
			if !ok {
				entryCh = nil
			}
		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			if scanErr, isScan := err.(*ScanError); isScan && scanErr.Unwrap() == ErrCancelled {
				sawCancel = true
			}
		}
	}
	if !sawCancel {
		t.Error("cancelled scan did not report ErrCancelled")
	}
}
