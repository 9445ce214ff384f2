package photosync

import (
	"bytes"
	"errors"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"
)

func decodeThumb(t *testing.T, data []byte) (int, int) {
	t.Helper()
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("thumbnail is not valid JPEG: %v", err)
	}
	b := img.Bounds()
	return b.Dx(), b.Dy()
}

func TestEnsureThumbnailScalesDown(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name       string
		file       string
		width      int
		height     int
		wantWidth  int
		wantHeight int
	}{
		{"wide", "wide.jpg", 800, 600, 400, 300},
		{"tall", "tall.jpg", 500, 1000, 200, 400},
		{"square", "square.jpg", 900, 900, 400, 400},
	}

	gen := NewThumbnailGenerator()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			writeTestJPEG(t, path, tt.width, tt.height)

			data, generated, err := gen.EnsureThumbnail(tt.file, path, "sig-1")
			if err != nil {
				t.Fatalf("EnsureThumbnail: %v", err)
			}
			if !generated {
				t.Error("generated = false on first call")
			}

			w, h := decodeThumb(t, data)
			if w != tt.wantWidth || h != tt.wantHeight {
				t.Errorf("thumbnail = %dx%d, want %dx%d", w, h, tt.wantWidth, tt.wantHeight)
			}
		})
	}
}

func TestEnsureThumbnailNeverUpscales(t *testing.T) {
	path := filepath.Join(t.TempDir(), "small.png")
	writeTestPNG(t, path, 200, 150)

	data, _, err := NewThumbnailGenerator().EnsureThumbnail("small.png", path, "sig-1")
	if err != nil {
		t.Fatalf("EnsureThumbnail: %v", err)
	}

	w, h := decodeThumb(t, data)
	if w != 200 || h != 150 {
		t.Errorf("thumbnail = %dx%d, want native 200x150", w, h)
	}
}

func TestEnsureThumbnailCaching(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pic.jpg")
	writeTestJPEG(t, path, 800, 600)

	gen := NewThumbnailGenerator()

	first, generated, err := gen.EnsureThumbnail("pic.jpg", path, "sig-1")
	if err != nil {
		t.Fatalf("EnsureThumbnail: %v", err)
	}
	if !generated {
		t.Error("first call did not generate")
	}

	second, generated, err := gen.EnsureThumbnail("pic.jpg", path, "sig-1")
	if err != nil {
		t.Fatalf("EnsureThumbnail: %v", err)
	}
	if generated {
		t.Error("same signature regenerated")
	}
	if !bytes.Equal(first, second) {
		t.Error("cache hit returned different bytes")
	}

	// A changed signature replaces the cached rendition
	_, generated, err = gen.EnsureThumbnail("pic.jpg", path, "sig-2")
	if err != nil {
		t.Fatalf("EnsureThumbnail: %v", err)
	}
	if !generated {
		t.Error("changed signature did not regenerate")
	}

	// Remove forces the next call to regenerate
	gen.Remove("pic.jpg")
	_, generated, err = gen.EnsureThumbnail("pic.jpg", path, "sig-2")
	if err != nil {
		t.Fatalf("EnsureThumbnail: %v", err)
	}
	if !generated {
		t.Error("removed entry did not regenerate")
	}
}

func TestEnsureThumbnailCustomMaxDimension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pic.jpg")
	writeTestJPEG(t, path, 1000, 500)

	gen := NewThumbnailGenerator(WithMaxDimension(100))
	data, _, err := gen.EnsureThumbnail("pic.jpg", path, "sig-1")
	if err != nil {
		t.Fatalf("EnsureThumbnail: %v", err)
	}

	w, h := decodeThumb(t, data)
	if w != 100 || h != 50 {
		t.Errorf("thumbnail = %dx%d, want 100x50", w, h)
	}
}

func TestEnsureThumbnailCorruptSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.jpg")
	if err := os.WriteFile(path, []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, _, err := NewThumbnailGenerator().EnsureThumbnail("broken.jpg", path, "sig-1")
	if !errors.Is(err, ErrCorruptMedia) {
		t.Errorf("error = %v, want ErrCorruptMedia", err)
	}
}
