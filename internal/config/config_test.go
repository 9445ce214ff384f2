package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.ConcurrentJobs != 8 {
		t.Errorf("ConcurrentJobs = %d, want 8", cfg.ConcurrentJobs)
	}
	if cfg.ThumbnailMaxDim != 400 {
		t.Errorf("ThumbnailMaxDim = %d, want 400", cfg.ThumbnailMaxDim)
	}
	if cfg.EditMode {
		t.Error("EditMode defaults to true, want false")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("PHOTOS_DIR", "/srv/photos")
	t.Setenv("CONCURRENT_JOBS", "4")
	t.Setenv("EDIT_MODE", "true")

	cfg := Load()

	if cfg.Port != "9000" {
		t.Errorf("Port = %q, want 9000", cfg.Port)
	}
	if cfg.PhotosDir != "/srv/photos" {
		t.Errorf("PhotosDir = %q, want /srv/photos", cfg.PhotosDir)
	}
	if cfg.ConcurrentJobs != 4 {
		t.Errorf("ConcurrentJobs = %d, want 4", cfg.ConcurrentJobs)
	}
	if !cfg.EditMode {
		t.Error("EditMode = false, want true")
	}
}

func TestLoadIgnoresInvalidValues(t *testing.T) {
	t.Setenv("CONCURRENT_JOBS", "not-a-number")
	t.Setenv("EDIT_MODE", "maybe")

	cfg := Load()

	if cfg.ConcurrentJobs != 8 {
		t.Errorf("ConcurrentJobs = %d, want default 8", cfg.ConcurrentJobs)
	}
	if cfg.EditMode {
		t.Error("EditMode = true, want default false")
	}
}
