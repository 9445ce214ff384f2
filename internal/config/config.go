package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port         string
	GCPProjectID string
	Environment  string
	// Gallery configuration
	PhotosDir        string
	GCSBucketName    string
	PhotosCollection string
	RunsCollection   string
	ConcurrentJobs   int
	ThumbnailMaxDim  int
	// EditMode gates the mutating endpoints (sync, deploy, metadata edits)
	EditMode bool
}

func Load() Config {
	return Config{
		Port:             getEnv("PORT", "8080"),
		GCPProjectID:     getEnv("GCP_PROJECT_ID", "photo-portfolio"),
		Environment:      getEnv("GO_ENV", "production"),
		PhotosDir:        getEnv("PHOTOS_DIR", "./photos"),
		GCSBucketName:    getEnv("GCS_BUCKET_NAME", "photo-portfolio-media"),
		PhotosCollection: getEnv("PHOTOS_COLLECTION", "gallery-photos"),
		RunsCollection:   getEnv("RUNS_COLLECTION", "gallery-runs"),
		ConcurrentJobs:   getEnvInt("CONCURRENT_JOBS", 8),
		ThumbnailMaxDim:  getEnvInt("THUMBNAIL_MAX_DIM", 400),
		EditMode:         getEnvBool("EDIT_MODE", false),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
