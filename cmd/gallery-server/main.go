package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"

	"github.com/bs7280/photo-portfolio/internal/config"
	"github.com/bs7280/photo-portfolio/internal/server"
	"github.com/bs7280/photo-portfolio/photosync"
)

func main() {
	cfg := config.Load()

	ctx := context.Background()

	// Initialize Firestore client
	fsClient, err := firestore.NewClient(ctx, cfg.GCPProjectID)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer fsClient.Close()

	// Initialize GCS client
	gcsClient, err := storage.NewClient(ctx)
	if err != nil {
		log.Fatalf("Failed to create GCS client: %v", err)
	}
	defer gcsClient.Close()

	if emulator := os.Getenv("FIRESTORE_EMULATOR_HOST"); emulator != "" {
		log.Printf("INFO: Using Firestore Emulator at %s", emulator)
	}

	store := photosync.NewFirestoreMetadataStore(fsClient,
		photosync.WithPhotosCollection(cfg.PhotosCollection))
	runs := photosync.NewFirestoreRunStore(fsClient,
		photosync.WithRunsCollection(cfg.RunsCollection))
	objects := photosync.NewGCSObjectStore(gcsClient, cfg.GCSBucketName)

	scanner := photosync.NewPhotoScanner()
	extractor := photosync.NewCaptureExtractor()
	thumbs := photosync.NewThumbnailGenerator(
		photosync.WithMaxDimension(cfg.ThumbnailMaxDim))

	syncer, err := photosync.NewSyncer(cfg.PhotosDir, scanner, extractor, store,
		photosync.WithSyncConcurrentJobs(cfg.ConcurrentJobs),
		photosync.WithSyncRunStore(runs),
		photosync.WithSyncThumbnailer(thumbs),
		photosync.WithSyncObjectStore(objects))
	if err != nil {
		log.Fatalf("Failed to create syncer: %v", err)
	}

	deployer, err := photosync.NewDeployer(cfg.PhotosDir, store, objects, thumbs,
		photosync.WithDeployConcurrentJobs(cfg.ConcurrentJobs),
		photosync.WithDeployRunStore(runs))
	if err != nil {
		log.Fatalf("Failed to create deployer: %v", err)
	}

	router := server.NewRouter(syncer, deployer, cfg.EditMode)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}()

	if cfg.EditMode {
		log.Printf("INFO: Edit mode enabled")
	}
	log.Printf("Server starting on port %s", cfg.Port)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
