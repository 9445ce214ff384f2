package server

import (
	"log"
	"net/http"

	"github.com/bs7280/photo-portfolio/internal/handlers"
	"github.com/bs7280/photo-portfolio/internal/middleware"
	"github.com/bs7280/photo-portfolio/photosync"
)

// NewRouter wires the reconciliation API routes
func NewRouter(syncer *photosync.Syncer, deployer *photosync.Deployer, editMode bool) http.Handler {
	mux := http.NewServeMux()

	// Health check for Cloud Run
	mux.HandleFunc("GET /api/health", handlers.HealthHandler)

	reconcileH, err := handlers.NewReconcileHandlers(syncer, deployer, editMode)
	if err != nil {
		log.Fatalf("Failed to create reconcile handlers: %v", err)
	}

	mux.HandleFunc("POST /api/sync", reconcileH.RunSync)
	mux.HandleFunc("POST /api/deploy", reconcileH.RunDeploy)

	return middleware.Chain(mux,
		middleware.Recovery,
		middleware.Logger,
	)
}
