package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/bs7280/photo-portfolio/photosync"
)

// ReconcileHandlers exposes the sync and deploy triggers over HTTP
type ReconcileHandlers struct {
	syncer   *photosync.Syncer
	deployer *photosync.Deployer
	editMode bool
}

// NewReconcileHandlers creates a new reconcile handlers instance
func NewReconcileHandlers(syncer *photosync.Syncer, deployer *photosync.Deployer, editMode bool) (*ReconcileHandlers, error) {
	if syncer == nil {
		return nil, fmt.Errorf("syncer is required")
	}
	if deployer == nil {
		return nil, fmt.Errorf("deployer is required")
	}

	return &ReconcileHandlers{
		syncer:   syncer,
		deployer: deployer,
		editMode: editMode,
	}, nil
}

// HealthHandler handles GET /api/health
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// requireEditMode rejects mutating requests on a read-only deployment
func (h *ReconcileHandlers) requireEditMode(w http.ResponseWriter, op string) bool {
	if h.editMode {
		return true
	}
	log.Printf("ERROR: %s rejected: edit mode is disabled", op)
	http.Error(w, "Edit mode is disabled", http.StatusForbidden)
	return false
}

// RunSync handles POST /api/sync
func (h *ReconcileHandlers) RunSync(w http.ResponseWriter, r *http.Request) {
	if !h.requireEditMode(w, "RunSync") {
		return
	}

	report, err := h.syncer.Sync(r.Context())
	if err != nil {
		if errors.Is(err, photosync.ErrConflict) {
			http.Error(w, "Sync already in progress", http.StatusConflict)
			return
		}
		log.Printf("ERROR: RunSync - %v", err)
		http.Error(w, fmt.Sprintf("Sync failed: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}

// RunDeploy handles POST /api/deploy
func (h *ReconcileHandlers) RunDeploy(w http.ResponseWriter, r *http.Request) {
	if !h.requireEditMode(w, "RunDeploy") {
		return
	}

	report, err := h.deployer.Deploy(r.Context())
	if err != nil {
		if errors.Is(err, photosync.ErrConflict) {
			http.Error(w, "Deploy already in progress", http.StatusConflict)
			return
		}
		log.Printf("ERROR: RunDeploy - %v", err)
		// A setup failure still carries a report describing what happened
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(report)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}
