package photosync

import (
	"context"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
)

// Run kinds
const (
	RunKindSync   = "sync"
	RunKindDeploy = "deploy"
)

// Run statuses
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// RunRecord captures a single sync or deploy run for history
type RunRecord struct {
	ID         string                 `firestore:"-" json:"id"`
	Kind       string                 `firestore:"kind" json:"kind"`
	Status     string                 `firestore:"status" json:"status"`
	StartedAt  time.Time              `firestore:"startedAt" json:"started_at"`
	FinishedAt time.Time              `firestore:"finishedAt,omitempty" json:"finished_at,omitempty"`
	Summary    map[string]interface{} `firestore:"summary,omitempty" json:"summary,omitempty"`
}

// RunStoreOption configures FirestoreRunStore
type RunStoreOption func(*FirestoreRunStore)

// WithRunsCollection overrides the Firestore collection run records live in
func WithRunsCollection(name string) RunStoreOption {
	return func(s *FirestoreRunStore) {
		s.collection = name
	}
}

// FirestoreRunStore implements RunStore using Firestore
type FirestoreRunStore struct {
	client     *firestore.Client
	collection string
}

// NewFirestoreRunStore creates a new Firestore-backed run store
func NewFirestoreRunStore(client *firestore.Client, opts ...RunStoreOption) *FirestoreRunStore {
	s := &FirestoreRunStore{
		client:     client,
		collection: defaultRunsCollection,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// StartRun records the beginning of a run and returns its id
func (s *FirestoreRunStore) StartRun(ctx context.Context, kind string) (string, error) {
	id := uuid.New().String()
	run := &RunRecord{
		Kind:      kind,
		Status:    RunStatusRunning,
		StartedAt: time.Now().UTC(),
	}

	_, err := s.client.Collection(s.collection).Doc(id).Set(ctx, run)
	if err != nil {
		return "", err
	}

	return id, nil
}

// FinishRun records a run's terminal status and summary counters
func (s *FirestoreRunStore) FinishRun(ctx context.Context, id string, status string, summary map[string]interface{}) error {
	_, err := s.client.Collection(s.collection).Doc(id).Update(ctx, []firestore.Update{
		{Path: "status", Value: status},
		{Path: "finishedAt", Value: time.Now().UTC()},
		{Path: "summary", Value: summary},
	})
	return err
}

// startRun begins a history record, returning "" when no run store is
// configured or the write fails. Run history is best effort.
func startRun(ctx context.Context, runs RunStore, kind string) string {
	if runs == nil {
		return ""
	}
	id, err := runs.StartRun(ctx, kind)
	if err != nil {
		log.Printf("WARNING: Failed to record %s run start: %v", kind, err)
		return ""
	}
	return id
}

func finishRun(ctx context.Context, runs RunStore, id, status string, summary map[string]interface{}) {
	if runs == nil || id == "" {
		return
	}
	if err := runs.FinishRun(ctx, id, status, summary); err != nil {
		log.Printf("WARNING: Failed to record run %s finish: %v", id, err)
	}
}
