package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kaitlin-del/SiteSheets/models"
)

// Job is one completed batch run held in memory. Results are session-scoped:
// nothing is persisted and the store empties when the process exits.
type Job struct {
	ID        string             `json:"id"`
	CreatedAt time.Time          `json:"created_at"`
	Total     int                `json:"total"`
	Failed    int                `json:"failed"`
	Items     []models.BatchItem `json:"items"`
}

// JobStore is an in-memory, concurrency-safe registry of batch jobs.
type JobStore struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

// NewJobStore creates an empty store.
func NewJobStore() *JobStore {
	return &JobStore{jobs: make(map[string]*Job)}
}

// Put registers a completed batch and returns its generated job ID.
func (s *JobStore) Put(items []models.BatchItem) *Job {
	job := &Job{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Total:     len(items),
		Items:     items,
	}
	for _, item := range items {
		if item.Failed() {
			job.Failed++
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
	return job
}

// Get returns the job with the given ID, if present.
func (s *JobStore) Get(id string) (*Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	return job, ok
}
