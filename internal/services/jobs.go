package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"agentdms/admin-api/internal/models"
)

// ErrJobNotFound is returned for job ids the registry has never seen.
var ErrJobNotFound = errors.New("job not found")

// NotReadyError is returned when a result is requested before the job has
// completed. It carries the current status so callers can report it.
type NotReadyError struct {
	Status models.JobStatus
}

func (e *NotReadyError) Error() string {
	return fmt.Sprintf("job is not completed yet. Current status: %s", e.Status)
}

// JobStore tracks processing jobs for the lifetime of the process. Reads and
// writes are safe from any goroutine, and reads never block on in-flight
// processing. Jobs survive until restart only.
type JobStore interface {
	Create(fileName string, fileSize int64) *models.ProcessingJob
	Get(id uuid.UUID) (*models.ProcessingJob, error)
	Result(id uuid.UUID) (*models.ProcessingResult, error)
	MarkProcessing(id uuid.UUID) error
	Complete(id uuid.UUID, result *models.ProcessingResult) error
	Fail(id uuid.UUID, errorMessage string) error
}

type memoryJobStore struct {
	mu   sync.RWMutex
	jobs map[uuid.UUID]*models.ProcessingJob
}

func NewMemoryJobStore() JobStore {
	return &memoryJobStore{
		jobs: make(map[uuid.UUID]*models.ProcessingJob),
	}
}

// Create implements JobStore.
func (s *memoryJobStore) Create(fileName string, fileSize int64) *models.ProcessingJob {
	job := &models.ProcessingJob{
		ID:        uuid.New(),
		FileName:  fileName,
		FileSize:  fileSize,
		Status:    models.StatusUploaded,
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()

	return copyJob(job)
}

// Get implements JobStore. The returned job is a copy; mutating it does not
// touch the registry.
func (s *memoryJobStore) Get(id uuid.UUID) (*models.ProcessingJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, ErrJobNotFound
	}

	return copyJob(job), nil
}

// Result implements JobStore. Unknown ids and not-yet-completed jobs produce
// distinct errors.
func (s *memoryJobStore) Result(id uuid.UUID) (*models.ProcessingResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, ErrJobNotFound
	}

	if job.Status != models.StatusCompleted {
		return nil, &NotReadyError{Status: job.Status}
	}

	return job.Result, nil
}

// MarkProcessing implements JobStore.
func (s *memoryJobStore) MarkProcessing(id uuid.UUID) error {
	return s.transition(id, func(job *models.ProcessingJob) error {
		if job.Status != models.StatusUploaded {
			return fmt.Errorf("cannot start processing job in status %s", job.Status)
		}
		job.Status = models.StatusProcessing
		return nil
	})
}

// Complete implements JobStore.
func (s *memoryJobStore) Complete(id uuid.UUID, result *models.ProcessingResult) error {
	return s.transition(id, func(job *models.ProcessingJob) error {
		if job.Status.IsTerminal() {
			return fmt.Errorf("cannot complete job in terminal status %s", job.Status)
		}
		job.Status = models.StatusCompleted
		job.Result = result
		return nil
	})
}

// Fail implements JobStore.
func (s *memoryJobStore) Fail(id uuid.UUID, errorMessage string) error {
	return s.transition(id, func(job *models.ProcessingJob) error {
		if job.Status.IsTerminal() {
			return fmt.Errorf("cannot fail job in terminal status %s", job.Status)
		}
		job.Status = models.StatusFailed
		job.ErrorMessage = errorMessage
		return nil
	})
}

func (s *memoryJobStore) transition(id uuid.UUID, mutate func(*models.ProcessingJob) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return ErrJobNotFound
	}

	return mutate(job)
}

func copyJob(job *models.ProcessingJob) *models.ProcessingJob {
	clone := *job
	return &clone
}
