// Package memory keeps repository data in process memory. It is the
// default backend; nothing survives a restart.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"quantum-pipeline/internal/domain"
	"quantum-pipeline/internal/repository"
)

type JobRepository struct {
	mu   sync.RWMutex
	jobs map[string]*domain.Job
}

func NewJobRepository() repository.JobRepository {
	return &JobRepository{jobs: make(map[string]*domain.Job)}
}

func (r *JobRepository) Init(context.Context) error { return nil }

func (r *JobRepository) Create(_ context.Context, job *domain.Job) error {
	now := time.Now().UTC()
	job.CreatedAt = now
	job.UpdatedAt = now

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.jobs[job.ID]; exists {
		return fmt.Errorf("job %s already exists", job.ID)
	}
	r.jobs[job.ID] = cloneJob(job)
	return nil
}

func (r *JobRepository) Update(_ context.Context, job *domain.Job) error {
	job.UpdatedAt = time.Now().UTC()

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[job.ID]; !ok {
		return repository.ErrJobNotFound
	}
	r.jobs[job.ID] = cloneJob(job)
	return nil
}

func (r *JobRepository) UpdateProgress(_ context.Context, id string, status domain.JobStatus, progress int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return repository.ErrJobNotFound
	}
	job.Status = status
	job.Progress = progress
	job.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *JobRepository) Get(_ context.Context, id string) (*domain.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, repository.ErrJobNotFound
	}
	return cloneJob(job), nil
}

// ListByOwner returns the owner's jobs, newest first.
func (r *JobRepository) ListByOwner(_ context.Context, owner string) ([]domain.Job, error) {
	return r.filter(func(j *domain.Job) bool { return j.Owner == owner }, true), nil
}

func (r *JobRepository) ListByStatuses(_ context.Context, statuses ...domain.JobStatus) ([]domain.Job, error) {
	if len(statuses) == 0 {
		return []domain.Job{}, nil
	}
	return r.filter(func(j *domain.Job) bool { return slices.Contains(statuses, j.Status) }, false), nil
}

func (r *JobRepository) DeleteByOwner(_ context.Context, owner string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, job := range r.jobs {
		if job.Owner == owner {
			delete(r.jobs, id)
		}
	}
	return nil
}

func (r *JobRepository) filter(keep func(*domain.Job) bool, newestFirst bool) []domain.Job {
	r.mu.RLock()
	out := make([]domain.Job, 0, len(r.jobs))
	for _, job := range r.jobs {
		if keep(job) {
			out = append(out, *cloneJob(job))
		}
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b domain.Job) int {
		c := a.CreatedAt.Compare(b.CreatedAt)
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		if newestFirst {
			return -c
		}
		return c
	})
	return out
}

func cloneJob(job *domain.Job) *domain.Job {
	cp := *job
	if job.Result != nil {
		res := *job.Result
		cp.Result = &res
	}
	if job.StartedAt != nil {
		t := *job.StartedAt
		cp.StartedAt = &t
	}
	if job.FinishedAt != nil {
		t := *job.FinishedAt
		cp.FinishedAt = &t
	}
	return &cp
}

var _ repository.JobRepository = (*JobRepository)(nil)
