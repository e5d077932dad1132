package repository

import (
	"context"
	"errors"

	"quantum-pipeline/internal/domain"
)

// ErrJobNotFound is returned when no job matches the requested id.
var ErrJobNotFound = errors.New("job not found")

// JobRepository exposes persistence operations for simulated jobs.
type JobRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, job *domain.Job) error
	Update(ctx context.Context, job *domain.Job) error
	UpdateProgress(ctx context.Context, id string, status domain.JobStatus, progress int) error
	Get(ctx context.Context, id string) (*domain.Job, error)
	ListByOwner(ctx context.Context, owner string) ([]domain.Job, error)
	ListByStatuses(ctx context.Context, statuses ...domain.JobStatus) ([]domain.Job, error)
	DeleteByOwner(ctx context.Context, owner string) error
}
