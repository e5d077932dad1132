package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"quantum-pipeline/internal/domain"
	"quantum-pipeline/internal/repository"
)

const createJobsTable = `
CREATE TABLE IF NOT EXISTS jobs (
	id TEXT PRIMARY KEY,
	owner TEXT NOT NULL,
	kind TEXT NOT NULL,
	status TEXT NOT NULL,
	progress INTEGER NOT NULL DEFAULT 0,
	input TEXT NOT NULL DEFAULT '',
	qubits INTEGER NOT NULL DEFAULT 0,
	circuits INTEGER NOT NULL DEFAULT 0,
	result TEXT NOT NULL DEFAULT '',
	error_message TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	started_at DATETIME NULL,
	finished_at DATETIME NULL
);
CREATE INDEX IF NOT EXISTS idx_jobs_owner ON jobs(owner);
`

const selectJobColumns = `
SELECT id, owner, kind, status, progress, input, qubits, circuits, result, error_message, created_at, updated_at, started_at, finished_at
FROM jobs`

type JobRepository struct {
	db *sql.DB
}

func NewJobRepository(db *sql.DB) repository.JobRepository {
	return &JobRepository{db: db}
}

func (r *JobRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createJobsTable); err != nil {
		return fmt.Errorf("create jobs table: %w", err)
	}
	return nil
}

func (r *JobRepository) Create(ctx context.Context, job *domain.Job) error {
	now := time.Now().UTC()
	job.CreatedAt = now
	job.UpdatedAt = now

	result, err := encodeResult(job.Result)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO jobs (id, owner, kind, status, progress, input, qubits, circuits, result, error_message, created_at, updated_at, started_at, finished_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		job.ID,
		job.Owner,
		string(job.Kind),
		string(job.Status),
		job.Progress,
		job.Input,
		job.Qubits,
		job.Circuits,
		result,
		job.ErrorMessage,
		job.CreatedAt,
		job.UpdatedAt,
		nullTime(job.StartedAt),
		nullTime(job.FinishedAt),
	)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

func (r *JobRepository) Update(ctx context.Context, job *domain.Job) error {
	job.UpdatedAt = time.Now().UTC()

	result, err := encodeResult(job.Result)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
UPDATE jobs
SET status=?, progress=?, input=?, qubits=?, circuits=?, result=?, error_message=?, updated_at=?, started_at=?, finished_at=?
WHERE id=?`,
		string(job.Status),
		job.Progress,
		job.Input,
		job.Qubits,
		job.Circuits,
		result,
		job.ErrorMessage,
		job.UpdatedAt,
		nullTime(job.StartedAt),
		nullTime(job.FinishedAt),
		job.ID,
	)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	return requireAffected(res)
}

func (r *JobRepository) UpdateProgress(ctx context.Context, id string, status domain.JobStatus, progress int) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE jobs
SET status=?, progress=?, updated_at=?
WHERE id=?`,
		string(status),
		progress,
		time.Now().UTC(),
		id,
	)
	if err != nil {
		return fmt.Errorf("update job progress: %w", err)
	}
	return requireAffected(res)
}

func (r *JobRepository) Get(ctx context.Context, id string) (*domain.Job, error) {
	row := r.db.QueryRowContext(ctx, selectJobColumns+`
WHERE id=?`, id)
	return scanJob(row)
}

func (r *JobRepository) ListByOwner(ctx context.Context, owner string) ([]domain.Job, error) {
	rows, err := r.db.QueryContext(ctx, selectJobColumns+`
WHERE owner=?
ORDER BY created_at DESC, id DESC`, owner)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	return collectJobs(rows)
}

func (r *JobRepository) ListByStatuses(ctx context.Context, statuses ...domain.JobStatus) ([]domain.Job, error) {
	if len(statuses) == 0 {
		return []domain.Job{}, nil
	}

	placeholders := make([]string, len(statuses))
	args := make([]any, len(statuses))
	for i, status := range statuses {
		placeholders[i] = "?"
		args[i] = string(status)
	}

	query := fmt.Sprintf(selectJobColumns+`
WHERE status IN (%s)
ORDER BY created_at ASC, id ASC`, strings.Join(placeholders, ","))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query jobs by status: %w", err)
	}
	return collectJobs(rows)
}

func (r *JobRepository) DeleteByOwner(ctx context.Context, owner string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM jobs WHERE owner=?`, owner); err != nil {
		return fmt.Errorf("delete jobs: %w", err)
	}
	return nil
}

func collectJobs(rows *sql.Rows) ([]domain.Job, error) {
	defer rows.Close()

	jobs := []domain.Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

func scanJob(scanner interface {
	Scan(dest ...any) error
}) (*domain.Job, error) {
	var (
		job        domain.Job
		kind       string
		status     string
		result     string
		createdAt  time.Time
		updatedAt  time.Time
		startedAt  sql.NullTime
		finishedAt sql.NullTime
	)

	if err := scanner.Scan(
		&job.ID,
		&job.Owner,
		&kind,
		&status,
		&job.Progress,
		&job.Input,
		&job.Qubits,
		&job.Circuits,
		&result,
		&job.ErrorMessage,
		&createdAt,
		&updatedAt,
		&startedAt,
		&finishedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrJobNotFound
		}
		return nil, fmt.Errorf("scan job: %w", err)
	}

	job.Kind = domain.JobKind(kind)
	job.Status = domain.JobStatus(status)
	job.CreatedAt = createdAt.UTC()
	job.UpdatedAt = updatedAt.UTC()
	if startedAt.Valid {
		t := startedAt.Time.UTC()
		job.StartedAt = &t
	}
	if finishedAt.Valid {
		t := finishedAt.Time.UTC()
		job.FinishedAt = &t
	}
	if result != "" {
		var res domain.JobResult
		if err := json.Unmarshal([]byte(result), &res); err != nil {
			return nil, fmt.Errorf("decode job result: %w", err)
		}
		job.Result = &res
	}

	return &job, nil
}

func encodeResult(res *domain.JobResult) (string, error) {
	if res == nil {
		return "", nil
	}
	b, err := json.Marshal(res)
	if err != nil {
		return "", fmt.Errorf("encode job result: %w", err)
	}
	return string(b), nil
}

func requireAffected(res sql.Result) error {
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("job rows affected: %w", err)
	}
	if aff == 0 {
		return repository.ErrJobNotFound
	}
	return nil
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

var _ repository.JobRepository = (*JobRepository)(nil)
