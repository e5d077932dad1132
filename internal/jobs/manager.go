// Package jobs runs the simulated docking, screening and quantum jobs.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"quantum-pipeline/internal/domain"
	"quantum-pipeline/internal/repository"
)

var (
	// ErrUnknownKind is returned when no simulation exists for a job kind.
	ErrUnknownKind = errors.New("unknown job kind")
	// ErrMissingInput is returned when a docking job has no structure file.
	ErrMissingInput = errors.New("a structure file is required")
	// ErrNotStarted is returned when jobs are submitted before Start.
	ErrNotStarted = errors.New("job manager not started")
)

// Manager coordinates simulated jobs, their progress and cancellation.
type Manager interface {
	Start(ctx context.Context) error
	Shutdown()
	Recover(ctx context.Context) error
	Submit(ctx context.Context, owner string, kind domain.JobKind, input string) (*domain.Job, error)
	Get(ctx context.Context, owner, id string) (*domain.Job, error)
	List(ctx context.Context, owner string) ([]domain.Job, error)
	Cancel(ctx context.Context, owner, id string) error
	CancelAll(ctx context.Context, owner string) error
	Leave(ctx context.Context, owner string, keep domain.JobKind) error
	Forget(ctx context.Context, owner string) error
}

// Observer is notified about job lifecycle events.
type Observer interface {
	JobSubmitted(kind domain.JobKind)
	JobFinished(kind domain.JobKind, status domain.JobStatus)
}

type Config struct {
	MaxConcurrent  int
	StatusInterval time.Duration
	Simulations    map[domain.JobKind]Simulation
	Logger         *logrus.Logger
	Observer       Observer
}

type manager struct {
	cfg  Config
	jobs repository.JobRepository

	sem    chan struct{}
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.Mutex
	active map[string]*jobHandle
}

type jobHandle struct {
	owner  string
	kind   domain.JobKind
	cancel context.CancelFunc
	done   chan struct{}
}

func NewManager(cfg Config, jobs repository.JobRepository) Manager {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 3
	}
	if cfg.StatusInterval <= 0 {
		cfg.StatusInterval = 500 * time.Millisecond
	}
	if cfg.Simulations == nil {
		cfg.Simulations = DefaultSimulations(3*time.Second, 4*time.Second, 5*time.Second)
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if cfg.Observer == nil {
		cfg.Observer = nopObserver{}
	}
	return &manager{
		cfg:    cfg,
		jobs:   jobs,
		sem:    make(chan struct{}, cfg.MaxConcurrent),
		active: make(map[string]*jobHandle),
	}
}

func (m *manager) Start(ctx context.Context) error {
	m.ctx, m.cancel = context.WithCancel(ctx)
	m.cfg.Logger.Infof("job manager started, max concurrent jobs: %d", m.cfg.MaxConcurrent)
	return nil
}

func (m *manager) Shutdown() {
	if m.cancel != nil {
		m.cancel()
	}
	m.wg.Wait()
	m.cfg.Logger.Info("job manager stopped")
}

// Recover fails jobs a previous process left pending or running. Their
// goroutines died with that process.
func (m *manager) Recover(ctx context.Context) error {
	stale, err := m.jobs.ListByStatuses(ctx, domain.JobStatusPending, domain.JobStatusRunning)
	if err != nil {
		return err
	}
	for i := range stale {
		job := stale[i]
		m.finish(ctx, &job, domain.JobStatusFailed, "interrupted by restart")
	}
	if len(stale) > 0 {
		m.cfg.Logger.Warnf("marked %d interrupted jobs as failed", len(stale))
	}
	return nil
}

func (m *manager) Submit(ctx context.Context, owner string, kind domain.JobKind, input string) (*domain.Job, error) {
	if m.ctx == nil {
		return nil, ErrNotStarted
	}
	if _, ok := m.cfg.Simulations[kind]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	input = strings.TrimSpace(input)
	if kind == domain.JobKindDocking && input == "" {
		return nil, ErrMissingInput
	}

	job := &domain.Job{
		ID:     newJobID(kind),
		Owner:  owner,
		Kind:   kind,
		Status: domain.JobStatusPending,
		Input:  input,
	}
	if kind == domain.JobKindQuantum {
		job.Qubits = quantumQubits
		job.Circuits = quantumCircuits
	}
	if err := m.jobs.Create(ctx, job); err != nil {
		return nil, err
	}

	m.cfg.Observer.JobSubmitted(kind)
	m.spawnJob(*job)
	return job, nil
}

func (m *manager) Get(ctx context.Context, owner, id string) (*domain.Job, error) {
	job, err := m.jobs.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.Owner != owner {
		return nil, repository.ErrJobNotFound
	}
	return job, nil
}

func (m *manager) List(ctx context.Context, owner string) ([]domain.Job, error) {
	return m.jobs.ListByOwner(ctx, owner)
}

// Cancel stops a pending or running job and waits for it to wind down.
// Cancelling a finished job is a no-op.
func (m *manager) Cancel(ctx context.Context, owner, id string) error {
	if _, err := m.Get(ctx, owner, id); err != nil {
		return err
	}
	handle, ok := m.getJobHandle(id)
	if !ok {
		return nil
	}
	return m.stop(ctx, handle)
}

func (m *manager) CancelAll(ctx context.Context, owner string) error {
	return m.stopMatching(ctx, func(h *jobHandle) bool { return h.owner == owner })
}

// Leave cancels the owner's unfinished jobs of every kind except keep. It
// runs when the owner navigates away from the panel a job belongs to.
func (m *manager) Leave(ctx context.Context, owner string, keep domain.JobKind) error {
	return m.stopMatching(ctx, func(h *jobHandle) bool {
		return h.owner == owner && h.kind != keep
	})
}

// Forget cancels the owner's jobs and drops their history.
func (m *manager) Forget(ctx context.Context, owner string) error {
	if err := m.CancelAll(ctx, owner); err != nil {
		return err
	}
	return m.jobs.DeleteByOwner(ctx, owner)
}

func (m *manager) stopMatching(ctx context.Context, match func(*jobHandle) bool) error {
	m.mu.Lock()
	var handles []*jobHandle
	for _, h := range m.active {
		if match(h) {
			handles = append(handles, h)
		}
	}
	m.mu.Unlock()

	for _, h := range handles {
		if err := m.stop(ctx, h); err != nil {
			return err
		}
	}
	return nil
}

func (m *manager) stop(ctx context.Context, handle *jobHandle) error {
	handle.cancel()
	select {
	case <-handle.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *manager) spawnJob(job domain.Job) {
	jobCtx, cancel := context.WithCancel(m.ctx)
	handle := &jobHandle{
		owner:  job.Owner,
		kind:   job.Kind,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	m.registerJob(job.ID, handle)

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer func() {
			cancel()
			m.unregisterJob(job.ID)
			close(handle.done)
		}()
		select {
		case <-jobCtx.Done():
			m.interrupted(jobCtx, &job)
		case m.sem <- struct{}{}:
			defer func() { <-m.sem }()
			m.handleJob(jobCtx, &job)
		}
	}()
}

func (m *manager) registerJob(id string, handle *jobHandle) {
	m.mu.Lock()
	m.active[id] = handle
	m.mu.Unlock()
}

func (m *manager) unregisterJob(id string) {
	m.mu.Lock()
	delete(m.active, id)
	m.mu.Unlock()
}

func (m *manager) getJobHandle(id string) (*jobHandle, bool) {
	m.mu.Lock()
	handle, ok := m.active[id]
	m.mu.Unlock()
	return handle, ok
}

func (m *manager) handleJob(ctx context.Context, job *domain.Job) {
	logger := m.cfg.Logger.WithField("job_id", job.ID)
	sim := m.cfg.Simulations[job.Kind]

	// A cancel can race the semaphore; do not start work that is already void.
	if ctx.Err() != nil {
		m.interrupted(ctx, job)
		return
	}

	started := time.Now().UTC()
	job.Status = domain.JobStatusRunning
	job.StartedAt = &started
	if err := m.jobs.Update(ctx, job); err != nil {
		logger.Errorf("mark running: %v", err)
	}
	logger.Infof("%s job started", job.Kind)

	ticker := time.NewTicker(m.cfg.StatusInterval)
	defer ticker.Stop()
	timer := time.NewTimer(sim.Duration)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			m.interrupted(ctx, job)
			return
		case <-ticker.C:
			job.Progress = progressAt(time.Since(started), sim.Duration)
			if err := m.jobs.UpdateProgress(ctx, job.ID, domain.JobStatusRunning, job.Progress); err != nil && ctx.Err() == nil {
				logger.Warnf("update progress: %v", err)
			}
		case <-timer.C:
			if ctx.Err() != nil {
				m.interrupted(ctx, job)
				return
			}
			result := sim.Result()
			job.Result = &result
			job.Progress = 100
			m.finish(ctx, job, domain.JobStatusCompleted, "")
			logger.Info("job completed")
			return
		}
	}
}

// interrupted records why a job stopped before finishing: either its
// owner cancelled it or the whole manager is shutting down.
func (m *manager) interrupted(ctx context.Context, job *domain.Job) {
	if m.ctx.Err() != nil {
		m.finish(ctx, job, domain.JobStatusFailed, "interrupted by shutdown")
		return
	}
	m.finish(ctx, job, domain.JobStatusCancelled, "")
	m.cfg.Logger.WithField("job_id", job.ID).Info("job cancelled")
}

func (m *manager) finish(ctx context.Context, job *domain.Job, status domain.JobStatus, msg string) {
	now := time.Now().UTC()
	job.Status = status
	job.ErrorMessage = msg
	job.FinishedAt = &now
	if err := m.jobs.Update(context.WithoutCancel(ctx), job); err != nil {
		m.cfg.Logger.WithField("job_id", job.ID).Errorf("persist %s status: %v", status, err)
	}
	if status == domain.JobStatusFailed && msg != "" {
		m.cfg.Logger.WithField("job_id", job.ID).Warn(msg)
	}
	m.cfg.Observer.JobFinished(job.Kind, status)
}

func newJobID(kind domain.JobKind) string {
	return fmt.Sprintf("%s-%s", kind.Prefix(), strings.ToUpper(uuid.NewString()[:8]))
}

type nopObserver struct{}

func (nopObserver) JobSubmitted(domain.JobKind)                   {}
func (nopObserver) JobFinished(domain.JobKind, domain.JobStatus) {}

var _ Manager = (*manager)(nil)
