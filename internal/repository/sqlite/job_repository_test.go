package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quantum-pipeline/internal/domain"
	"quantum-pipeline/internal/repository"
)

func newTestRepo(t *testing.T) repository.JobRepository {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "nested", "jobs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := NewJobRepository(db)
	require.NoError(t, repo.Init(context.Background()))
	return repo
}

func TestJobRepository_CreateGetUpdate(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	job := &domain.Job{
		ID:     "QJ-0001",
		Owner:  "session-a",
		Kind:   domain.JobKindQuantum,
		Status: domain.JobStatusPending,
		Qubits: 64, Circuits: 1024,
	}
	require.NoError(t, repo.Create(ctx, job))
	assert.False(t, job.CreatedAt.IsZero())

	got, err := repo.Get(ctx, "QJ-0001")
	require.NoError(t, err)
	assert.Equal(t, domain.JobKindQuantum, got.Kind)
	assert.Equal(t, 64, got.Qubits)
	assert.Nil(t, got.Result)
	assert.Nil(t, got.StartedAt)

	require.NoError(t, repo.UpdateProgress(ctx, job.ID, domain.JobStatusRunning, 40))
	got, err = repo.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusRunning, got.Status)
	assert.Equal(t, 40, got.Progress)

	finished := time.Now().UTC()
	job.Status = domain.JobStatusCompleted
	job.Progress = 100
	job.FinishedAt = &finished
	job.Result = &domain.JobResult{Quantum: &domain.QuantumResult{AdvantagePercent: 22, Fidelity: 0.94}}
	require.NoError(t, repo.Update(ctx, job))

	got, err = repo.Get(ctx, job.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Result)
	require.NotNil(t, got.Result.Quantum)
	assert.Equal(t, 22, got.Result.Quantum.AdvantagePercent)
	require.NotNil(t, got.FinishedAt)
	assert.WithinDuration(t, finished, *got.FinishedAt, time.Second)
}

func TestJobRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	_, err := repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrJobNotFound)
	assert.ErrorIs(t, repo.UpdateProgress(ctx, "missing", domain.JobStatusRunning, 1), repository.ErrJobNotFound)
	assert.ErrorIs(t, repo.Update(ctx, &domain.Job{ID: "missing"}), repository.ErrJobNotFound)
}

func TestJobRepository_Listing(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	for _, j := range []*domain.Job{
		{ID: "DK-1", Owner: "a", Kind: domain.JobKindDocking, Status: domain.JobStatusCompleted},
		{ID: "VS-1", Owner: "a", Kind: domain.JobKindScreening, Status: domain.JobStatusRunning},
		{ID: "QJ-1", Owner: "b", Kind: domain.JobKindQuantum, Status: domain.JobStatusPending},
	} {
		require.NoError(t, repo.Create(ctx, j))
		time.Sleep(2 * time.Millisecond)
	}

	owned, err := repo.ListByOwner(ctx, "a")
	require.NoError(t, err)
	require.Len(t, owned, 2)
	assert.Equal(t, "VS-1", owned[0].ID)
	assert.Equal(t, "DK-1", owned[1].ID)

	active, err := repo.ListByStatuses(ctx, domain.JobStatusRunning, domain.JobStatusPending)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "VS-1", active[0].ID)
	assert.Equal(t, "QJ-1", active[1].ID)

	none, err := repo.ListByStatuses(ctx)
	require.NoError(t, err)
	assert.Empty(t, none)

	require.NoError(t, repo.DeleteByOwner(ctx, "a"))
	owned, err = repo.ListByOwner(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, owned)
}
