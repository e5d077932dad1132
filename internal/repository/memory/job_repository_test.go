package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quantum-pipeline/internal/domain"
	"quantum-pipeline/internal/repository"
)

func TestJobRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewJobRepository()

	job := &domain.Job{ID: "DK-1", Owner: "a", Kind: domain.JobKindDocking, Status: domain.JobStatusPending}
	require.NoError(t, repo.Create(ctx, job))

	got, err := repo.Get(ctx, "DK-1")
	require.NoError(t, err)
	got.Status = domain.JobStatusFailed

	again, err := repo.Get(ctx, "DK-1")
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusPending, again.Status)

	assert.Error(t, repo.Create(ctx, job), "duplicate id")
}

func TestJobRepository_ProgressAndNotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewJobRepository()

	assert.ErrorIs(t, repo.UpdateProgress(ctx, "nope", domain.JobStatusRunning, 5), repository.ErrJobNotFound)
	_, err := repo.Get(ctx, "nope")
	assert.ErrorIs(t, err, repository.ErrJobNotFound)
	assert.ErrorIs(t, repo.Update(ctx, &domain.Job{ID: "nope"}), repository.ErrJobNotFound)

	require.NoError(t, repo.Create(ctx, &domain.Job{ID: "QJ-1", Owner: "a", Status: domain.JobStatusPending}))
	require.NoError(t, repo.UpdateProgress(ctx, "QJ-1", domain.JobStatusRunning, 30))
	got, err := repo.Get(ctx, "QJ-1")
	require.NoError(t, err)
	assert.Equal(t, 30, got.Progress)
	assert.Equal(t, domain.JobStatusRunning, got.Status)
}

func TestJobRepository_Listing(t *testing.T) {
	ctx := context.Background()
	repo := NewJobRepository()

	for _, j := range []*domain.Job{
		{ID: "DK-1", Owner: "a", Status: domain.JobStatusCompleted},
		{ID: "VS-1", Owner: "a", Status: domain.JobStatusRunning},
		{ID: "QJ-1", Owner: "b", Status: domain.JobStatusPending},
	} {
		require.NoError(t, repo.Create(ctx, j))
		time.Sleep(time.Millisecond)
	}

	owned, err := repo.ListByOwner(ctx, "a")
	require.NoError(t, err)
	require.Len(t, owned, 2)
	assert.Equal(t, "VS-1", owned[0].ID)

	active, err := repo.ListByStatuses(ctx, domain.JobStatusRunning, domain.JobStatusPending)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "VS-1", active[0].ID)
	assert.Equal(t, "QJ-1", active[1].ID)

	require.NoError(t, repo.DeleteByOwner(ctx, "a"))
	owned, err = repo.ListByOwner(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, owned)
}
