package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blendrun/blendrun/internal/model"
	"github.com/blendrun/blendrun/internal/storage/memory"
)

func runFixture(id, name string) model.Run {
	return model.Run{
		ID:        id,
		Name:      name,
		Binary:    "/usr/bin/blender",
		Mode:      model.ModeHeadless,
		Status:    model.OutcomeSuccess,
		Message:   "done",
		Duration:  time.Second,
		CreatedAt: time.Now().UTC(),
	}
}

func newRepo(t *testing.T) *memory.Repository {
	t.Helper()
	repo, err := memory.NewRepository(memory.RepositoryConfig{})
	require.NoError(t, err)
	return repo
}

func TestRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	run := runFixture("run-1", "create_cube")
	require.NoError(t, repo.CreateRun(ctx, run))

	got, err := repo.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, run, *got)

	all, err := repo.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, repo.DeleteRun(ctx, "run-1"))
	_, err = repo.GetRun(ctx, "run-1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func TestRepositoryDuplicateID(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	require.NoError(t, repo.CreateRun(ctx, runFixture("run-1", "one")))

	err := repo.CreateRun(ctx, runFixture("run-1", "two"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrAlreadyExists))
}

func TestRepositoryDeleteMissing(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	err := repo.DeleteRun(ctx, "run-x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func TestRepositoryListOrderAndLimit(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	base := time.Now().UTC()

	oldest := runFixture("run-1", "first")
	oldest.CreatedAt = base.Add(-2 * time.Hour)
	middle := runFixture("run-2", "second")
	middle.CreatedAt = base.Add(-1 * time.Hour)
	newest := runFixture("run-3", "third")
	newest.CreatedAt = base

	require.NoError(t, repo.CreateRun(ctx, middle))
	require.NoError(t, repo.CreateRun(ctx, oldest))
	require.NoError(t, repo.CreateRun(ctx, newest))

	all, err := repo.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"run-3", "run-2", "run-1"}, []string{all[0].ID, all[1].ID, all[2].ID})

	limited, err := repo.ListRuns(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "run-3", limited[0].ID)
}

func TestRepositoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	require.NoError(t, repo.CreateRun(ctx, runFixture("run-1", "create_cube")))

	got, err := repo.GetRun(ctx, "run-1")
	require.NoError(t, err)
	got.Message = "mutated by caller"

	fresh, err := repo.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "done", fresh.Message)
}
