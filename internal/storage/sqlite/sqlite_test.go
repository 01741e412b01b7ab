package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blendrun/blendrun/internal/log"
	"github.com/blendrun/blendrun/internal/model"
	"github.com/blendrun/blendrun/internal/storage/sqlite"
)

func runFixture(id, name string) model.Run {
	return model.Run{
		ID:        id,
		Name:      name,
		Binary:    "/usr/bin/blender",
		Mode:      model.ModeHeadless,
		Status:    model.OutcomeSuccess,
		Message:   "cube created",
		ExitCode:  0,
		Duration:  1500 * time.Millisecond,
		Payload:   `{"vertices": 8}`,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func newRepoAt(t *testing.T, dbPath string) *sqlite.Repository {
	t.Helper()
	repo, err := sqlite.NewRepository(context.Background(), sqlite.RepositoryConfig{
		DBPath: dbPath,
		Logger: log.Noop,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func newRepo(t *testing.T) *sqlite.Repository {
	t.Helper()
	return newRepoAt(t, filepath.Join(t.TempDir(), "test.db"))
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

func TestRepositoryConstraints(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	run := runFixture("run-1", "create_cube")
	require.NoError(t, repo.CreateRun(ctx, run))

	dup := runFixture("run-1", "another_name")
	err := repo.CreateRun(ctx, dup)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrAlreadyExists))

	_, err = repo.GetRun(ctx, "run-x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrNotFound))

	err = repo.DeleteRun(ctx, "run-x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func TestRepositoryListOrderAndLimit(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	base := time.Now().UTC().Truncate(time.Second)

	oldest := runFixture("run-1", "first")
	oldest.CreatedAt = base.Add(-2 * time.Hour)
	middle := runFixture("run-2", "second")
	middle.CreatedAt = base.Add(-1 * time.Hour)
	newest := runFixture("run-3", "third")
	newest.CreatedAt = base

	require.NoError(t, repo.CreateRun(ctx, oldest))
	require.NoError(t, repo.CreateRun(ctx, newest))
	require.NoError(t, repo.CreateRun(ctx, middle))

	all, err := repo.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"run-3", "run-2", "run-1"}, []string{all[0].ID, all[1].ID, all[2].ID})

	limited, err := repo.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "run-3", limited[0].ID)
	assert.Equal(t, "run-2", limited[1].ID)
}

func TestRepositoryFailedRunRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	run := runFixture("run-1", "slow_render")
	run.Status = model.OutcomeTimeout
	run.Message = "execution exceeded the 5s limit after 5.1s"
	run.ExitCode = 143
	run.TimedOut = true
	run.Payload = ""

	require.NoError(t, repo.CreateRun(ctx, run))

	got, err := repo.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, run, *got)
}

func TestRepositoryPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "journal.db")

	repo := newRepoAt(t, dbPath)
	require.NoError(t, repo.CreateRun(ctx, runFixture("run-1", "create_cube")))
	require.NoError(t, repo.Close())

	reopened := newRepoAt(t, dbPath)
	got, err := reopened.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "create_cube", got.Name)
}
