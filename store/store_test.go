package store_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-manager/models"
	"task-manager/store"
)

func newSQLiteStore(t *testing.T) store.Store {
	t.Helper()
	s, err := store.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "tasks.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func ptr[T any](v T) *T { return &v }

// runStoreSuite exercises the Store contract against any backend.
func runStoreSuite(t *testing.T, newStore func(t *testing.T) store.Store) {
	ctx := context.Background()

	t.Run("insert applies defaults", func(t *testing.T) {
		s := newStore(t)
		before := time.Now().Add(-time.Second)

		got, err := s.Insert(ctx, models.NewTask("  Buy milk  ", nil))
		require.NoError(t, err)

		_, err = models.ParseID(got.ID)
		assert.NoError(t, err)
		assert.Equal(t, "Buy milk", got.Description)
		assert.False(t, got.Completed)
		assert.True(t, got.CreatedAt.After(before))
		assert.False(t, got.CreatedAt.After(time.Now()))
	})

	t.Run("insert rejects invalid descriptions", func(t *testing.T) {
		s := newStore(t)
		for _, desc := range []string{"", "    ", strings.Repeat("x", 101)} {
			_, err := s.Insert(ctx, models.NewTask(desc, nil))
			var verr *models.ValidationError
			assert.True(t, errors.As(err, &verr), "description %q: %v", desc, err)
		}
		n, err := s.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("find round trip", func(t *testing.T) {
		s := newStore(t)
		created, err := s.Insert(ctx, models.NewTask("Buy milk", ptr(true)))
		require.NoError(t, err)

		got, err := s.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, "Buy milk", got.Description)
		assert.True(t, got.Completed)
		assert.True(t, created.CreatedAt.Equal(got.CreatedAt))

		all, err := s.FindAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("find all on empty store", func(t *testing.T) {
		s := newStore(t)
		all, err := s.FindAll(ctx)
		require.NoError(t, err)
		assert.NotNil(t, all)
		assert.Empty(t, all)
	})

	t.Run("update merges fields", func(t *testing.T) {
		s := newStore(t)
		created, err := s.Insert(ctx, models.NewTask("Walk dog", nil))
		require.NoError(t, err)

		got, err := s.UpdateByID(ctx, created.ID, models.TaskPatch{Completed: ptr(true)})
		require.NoError(t, err)
		assert.True(t, got.Completed)
		assert.Equal(t, "Walk dog", got.Description)

		got, err = s.UpdateByID(ctx, created.ID, models.TaskPatch{Description: ptr("  Walk the dog ")})
		require.NoError(t, err)
		assert.Equal(t, "Walk the dog", got.Description)
		assert.True(t, got.Completed)
		assert.Equal(t, created.ID, got.ID)
		assert.True(t, created.CreatedAt.Equal(got.CreatedAt))
	})

	t.Run("update validation leaves record untouched", func(t *testing.T) {
		s := newStore(t)
		created, err := s.Insert(ctx, models.NewTask("Walk dog", nil))
		require.NoError(t, err)

		_, err = s.UpdateByID(ctx, created.ID, models.TaskPatch{Description: ptr(strings.Repeat("x", 101))})
		var verr *models.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "Description can not be more than 100 characters", verr.Error())

		got, err := s.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Walk dog", got.Description)
	})

	t.Run("missing and malformed ids", func(t *testing.T) {
		s := newStore(t)
		missing := "0190b6e4-6d2a-7c3e-9a41-2b8f4c1d5e6f"

		var nf *models.NotFoundError
		_, err := s.FindByID(ctx, missing)
		assert.True(t, errors.As(err, &nf))
		_, err = s.UpdateByID(ctx, missing, models.TaskPatch{Completed: ptr(true)})
		assert.True(t, errors.As(err, &nf))
		_, err = s.DeleteByID(ctx, missing)
		assert.True(t, errors.As(err, &nf))

		_, err = s.FindByID(ctx, strings.ToUpper(missing))
		require.True(t, errors.As(err, &nf))
		assert.Equal(t, strings.ToUpper(missing), nf.ID, "the id is reported as the caller sent it")

		var ce *models.CastError
		_, err = s.FindByID(ctx, "123")
		assert.True(t, errors.As(err, &ce))
		_, err = s.DeleteByID(ctx, "123")
		assert.True(t, errors.As(err, &ce))
	})

	t.Run("delete twice", func(t *testing.T) {
		s := newStore(t)
		created, err := s.Insert(ctx, models.NewTask("Write report", nil))
		require.NoError(t, err)

		deleted, err := s.DeleteByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, deleted.ID)
		assert.Equal(t, "Write report", deleted.Description)

		_, err = s.DeleteByID(ctx, created.ID)
		var nf *models.NotFoundError
		assert.True(t, errors.As(err, &nf))
	})
}

func TestSQLiteStore(t *testing.T) {
	runStoreSuite(t, newSQLiteStore)
}

func TestSQLiteMemory(t *testing.T) {
	ctx := context.Background()
	s, err := store.Open(ctx, "sqlite://:memory:")
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Insert(ctx, models.NewTask("first", nil))
	require.NoError(t, err)
	_, err = s.Insert(ctx, models.NewTask("second", nil))
	require.NoError(t, err)

	all, err := s.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "first", all[0].Description)
	assert.Equal(t, "second", all[1].Description)
}

func TestSQLiteSchemaIndexes(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tasks.db")
	s, err := store.OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var n int
	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'index' AND name = 'idx_tasks_created_at'`).Scan(&n)
	require.NoError(t, err)
	assert.Zero(t, n, "list order comes from rowid")
}

func TestBackend(t *testing.T) {
	assert.Equal(t, "postgres", store.Backend("postgres://u:p@localhost/db"))
	assert.Equal(t, "postgres", store.Backend("postgresql://localhost/db"))
	assert.Equal(t, "sqlite", store.Backend("./tasks.db"))
	assert.Equal(t, "sqlite", store.Backend("sqlite://:memory:"))
}
