package store_test

import (
	"context"
	"os/exec"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"task-manager/store"
)

// dockerAvailable checks whether the Docker daemon is reachable.
// testcontainers-go panics when Docker is missing, so probe first.
func dockerAvailable() bool {
	return exec.Command("docker", "info").Run() == nil
}

func startPostgres(t *testing.T) string {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping PostgreSQL integration tests in short mode")
	}
	if !dockerAvailable() {
		t.Skip("Docker not available, skipping PostgreSQL integration tests")
	}

	ctx := context.Background()
	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("tasks"),
		postgres.WithUsername("tasks"),
		postgres.WithPassword("tasks"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Skipf("failed to start PostgreSQL container: %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return dsn
}

func TestPgStore(t *testing.T) {
	dsn := startPostgres(t)

	runStoreSuite(t, func(t *testing.T) store.Store {
		t.Helper()
		ctx := context.Background()
		s, err := store.Open(ctx, dsn)
		require.NoError(t, err)
		_, ok := s.(*store.PgStore)
		require.True(t, ok, "expected a PgStore for %s", dsn)

		pool, err := pgxpool.New(ctx, dsn)
		require.NoError(t, err)
		_, err = pool.Exec(ctx, `TRUNCATE tasks`)
		pool.Close()
		require.NoError(t, err)

		t.Cleanup(func() { s.Close() })
		return s
	})
}

func TestPgStoreErrorsWrapped(t *testing.T) {
	dsn := startPostgres(t)
	ctx := context.Background()

	s, err := store.OpenPostgres(ctx, dsn)
	require.NoError(t, err)
	s.Close()

	_, err = s.Count(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "count tasks")

	err = s.EnsureTable(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ensure tasks table")
}
