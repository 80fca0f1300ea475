// Package store persists tasks. Every write is normalized and validated here,
// whatever the caller already checked.
package store

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"task-manager/models"
)

// Store is the contract for task persistence.
type Store interface {
	Insert(ctx context.Context, t models.Task) (*models.Task, error)
	FindAll(ctx context.Context) ([]models.Task, error)
	FindByID(ctx context.Context, id string) (*models.Task, error)
	UpdateByID(ctx context.Context, id string, patch models.TaskPatch) (*models.Task, error)
	DeleteByID(ctx context.Context, id string) (*models.Task, error)
	Count(ctx context.Context) (int, error)
	EnsureTable(ctx context.Context) error
	Close() error
}

// Backend names the engine a DSN selects.
func Backend(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return "postgres"
	}
	return "sqlite"
}

// Open connects to the store named by dsn and makes sure the tasks table exists.
// postgres:// and postgresql:// URLs use PostgreSQL, anything else is a SQLite path.
func Open(ctx context.Context, dsn string) (Store, error) {
	if Backend(dsn) == "postgres" {
		return OpenPostgres(ctx, dsn)
	}
	return OpenSQLite(ctx, strings.TrimPrefix(dsn, "sqlite://"))
}

func prepareInsert(t models.Task) (models.Task, error) {
	t.ID = uuid.Must(uuid.NewV7()).String()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	t.CreatedAt = t.CreatedAt.UTC().Truncate(time.Microsecond)
	t.Normalize()
	if err := t.Validate(); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

func preparePatch(current models.Task, patch models.TaskPatch) (models.Task, error) {
	next := current.Apply(patch)
	next.Normalize()
	if err := next.Validate(); err != nil {
		return models.Task{}, err
	}
	return next, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}
