package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"task-manager/models"
)

const pgColumns = "id, description, completed, created_at"

// PgStore is a PostgreSQL-backed task store.
type PgStore struct {
	pool *pgxpool.Pool
}

// NewPgStore creates a PgStore on an existing pool.
func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

// OpenPostgres connects to dsn and creates the tasks table if it doesn't exist.
func OpenPostgres(ctx context.Context, dsn string) (*PgStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	s := NewPgStore(pool)
	if err := s.EnsureTable(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// EnsureTable creates the tasks table if it doesn't exist.
func (s *PgStore) EnsureTable(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS tasks (
			id          TEXT PRIMARY KEY,
			description TEXT NOT NULL,
			completed   BOOLEAN NOT NULL DEFAULT FALSE,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("ensure tasks table: %w", err)
	}
	_, err = s.pool.Exec(ctx, `CREATE INDEX IF NOT EXISTS idx_tasks_created_at ON tasks(created_at)`)
	if err != nil {
		return fmt.Errorf("ensure created_at index: %w", err)
	}
	return nil
}

func (s *PgStore) Close() error {
	s.pool.Close()
	return nil
}

// Insert validates and stores a new task.
func (s *PgStore) Insert(ctx context.Context, t models.Task) (*models.Task, error) {
	t, err := prepareInsert(t)
	if err != nil {
		return nil, err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO tasks (id, description, completed, created_at) VALUES ($1, $2, $3, $4)`,
		t.ID, t.Description, t.Completed, t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return &t, nil
}

// FindAll returns every task, oldest first.
func (s *PgStore) FindAll(ctx context.Context) ([]models.Task, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+pgColumns+` FROM tasks ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		t, err := scanPgTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration: %w", err)
	}
	return tasks, nil
}

func (s *PgStore) FindByID(ctx context.Context, id string) (*models.Task, error) {
	key, err := models.ParseID(id)
	if err != nil {
		return nil, err
	}
	row := s.pool.QueryRow(ctx, `SELECT `+pgColumns+` FROM tasks WHERE id = $1`, key)
	return pgResult(row, id, "get task")
}

// UpdateByID merges patch into the stored task inside one transaction.
func (s *PgStore) UpdateByID(ctx context.Context, id string, patch models.TaskPatch) (*models.Task, error) {
	key, err := models.ParseID(id)
	if err != nil {
		return nil, err
	}

	var next models.Task
	err = pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `SELECT `+pgColumns+` FROM tasks WHERE id = $1 FOR UPDATE`, key)
		current, err := pgResult(row, id, "update task")
		if err != nil {
			return err
		}
		next, err = preparePatch(*current, patch)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx,
			`UPDATE tasks SET description = $1, completed = $2 WHERE id = $3`,
			next.Description, next.Completed, key)
		if err != nil {
			return fmt.Errorf("update task %s: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &next, nil
}

// DeleteByID removes a task and returns it as it was.
func (s *PgStore) DeleteByID(ctx context.Context, id string) (*models.Task, error) {
	key, err := models.ParseID(id)
	if err != nil {
		return nil, err
	}
	row := s.pool.QueryRow(ctx, `DELETE FROM tasks WHERE id = $1 RETURNING `+pgColumns, key)
	return pgResult(row, id, "delete task")
}

func (s *PgStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return n, nil
}

func pgResult(row pgx.Row, id, op string) (*models.Task, error) {
	t, err := scanPgTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &models.NotFoundError{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", op, id, err)
	}
	return t, nil
}

func scanPgTask(row rowScanner) (*models.Task, error) {
	var t models.Task
	if err := row.Scan(&t.ID, &t.Description, &t.Completed, &t.CreatedAt); err != nil {
		return nil, err
	}
	t.CreatedAt = t.CreatedAt.UTC()
	return &t, nil
}
