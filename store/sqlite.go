package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"task-manager/models"
)

const sqliteColumns = "id, description, completed, created_at"

// SQLiteStore keeps tasks in a SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens path (":memory:" for a throwaway database) and creates the
// tasks table if it is missing.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// One connection keeps ":memory:" databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.EnsureTable(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) EnsureTable(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
	CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		description TEXT NOT NULL,
		completed BOOLEAN NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("ensure tasks table: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Insert validates and stores a new task.
func (s *SQLiteStore) Insert(ctx context.Context, t models.Task) (*models.Task, error) {
	t, err := prepareInsert(t)
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO tasks (id, description, completed, created_at) VALUES (?, ?, ?, ?)`,
		t.ID, t.Description, t.Completed, formatTime(t.CreatedAt))
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return &t, nil
}

// FindAll returns every task in insertion order.
func (s *SQLiteStore) FindAll(ctx context.Context) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+sqliteColumns+` FROM tasks ORDER BY rowid ASC`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		t, err := scanSQLiteTask(rows)
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

func (s *SQLiteStore) FindByID(ctx context.Context, id string) (*models.Task, error) {
	key, err := models.ParseID(id)
	if err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ctx, `SELECT `+sqliteColumns+` FROM tasks WHERE id = ?`, key)
	return sqliteResult(row, id, "get task")
}

// UpdateByID merges patch into the stored task and returns the result.
func (s *SQLiteStore) UpdateByID(ctx context.Context, id string, patch models.TaskPatch) (*models.Task, error) {
	key, err := models.ParseID(id)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin update %s: %w", id, err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `SELECT `+sqliteColumns+` FROM tasks WHERE id = ?`, key)
	current, err := sqliteResult(row, id, "update task")
	if err != nil {
		return nil, err
	}

	next, err := preparePatch(*current, patch)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE tasks SET description = ?, completed = ? WHERE id = ?`,
		next.Description, next.Completed, key)
	if err != nil {
		return nil, fmt.Errorf("update task %s: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update %s: %w", id, err)
	}
	return &next, nil
}

// DeleteByID removes a task and returns it as it was.
func (s *SQLiteStore) DeleteByID(ctx context.Context, id string) (*models.Task, error) {
	key, err := models.ParseID(id)
	if err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ctx, `DELETE FROM tasks WHERE id = ? RETURNING `+sqliteColumns, key)
	return sqliteResult(row, id, "delete task")
}

func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return n, nil
}

func sqliteResult(row *sql.Row, id, op string) (*models.Task, error) {
	t, err := scanSQLiteTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &models.NotFoundError{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", op, id, err)
	}
	return t, nil
}

func scanSQLiteTask(row rowScanner) (*models.Task, error) {
	var t models.Task
	var createdAt string
	if err := row.Scan(&t.ID, &t.Description, &t.Completed, &createdAt); err != nil {
		return nil, err
	}
	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	t.CreatedAt = ts
	return &t, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
