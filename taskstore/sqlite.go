package taskstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/amonks/taskboard/task"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const (
	busyTimeout  = 5000 // milliseconds
	maxRetries   = 5
	initialWait  = 100 * time.Millisecond
	maxOpenConns = 1
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS tasks (
	position          INTEGER PRIMARY KEY,
	id                TEXT    NOT NULL,
	title             TEXT    NOT NULL,
	due               TEXT    NOT NULL,
	description       TEXT    NOT NULL DEFAULT '',
	completed         INTEGER NOT NULL DEFAULT 0,
	completed_at      TEXT,
	deleted           INTEGER NOT NULL DEFAULT 0,
	deleted_at        TEXT,
	saved             INTEGER NOT NULL DEFAULT 0,
	saved_at          TEXT,
	recurrence        TEXT    NOT NULL DEFAULT '',
	previous_priority TEXT,
	created_at        TEXT
);
`

const selectTasksSQL = `
SELECT id, title, due, description,
       completed, completed_at, deleted, deleted_at, saved, saved_at,
       recurrence, previous_priority, created_at
FROM tasks
ORDER BY position`

const insertTaskSQL = `
INSERT INTO tasks (
	position, id, title, due, description,
	completed, completed_at, deleted, deleted_at, saved, saved_at,
	recurrence, previous_priority, created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// SQLiteStore keeps the collection in a SQLite table, one row per task,
// ordered by position.
type SQLiteStore struct {
	conn *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)", path, busyTimeout)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	conn.SetMaxOpenConns(maxOpenConns)

	store := &SQLiteStore{conn: conn}
	if err := store.withRetry(ctx, func() error {
		_, err := conn.ExecContext(ctx, schemaSQL)
		return err
	}); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

// Load reads every task in position order.
func (s *SQLiteStore) Load(ctx context.Context) ([]task.Task, error) {
	rows, err := s.conn.QueryContext(ctx, selectTasksSQL)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	tasks := []task.Task{}
	for rows.Next() {
		var t task.Task
		var recurrence string
		var completedAt, deletedAt, savedAt, previousPriority, createdAt sql.NullString
		if err := rows.Scan(
			&t.ID, &t.Title, &t.Due, &t.Description,
			&t.Completed, &completedAt, &t.Deleted, &deletedAt, &t.Saved, &savedAt,
			&recurrence, &previousPriority, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		t.Recurrence = task.Recurrence(recurrence)
		t.CompletedAt = stampFromNull(completedAt)
		t.DeletedAt = stampFromNull(deletedAt)
		t.SavedAt = stampFromNull(savedAt)
		t.CreatedAt = stampFromNull(createdAt)
		if previousPriority.Valid {
			t.PreviousPriority = task.PriorityPtr(task.Priority(previousPriority.String))
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read tasks: %w", err)
	}
	return tasks, nil
}

// Save replaces every row in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, tasks []task.Task) error {
	return s.withRetry(ctx, func() error {
		return s.withTx(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, "DELETE FROM tasks"); err != nil {
				return fmt.Errorf("clear tasks: %w", err)
			}
			stmt, err := tx.PrepareContext(ctx, insertTaskSQL)
			if err != nil {
				return fmt.Errorf("prepare insert: %w", err)
			}
			defer func() {
				_ = stmt.Close()
			}()
			for i, t := range tasks {
				var previousPriority sql.NullString
				if t.PreviousPriority != nil {
					previousPriority = sql.NullString{String: string(*t.PreviousPriority), Valid: true}
				}
				if _, err := stmt.ExecContext(ctx,
					i+1, t.ID, t.Title, t.Due, t.Description,
					t.Completed, nullFromStamp(t.CompletedAt),
					t.Deleted, nullFromStamp(t.DeletedAt),
					t.Saved, nullFromStamp(t.SavedAt),
					string(t.Recurrence), previousPriority, nullFromStamp(t.CreatedAt),
				); err != nil {
					return fmt.Errorf("insert task %d: %w", i+1, err)
				}
			}
			return nil
		})
	})
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

func (s *SQLiteStore) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// withRetry retries fn with exponential backoff while the database is busy.
func (s *SQLiteStore) withRetry(ctx context.Context, fn func() error) error {
	wait := initialWait
	var err error
	for attempt := 0; attempt < maxRetries; attempt++ {
		err = fn()
		if err == nil || !isBusyError(err) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		wait *= 2
	}
	return err
}

func isBusyError(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3.SQLITE_BUSY
	}
	return false
}

func stampFromNull(value sql.NullString) *task.Stamp {
	if !value.Valid {
		return nil
	}
	stamp := task.Stamp(value.String)
	return &stamp
}

func nullFromStamp(stamp *task.Stamp) sql.NullString {
	if stamp == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*stamp), Valid: true}
}
