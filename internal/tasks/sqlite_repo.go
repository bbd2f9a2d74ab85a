package tasks

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

type SQLiteRepo struct {
	db *sqlx.DB
}

func NewSQLiteRepo(dsn string) (*SQLiteRepo, error) {
	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// Reasonable pragmas for an app server
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA synchronous=NORMAL;
		PRAGMA foreign_keys=ON;
	`); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteRepo{db: db}, nil
}

func (r *SQLiteRepo) Close() error { return r.db.Close() }

// ApplyMigrations ensures schema exists. The title check makes the store
// reject blank titles; handlers surface that as a generic database error.
func (r *SQLiteRepo) ApplyMigrations(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS tasks (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL CHECK (length(trim(title)) > 0),
	notes TEXT,
	due_date TEXT,
	completed INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL
);
	`)
	return err
}

// taskRow is the sqlx scan target; nullable columns map onto the task's
// pointer fields.
type taskRow struct {
	ID        int64          `db:"id"`
	Title     string         `db:"title"`
	Notes     sql.NullString `db:"notes"`
	DueDate   sql.NullString `db:"due_date"`
	Completed bool           `db:"completed"`
	CreatedAt string         `db:"created_at"`
}

func (row taskRow) toTask() Task {
	t := Task{
		ID:        row.ID,
		Title:     row.Title,
		Completed: row.Completed,
	}
	if row.Notes.Valid {
		notes := row.Notes.String
		t.Notes = &notes
	}
	if row.DueDate.Valid {
		if d, err := ParseDate(row.DueDate.String); err == nil {
			t.DueDate = &d
		}
	}
	if ts, err := time.Parse(time.RFC3339Nano, row.CreatedAt); err == nil {
		t.CreatedAt = ts
	}
	return t
}

const taskColumns = `id, title, notes, due_date, completed, created_at`

// List returns every task; ordering is computed at query time, no index
// beyond the primary key backs it.
func (r *SQLiteRepo) List(ctx context.Context) ([]Task, error) {
	var rows []taskRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT `+taskColumns+`
		FROM tasks
		ORDER BY due_date IS NULL, due_date, created_at
	`)
	if err != nil {
		return nil, err
	}

	out := make([]Task, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toTask())
	}
	return out, nil
}

func (r *SQLiteRepo) Create(ctx context.Context, in TaskInput) (Task, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (title, notes, due_date, completed, created_at)
		VALUES (?, ?, ?, 0, ?)
	`, in.Title, nullString(in.Notes), nullDate(in.DueDate), now.Format(time.RFC3339Nano))
	if err != nil {
		return Task{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Task{}, err
	}
	return r.getTask(ctx, id)
}

// Replace overwrites every mutable column from the supplied input; the row
// is rewritten whole, never patched.
func (r *SQLiteRepo) Replace(ctx context.Context, id int64, in TaskInput, completed bool) (Task, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tasks
		SET title = ?, notes = ?, due_date = ?, completed = ?
		WHERE id = ?
	`, in.Title, nullString(in.Notes), nullDate(in.DueDate), completed, id)
	if err != nil {
		return Task{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return Task{}, err
	}
	if affected == 0 {
		return Task{}, ErrNotFound
	}
	return r.getTask(ctx, id)
}

func (r *SQLiteRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	return err
}

func (r *SQLiteRepo) Ping(ctx context.Context) error {
	var one int
	return r.db.GetContext(ctx, &one, `SELECT 1`)
}

func (r *SQLiteRepo) getTask(ctx context.Context, id int64) (Task, error) {
	var row taskRow
	err := r.db.GetContext(ctx, &row, `
		SELECT `+taskColumns+` FROM tasks WHERE id = ?
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Task{}, ErrNotFound
	}
	if err != nil {
		return Task{}, err
	}
	return row.toTask(), nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullDate(d *Date) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

// SQLiteFileDSN builds a DSN like file:/absolute/path?_pragma=busy_timeout(5000)
func SQLiteFileDSN(path string) (string, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return "file:" + filepath.ToSlash(abs) + "?_pragma=busy_timeout(5000)", nil
}
