package gallery

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS entries (
	id          TEXT PRIMARY KEY,
	sketch      TEXT NOT NULL,
	seed        INTEGER NOT NULL,
	patch       TEXT NOT NULL DEFAULT '{}',
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	thumbnail   BLOB,
	ord         INTEGER NOT NULL DEFAULT 0,
	created_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS entries_sketch ON entries(sketch);
CREATE INDEX IF NOT EXISTS entries_showcase ON entries(ord, created_at DESC);
`

// SQLiteStore keeps entries in an SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the gallery database at path.
// ":memory:" opens a private in-memory database.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("gallery: mkdir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("gallery: open: %w", err)
	}
	if path == ":memory:" {
		// Each connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range append(pragmas, schema) {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("gallery: init: %w", err)
		}
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("gallery: ping: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Add(ctx context.Context, e *Entry) error {
	if err := e.Prepare(); err != nil {
		return err
	}
	patch, err := json.Marshal(e.Patch)
	if err != nil {
		return fmt.Errorf("marshal patch: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO entries (id, sketch, seed, patch, title, description, thumbnail, ord, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Sketch, e.Seed, string(patch), e.Title, e.Description, e.Thumbnail, e.Order, e.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}
	return nil
}

const selectEntry = `SELECT id, sketch, seed, patch, title, description, thumbnail, ord, created_at FROM entries`

func (s *SQLiteStore) Get(ctx context.Context, id string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx, selectEntry+` WHERE id = ?`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return e, err
}

func (s *SQLiteStore) List(ctx context.Context, opts ListOptions) ([]*Entry, error) {
	query := selectEntry
	var args []any
	if opts.Sketch != "" {
		query += ` WHERE sketch = ?`
		args = append(args, opts.Sketch)
	}
	query += ` ORDER BY ord ASC, created_at DESC LIMIT ?`
	args = append(args, opts.limit())

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var out []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*Entry, error) {
	var (
		e       Entry
		patch   string
		created int64
	)
	if err := row.Scan(&e.ID, &e.Sketch, &e.Seed, &patch, &e.Title, &e.Description, &e.Thumbnail, &e.Order, &created); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(patch), &e.Patch); err != nil {
		return nil, fmt.Errorf("entry %s: parse patch: %w", e.ID, err)
	}
	e.CreatedAt = time.UnixMilli(created).UTC()
	return &e, nil
}

var _ Store = (*SQLiteStore)(nil)
