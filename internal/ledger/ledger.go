// File: internal/ledger/ledger.go
// Brief: SQLite record of generated files.

// Package ledger remembers which files a project synthesized so files that a
// later synthesis no longer produces can be removed.
package ledger

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// RelPath is the ledger location relative to the project root.
const RelPath = ".projkit/ledger.sqlite"

// File is a generated file and the digest of its content.
type File struct {
	Path   string
	Digest string
}

// Entry is a recorded file.
type Entry struct {
	File
	RunID     int64
	UpdatedAt time.Time
}

// Ledger is the store of generated files for one project root.
type Ledger struct {
	db   *sql.DB
	path string
}

// Digest returns the content digest recorded for data.
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return "sha256:" + hex.EncodeToString(sum[:])
}

// Open opens or creates the ledger below root.
func Open(ctx context.Context, root string) (*Ledger, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		root = "."
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	path := filepath.Join(absRoot, RelPath)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	l := &Ledger{db: db, path: path}
	if err := l.initSchema(ctx); err != nil {
		_ = l.Close()
		return nil, err
	}
	return l, nil
}

// Path returns the database file path.
func (l *Ledger) Path() string { return l.path }

func (l *Ledger) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	return l.db.Close()
}

func (l *Ledger) initSchema(ctx context.Context) error {
	stmts := []string{
		`PRAGMA journal_mode=WAL;`,
		`PRAGMA synchronous=NORMAL;`,
		`PRAGMA busy_timeout=5000;`,
		`
CREATE TABLE IF NOT EXISTS projkit_runs (
  run_id INTEGER PRIMARY KEY AUTOINCREMENT,
  created_at_ns INTEGER NOT NULL,
  file_count INTEGER NOT NULL,
  stale_count INTEGER NOT NULL
);`,
		`
CREATE TABLE IF NOT EXISTS projkit_files (
  path TEXT PRIMARY KEY,
  digest TEXT NOT NULL,
  run_id INTEGER NOT NULL,
  updated_at_ns INTEGER NOT NULL
);`,
	}
	for _, stmt := range stmts {
		if _, err := l.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

// Record stores files as the output of a new synthesis run and returns the
// previously recorded paths that this run no longer produced, sorted. Stale
// paths are dropped from the ledger.
func (l *Ledger) Record(ctx context.Context, files []File) ([]string, error) {
	current := make(map[string]struct{}, len(files))
	for _, f := range files {
		current[f.Path] = struct{}{}
	}
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx, `SELECT path FROM projkit_files`)
	if err != nil {
		return nil, err
	}
	var stale []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			_ = rows.Close()
			return nil, err
		}
		if _, ok := current[p]; !ok {
			stale = append(stale, p)
		}
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.Strings(stale)

	now := time.Now().UTC().UnixNano()
	res, err := tx.ExecContext(ctx, `
INSERT INTO projkit_runs (created_at_ns, file_count, stale_count) VALUES (?, ?, ?)
`, now, len(files), len(stale))
	if err != nil {
		return nil, err
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	for _, p := range stale {
		if _, err := tx.ExecContext(ctx, `DELETE FROM projkit_files WHERE path = ?`, p); err != nil {
			return nil, err
		}
	}
	for _, f := range files {
		_, err := tx.ExecContext(ctx, `
INSERT INTO projkit_files (path, digest, run_id, updated_at_ns) VALUES (?, ?, ?, ?)
ON CONFLICT(path) DO UPDATE SET digest = excluded.digest, run_id = excluded.run_id, updated_at_ns = excluded.updated_at_ns
`, f.Path, f.Digest, runID, now)
		if err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return stale, nil
}

// Files returns the recorded files sorted by path.
func (l *Ledger) Files(ctx context.Context) ([]Entry, error) {
	rows, err := l.db.QueryContext(ctx, `SELECT path, digest, run_id, updated_at_ns FROM projkit_files ORDER BY path`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Entry
	for rows.Next() {
		var e Entry
		var ns int64
		if err := rows.Scan(&e.Path, &e.Digest, &e.RunID, &ns); err != nil {
			return nil, err
		}
		e.UpdatedAt = time.Unix(0, ns).UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

// Runs returns the number of recorded synthesis runs.
func (l *Ledger) Runs(ctx context.Context) (int, error) {
	var n int
	err := l.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM projkit_runs`).Scan(&n)
	return n, err
}
