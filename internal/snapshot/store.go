// Package snapshot persists before/after pairs for applied edits so
// changes can be inspected and diffed after the fact.
package snapshot

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Snapshot is one applied edit: the file's full content immediately
// before and after, and the strategy that resolved the search block.
type Snapshot struct {
	ID        string
	Path      string
	Strategy  string
	Before    string
	After     string
	CreatedAt time.Time
}

// Store records snapshots in SQLite.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
    id TEXT PRIMARY KEY,
    path TEXT NOT NULL,
    strategy TEXT NOT NULL,
    before_content TEXT NOT NULL,
    after_content TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_snapshots_created_at ON snapshots(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_snapshots_path ON snapshots(path);
`

// Open opens (creating if needed) the snapshot database at dbPath.
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create snapshot dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize snapshot schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores a snapshot and returns its generated id.
func (s *Store) Record(ctx context.Context, snap Snapshot) (string, error) {
	if snap.ID == "" {
		snap.ID = uuid.NewString()
	}
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO snapshots (id, path, strategy, before_content, after_content, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		snap.ID, snap.Path, snap.Strategy, snap.Before, snap.After, snap.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("failed to record snapshot: %w", err)
	}
	return snap.ID, nil
}

// Get returns the snapshot with the given id.
func (s *Store) Get(ctx context.Context, id string) (Snapshot, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, path, strategy, before_content, after_content, created_at
		 FROM snapshots WHERE id = ?`, id)

	var snap Snapshot
	err := row.Scan(&snap.ID, &snap.Path, &snap.Strategy, &snap.Before, &snap.After, &snap.CreatedAt)
	if err == sql.ErrNoRows {
		return Snapshot{}, fmt.Errorf("snapshot not found: %s", id)
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return snap, nil
}

// ListRecent returns up to limit snapshots, newest first.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]Snapshot, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, path, strategy, before_content, after_content, created_at
		 FROM snapshots ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []Snapshot
	for rows.Next() {
		var snap Snapshot
		if err := rows.Scan(&snap.ID, &snap.Path, &snap.Strategy, &snap.Before, &snap.After, &snap.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

// Prune deletes all but the newest keep snapshots and returns how many
// were removed.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM snapshots WHERE id NOT IN (
		   SELECT id FROM snapshots ORDER BY created_at DESC, id LIMIT ?
		 )`, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune snapshots: %w", err)
	}
	return res.RowsAffected()
}
