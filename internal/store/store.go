// Package store persists graphs and their versions to SQLite, giving
// the "persists these graphs, versions them" behavior a concrete
// storage backend. It follows the teacher's Applier shape: an explicit
// constructor taking Options, an explicit Open/Close lifecycle, a
// *sql.DB held privately behind the struct.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS graphs (
	id TEXT PRIMARY KEY,
	slug TEXT NOT NULL,
	current_version INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS graph_versions (
	graph_id TEXT NOT NULL,
	version INTEGER NOT NULL,
	body_json TEXT NOT NULL,
	created_at TEXT NOT NULL,
	PRIMARY KEY (graph_id, version)
);
`

// Options configures a Store.
type Options struct {
	Path string
}

// Store wraps a *sql.DB backed by a SQLite file.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (and migrates) the SQLite database at options.Path.
func Open(ctx context.Context, options Options) (*Store, error) {
	db, err := sql.Open("sqlite", options.Path)
	if err != nil {
		return nil, fmt.Errorf("store: open %q: %w", options.Path, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: migrate: %w", err)
	}
	return &Store{db: db, path: options.Path}, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateGraph inserts a new graph row at version 0.
func (s *Store) CreateGraph(ctx context.Context, id, slug string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO graphs (id, slug, current_version, created_at) VALUES (?, ?, 0, ?)`,
		id, slug, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("store: create graph %q: %w", id, err)
	}
	return nil
}

// GraphRow is one row of the graphs table.
type GraphRow struct {
	ID             string
	Slug           string
	CurrentVersion int
	CreatedAt      string
}

// GetGraph returns the graph row for id.
func (s *Store) GetGraph(ctx context.Context, id string) (*GraphRow, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, slug, current_version, created_at FROM graphs WHERE id = ?`, id)
	var g GraphRow
	if err := row.Scan(&g.ID, &g.Slug, &g.CurrentVersion, &g.CreatedAt); err != nil {
		return nil, fmt.Errorf("store: get graph %q: %w", id, err)
	}
	return &g, nil
}

// PutVersion stores bodyJSON as the next version of graphID and
// advances the graph's current_version pointer.
func (s *Store) PutVersion(ctx context.Context, graphID, bodyJSON string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback()

	var current int
	if err := tx.QueryRowContext(ctx,
		`SELECT current_version FROM graphs WHERE id = ?`, graphID).Scan(&current); err != nil {
		return 0, fmt.Errorf("store: read version for %q: %w", graphID, err)
	}
	next := current + 1

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO graph_versions (graph_id, version, body_json, created_at) VALUES (?, ?, ?, ?)`,
		graphID, next, bodyJSON, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return 0, fmt.Errorf("store: insert version: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE graphs SET current_version = ? WHERE id = ?`, next, graphID); err != nil {
		return 0, fmt.Errorf("store: advance version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("store: commit: %w", err)
	}
	return next, nil
}

// VersionRow is one row of the graph_versions table.
type VersionRow struct {
	Version   int
	BodyJSON  string
	CreatedAt string
}

// ListVersions returns every stored version of graphID, oldest first.
func (s *Store) ListVersions(ctx context.Context, graphID string) ([]VersionRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT version, body_json, created_at FROM graph_versions WHERE graph_id = ? ORDER BY version ASC`,
		graphID)
	if err != nil {
		return nil, fmt.Errorf("store: list versions for %q: %w", graphID, err)
	}
	defer rows.Close()

	var out []VersionRow
	for rows.Next() {
		var v VersionRow
		if err := rows.Scan(&v.Version, &v.BodyJSON, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("store: scan version: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// GetVersion returns one specific version's body.
func (s *Store) GetVersion(ctx context.Context, graphID string, version int) (string, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT body_json FROM graph_versions WHERE graph_id = ? AND version = ?`,
		graphID, version).Scan(&body)
	if err != nil {
		return "", fmt.Errorf("store: get version %d of %q: %w", version, graphID, err)
	}
	return body, nil
}
