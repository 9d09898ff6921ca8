// Package sqlite provides a SQLite-backed snapshot archive.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/MaudeOps/dredge/internal/archive"
)

var _ archive.Backend = (*sqliteBackend)(nil)

type sqliteBackend struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	id TEXT PRIMARY KEY,
	term TEXT NOT NULL,
	page INTEGER NOT NULL,
	url TEXT NOT NULL,
	body BLOB,
	fetched_at DATETIME NOT NULL
);
`

// New opens (and if needed initializes) a SQLite snapshot archive at dsn.
func New(dsn string) (archive.Backend, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite archive: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init sqlite schema: %w", err)
	}

	return &sqliteBackend{db: db}, nil
}

func (b *sqliteBackend) Save(ctx context.Context, snap *archive.Snapshot) (string, error) {
	const query = `
	INSERT INTO snapshots (id, term, page, url, body, fetched_at)
	VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := b.db.ExecContext(ctx, query,
		snap.ID,
		snap.Term,
		snap.Page,
		snap.URL,
		snap.Body,
		snap.FetchedAt,
	)
	if err != nil {
		return "", fmt.Errorf("save snapshot %s: %w", snap.ID, err)
	}

	return "sqlite://" + snap.ID, nil
}

func (b *sqliteBackend) Get(ctx context.Context, id string) (*archive.Snapshot, error) {
	const query = `
	SELECT id, term, page, url, body, fetched_at FROM snapshots WHERE id = ?
	`

	snap := &archive.Snapshot{}
	row := b.db.QueryRowContext(ctx, query, id)
	err := row.Scan(&snap.ID, &snap.Term, &snap.Page, &snap.URL, &snap.Body, &snap.FetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("snapshot %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", id, err)
	}

	return snap, nil
}

func (b *sqliteBackend) Close() error {
	return b.db.Close()
}
