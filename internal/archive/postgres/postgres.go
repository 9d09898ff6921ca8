// Package postgres provides a PostgreSQL-backed snapshot archive.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MaudeOps/dredge/internal/archive"
)

var _ archive.Backend = (*pgBackend)(nil)

type pgBackend struct {
	pool *pgxpool.Pool
}

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	id TEXT PRIMARY KEY,
	term TEXT NOT NULL,
	page INTEGER NOT NULL,
	url TEXT NOT NULL,
	body BYTEA,
	fetched_at TIMESTAMPTZ NOT NULL
);
`

// New connects to PostgreSQL at dsn and ensures the snapshot table exists.
func New(ctx context.Context, dsn string) (archive.Backend, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres archive: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("init postgres schema: %w", err)
	}

	return &pgBackend{pool: pool}, nil
}

func (b *pgBackend) Save(ctx context.Context, snap *archive.Snapshot) (string, error) {
	const query = `
	INSERT INTO snapshots (id, term, page, url, body, fetched_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := b.pool.Exec(ctx, query,
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

	return "postgres://" + snap.ID, nil
}

func (b *pgBackend) Get(ctx context.Context, id string) (*archive.Snapshot, error) {
	const query = `
	SELECT id, term, page, url, body, fetched_at FROM snapshots WHERE id = $1
	`

	snap := &archive.Snapshot{}
	row := b.pool.QueryRow(ctx, query, id)
	err := row.Scan(&snap.ID, &snap.Term, &snap.Page, &snap.URL, &snap.Body, &snap.FetchedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("snapshot %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", id, err)
	}

	return snap, nil
}

func (b *pgBackend) Close() error {
	b.pool.Close()
	return nil
}
