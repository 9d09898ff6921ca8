// Package archive persists raw markup snapshots of fetched result pages.
// Archiving is optional; when enabled, each PageRecord's htmlSnapshotUrl
// points at the stored snapshot.
package archive

import (
	"context"
	"time"
)

// Snapshot is one archived page body with the query that produced it.
type Snapshot struct {
	ID        string
	Term      string
	Page      int
	URL       string
	Body      []byte
	FetchedAt time.Time
}

// Backend stores snapshots and serves single-snapshot lookups.
// Save returns a reference string of the form <scheme>://<id> suitable for
// the htmlSnapshotUrl output field.
type Backend interface {
	Save(ctx context.Context, snap *Snapshot) (string, error)
	Get(ctx context.Context, id string) (*Snapshot, error)
	Close() error
}
