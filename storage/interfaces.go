package storage

import (
	"context"

	"suba-radar/models"
)

// SnapshotSource is the interface any dataset backend must satisfy.
type SnapshotSource interface {
	Load(ctx context.Context) ([]*models.RawSnapshot, error)
}

// SnapshotWriter persists a normalised table.
type SnapshotWriter interface {
	Write(ctx context.Context, rows []*models.Snapshot) error
	Close() error
}

// TableWriter persists formatted dashboard tables.
type TableWriter interface {
	WriteTable(metric string, rows []models.TableRow) error
	Close() error
}
