package infrastructure

import (
	"context"
	"errors"
	"fmt"

	"skullbot/database"
	"skullbot/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

// PostgresSnapshotStore is the external durable store for ledger snapshots.
// Pull reads the newest snapshot; Push appends a new one. The ledger pulls
// once at startup and the snapshot worker pushes periodically.
type PostgresSnapshotStore struct {
	db *database.DB
}

// NewPostgresSnapshotStore creates a store over an existing connection pool
func NewPostgresSnapshotStore(db *database.DB) *PostgresSnapshotStore {
	return &PostgresSnapshotStore{db: db}
}

// Pull returns the most recent snapshot blob
func (s *PostgresSnapshotStore) Pull(ctx context.Context) ([]byte, error) {
	var data []byte
	err := s.db.QueryRow(ctx,
		`SELECT balances FROM ledger_snapshots ORDER BY created_at DESC, id DESC LIMIT 1`,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("no ledger snapshot stored")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to pull ledger snapshot: %w", err)
	}
	return data, nil
}

// Push appends a snapshot blob
func (s *PostgresSnapshotStore) Push(ctx context.Context, data []byte) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO ledger_snapshots (balances) VALUES ($1)`, data)
	if err != nil {
		return fmt.Errorf("failed to push ledger snapshot: %w", err)
	}
	return nil
}

var _ interfaces.AuthoritativeStore = (*PostgresSnapshotStore)(nil)
