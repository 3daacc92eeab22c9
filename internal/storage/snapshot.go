// Package storage persists the last successful market snapshot so the
// grid can show stale-but-visible data immediately after startup, before
// the first refresh cycle completes.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/glebarez/go-sqlite"

	"github.com/Starship01-akaSniper/crypto-prices-dashboard/internal/domain"
)

const assetsKey = "assets:top"

// SnapshotStore is a small SQLite-backed key-value store.
type SnapshotStore struct {
	db *sql.DB
}

// NewSnapshotStore opens (or creates) the snapshot database with WAL mode
// enabled.
func NewSnapshotStore(dbPath string) (*SnapshotStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return nil, fmt.Errorf("failed to set pragma %s: %w", pragma, err)
		}
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS snapshots (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			taken_at INTEGER NOT NULL
		);
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to create snapshots table: %w", err)
	}

	return &SnapshotStore{db: db}, nil
}

// SaveAssets replaces the stored asset list wholesale, mirroring the
// refresh cycle's replace-don't-patch semantics.
func (s *SnapshotStore) SaveAssets(ctx context.Context, assets []domain.AssetSummary, takenAt time.Time) error {
	payload, err := json.Marshal(assets)
	if err != nil {
		return fmt.Errorf("failed to marshal assets: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO snapshots (key, value, taken_at) VALUES (?, ?, ?) ON CONFLICT(key) DO UPDATE SET value=excluded.value, taken_at=excluded.taken_at",
		assetsKey, string(payload), takenAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert snapshot: %w", err)
	}
	return nil
}

// LoadAssets returns the last stored asset list and when it was taken.
// A missing snapshot is (nil, zero time, nil), not an error.
func (s *SnapshotStore) LoadAssets(ctx context.Context) ([]domain.AssetSummary, time.Time, error) {
	var payload string
	var takenAtUnix int64
	err := s.db.QueryRowContext(ctx,
		"SELECT value, taken_at FROM snapshots WHERE key = ?", assetsKey,
	).Scan(&payload, &takenAtUnix)
	if err == sql.ErrNoRows {
		return nil, time.Time{}, nil
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var assets []domain.AssetSummary
	if err := json.Unmarshal([]byte(payload), &assets); err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	return assets, time.Unix(takenAtUnix, 0), nil
}

// Close closes the underlying database.
func (s *SnapshotStore) Close() error {
	return s.db.Close()
}
