// Package persistence is the fill sink: an idempotent, append-only record
// of every confirmed fill, keyed on order id.
package persistence

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/sherwood-core/engine/internal/models"
)

// Store wraps a sqlite-backed fill table.
type Store struct {
	db *sqlx.DB
}

// Open connects to (creating if necessary) the sqlite database at path and
// runs its schema migration.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return store, nil
}

func (s *Store) migrate() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS fills (
		order_id TEXT PRIMARY KEY,
		pair TEXT NOT NULL,
		side TEXT NOT NULL,
		price REAL NOT NULL,
		quantity REAL NOT NULL,
		mode TEXT NOT NULL,
		executed_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_fills_pair ON fills(pair);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Persist inserts fill, tagged with the trading mode that produced it. A
// duplicate order id is a no-op, not an error — the executor never checks
// whether a fill was already recorded before calling this.
func (s *Store) Persist(ctx context.Context, fill models.Fill, mode models.PositionMode) error {
	const query = `
		INSERT OR IGNORE INTO fills (order_id, pair, side, price, quantity, mode, executed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		fill.OrderID, fill.Pair, string(fill.Side), fill.Price, fill.Quantity, string(mode), fill.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("persist fill: %w", err)
	}
	return nil
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
