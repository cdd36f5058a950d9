// Package store is the persistence gateway: the only package that talks
// to PostgreSQL. The reconciliation engine hands it finished payloads
// (menu documents, per-city zone batches) and never sees SQL.
//
// Write operations run under their own timeouts so a stuck connection
// cannot hold a request forever. Errors are returned raw with %w
// wrapping; translation to user-facing messages happens at the web edge
// via MapError.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SaveTimeout is the maximum duration for a catalog write operation.
var SaveTimeout = 2 * time.Minute

// QueryTimeout is the maximum duration for a read operation.
var QueryTimeout = 30 * time.Second

// Store wraps the connection pool with catalog persistence operations.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store on an existing pool. The pool stays owned by the
// caller; closing it is the caller's job.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Ping verifies database connectivity, for health checks.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// schema holds the bootstrap DDL, applied in order at startup. Every
// statement is idempotent so restarts are safe.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS restaurants (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		phone TEXT,
		city TEXT,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS menus (
		restaurant_id UUID PRIMARY KEY REFERENCES restaurants(id) ON DELETE CASCADE,
		document JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS delivery_zones (
		id UUID PRIMARY KEY,
		restaurant_id UUID NOT NULL REFERENCES restaurants(id) ON DELETE CASCADE,
		city TEXT NOT NULL,
		zone_name TEXT NOT NULL,
		delivery_fee NUMERIC(12,2) NOT NULL,
		min_order_amount NUMERIC(12,2) NOT NULL DEFAULT 0,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS delivery_zones_restaurant_city_idx
		ON delivery_zones (restaurant_id, lower(city))`,
	`CREATE TABLE IF NOT EXISTS import_events (
		id UUID PRIMARY KEY,
		restaurant_id UUID NOT NULL REFERENCES restaurants(id) ON DELETE CASCADE,
		catalog TEXT NOT NULL,
		file_name TEXT,
		rows_imported INT NOT NULL,
		rows_dropped INT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS import_events_restaurant_idx
		ON import_events (restaurant_id, created_at DESC)`,
}

// EnsureSchema creates missing tables and indexes.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
