// SPDX-FileCopyrightText: 2026 rereserve contributors
// SPDX-License-Identifier: Apache-2.0

// Package store is the persistence-pool wrapper (C9): it owns the pgx
// connection pool and issues the SQL statements C3's manager needs against
// the schema described in spec §6.2. It does not implement the schema,
// the exclusion index, or the query/filter functions themselves — those
// are the out-of-scope persistence engine; this package only calls them.
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Chikage0o0/reservation/internal/config"
	"github.com/Chikage0o0/reservation/internal/logging"
	"github.com/Chikage0o0/reservation/internal/retry"
)

// Store wraps a pgx connection pool.
type Store struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// Connect builds a pgxpool.Pool from cfg, retrying with exponential backoff
// in case Postgres is still starting up, then wraps it in a Store.
func Connect(ctx context.Context, cfg *config.Config, logger logging.Logger) (*Store, error) {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}

	var pool *pgxpool.Pool
	err := retry.Do(ctx, retry.NewExponentialBackoff(), func(ctx context.Context) error {
		p, err := pgxpool.New(ctx, cfg.DSN())
		if err != nil {
			return fmt.Errorf("creating pool: %w", err)
		}
		if err := p.Ping(ctx); err != nil {
			p.Close()
			return fmt.Errorf("pinging database: %w", err)
		}
		pool = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("connected to database", "host", cfg.DB.Host, "database", cfg.DB.Database)
	return &Store{pool: pool, logger: logger}, nil
}

// Close releases the underlying pool.
func (s *Store) Close() {
	s.pool.Close()
}

// Stat passes through pgxpool's pool statistics, for the metrics collector.
func (s *Store) Stat() *pgxpool.Stat {
	return s.pool.Stat()
}
