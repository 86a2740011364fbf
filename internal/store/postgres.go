// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FitForge Contributors

// Package store manages the PostgreSQL connection pool and schema
// migrations shared by the repository packages.
package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
)

// Connection retry defaults. The service often races the database on
// startup (compose, CI), so transient dial failures are retried with
// fibonacci backoff before giving up.
const (
	connectMaxRetries = 5
	connectBaseDelay  = 500 * time.Millisecond
)

// Config controls pool sizing and connect behavior.
type Config struct {
	// URL is a PostgreSQL connection string (postgres:// or postgresql://).
	URL string
	// MinConns / MaxConns bound the pool; zero keeps pgxpool defaults.
	MinConns int32
	MaxConns int32
	// ConnectTimeout bounds the whole connect-with-retries sequence.
	// Zero means no deadline beyond the caller's context.
	ConnectTimeout time.Duration
}

// Store owns the PostgreSQL connection pool.
type Store struct {
	pool *pgxpool.Pool
	url  string
}

// Connect opens a connection pool and verifies connectivity with a ping.
// Dial and ping failures are retried; a malformed URL fails immediately
// with code DB_CONFIG_INVALID.
func Connect(ctx context.Context, cfg Config) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, oops.Code("DB_CONFIG_INVALID").With("operation", "parse database url").Wrap(err)
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	var pool *pgxpool.Pool
	backoff := retry.WithMaxRetries(connectMaxRetries, retry.NewFibonacci(connectBaseDelay))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		p, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			return retry.RetryableError(err)
		}
		if err := p.Ping(ctx); err != nil {
			p.Close()
			return retry.RetryableError(err)
		}
		pool = p
		return nil
	})
	if err != nil {
		return nil, oops.Code("DB_CONNECT_FAILED").With("operation", "connect to database").Wrap(err)
	}

	return &Store{pool: pool, url: cfg.URL}, nil
}

// Pool exposes the underlying pool for the repository packages.
func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return oops.Code("DB_PING_FAILED").Wrap(err)
	}
	return nil
}

// Migrate applies all pending schema migrations.
func (s *Store) Migrate() error {
	migrator, err := NewMigrator(s.url)
	if err != nil {
		return err
	}
	defer func() { _ = migrator.Close() }()
	return migrator.Up()
}

// Close closes the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}
