// Package postgres persists characters in PostgreSQL through pgx v5.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/config"
)

// DB owns the connection pool shared by the repositories in this package.
type DB struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// Open connects to the database described by cfg and verifies it answers a ping.
//
// Precondition: cfg passes config validation for the postgres driver.
// Postcondition: Returns a usable DB or a non-nil error; no pool is leaked on error.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*DB, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	pc, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("postgres: bad dsn: %w", err)
	}
	pc.MaxConns, pc.MinConns = cfg.MaxConns, cfg.MinConns
	pc.MaxConnLifetime = cfg.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("postgres: open pool: %w", err)
	}
	db := &DB{pool: pool, logger: logger}
	if err := db.Ping(ctx, 5*time.Second); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}
	return db, nil
}

// Ping fails if the database does not answer within timeout.
func (db *DB) Ping(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := db.pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Monitor pings the database every interval until ctx is done, logging
// failures and pool saturation.
func (db *DB) Monitor(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
		if err := db.Ping(ctx, interval/2); err != nil && ctx.Err() == nil {
			db.logger.Warn("database unhealthy", zap.Error(err))
			continue
		}
		st := db.pool.Stat()
		if st.AcquiredConns() == st.MaxConns() {
			db.logger.Warn("connection pool saturated",
				zap.Int32("max_conns", st.MaxConns()),
				zap.Int64("empty_acquires", st.EmptyAcquireCount()),
			)
		}
	}
}

// Characters returns a character repository backed by this pool.
func (db *DB) Characters() *CharacterRepository {
	return NewCharacterRepository(db.pool)
}

// Close releases every pooled connection. The DB is unusable afterwards.
func (db *DB) Close() {
	db.pool.Close()
}
