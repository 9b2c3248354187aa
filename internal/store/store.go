// File path: internal/store/store.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Store wraps a pooled sqlx.DB connection to the fam_records table.
type Store struct {
	db *sqlx.DB
}

// Open constructs a Store backed by the Postgres database named in the
// environment. The schema is migrated on first use.
func Open(ctx context.Context) (*Store, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	return OpenWithConfig(ctx, cfg)
}

// OpenWithConfig constructs a Store using the provided configuration.
func OpenWithConfig(ctx context.Context, cfg Config) (*Store, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return nil, errors.New("database url required")
	}
	cfg.applyDefaults()
	db, err := sqlx.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.PingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	store := &Store{db: db}
	if err := store.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// Close releases the underlying database resources.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB exposes the underlying sqlx.DB for advanced callers.
func (s *Store) DB() *sqlx.DB {
	if s == nil {
		return nil
	}
	return s.db
}

// Migrate applies the fam_records schema in a single transaction. All
// statements are idempotent, so running it against an existing database is
// safe.
func (s *Store) Migrate(ctx context.Context) error {
	if s == nil || s.db == nil {
		return errors.New("store not initialised")
	}
	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	for i, stmt := range schemaStatements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			tx.Rollback()
			return fmt.Errorf("execute schema statement %d: %w", i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration: %w", err)
	}
	return nil
}

// The updated_at trigger overwrites whatever value the writer supplied, so
// updated_at always reflects the last committed write and never precedes
// created_at.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS fam_records (
                id BIGSERIAL PRIMARY KEY,
                fam_id TEXT UNIQUE NOT NULL,
                name TEXT,
                phone TEXT,
                type TEXT DEFAULT 'contact',
                breached_timestamp DOUBLE PRECISION,
                created_at TIMESTAMP WITH TIME ZONE DEFAULT TIMEZONE('utc', NOW()),
                updated_at TIMESTAMP WITH TIME ZONE DEFAULT TIMEZONE('utc', NOW())
        );`,
	`CREATE INDEX IF NOT EXISTS idx_fam_records_fam_id ON fam_records(fam_id);`,
	`CREATE OR REPLACE FUNCTION set_fam_records_updated_at()
        RETURNS TRIGGER AS $$
        BEGIN
                NEW.updated_at = TIMEZONE('utc', NOW());
                RETURN NEW;
        END;
        $$ LANGUAGE plpgsql;`,
	`DROP TRIGGER IF EXISTS fam_records_updated_at ON fam_records;`,
	`CREATE TRIGGER fam_records_updated_at
                BEFORE UPDATE ON fam_records
                FOR EACH ROW
                EXECUTE FUNCTION set_fam_records_updated_at();`,
}
