// File path: internal/store/errors.go
package store

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when no row matches the requested fam_id.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert collides with an existing
	// fam_id. Arbitration between concurrent writers is left to Postgres;
	// the store does not retry on its own.
	ErrDuplicate = errors.New("duplicate fam_id")
)

const uniqueViolationCode = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

func envError(name string, err error) error {
	return fmt.Errorf("parse %s: %w", name, err)
}
