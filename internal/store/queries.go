// File path: internal/store/queries.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Insert stores a new record, rejecting duplicates on fam_id with
// ErrDuplicate. On success the surrogate key and the database-assigned
// timestamps are written back into rec. When rec.Type is empty the column
// default applies.
func (s *Store) Insert(ctx context.Context, rec *Record) error {
	if s == nil || s.db == nil {
		return errors.New("store not initialised")
	}
	if rec == nil || strings.TrimSpace(rec.FamID) == "" {
		return errors.New("fam_id required")
	}
	query := `INSERT INTO fam_records (fam_id, name, phone, type, breached_timestamp)
                VALUES ($1, $2, $3, $4, $5)
                RETURNING id, type, created_at, updated_at`
	args := []interface{}{rec.FamID, rec.Name, rec.Phone, rec.Type, rec.BreachedTimestamp}
	if strings.TrimSpace(rec.Type) == "" {
		query = `INSERT INTO fam_records (fam_id, name, phone, breached_timestamp)
                VALUES ($1, $2, $3, $4)
                RETURNING id, type, created_at, updated_at`
		args = []interface{}{rec.FamID, rec.Name, rec.Phone, rec.BreachedTimestamp}
	}
	row := s.db.QueryRowxContext(ctx, query, args...)
	if err := row.Scan(&rec.ID, &rec.Type, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert %s: %w", rec.FamID, ErrDuplicate)
		}
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

// Update rewrites the non-key columns of an existing record. The trigger
// stamps updated_at; any caller-supplied value for it is discarded. Returns
// ErrNotFound when no row matches rec.FamID.
func (s *Store) Update(ctx context.Context, rec *Record) error {
	if s == nil || s.db == nil {
		return errors.New("store not initialised")
	}
	if rec == nil || strings.TrimSpace(rec.FamID) == "" {
		return errors.New("fam_id required")
	}
	row := s.db.QueryRowxContext(ctx, `UPDATE fam_records
                SET name = $2,
                    phone = $3,
                    type = COALESCE(NULLIF($4, ''), type),
                    breached_timestamp = $5
                WHERE fam_id = $1
                RETURNING id, type, created_at, updated_at`,
		rec.FamID, rec.Name, rec.Phone, rec.Type, rec.BreachedTimestamp)
	if err := row.Scan(&rec.ID, &rec.Type, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("update %s: %w", rec.FamID, ErrNotFound)
		}
		return fmt.Errorf("update record: %w", err)
	}
	return nil
}

// Save inserts the record, falling back to an update when the fam_id already
// exists. Losing an insert race against a concurrent writer is handled by
// retrying as an update.
func (s *Store) Save(ctx context.Context, rec *Record) error {
	err := s.Insert(ctx, rec)
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrDuplicate) {
		return s.Update(ctx, rec)
	}
	return err
}

// GetByFamID returns the current state of the record keyed by famID, or
// ErrNotFound. Lookup is backed by the fam_id index.
func (s *Store) GetByFamID(ctx context.Context, famID string) (*Record, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store not initialised")
	}
	famID = strings.TrimSpace(famID)
	if famID == "" {
		return nil, errors.New("fam_id required")
	}
	var rec Record
	if err := s.db.GetContext(ctx, &rec, `SELECT * FROM fam_records WHERE fam_id = $1`, famID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("lookup %s: %w", famID, ErrNotFound)
		}
		return nil, fmt.Errorf("select record: %w", err)
	}
	return &rec, nil
}

// List returns up to limit records ordered by most recent update. A
// non-positive limit returns every row.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store not initialised")
	}
	records := []Record{}
	query := `SELECT * FROM fam_records ORDER BY updated_at DESC, id`
	if limit > 0 {
		if err := s.db.SelectContext(ctx, &records, query+` LIMIT $1`, limit); err != nil {
			return nil, fmt.Errorf("select records: %w", err)
		}
		return records, nil
	}
	if err := s.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("select records: %w", err)
	}
	return records, nil
}

// Count reports the number of stored records.
func (s *Store) Count(ctx context.Context) (int64, error) {
	if s == nil || s.db == nil {
		return 0, errors.New("store not initialised")
	}
	var count int64
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM fam_records`); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return count, nil
}
