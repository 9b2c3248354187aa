// File path: internal/store/types.go
package store

import "time"

// DefaultType is the categorical tag applied by the schema when a record is
// inserted without one.
const DefaultType = "contact"

// Record is one row of the fam_records table. A record is keyed externally by
// FamID; ID is the surrogate key assigned by the database at insert.
type Record struct {
	ID                int64     `db:"id" json:"id"`
	FamID             string    `db:"fam_id" json:"fam_id"`
	Name              *string   `db:"name" json:"name,omitempty"`
	Phone             *string   `db:"phone" json:"phone,omitempty"`
	Type              string    `db:"type" json:"type"`
	BreachedTimestamp *float64  `db:"breached_timestamp" json:"breached_timestamp,omitempty"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}
