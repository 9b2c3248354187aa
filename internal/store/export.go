// File path: internal/store/export.go
package store

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"
)

var exportHeader = []string{
	"id", "fam_id", "name", "phone", "type", "breached_timestamp", "created_at", "updated_at",
}

// ExportJSON writes every record to w as an indented JSON array.
func (s *Store) ExportJSON(ctx context.Context, w io.Writer) error {
	if s == nil || s.db == nil {
		return errors.New("store not initialised")
	}
	records, err := s.List(ctx, 0)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	return nil
}

// ExportCSV writes every record to w as CSV with a header row. Absent
// optional fields become empty cells.
func (s *Store) ExportCSV(ctx context.Context, w io.Writer) error {
	if s == nil || s.db == nil {
		return errors.New("store not initialised")
	}
	records, err := s.List(ctx, 0)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, rec := range records {
		row := []string{
			strconv.FormatInt(rec.ID, 10),
			rec.FamID,
			stringOrEmpty(rec.Name),
			stringOrEmpty(rec.Phone),
			rec.Type,
			floatOrEmpty(rec.BreachedTimestamp),
			rec.CreatedAt.UTC().Format(time.RFC3339),
			rec.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func stringOrEmpty(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func floatOrEmpty(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
