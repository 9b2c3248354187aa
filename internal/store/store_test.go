// File path: internal/store/store_test.go
package store

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	require.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	require.True(t, isUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	require.False(t, isUniqueViolation(&pgconn.PgError{Code: "23502"}))
	require.False(t, isUniqueViolation(fmt.Errorf("plain error")))
	require.False(t, isUniqueViolation(nil))
}

func TestConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg := Config{}
	cfg.applyDefaults()
	require.Equal(t, 8, cfg.MaxOpenConns)
	require.Equal(t, cfg.MaxOpenConns, cfg.MaxIdleConns)
	require.Equal(t, 15*time.Minute, cfg.ConnMaxLifetime)
	require.Equal(t, 5*time.Minute, cfg.ConnMaxIdleTime)
	require.Equal(t, 5*time.Second, cfg.PingTimeout)
}

func TestConfigMerge(t *testing.T) {
	t.Parallel()

	base := Config{DatabaseURL: "postgres://base", MaxOpenConns: 4}
	merged := base.Merge(Config{DatabaseURL: " postgres://override ", MaxIdleConns: 2})
	require.Equal(t, "postgres://override", merged.DatabaseURL)
	require.Equal(t, 4, merged.MaxOpenConns)
	require.Equal(t, 2, merged.MaxIdleConns)

	unchanged := base.Merge(Config{})
	require.Equal(t, base, unchanged)
}

// newTestStore opens a store against the database named by
// FAM_TEST_DATABASE_URL, skipping when no test database is available.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	url := os.Getenv("FAM_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("FAM_TEST_DATABASE_URL not set")
	}
	st, err := OpenWithConfig(context.Background(), Config{DatabaseURL: url})
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func testFamID(t *testing.T) string {
	t.Helper()
	return "test-" + uuid.NewString() + "@fam"
}

func TestInsertRejectsDuplicate(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	famID := testFamID(t)

	first := &Record{FamID: famID}
	require.NoError(t, st.Insert(ctx, first))
	require.NotZero(t, first.ID)

	second := &Record{FamID: famID}
	err := st.Insert(ctx, second)
	require.ErrorIs(t, err, ErrDuplicate)
}

func TestInsertAppliesColumnDefaults(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	famID := testFamID(t)

	name := "Alice"
	phone := "+91900000000"
	rec := &Record{FamID: famID, Name: &name, Phone: &phone}
	require.NoError(t, st.Insert(ctx, rec))

	got, err := st.GetByFamID(ctx, famID)
	require.NoError(t, err)
	require.Equal(t, DefaultType, got.Type)
	require.Nil(t, got.BreachedTimestamp)
	require.Equal(t, "Alice", *got.Name)
	// Insert-time timestamps both come from column defaults.
	require.WithinDuration(t, got.CreatedAt, got.UpdatedAt, time.Second)
}

func TestUpdateAdvancesUpdatedAt(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	famID := testFamID(t)

	rec := &Record{FamID: famID}
	require.NoError(t, st.Insert(ctx, rec))
	created := rec.CreatedAt

	phone := "+91900000001"
	rec.Phone = &phone
	// The trigger must discard whatever the writer carries for updated_at.
	rec.UpdatedAt = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, st.Update(ctx, rec))

	got, err := st.GetByFamID(ctx, famID)
	require.NoError(t, err)
	require.Equal(t, "+91900000001", *got.Phone)
	require.True(t, got.UpdatedAt.After(created) || got.UpdatedAt.Equal(created))
	require.True(t, got.UpdatedAt.After(time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)))
	require.True(t, got.CreatedAt.Equal(created))
}

func TestUpdateMissingRecord(t *testing.T) {
	st := newTestStore(t)

	err := st.Update(context.Background(), &Record{FamID: testFamID(t)})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSaveInsertsThenUpdates(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	famID := testFamID(t)

	name := "First"
	rec := &Record{FamID: famID, Name: &name}
	require.NoError(t, st.Save(ctx, rec))
	id := rec.ID

	renamed := "Second"
	rec.Name = &renamed
	require.NoError(t, st.Save(ctx, rec))
	require.Equal(t, id, rec.ID)

	got, err := st.GetByFamID(ctx, famID)
	require.NoError(t, err)
	require.Equal(t, "Second", *got.Name)
}

func TestGetByFamIDMissing(t *testing.T) {
	st := newTestStore(t)

	_, err := st.GetByFamID(context.Background(), testFamID(t))
	require.ErrorIs(t, err, ErrNotFound)
}
