// Package testutil provides a migrated throwaway database for tests.
package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dancefloor/backend/internal/database"
	"github.com/dancefloor/backend/internal/db"
)

// NewDB opens a fresh SQLite file under t.TempDir and applies all migrations.
// The database is closed when the test ends.
func NewDB(t testing.TB) *sql.DB {
	t.Helper()

	sqlDB, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.RunMigrations(sqlDB))
	return sqlDB
}

// SeedDancefloor inserts a DJ with an active dancefloor and returns both ids.
func SeedDancefloor(t testing.TB, sqlDB *sql.DB) (djID, dancefloorID string) {
	t.Helper()

	q := db.New(sqlDB)
	ctx := t.Context()
	now := time.Now().UTC()

	dj, err := q.CreateDJ(ctx, db.CreateDJParams{
		ID:           uuid.NewString(),
		Name:         "DJ Test",
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
		CreatedAt:    now,
	})
	require.NoError(t, err)

	df, err := q.CreateDancefloor(ctx, db.CreateDancefloorParams{
		ID:        uuid.NewString(),
		DjID:      dj.ID,
		CreatedAt: now,
	})
	require.NoError(t, err)

	return dj.ID, df.ID
}
