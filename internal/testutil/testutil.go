package testutil

import (
	"database/sql"
	"testing"

	"github.com/notemeet/notemeet/internal/repository/postgres"
	"github.com/notemeet/notemeet/migrations"
	_ "modernc.org/sqlite"
)

// NewTestDB creates an in-memory SQLite database with the full schema applied
func NewTestDB(t *testing.T) *postgres.DB {
	t.Helper()

	raw, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// In-memory SQLite shares nothing between connections
	raw.SetMaxOpenConns(1)

	db := postgres.NewDB(raw, postgres.DialectSQLite)
	if err := postgres.RunMigrations(db, migrations.GetFS()); err != nil {
		t.Fatalf("Failed to apply migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })

	return db
}
