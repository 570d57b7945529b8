// Package testing provides testing utilities and helpers for the frontier project.
package testing

import (
	"path/filepath"
	"testing"

	"github.com/aristath/frontier/internal/database"
	"github.com/aristath/frontier/internal/modules/calculations"
	"github.com/aristath/frontier/internal/modules/history"
	"github.com/aristath/frontier/internal/modules/settings"
	_ "modernc.org/sqlite"
)

// NewTestDB creates a temporary SQLite database for testing with the schema
// matching the given name applied. The database lives in t.TempDir() so it
// is removed automatically when the test finishes.
//
// Supported schema names:
//   - "history" - daily_prices table
//   - "config"  - settings table
//   - "cache"   - calc_cache table
//   - Unknown names - empty database (no schema applied)
func NewTestDB(t *testing.T, name string) *database.DB {
	t.Helper()

	db, err := database.New(database.Config{
		Path:    filepath.Join(t.TempDir(), name+".db"),
		Profile: database.ProfileStandard,
		Name:    name,
	})
	if err != nil {
		t.Fatalf("Failed to create test database %s: %v", name, err)
	}
	t.Cleanup(func() { _ = db.Close() })

	switch name {
	case "history":
		err = history.InitSchema(db.Conn())
	case "config":
		err = settings.InitSchema(db.Conn())
	case "cache":
		err = calculations.InitSchema(db.Conn())
	}
	if err != nil {
		t.Fatalf("Failed to apply %s schema: %v", name, err)
	}

	return db
}
