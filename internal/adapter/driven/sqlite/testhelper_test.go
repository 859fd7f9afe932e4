package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"testing"
)

// setupTestDB opens a migrated in-memory database private to the test.
// Writer and reader pools share it through cache=shared; the name is
// derived from t.Name() so parallel tests never meet.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	// WAL does not apply to in-memory databases.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&%s", url.PathEscape(t.Name()), pragmas)

	db, err := openDSN(context.Background(), dsn, ":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	if err := RunMigrations(db.Writer); err != nil {
		_ = db.Close()
		t.Fatalf("run migrations: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })

	return db
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
