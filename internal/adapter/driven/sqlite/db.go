package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB holds separate writer and reader pools over one SQLite file. The writer
// is capped at a single connection so writes serialize in the driver instead
// of failing with "database is locked"; readers run concurrently under WAL.
type DB struct {
	Writer *sql.DB
	Reader *sql.DB
	path   string
}

const pragmas = "_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)&_pragma=cache_size(-16000)"

// NewDB opens the database at dbPath in WAL mode and verifies both pools.
// Migrations are not applied; call RunMigrations on the writer.
func NewDB(ctx context.Context, dbPath string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&%s", dbPath, pragmas)
	return openDSN(ctx, dsn, dbPath)
}

func openDSN(ctx context.Context, dsn, path string) (*DB, error) {
	writer, err := openPool(ctx, dsn, 1)
	if err != nil {
		return nil, fmt.Errorf("open writer: %w", err)
	}

	reader, err := openPool(ctx, dsn, 4)
	if err != nil {
		_ = writer.Close()
		return nil, fmt.Errorf("open reader: %w", err)
	}

	return &DB{Writer: writer, Reader: reader, path: path}, nil
}

func openPool(ctx context.Context, dsn string, maxOpen int) (*sql.DB, error) {
	pool, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	pool.SetMaxOpenConns(maxOpen)

	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return pool, nil
}

// Path returns the file the database was opened from.
func (db *DB) Path() string {
	return db.path
}

// Close closes both pools and returns the first error.
func (db *DB) Close() error {
	var firstErr error

	if err := db.Reader.Close(); err != nil {
		firstErr = fmt.Errorf("close reader: %w", err)
	}

	if err := db.Writer.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("close writer: %w", err)
	}

	return firstErr
}
