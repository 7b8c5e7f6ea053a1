package shared

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// OpenDatabase opens the SQLite database described by cfg and applies its pool settings.
//
// The path can be ":memory:" for an in-memory database. Foreign keys and a busy timeout are enabled through the DSN.
func OpenDatabase(ctx context.Context, cfg DatabaseConfig) (*sql.DB, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("%w: database.path is empty", ErrMissingConfig)
	}

	dsn := cfg.Path
	if dsn != ":memory:" {
		dsn = fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", cfg.Path)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	return db, nil
}

// MemoryDatabase opens a single-connection in-memory database with all migrations applied.
func MemoryDatabase(ctx context.Context) (*sql.DB, error) {
	db, err := OpenDatabase(ctx, DatabaseConfig{Path: ":memory:", MaxOpenConns: 1, MaxIdleConns: 1})
	if err != nil {
		return nil, err
	}
	if err := MigrateUp(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
