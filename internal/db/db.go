package db

import (
	"context"
	"fmt"
	"log/slog"

	_ "github.com/glebarez/go-sqlite"
	"github.com/jmoiron/sqlx"
)

// OpenSQLite opens the SQLite database at dbPath and verifies the connection.
// SQLite serialises writers anyway, so the pool is limited to one connection.
func OpenSQLite(ctx context.Context, dbPath string) (*sqlx.DB, error) {
	pool, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	pool.SetMaxOpenConns(1)

	if err := pool.PingContext(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to sqlite database: %w", err)
	}

	if _, err := pool.ExecContext(ctx, "PRAGMA journal_mode = WAL"); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to enable WAL journal: %w", err)
	}

	slog.InfoContext(ctx, "Connected to sqlite database", "db.path", dbPath)
	return pool, nil
}
