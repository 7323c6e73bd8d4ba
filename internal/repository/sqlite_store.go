package repository

import (
	"context"
	"fmt"

	"ctchen222/tictactoe-local/internal/player"

	"github.com/jmoiron/sqlx"
)

const playersSchema = `
	CREATE TABLE IF NOT EXISTS players (
		position INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		total_games INTEGER NOT NULL DEFAULT 0,
		losses INTEGER NOT NULL DEFAULT 0,
		ties INTEGER NOT NULL DEFAULT 0,
		wins INTEGER NOT NULL DEFAULT 0,
		win_percentage TEXT NOT NULL DEFAULT '0%',
		last_played TEXT NOT NULL DEFAULT '---'
	);`

type sqliteBackend struct {
	db *sqlx.DB
}

// NewSQLiteStore creates a Store backed by the players table of db.
func NewSQLiteStore(db *sqlx.DB, opts ...Option) *Store {
	return newStore(&sqliteBackend{db: db}, opts...)
}

func (b *sqliteBackend) kind() string { return "sqlite" }

func (b *sqliteBackend) prepare(ctx context.Context) error {
	if _, err := b.db.ExecContext(ctx, playersSchema); err != nil {
		return fmt.Errorf("failed to create players table: %w", err)
	}
	return nil
}

func (b *sqliteBackend) load(ctx context.Context) ([]player.Record, error) {
	var records []player.Record
	query := `SELECT name, total_games, losses, ties, wins, win_percentage, last_played FROM players ORDER BY position`
	if err := b.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("failed to select players: %w", err)
	}
	return records, nil
}

func (b *sqliteBackend) save(ctx context.Context, records []player.Record) error {
	tx, err := b.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM players`); err != nil {
		return fmt.Errorf("failed to clear players: %w", err)
	}

	insert := `INSERT INTO players (name, total_games, losses, ties, wins, win_percentage, last_played)
		VALUES (:name, :total_games, :losses, :ties, :wins, :win_percentage, :last_played)`
	for _, r := range records {
		if _, err := tx.NamedExecContext(ctx, insert, r); err != nil {
			return fmt.Errorf("failed to insert player %s: %w", r.Name, err)
		}
	}

	return tx.Commit()
}
