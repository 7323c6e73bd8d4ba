package repository

import (
	"context"
	"path/filepath"
	"testing"

	"ctchen222/tictactoe-local/internal/db"

	"github.com/stretchr/testify/require"
)

func TestSQLiteStore(t *testing.T) {
	runPlayerStoreSuite(t, func(t *testing.T) *Store {
		pool, err := db.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "players.db"))
		require.NoError(t, err)
		t.Cleanup(func() { pool.Close() })

		return NewSQLiteStore(pool, WithClock(fixedClock))
	})
}
