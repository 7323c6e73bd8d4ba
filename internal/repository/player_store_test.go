package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"ctchen222/tictactoe-local/internal/player"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, time.March, 7, 21, 41, 0, 0, time.Local)

func fixedClock() time.Time { return fixedNow }

func names(records []player.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Name
	}
	return out
}

func find(t *testing.T, records []player.Record, name string) player.Record {
	t.Helper()
	i := indexOf(records, name)
	require.NotEqual(t, -1, i, "player %q not found", name)
	return records[i]
}

// runPlayerStoreSuite exercises the PlayerStore contract against a fresh store per subtest.
func runPlayerStoreSuite(t *testing.T, newStore func(t *testing.T) *Store) {
	t.Run("Init_SeedsReservedPlayers", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		require.NoError(t, store.Init(ctx))
		require.NoError(t, store.Init(ctx))

		records, err := store.GetPlayers(ctx)
		require.NoError(t, err)
		assert.Equal(t, player.ReservedNames(), names(records))
		for _, r := range records {
			assert.Equal(t, player.NewRecord(r.Name), r)
		}
	})

	t.Run("AddPlayer", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)
		require.NoError(t, store.Init(ctx))

		// Given: a new player
		result, err := store.AddPlayer(ctx, "Alice")

		// Then: it is appended after the reserved players
		require.NoError(t, err)
		assert.True(t, result.Added)

		records, err := store.GetPlayers(ctx)
		require.NoError(t, err)
		assert.Equal(t, append(player.ReservedNames(), "Alice"), names(records))

		// When: the same name is added again
		result, err = store.AddPlayer(ctx, "Alice")
		require.NoError(t, err)
		assert.False(t, result.Added)
		assert.Equal(t, MsgPlayerExists, result.Message)

		// Names are case sensitive
		result, err = store.AddPlayer(ctx, "alice")
		require.NoError(t, err)
		assert.True(t, result.Added)

		// Reserved names already exist
		result, err = store.AddPlayer(ctx, player.Computer)
		require.NoError(t, err)
		assert.False(t, result.Added)
	})

	t.Run("AddPlayer_InvalidName", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)
		require.NoError(t, store.Init(ctx))

		for _, name := range []string{"", "   ", "Smith, Jo", "two\nlines"} {
			result, err := store.AddPlayer(ctx, name)
			require.NoError(t, err)
			assert.False(t, result.Added, "name %q", name)
		}

		records, err := store.GetPlayers(ctx)
		require.NoError(t, err)
		assert.Len(t, records, 3)
	})

	t.Run("UpdateStats", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)
		require.NoError(t, store.Init(ctx))
		_, err := store.AddPlayer(ctx, "Alice")
		require.NoError(t, err)

		const n = 4
		for range n {
			require.NoError(t, store.UpdateStats(ctx, "Alice", player.EventWin))
		}
		require.NoError(t, store.UpdateStats(ctx, "Alice", player.EventLoss))
		require.NoError(t, store.UpdateStats(ctx, "Alice", player.EventTie))

		records, err := store.GetPlayers(ctx)
		require.NoError(t, err)
		alice := find(t, records, "Alice")
		assert.Equal(t, player.Record{
			Name: "Alice", TotalGames: 6, Losses: 1, Ties: 1, Wins: 4,
			WinPercentage: "66.67%", LastPlayed: "Mar 7 at 9:41 PM",
		}, alice)

		// Other records are untouched
		assert.Equal(t, player.NewRecord(player.PlayerOne), find(t, records, player.PlayerOne))
	})

	t.Run("UpdateStats_NotFound", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)
		require.NoError(t, store.Init(ctx))

		err := store.UpdateStats(ctx, "Nobody", player.EventWin)
		assert.ErrorIs(t, err, ErrPlayerNotFound)
	})

	t.Run("ResetStats", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)
		require.NoError(t, store.Init(ctx))
		_, err := store.AddPlayer(ctx, "Alice")
		require.NoError(t, err)
		require.NoError(t, store.UpdateStats(ctx, "Alice", player.EventWin))
		require.NoError(t, store.UpdateStats(ctx, player.Computer, player.EventLoss))

		require.NoError(t, store.ResetStats(ctx))

		records, err := store.GetPlayers(ctx)
		require.NoError(t, err)
		assert.Equal(t, append(player.ReservedNames(), "Alice"), names(records))
		for _, r := range records {
			assert.Equal(t, player.NewRecord(r.Name), r)
		}
	})

	t.Run("DeletePlayer", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)
		require.NoError(t, store.Init(ctx))
		for _, name := range []string{"Alice", "Bob", "Carol"} {
			_, err := store.AddPlayer(ctx, name)
			require.NoError(t, err)
		}

		require.NoError(t, store.DeletePlayer(ctx, "Bob"))
		assert.ErrorIs(t, store.DeletePlayer(ctx, "Bob"), ErrPlayerNotFound)
		assert.ErrorIs(t, store.DeletePlayer(ctx, player.PlayerTwo), ErrReservedPlayer)

		records, err := store.GetPlayers(ctx)
		require.NoError(t, err)
		assert.Equal(t, append(player.ReservedNames(), "Alice", "Carol"), names(records))
	})

	t.Run("DeleteAllPlayers", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)
		require.NoError(t, store.Init(ctx))
		for _, name := range []string{"Alice", "Bob"} {
			_, err := store.AddPlayer(ctx, name)
			require.NoError(t, err)
		}
		require.NoError(t, store.UpdateStats(ctx, player.Computer, player.EventWin))

		require.NoError(t, store.DeleteAllPlayers(ctx))

		records, err := store.GetPlayers(ctx)
		require.NoError(t, err)
		assert.Equal(t, player.ReservedNames(), names(records))
		// Reserved stats survive
		assert.Equal(t, 1, find(t, records, player.Computer).Wins)
	})

	t.Run("ConcurrentUpdatesAreSerialized", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)
		require.NoError(t, store.Init(ctx))
		_, err := store.AddPlayer(ctx, "Alice")
		require.NoError(t, err)

		const workers = 25
		var wg sync.WaitGroup
		errs := make(chan error, workers*2)
		for range workers {
			wg.Add(2)
			go func() {
				defer wg.Done()
				errs <- store.UpdateStats(ctx, "Alice", player.EventWin)
			}()
			go func() {
				defer wg.Done()
				errs <- store.UpdateStats(ctx, player.Computer, player.EventLoss)
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		records, err := store.GetPlayers(ctx)
		require.NoError(t, err)
		alice := find(t, records, "Alice")
		assert.Equal(t, workers, alice.Wins)
		assert.Equal(t, workers, alice.TotalGames)
		assert.Equal(t, workers, find(t, records, player.Computer).Losses)
	})
}
