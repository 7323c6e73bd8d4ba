package repository

import (
	"context"
	"fmt"

	"ctchen222/tictactoe-local/internal/player"

	"github.com/go-redis/redis/v8"
)

// DefaultRedisKey is the list holding the record lines.
const DefaultRedisKey = "tictactoe:players"

type redisBackend struct {
	rdb *redis.Client
	key string
}

// NewRedisStore creates a Store persisted as a Redis list of record lines under key.
func NewRedisStore(rdb *redis.Client, key string, opts ...Option) *Store {
	if key == "" {
		key = DefaultRedisKey
	}
	return newStore(&redisBackend{rdb: rdb, key: key}, opts...)
}

func (b *redisBackend) kind() string { return "redis" }

func (b *redisBackend) prepare(ctx context.Context) error {
	return b.rdb.Ping(ctx).Err()
}

func (b *redisBackend) load(ctx context.Context) ([]player.Record, error) {
	lines, err := b.rdb.LRange(ctx, b.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read players from redis: %w", err)
	}

	records := make([]player.Record, 0, len(lines))
	for i, line := range lines {
		r, err := player.ParseLine(line)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", b.key, i, err)
		}
		records = append(records, r)
	}
	return records, nil
}

func (b *redisBackend) save(ctx context.Context, records []player.Record) error {
	values := make([]interface{}, len(records))
	for i, r := range records {
		values[i] = r.FormatLine()
	}

	_, err := b.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, b.key)
		if len(values) > 0 {
			pipe.RPush(ctx, b.key, values...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write players to redis: %w", err)
	}
	return nil
}
