package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "harvester:lastscrape:"

// RedisTracker stores per-source records in Redis, letting dedup state
// survive restarts. Same single-run-window semantics as the memory
// backend: Commit replaces the record wholesale.
type RedisTracker struct {
	client *redis.Client
}

// NewRedisTracker connects to Redis and verifies the connection.
func NewRedisTracker(ctx context.Context, addr, password string, db int) (*RedisTracker, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisTracker{client: client}, nil
}

func (t *RedisTracker) ShouldSkipSource(ctx context.Context, name string, interval time.Duration) (bool, error) {
	rec, ok, err := t.load(ctx, name)
	if err != nil || !ok {
		return false, err
	}
	return time.Since(rec.Timestamp) < interval, nil
}

func (t *RedisTracker) ShouldSkipURL(ctx context.Context, name, url string) (bool, error) {
	rec, ok, err := t.load(ctx, name)
	if err != nil || !ok {
		return false, err
	}
	for _, seen := range rec.URLs {
		if seen == url {
			return true, nil
		}
	}
	return false, nil
}

func (t *RedisTracker) Commit(ctx context.Context, name string, urls []string) error {
	payload, err := json.Marshal(Record{
		Timestamp: time.Now(),
		URLs:      urls,
	})
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	if err := t.client.Set(ctx, redisKeyPrefix+name, payload, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (t *RedisTracker) Close() error {
	return t.client.Close()
}

func (t *RedisTracker) load(ctx context.Context, name string) (Record, bool, error) {
	raw, err := t.client.Get(ctx, redisKeyPrefix+name).Bytes()
	if errors.Is(err, redis.Nil) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, fmt.Errorf("redis get: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Record{}, false, fmt.Errorf("unmarshal record: %w", err)
	}
	return rec, true, nil
}
