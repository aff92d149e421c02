package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/courtiq/skillrank/internal/domain/model"
)

// redisTTL bounds how long an abandoned venue's snapshot lingers. It is
// deliberately much longer than any freshness window: a stale snapshot is
// still worth serving while a recompute runs.
const redisTTL = 30 * 24 * time.Hour

// RedisStore persists snapshots in Redis as JSON, one key per venue, plus a
// set of known venue ids for enumeration.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an existing Redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// ConnectRedis opens and pings a Redis connection.
func ConnectRedis(ctx context.Context, addr string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedisStore(client), nil
}

func boardKey(venueID string) string { return "skillrank:board:" + venueID }

const venueSetKey = "skillrank:venues"

func (s *RedisStore) Get(ctx context.Context, venueID string) (*model.Leaderboard, error) {
	b, err := s.client.Get(ctx, boardKey(venueID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var lb model.Leaderboard
	if err := json.Unmarshal(b, &lb); err != nil {
		return nil, fmt.Errorf("decode leaderboard: %w", err)
	}
	return &lb, nil
}

func (s *RedisStore) Put(ctx context.Context, lb *model.Leaderboard) error {
	b, err := json.Marshal(lb)
	if err != nil {
		return fmt.Errorf("encode leaderboard: %w", err)
	}
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, boardKey(lb.VenueID), b, redisTTL)
	pipe.SAdd(ctx, venueSetKey, lb.VenueID)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisStore) Venues(ctx context.Context) ([]string, error) {
	return s.client.SMembers(ctx, venueSetKey).Result()
}

// Close releases the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
