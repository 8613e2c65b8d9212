package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces every key the Redis mirror writes.
const DefaultRedisPrefix = "deepstacks"

// redisClient is the part of *redis.Client the mirror uses.
type redisClient interface {
	RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Close() error
}

// Redis mirrors hands into Redis for live consumers. The action log is a
// list that downstream workers drain with BLPOP; the latest snapshot of
// every hand, and of the table as a whole, is a plain key.
//
//	<prefix>:actions          list of ActionEntry JSON
//	<prefix>:session:<id>     latest SessionUpdate JSON for a hand
//	<prefix>:latest           latest SessionUpdate JSON for the table
type Redis struct {
	client redisClient
	prefix string
	ttl    time.Duration
}

var _ Gateway = (*Redis)(nil)

// OpenRedis connects to a redis:// URL.
func OpenRedis(ctx context.Context, url string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("store: parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("store: failed to connect to Redis at %s: %w", opts.Addr, err)
	}
	return NewRedis(client, DefaultRedisPrefix), nil
}

// NewRedis wraps an existing client.
func NewRedis(client redisClient, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix, ttl: 24 * time.Hour}
}

// ActionsKey is the list the action log is pushed onto.
func (r *Redis) ActionsKey() string { return r.prefix + ":actions" }

// LatestKey holds the most recent table snapshot.
func (r *Redis) LatestKey() string { return r.prefix + ":latest" }

// SessionKey holds the most recent snapshot for one hand.
func (r *Redis) SessionKey(id string) string { return r.prefix + ":session:" + id }

func (r *Redis) CreateHandRecord(ctx context.Context) (string, error) {
	id := uuid.NewString()
	if err := r.setJSON(ctx, r.SessionKey(id), SessionUpdate{SessionID: id, Status: "playing", Board: []string{}}); err != nil {
		return "", err
	}
	return id, nil
}

func (r *Redis) UpdateSnapshot(ctx context.Context, u SessionUpdate) error {
	u.Board = nonNil(u.Board)
	if err := r.setJSON(ctx, r.SessionKey(u.SessionID), u); err != nil {
		return err
	}
	return r.setJSON(ctx, r.LatestKey(), u)
}

func (r *Redis) AppendActionLog(ctx context.Context, e ActionEntry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("store: marshal action entry: %w", err)
	}
	if err := r.client.RPush(ctx, r.ActionsKey(), data).Err(); err != nil {
		return fmt.Errorf("store: failed to RPush to Redis list '%s': %w", r.ActionsKey(), err)
	}
	return nil
}

func (r *Redis) setJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("store: marshal %s: %w", key, err)
	}
	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("store: redis set %s: %w", key, err)
	}
	return nil
}

func (r *Redis) Close() error { return r.client.Close() }
