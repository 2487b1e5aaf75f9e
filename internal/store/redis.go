package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/verte-zerg/quizdrill/internal/model"
)

// DefaultRedisPrefix namespaces keys when no prefix is configured.
const DefaultRedisPrefix = "quizdrill:"

// Redis stores key-value pairs and session history in Redis.
type Redis struct {
	client *redis.Client
	prefix string
}

// OpenRedis connects to the Redis server at url and verifies it with PING.
func OpenRedis(ctx context.Context, url, prefix string) (*Redis, error) {
	if url == "" {
		return nil, fmt.Errorf("redis url is empty")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		if cerr := client.Close(); cerr != nil {
			// Best-effort close on failed ping.
			_ = cerr
		}
		return nil, fmt.Errorf("failed to reach redis: %w", err)
	}
	return NewRedis(client, prefix), nil
}

// NewRedis wraps an existing client.
func NewRedis(client *redis.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &Redis{client: client, prefix: prefix}
}

// Close closes the client.
func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) key(k string) string {
	return r.prefix + "kv:" + k
}

func (r *Redis) sessionsKey() string {
	return r.prefix + "sessions"
}

// Get returns the value stored under key.
func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set stores value under key without expiry.
func (r *Redis) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, r.key(key), value, 0).Err()
}

// Delete removes key.
func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.key(key)).Err()
}

// InsertSession appends a completed session to the history list.
func (r *Redis) InsertSession(ctx context.Context, rec model.SessionRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	return r.client.RPush(ctx, r.sessionsKey(), data).Err()
}

// ListSessions returns sessions filtered by stats config.
func (r *Redis) ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionRecord, error) {
	raw, err := r.client.LRange(ctx, r.sessionsKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	sessions := make([]model.SessionRecord, 0, len(raw))
	for _, item := range raw {
		var rec model.SessionRecord
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			return nil, fmt.Errorf("failed to decode session: %w", err)
		}
		sessions = append(sessions, rec)
	}
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].EndedAt.Before(sessions[j].EndedAt)
	})
	return filterSessions(sessions, cfg), nil
}
