// Package store provides key-value persistence and session history backends.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/verte-zerg/quizdrill/internal/model"
)

// Backend names accepted by OpenBackend.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// ErrUnknownBackend is returned for an unsupported backend name.
var ErrUnknownBackend = errors.New("unknown store backend")

// KV is a durable string map.
type KV interface {
	// Get returns the value for key; ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// History records completed quiz sessions.
type History interface {
	InsertSession(ctx context.Context, rec model.SessionRecord) error
	// ListSessions returns sessions ordered by end time, oldest first.
	ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionRecord, error)
}

// Backend combines KV and History with a Close method.
type Backend interface {
	KV
	History
	Close() error
}

// OpenBackend opens the backend selected by cfg.
func OpenBackend(ctx context.Context, cfg model.StoreConfig) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", BackendSQLite:
		if cfg.Path == "" {
			return nil, fmt.Errorf("sqlite store path is empty")
		}
		st, err := Open(cfg.Path)
		if err != nil {
			return nil, err
		}
		return st, nil
	case BackendRedis:
		rs, err := OpenRedis(ctx, cfg.RedisURL, cfg.Prefix)
		if err != nil {
			return nil, err
		}
		return rs, nil
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

// filterSessions applies Since and Last to sessions sorted oldest first.
func filterSessions(sessions []model.SessionRecord, cfg model.StatsConfig) []model.SessionRecord {
	out := sessions[:0:0]
	for _, s := range sessions {
		if cfg.Since != nil && s.EndedAt.Before(*cfg.Since) {
			continue
		}
		out = append(out, s)
	}
	if cfg.Last > 0 && len(out) > cfg.Last {
		out = out[len(out)-cfg.Last:]
	}
	return out
}
