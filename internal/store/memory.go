package store

import (
	"context"
	"sort"
	"sync"

	"github.com/verte-zerg/quizdrill/internal/model"
)

// Memory is a process-local backend; nothing survives Close.
type Memory struct {
	mu       sync.Mutex
	values   map[string]string
	sessions []model.SessionRecord
}

// NewMemory returns an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{values: map[string]string{}}
}

// Close is a no-op.
func (m *Memory) Close() error {
	return nil
}

// Get returns the value stored under key.
func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

// Set stores value under key.
func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// Delete removes key.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// InsertSession appends a completed session.
func (m *Memory) InsertSession(_ context.Context, rec model.SessionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions = append(m.sessions, rec)
	return nil
}

// ListSessions returns sessions filtered by stats config.
func (m *Memory) ListSessions(_ context.Context, cfg model.StatsConfig) ([]model.SessionRecord, error) {
	m.mu.Lock()
	sessions := append([]model.SessionRecord(nil), m.sessions...)
	m.mu.Unlock()
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].EndedAt.Before(sessions[j].EndedAt)
	})
	return filterSessions(sessions, cfg), nil
}
