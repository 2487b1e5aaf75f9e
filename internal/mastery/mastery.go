// Package mastery tracks per-question mastery levels and domain statistics.
package mastery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/verte-zerg/quizdrill/internal/bank"
	"github.com/verte-zerg/quizdrill/internal/model"
	"github.com/verte-zerg/quizdrill/internal/store"
)

// StorageKey is the key holding the serialized level map.
const StorageKey = "quizdrill_mastery"

// ErrPersist wraps adapter write failures. In-memory state is kept.
var ErrPersist = errors.New("failed to persist mastery")

// Model owns the question id to mastery level map.
type Model struct {
	kv     store.KV
	bank   *bank.Bank
	logger *slog.Logger
	levels map[string]int
}

// Load reads the persisted level map. Absent or malformed data yields an
// empty map. A read error is returned alongside a usable empty model.
func Load(ctx context.Context, kv store.KV, b *bank.Bank, logger *slog.Logger) (*Model, error) {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Model{kv: kv, bank: b, logger: logger, levels: map[string]int{}}
	raw, ok, err := kv.Get(ctx, StorageKey)
	if err != nil {
		return m, fmt.Errorf("failed to read mastery: %w", err)
	}
	if !ok {
		return m, nil
	}
	var levels map[string]int
	if err := json.Unmarshal([]byte(raw), &levels); err != nil {
		logger.Warn("ignoring malformed mastery data", "key", StorageKey, "err", err)
		return m, nil
	}
	for id, lvl := range levels {
		m.levels[id] = clamp(lvl)
	}
	return m, nil
}

// Level returns the mastery level for id; unknown ids are level 0.
func (m *Model) Level(id string) int {
	return m.levels[id]
}

// Levels returns a copy of the level map.
func (m *Model) Levels() map[string]int {
	out := make(map[string]int, len(m.levels))
	for id, lvl := range m.levels {
		out[id] = lvl
	}
	return out
}

// RecordOutcome applies an answer to id and persists the whole map.
// A correct answer adds one level up to MaxLevel; a miss resets to 0.
func (m *Model) RecordOutcome(ctx context.Context, id string, correct bool) (int, error) {
	next := 0
	if correct {
		next = min(m.levels[id]+1, model.MaxLevel)
	}
	m.levels[id] = next
	m.logger.Debug("mastery updated", "question", id, "correct", correct, "level", next)
	if err := m.save(ctx); err != nil {
		return next, err
	}
	return next, nil
}

// Reset clears all levels and removes the persisted map.
func (m *Model) Reset(ctx context.Context) error {
	m.levels = map[string]int{}
	if err := m.kv.Delete(ctx, StorageKey); err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return nil
}

// DomainStats returns one entry per declared domain, in declared order.
func (m *Model) DomainStats() []model.DomainStats {
	return ComputeDomainStats(m.levels, m.bank)
}

// TotalMastered counts ids in the map at or above MaxLevel.
func (m *Model) TotalMastered() int {
	n := 0
	for _, lvl := range m.levels {
		if lvl >= model.MaxLevel {
			n++
		}
	}
	return n
}

func (m *Model) save(ctx context.Context) error {
	data, err := json.Marshal(m.levels)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	if err := m.kv.Set(ctx, StorageKey, string(data)); err != nil {
		m.logger.Error("mastery write failed", "err", err)
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return nil
}

// ComputeDomainStats aggregates levels per declared domain of b.
func ComputeDomainStats(levels map[string]int, b *bank.Bank) []model.DomainStats {
	domains := b.Domains()
	out := make([]model.DomainStats, 0, len(domains))
	for _, domain := range domains {
		qs := b.ByDomain(domain)
		mastered := 0
		for _, q := range qs {
			if levels[q.ID] >= model.MaxLevel {
				mastered++
			}
		}
		out = append(out, model.DomainStats{
			Domain:   domain,
			Mastered: mastered,
			Total:    len(qs),
			Percent:  percent(mastered, len(qs)),
		})
	}
	return out
}

// WeakestDomain returns the domain with the strictly lowest percent. The
// earliest domain wins ties. ok is false when stats is empty.
func WeakestDomain(stats []model.DomainStats) (string, bool) {
	if len(stats) == 0 {
		return "", false
	}
	weakest := stats[0]
	for _, s := range stats[1:] {
		if s.Percent < weakest.Percent {
			weakest = s
		}
	}
	return weakest.Domain, true
}

func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(total)))
}

func clamp(lvl int) int {
	if lvl < 0 {
		return 0
	}
	if lvl > model.MaxLevel {
		return model.MaxLevel
	}
	return lvl
}
