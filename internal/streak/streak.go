// Package streak keeps the consecutive-day practice counter.
package streak

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/verte-zerg/quizdrill/internal/model"
	"github.com/verte-zerg/quizdrill/internal/store"
)

// StorageKey is the key holding the serialized streak state.
const StorageKey = "quizdrill_streak"

// DateLayout renders a calendar day, e.g. "Tue Mar 03 2026".
const DateLayout = "Mon Jan 02 2006"

// ErrPersist wraps adapter write failures.
var ErrPersist = errors.New("failed to persist streak")

// Tracker holds the working streak count for this process.
type Tracker struct {
	kv     store.KV
	count  int
	stored model.StreakState
}

// DateString formats t as the canonical day string in t's location.
func DateString(t time.Time) string {
	return t.Format(DateLayout)
}

// Load reads the stored streak. The working count keeps the stored count
// only when the last session was today or yesterday; the stored value itself
// is never rewritten here.
func Load(ctx context.Context, kv store.KV, now time.Time) (*Tracker, error) {
	t := &Tracker{kv: kv}
	raw, ok, err := kv.Get(ctx, StorageKey)
	if err != nil {
		return t, fmt.Errorf("failed to read streak: %w", err)
	}
	if !ok {
		return t, nil
	}
	var st model.StreakState
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return t, nil
	}
	t.stored = st
	today := DateString(now)
	yesterday := DateString(now.AddDate(0, 0, -1))
	if st.LastDate == today || st.LastDate == yesterday {
		t.count = max(st.Count, 0)
	}
	return t, nil
}

// Count returns the working streak count.
func (t *Tracker) Count() int {
	return t.count
}

// Stored returns the state as last read or written.
func (t *Tracker) Stored() model.StreakState {
	return t.stored
}

// OnSessionComplete bumps the count and stamps today. Finishing several
// sessions on one day increments each time.
func (t *Tracker) OnSessionComplete(ctx context.Context, today time.Time) (int, error) {
	t.count++
	t.stored = model.StreakState{Count: t.count, LastDate: DateString(today)}
	data, err := json.Marshal(t.stored)
	if err != nil {
		return t.count, fmt.Errorf("%w: %v", ErrPersist, err)
	}
	if err := t.kv.Set(ctx, StorageKey, string(data)); err != nil {
		return t.count, fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return t.count, nil
}

// Reset zeroes the count and removes the stored state.
func (t *Tracker) Reset(ctx context.Context) error {
	t.count = 0
	t.stored = model.StreakState{}
	if err := t.kv.Delete(ctx, StorageKey); err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return nil
}
