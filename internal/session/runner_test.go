package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/quizdrill/internal/model"
)

type fakeMastery struct {
	levels map[string]int
	calls  int
	err    error
}

func (f *fakeMastery) RecordOutcome(_ context.Context, id string, correct bool) (int, error) {
	f.calls++
	if f.levels == nil {
		f.levels = map[string]int{}
	}
	if correct {
		f.levels[id] = min(f.levels[id]+1, model.MaxLevel)
	} else {
		f.levels[id] = 0
	}
	return f.levels[id], f.err
}

type fakeStreak struct {
	count int
	days  []time.Time
	err   error
}

func (f *fakeStreak) OnSessionComplete(_ context.Context, today time.Time) (int, error) {
	f.count++
	f.days = append(f.days, today)
	return f.count, f.err
}

type fakeHistory struct {
	records []model.SessionRecord
}

func (f *fakeHistory) InsertSession(_ context.Context, rec model.SessionRecord) error {
	f.records = append(f.records, rec)
	return nil
}

var (
	single = model.Question{ID: "s1", Domain: "A", Prompt: "?", Options: []string{"a", "b", "c"}, Correct: []int{1}}
	multi  = model.Question{ID: "m1", Domain: "A", Prompt: "?", Options: []string{"a", "b", "c", "d"}, Correct: []int{0, 2}}
	other  = model.Question{ID: "s2", Domain: "B", Prompt: "?", Options: []string{"a", "b"}, Correct: []int{0}}
)

func newTestRunner() (*Runner, *fakeMastery, *fakeStreak, *fakeHistory) {
	m, s, h := &fakeMastery{}, &fakeStreak{}, &fakeHistory{}
	r := NewRunner(m, s, h)
	clock := time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC)
	r.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return r, m, s, h
}

func answer(t *testing.T, r *Runner, picks ...int) model.Outcome {
	t.Helper()
	for _, p := range picks {
		r.SelectOption(p)
	}
	out, err := r.Submit(context.Background())
	require.NoError(t, err)
	return out
}

func TestStartRejectsEmpty(t *testing.T) {
	r, _, _, _ := newTestRunner()
	assert.ErrorIs(t, r.Start(nil), ErrEmptySession)
	assert.Equal(t, StateIdle, r.State())
}

func TestSingleSelectReplacesAndClears(t *testing.T) {
	r, _, _, _ := newTestRunner()
	require.NoError(t, r.Start([]model.Question{single}))

	r.SelectOption(0)
	r.SelectOption(2)
	assert.Equal(t, []int{2}, r.Selection())

	r.SelectOption(2)
	assert.Empty(t, r.Selection())
	assert.False(t, r.CanSubmit())

	r.SelectOption(7)
	r.SelectOption(-1)
	assert.Empty(t, r.Selection())
}

func TestMultiSelectCapsAtRequired(t *testing.T) {
	r, _, _, _ := newTestRunner()
	require.NoError(t, r.Start([]model.Question{multi}))

	r.SelectOption(0)
	assert.Equal(t, 1, r.Needed())
	assert.False(t, r.CanSubmit())

	r.SelectOption(1)
	r.SelectOption(3)
	assert.Equal(t, []int{0, 1}, r.Selection())
	assert.Equal(t, 0, r.Needed())
	assert.True(t, r.CanSubmit())

	r.SelectOption(1)
	r.SelectOption(2)
	assert.Equal(t, []int{0, 2}, r.Selection())
}

func TestSubmitRequiresFullSelection(t *testing.T) {
	r, m, _, _ := newTestRunner()
	require.NoError(t, r.Start([]model.Question{multi}))
	r.SelectOption(0)

	_, err := r.Submit(context.Background())
	assert.ErrorIs(t, err, ErrCannotSubmit)
	assert.False(t, r.Revealed())
	assert.Zero(t, m.calls)
}

func TestSubmitGradesExactSet(t *testing.T) {
	r, m, _, _ := newTestRunner()
	require.NoError(t, r.Start([]model.Question{multi, single}))

	out := answer(t, r, 0, 1)
	assert.False(t, out.Correct)
	assert.Equal(t, 0, out.Level)
	assert.True(t, r.Revealed())
	assert.Equal(t, []model.Question{multi}, r.Missed())

	// Selection is frozen after reveal.
	r.SelectOption(3)
	assert.Equal(t, []int{0, 1}, r.Selection())
	_, err := r.Submit(context.Background())
	assert.ErrorIs(t, err, ErrCannotSubmit)

	require.NoError(t, r.Advance(context.Background()))
	out = answer(t, r, 1)
	assert.True(t, out.Correct)
	assert.Equal(t, 1, out.Level)
	assert.Equal(t, 2, m.calls)
}

func TestAdvanceRequiresReveal(t *testing.T) {
	r, _, _, _ := newTestRunner()
	assert.ErrorIs(t, r.Advance(context.Background()), ErrNotInProgress)

	require.NoError(t, r.Start([]model.Question{single, other}))
	assert.ErrorIs(t, r.Advance(context.Background()), ErrNotRevealed)

	answer(t, r, 1)
	require.NoError(t, r.Advance(context.Background()))
	assert.Equal(t, 1, r.Index())
	assert.Empty(t, r.Selection())
	assert.False(t, r.Revealed())
}

func TestCompletionUpdatesStreakAndHistory(t *testing.T) {
	ctx := context.Background()
	r, _, s, h := newTestRunner()
	require.NoError(t, r.Start([]model.Question{single, other}))

	answer(t, r, 1)
	require.NoError(t, r.Advance(ctx))
	answer(t, r, 1)
	assert.Zero(t, s.count, "streak must wait for completion")
	require.NoError(t, r.Advance(ctx))

	assert.Equal(t, StateComplete, r.State())
	assert.Equal(t, 1, s.count)
	correct, total := r.Score()
	assert.Equal(t, 1, correct)
	assert.Equal(t, 2, total)

	require.Len(t, h.records, 1)
	rec := h.records[0]
	assert.Equal(t, 2, rec.Total)
	assert.Equal(t, 1, rec.Correct)
	assert.False(t, rec.Review)
	assert.True(t, rec.EndedAt.After(rec.StartedAt))
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, rec.EndedAt, s.days[0])
}

func TestRestartWithMissed(t *testing.T) {
	ctx := context.Background()
	r, _, s, h := newTestRunner()
	assert.ErrorIs(t, r.RestartWithMissed(), ErrNotComplete)

	require.NoError(t, r.Start([]model.Question{single, multi, other}))
	answer(t, r, 0)
	require.NoError(t, r.Advance(ctx))
	answer(t, r, 0, 2)
	require.NoError(t, r.Advance(ctx))
	answer(t, r, 1)
	require.NoError(t, r.Advance(ctx))

	require.NoError(t, r.RestartWithMissed())
	assert.Equal(t, StateInProgress, r.State())
	assert.True(t, r.Review())
	assert.Equal(t, 2, r.Len())
	q, ok := r.Current()
	require.True(t, ok)
	assert.Equal(t, "s1", q.ID)
	assert.Empty(t, r.Answers())
	assert.Empty(t, r.Missed())

	answer(t, r, 1)
	require.NoError(t, r.Advance(ctx))
	answer(t, r, 0)
	require.NoError(t, r.Advance(ctx))

	assert.Equal(t, 2, s.count)
	require.Len(t, h.records, 2)
	assert.True(t, h.records[1].Review)
	assert.NotEqual(t, h.records[0].ID, h.records[1].ID)
	assert.ErrorIs(t, r.RestartWithMissed(), ErrNoMissed)
}

func TestAbandonPersistsNothing(t *testing.T) {
	r, m, s, h := newTestRunner()
	require.NoError(t, r.Start([]model.Question{single, other}))
	answer(t, r, 1)
	r.Abandon()

	assert.Equal(t, StateIdle, r.State())
	_, ok := r.Current()
	assert.False(t, ok)
	assert.Equal(t, 1, m.calls)
	assert.Zero(t, s.count)
	assert.Empty(t, h.records)
}

func TestPersistFailureStillTransitions(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	m, s := &fakeMastery{err: boom}, &fakeStreak{err: boom}
	r := NewRunner(m, s, nil)
	require.NoError(t, r.Start([]model.Question{single}))

	r.SelectOption(1)
	out, err := r.Submit(ctx)
	assert.ErrorIs(t, err, boom)
	assert.True(t, out.Correct)
	assert.True(t, r.Revealed())
	assert.Len(t, r.Answers(), 1)

	err = r.Advance(ctx)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, StateComplete, r.State())
}

func TestLastOutcome(t *testing.T) {
	r, _, _, _ := newTestRunner()
	_, ok := r.LastOutcome()
	assert.False(t, ok)

	require.NoError(t, r.Start([]model.Question{single}))
	answer(t, r, 2)
	out, ok := r.LastOutcome()
	require.True(t, ok)
	assert.Equal(t, "s1", out.QuestionID)
	assert.False(t, out.Correct)
}
