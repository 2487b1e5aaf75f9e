package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/quizdrill/internal/model"
)

// State is the runner lifecycle phase.
type State int

const (
	StateIdle State = iota
	StateInProgress
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInProgress:
		return "in-progress"
	case StateComplete:
		return "complete"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var (
	ErrEmptySession  = errors.New("session has no questions")
	ErrNotInProgress = errors.New("no session in progress")
	ErrCannotSubmit  = errors.New("answer cannot be submitted")
	ErrNotRevealed   = errors.New("answer not revealed yet")
	ErrNotComplete   = errors.New("session not complete")
	ErrNoMissed      = errors.New("no missed questions to review")
)

// OutcomeRecorder applies a graded answer to mastery.
type OutcomeRecorder interface {
	RecordOutcome(ctx context.Context, id string, correct bool) (int, error)
}

// CompletionRecorder is told when a session finishes.
type CompletionRecorder interface {
	OnSessionComplete(ctx context.Context, today time.Time) (int, error)
}

// HistoryRecorder stores finished sessions.
type HistoryRecorder interface {
	InsertSession(ctx context.Context, rec model.SessionRecord) error
}

// Runner drives one session at a time through question, reveal and result.
type Runner struct {
	outcomes   OutcomeRecorder
	completion CompletionRecorder
	history    HistoryRecorder
	now        func() time.Time

	state     State
	id        string
	startedAt time.Time
	review    bool
	questions []model.Question
	index     int
	selected  map[int]bool
	revealed  bool
	answers   []model.Outcome
	missed    []model.Question
}

// NewRunner returns an idle runner. history may be nil.
func NewRunner(outcomes OutcomeRecorder, completion CompletionRecorder, history HistoryRecorder) *Runner {
	return &Runner{
		outcomes:   outcomes,
		completion: completion,
		history:    history,
		now:        time.Now,
		selected:   map[int]bool{},
	}
}

// Start begins a fresh session over questions.
func (r *Runner) Start(questions []model.Question) error {
	return r.start(questions, false)
}

func (r *Runner) start(questions []model.Question, review bool) error {
	if len(questions) == 0 {
		return ErrEmptySession
	}
	r.state = StateInProgress
	r.id = uuid.NewString()
	r.startedAt = r.now()
	r.review = review
	r.questions = append([]model.Question(nil), questions...)
	r.index = 0
	r.selected = map[int]bool{}
	r.revealed = false
	r.answers = nil
	r.missed = nil
	return nil
}

// SelectOption toggles option i on the current question. It is ignored
// after reveal, outside a session, or for an out-of-range index.
func (r *Runner) SelectOption(i int) {
	q, ok := r.Current()
	if !ok || r.revealed || i < 0 || i >= len(q.Options) {
		return
	}
	if !q.MultiSelect() {
		if r.selected[i] {
			r.selected = map[int]bool{}
			return
		}
		r.selected = map[int]bool{i: true}
		return
	}
	if r.selected[i] {
		delete(r.selected, i)
		return
	}
	if len(r.selected) < len(q.Correct) {
		r.selected[i] = true
	}
}

// Needed returns how many more options must be picked before submitting.
func (r *Runner) Needed() int {
	q, ok := r.Current()
	if !ok {
		return 0
	}
	return max(len(q.Correct)-len(r.selected), 0)
}

// CanSubmit reports whether the current selection can be graded.
func (r *Runner) CanSubmit() bool {
	q, ok := r.Current()
	return ok && !r.revealed && len(r.selected) == len(q.Correct)
}

// Submit grades the selection. The outcome is kept even when persisting
// the new mastery level fails; that error is returned alongside it.
func (r *Runner) Submit(ctx context.Context) (model.Outcome, error) {
	if !r.CanSubmit() {
		return model.Outcome{}, ErrCannotSubmit
	}
	q := r.questions[r.index]
	correct := len(r.selected) == len(q.Correct)
	for _, c := range q.Correct {
		if !r.selected[c] {
			correct = false
			break
		}
	}

	level, err := r.outcomes.RecordOutcome(ctx, q.ID, correct)
	if err != nil {
		err = fmt.Errorf("record outcome for %s: %w", q.ID, err)
	}
	out := model.Outcome{QuestionID: q.ID, Correct: correct, Level: level}
	if !correct {
		r.missed = append(r.missed, q)
	}
	r.answers = append(r.answers, out)
	r.revealed = true
	return out, err
}

// Advance moves past a revealed answer. After the last question the
// session completes and the streak and history are updated.
func (r *Runner) Advance(ctx context.Context) error {
	if r.state != StateInProgress {
		return ErrNotInProgress
	}
	if !r.revealed {
		return ErrNotRevealed
	}
	if r.index+1 < len(r.questions) {
		r.index++
		r.selected = map[int]bool{}
		r.revealed = false
		return nil
	}
	return r.complete(ctx)
}

func (r *Runner) complete(ctx context.Context) error {
	end := r.now()
	r.state = StateComplete
	r.selected = map[int]bool{}
	r.revealed = false

	var errs []error
	if _, err := r.completion.OnSessionComplete(ctx, end); err != nil {
		errs = append(errs, fmt.Errorf("update streak: %w", err))
	}
	if r.history != nil {
		correct, total := r.Score()
		rec := model.SessionRecord{
			ID:        r.id,
			StartedAt: r.startedAt,
			EndedAt:   end,
			Total:     total,
			Correct:   correct,
			Review:    r.review,
		}
		if err := r.history.InsertSession(ctx, rec); err != nil {
			errs = append(errs, fmt.Errorf("record session: %w", err))
		}
	}
	return errors.Join(errs...)
}

// RestartWithMissed starts a review session over the missed questions,
// in the order they were missed.
func (r *Runner) RestartWithMissed() error {
	if r.state != StateComplete {
		return ErrNotComplete
	}
	if len(r.missed) == 0 {
		return ErrNoMissed
	}
	return r.start(r.missed, true)
}

// Abandon drops the current session without persisting anything.
func (r *Runner) Abandon() {
	r.state = StateIdle
	r.id = ""
	r.review = false
	r.questions = nil
	r.index = 0
	r.selected = map[int]bool{}
	r.revealed = false
	r.answers = nil
	r.missed = nil
}

func (r *Runner) State() State {
	return r.state
}

// Current returns the question on screen; ok is false outside a session.
func (r *Runner) Current() (model.Question, bool) {
	if r.state != StateInProgress || r.index >= len(r.questions) {
		return model.Question{}, false
	}
	return r.questions[r.index], true
}

func (r *Runner) Index() int {
	return r.index
}

func (r *Runner) Len() int {
	return len(r.questions)
}

// Selection returns the picked option indices in ascending order.
func (r *Runner) Selection() []int {
	out := make([]int, 0, len(r.selected))
	for i := range r.selected {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

func (r *Runner) IsSelected(i int) bool {
	return r.selected[i]
}

func (r *Runner) Revealed() bool {
	return r.revealed
}

func (r *Runner) Answers() []model.Outcome {
	return append([]model.Outcome(nil), r.answers...)
}

func (r *Runner) Missed() []model.Question {
	return append([]model.Question(nil), r.missed...)
}

// Score returns correct answers and total questions of the session.
func (r *Runner) Score() (correct, total int) {
	for _, a := range r.answers {
		if a.Correct {
			correct++
		}
	}
	return correct, len(r.questions)
}

func (r *Runner) Review() bool {
	return r.review
}

// LastOutcome returns the most recent graded answer.
func (r *Runner) LastOutcome() (model.Outcome, bool) {
	if len(r.answers) == 0 {
		return model.Outcome{}, false
	}
	return r.answers[len(r.answers)-1], true
}
