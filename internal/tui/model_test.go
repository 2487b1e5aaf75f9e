package tui

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/quizdrill/internal/app"
	"github.com/verte-zerg/quizdrill/internal/model"
	"github.com/verte-zerg/quizdrill/internal/session"
	"github.com/verte-zerg/quizdrill/internal/store"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := model.Config{
		WeakQuota:  4,
		OtherQuota: 1,
		Store:      model.StoreConfig{Backend: store.BackendMemory},
	}
	a, err := app.Open(context.Background(), cfg, logger)
	if err != nil {
		t.Fatalf("open app: %v", err)
	}
	t.Cleanup(func() {
		_ = a.Close()
	})
	m := NewModel(a, logger)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 60})
	return m
}

func press(m *Model, keys ...string) {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "space":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m.Update(msg)
	}
}

// answerCurrent picks the correct options with digit keys.
func answerCurrent(m *Model, correct bool) {
	q, _ := m.app.Runner.Current()
	picks := q.Correct
	if !correct {
		picks = wrongPicks(q)
	}
	for _, idx := range picks {
		press(m, string(rune('1'+idx)))
	}
	press(m, "enter")
}

func wrongPicks(q model.Question) []int {
	var out []int
	for i := range q.Options {
		if !q.IsCorrect(i) && len(out) < len(q.Correct) {
			out = append(out, i)
		}
	}
	return out
}

func TestMenuRendersDomains(t *testing.T) {
	m := newTestModel(t)
	view := m.View()
	for _, want := range []string{"quizdrill", "Streak 0", "Mastered 0", "Security", "0/3 Mastered", "START DAILY SESSION"} {
		if !strings.Contains(view, want) {
			t.Fatalf("menu missing %q:\n%s", want, view)
		}
	}
}

func TestQuizFlowToResults(t *testing.T) {
	m := newTestModel(t)
	press(m, "enter")
	if m.screen != screenQuiz {
		t.Fatalf("expected quiz screen, got %v", m.screen)
	}
	r := m.app.Runner
	total := r.Len()
	for i := 0; i < total; i++ {
		answerCurrent(m, i != 0)
		if !r.Revealed() {
			t.Fatalf("question %d not revealed after submit", i)
		}
		press(m, "enter")
	}
	if m.screen != screenResults {
		t.Fatalf("expected results screen, got %v", m.screen)
	}
	view := m.View()
	if !strings.Contains(view, "Session complete") || !strings.Contains(view, "REVIEW ERRORS (1)") {
		t.Fatalf("unexpected results view:\n%s", view)
	}
	if m.app.Streak.Count() != 1 {
		t.Fatalf("expected streak 1, got %d", m.app.Streak.Count())
	}

	press(m, "r")
	if m.screen != screenQuiz || !r.Review() || r.Len() != 1 {
		t.Fatalf("expected one-question review, screen=%v review=%v len=%d", m.screen, r.Review(), r.Len())
	}
	answerCurrent(m, true)
	press(m, "enter")
	if m.screen != screenResults || !strings.Contains(m.View(), "Review complete") {
		t.Fatalf("expected review results:\n%s", m.View())
	}
	press(m, "enter")
	if m.screen != screenMenu {
		t.Fatalf("expected menu, got %v", m.screen)
	}
}

func TestSubmitNeedsAllAnswers(t *testing.T) {
	m := newTestModel(t)
	press(m, "enter")
	r := m.app.Runner
	// Skip to a multi-select question if the session has one.
	for {
		q, ok := r.Current()
		if !ok {
			t.Skip("session has no multi-select question")
		}
		if q.MultiSelect() {
			break
		}
		answerCurrent(m, true)
		press(m, "enter")
	}
	q, _ := r.Current()
	press(m, string(rune('1'+q.Correct[0])))
	if !strings.Contains(m.View(), "NEED 1 MORE") {
		t.Fatalf("expected need-more button:\n%s", m.View())
	}
	press(m, "enter")
	if r.Revealed() {
		t.Fatalf("incomplete selection must not submit")
	}
}

func TestCursorToggleAndAbandon(t *testing.T) {
	m := newTestModel(t)
	press(m, "enter")
	r := m.app.Runner
	press(m, "down", "space")
	if !r.IsSelected(1) {
		t.Fatalf("expected option 2 selected, got %v", r.Selection())
	}
	press(m, "esc")
	if m.screen != screenMenu || r.State() != session.StateIdle {
		t.Fatalf("expected abandoned session, screen=%v state=%v", m.screen, r.State())
	}
	if m.app.Streak.Count() != 0 {
		t.Fatalf("abandon must not bump streak")
	}
}

func TestPips(t *testing.T) {
	out := pips(2)
	if strings.Count(out, "●") != 2 || strings.Count(out, "○") != 2 {
		t.Fatalf("unexpected pips %q", out)
	}
}
