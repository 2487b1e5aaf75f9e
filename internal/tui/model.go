// Package tui provides the Bubble Tea quiz interface.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/quizdrill/internal/app"
	"github.com/verte-zerg/quizdrill/internal/model"
	"github.com/verte-zerg/quizdrill/internal/session"
)

type screen int

const (
	screenMenu screen = iota
	screenQuiz
	screenResults
)

const (
	maxContentWidth = 76
	cardBarWidth    = 24
)

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	textStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FAFFF")).Bold(true)
	correctStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")).Bold(true)
	wrongStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	fadedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#4A4A4A"))
	badgeStyle    = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	cardStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	buttonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1A1A1A")).
			Background(lipgloss.Color("#C89A3A")).
			Bold(true).
			Padding(0, 2)
	disabledButtonStyle = buttonStyle.
				Foreground(lipgloss.Color("#B0B0B0")).
				Background(lipgloss.Color("#3A3A3A"))
	explanationStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B8B8B8")).
				Padding(0, 1).
				Border(lipgloss.NormalBorder(), false, false, false, true)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

// Model implements the Bubble Tea quiz UI.
type Model struct {
	app    *app.App
	logger *slog.Logger

	screen screen
	cursor int
	status string

	keys     keyMap
	help     help.Model
	progress progress.Model
	cardBar  progress.Model

	width  int
	height int
}

// NewModel constructs a quiz TUI model on the menu screen.
func NewModel(a *app.App, logger *slog.Logger) *Model {
	if logger == nil {
		logger = slog.Default()
	}
	return &Model{
		app:      a,
		logger:   logger,
		screen:   screenMenu,
		keys:     newKeyMap(),
		help:     help.New(),
		progress: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		cardBar:  progress.New(progress.WithSolidFill("#C89A3A"), progress.WithoutPercentage(), progress.WithWidth(cardBarWidth)),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = m.contentWidth()
		m.help.Width = m.contentWidth()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.screen {
		case screenQuiz:
			return m.updateQuiz(msg)
		case screenResults:
			return m.updateResults(msg)
		default:
			return m.updateMenu(msg)
		}
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	var body string
	switch m.screen {
	case screenQuiz:
		body = m.renderQuiz()
	case screenResults:
		body = m.renderResults()
	default:
		body = m.renderMenu()
	}
	if m.status != "" {
		body += "\n\n" + statusStyle.Render(m.status)
	}
	if m.width == 0 || m.height == 0 {
		return body
	}
	if lipgloss.Height(body) >= m.height {
		return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, body)
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}

func (m *Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Enter), msg.String() == "s":
		m.startSession()
	}
	return m, nil
}

func (m *Model) startSession() {
	m.status = ""
	if err := m.app.StartSession(); err != nil {
		m.fail("failed to start session", err)
		return
	}
	m.cursor = 0
	m.screen = screenQuiz
}

func (m *Model) updateQuiz(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	r := m.app.Runner
	q, ok := r.Current()
	if !ok {
		m.screen = screenMenu
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Back):
		r.Abandon()
		m.logger.Info("session abandoned", "index", r.Index())
		m.status = ""
		m.screen = screenMenu
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(q.Options)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Toggle):
		r.SelectOption(m.cursor)
	case key.Matches(msg, m.keys.Pick):
		idx := int(msg.Runes[0] - '1')
		if idx < len(q.Options) {
			m.cursor = idx
			r.SelectOption(idx)
		}
	case key.Matches(msg, m.keys.Enter):
		m.confirm()
	}
	return m, nil
}

func (m *Model) confirm() {
	r := m.app.Runner
	ctx := context.Background()
	if !r.Revealed() {
		if !r.CanSubmit() {
			return
		}
		out, err := r.Submit(ctx)
		if err != nil {
			m.fail("failed to save progress", err)
		}
		m.logger.Debug("answer submitted", "question", out.QuestionID, "correct", out.Correct, "level", out.Level)
		return
	}
	if err := r.Advance(ctx); err != nil {
		m.fail("failed to save progress", err)
	}
	m.cursor = 0
	if r.State() == session.StateComplete {
		correct, total := r.Score()
		m.logger.Info("session complete", "correct", correct, "total", total, "review", r.Review(), "streak", m.app.Streak.Count())
		m.screen = screenResults
	}
}

func (m *Model) updateResults(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	r := m.app.Runner
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Review):
		if err := r.RestartWithMissed(); err != nil {
			return m, nil
		}
		m.status = ""
		m.cursor = 0
		m.screen = screenQuiz
	case key.Matches(msg, m.keys.Enter), key.Matches(msg, m.keys.Back):
		m.status = ""
		m.screen = screenMenu
	}
	return m, nil
}

// fail logs err and surfaces it in the status line; the session continues.
func (m *Model) fail(msg string, err error) {
	m.logger.Error(msg, "err", err)
	m.status = fmt.Sprintf("%s: %v", msg, err)
}

func (m *Model) contentWidth() int {
	if m.width <= 0 {
		return maxContentWidth
	}
	return max(20, min(m.width-4, maxContentWidth))
}

func (m *Model) renderMenu() string {
	a := m.app
	width := m.contentWidth()
	badges := lipgloss.JoinHorizontal(lipgloss.Top,
		badgeStyle.Render(fmt.Sprintf("Streak %d", a.Streak.Count())),
		" ",
		badgeStyle.Render(fmt.Sprintf("Mastered %d", a.Mastery.TotalMastered())),
	)
	lines := []string{
		titleStyle.Render("quizdrill"),
		mutedStyle.Render(fmt.Sprintf("%d questions across %d domains", a.Bank.Len(), len(a.Bank.Domains()))),
		"",
		badges,
		"",
	}
	for _, d := range a.Mastery.DomainStats() {
		lines = append(lines, m.domainCard(d, width))
	}
	lines = append(lines,
		"",
		buttonStyle.Render("START DAILY SESSION"),
		"",
		m.help.ShortHelpView(m.keys.menuHelp()),
	)
	return strings.Join(lines, "\n")
}

func (m *Model) domainCard(d model.DomainStats, width int) string {
	inner := max(10, width-4)
	name := textStyle.Render(strings.Join(wrapText(d.Domain, inner), "\n"))
	detail := fmt.Sprintf("%d/%d Mastered  %3d%%  ", d.Mastered, d.Total, d.Percent)
	bar := m.cardBar.ViewAs(float64(d.Percent) / 100)
	return cardStyle.Width(inner + 2).Render(name + "\n" + mutedStyle.Render(detail) + bar)
}

func (m *Model) renderQuiz() string {
	r := m.app.Runner
	q, ok := r.Current()
	if !ok {
		return ""
	}
	width := m.contentWidth()
	header := fmt.Sprintf("%s  %s  %d/%d", mutedStyle.Render(q.Domain), pips(m.app.Mastery.Level(q.ID)), r.Index()+1, r.Len())
	if r.Review() {
		header += "  " + titleStyle.Render("REVIEW")
	}
	lines := []string{
		header,
		m.progress.ViewAs(float64(r.Index()) / float64(r.Len())),
		"",
		textStyle.Bold(true).Render(strings.Join(wrapText(q.Prompt, width), "\n")),
	}
	if q.MultiSelect() {
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("Select %d answers.", len(q.Correct))))
	}
	lines = append(lines, "")
	for i, opt := range q.Options {
		lines = append(lines, m.renderOption(q, i, opt, width))
	}
	lines = append(lines, "")
	if r.Revealed() {
		lines = append(lines, m.renderVerdict(q, width), "")
	}
	lines = append(lines, m.renderButton(), "", m.help.ShortHelpView(m.keys.quizHelp(r.Revealed())))
	return strings.Join(lines, "\n")
}

func (m *Model) renderOption(q model.Question, i int, opt string, width int) string {
	r := m.app.Runner
	pointer := "  "
	if i == m.cursor && !r.Revealed() {
		pointer = "▸ "
	}
	mark := "( )"
	if q.MultiSelect() {
		mark = "[ ]"
	}
	if r.IsSelected(i) {
		mark = mark[:1] + "x" + mark[2:]
	}
	prefix := fmt.Sprintf("%s%s %d) ", pointer, mark, i+1)
	text := strings.Join(hangingIndent(prefix, opt, width), "\n")

	switch {
	case r.Revealed() && q.IsCorrect(i):
		return correctStyle.Render(text)
	case r.Revealed() && r.IsSelected(i):
		return wrongStyle.Render(text)
	case r.Revealed():
		return fadedStyle.Render(text)
	case r.IsSelected(i):
		return selectedStyle.Render(text)
	case i == m.cursor:
		return cursorStyle.Render(text)
	default:
		return textStyle.Render(text)
	}
}

func (m *Model) renderVerdict(q model.Question, width int) string {
	out, _ := m.app.Runner.LastOutcome()
	verdict := wrongStyle.Render("INCORRECT")
	if out.Correct {
		verdict = correctStyle.Render("CORRECT")
	}
	if q.Explanation == "" {
		return verdict
	}
	explanation := strings.Join(wrapText(q.Explanation, width-2), "\n")
	return verdict + "\n" + explanationStyle.Render(explanation)
}

func (m *Model) renderButton() string {
	r := m.app.Runner
	switch {
	case r.Revealed() && r.Index()+1 == r.Len():
		return buttonStyle.Render("FINISH")
	case r.Revealed():
		return buttonStyle.Render("CONTINUE")
	case r.CanSubmit():
		return buttonStyle.Render("SUBMIT")
	default:
		return disabledButtonStyle.Render(fmt.Sprintf("NEED %d MORE", r.Needed()))
	}
}

func (m *Model) renderResults() string {
	r := m.app.Runner
	correct, total := r.Score()
	pct := 0
	if total > 0 {
		pct = correct * 100 / total
	}
	title := "Session complete"
	if r.Review() {
		title = "Review complete"
	}
	lines := []string{
		titleStyle.Render(title),
		"",
		textStyle.Bold(true).Render(fmt.Sprintf("%d%%", pct)),
		mutedStyle.Render(fmt.Sprintf("%d of %d correct", correct, total)),
		mutedStyle.Render(fmt.Sprintf("Streak %d", m.app.Streak.Count())),
		"",
	}
	missed := r.Missed()
	if len(missed) > 0 {
		lines = append(lines, buttonStyle.Render(fmt.Sprintf("REVIEW ERRORS (%d)", len(missed))), "")
	}
	lines = append(lines, m.help.ShortHelpView(m.keys.resultsHelp(len(missed) > 0)))
	return strings.Join(lines, "\n")
}

func pips(level int) string {
	filled := correctStyle.Render(strings.Repeat("●", level))
	empty := fadedStyle.Render(strings.Repeat("○", max(model.MaxLevel-level, 0)))
	return filled + empty
}
