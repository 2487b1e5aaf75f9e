// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/quizdrill/internal/model"
)

const sparkChars = " .:-=+*#%@"

const barWidth = 20

// Accuracy returns correct/total as a percentage, 0 for an empty session.
func Accuracy(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(correct) / float64(total) * 100
}

// Summary aggregates a list of sessions.
type Summary struct {
	Sessions     int
	Reviews      int
	Answered     int
	Correct      int
	AvgAccuracy  float64
	BestAccuracy float64
}

// Summarize computes totals and mean accuracy across sessions.
func Summarize(sessions []model.SessionRecord) Summary {
	var s Summary
	var totalAcc float64
	for _, rec := range sessions {
		s.Sessions++
		if rec.Review {
			s.Reviews++
		}
		s.Answered += rec.Total
		s.Correct += rec.Correct
		acc := Accuracy(rec.Correct, rec.Total)
		totalAcc += acc
		if acc > s.BestAccuracy {
			s.BestAccuracy = acc
		}
	}
	if s.Sessions > 0 {
		s.AvgAccuracy = totalAcc / float64(s.Sessions)
	}
	return s
}

// AccuracySeries returns per-session accuracy, oldest first.
func AccuracySeries(sessions []model.SessionRecord) []float64 {
	out := make([]float64, len(sessions))
	for i, rec := range sessions {
		out[i] = Accuracy(rec.Correct, rec.Total)
	}
	return out
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// Tail keeps the last n values; n <= 0 keeps all.
func Tail(values []float64, n int) []float64 {
	if n <= 0 || len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}

// Bar renders a fixed-width text progress bar for percent.
func Bar(percent, width int) string {
	if width <= 0 {
		return ""
	}
	percent = max(0, min(percent, 100))
	filled := int(math.Round(float64(width) * float64(percent) / 100))
	return strings.Repeat("#", filled) + strings.Repeat(".", width-filled)
}

// RenderSummary prints streak, mastery and session totals.
func RenderSummary(w io.Writer, r Report) error {
	s := Summarize(r.Sessions)
	lines := []string{
		"Summary",
		fmt.Sprintf("Streak: %d day(s)", r.Streak),
		fmt.Sprintf("Mastered: %d/%d", r.TotalMastered, r.Questions),
		fmt.Sprintf("Sessions: %d (%d review)", s.Sessions, s.Reviews),
	}
	if s.Sessions > 0 {
		lines = append(lines,
			fmt.Sprintf("Answered: %d", s.Answered),
			fmt.Sprintf("Avg Accuracy: %.2f%%", s.AvgAccuracy),
			fmt.Sprintf("Best Accuracy: %.2f%%", s.BestAccuracy),
		)
	}
	lines = append(lines, "")
	return writeLines(w, lines)
}

// RenderDomains prints the per-domain mastery table.
func RenderDomains(w io.Writer, domains []model.DomainStats) error {
	if len(domains) == 0 {
		_, err := fmt.Fprintln(w, "No domains found.")
		return err
	}
	headers := []string{"Domain", "Mastered", "Percent", "Progress"}
	rows := make([][]string, 0, len(domains))
	for _, d := range domains {
		rows = append(rows, []string{
			d.Domain,
			fmt.Sprintf("%d/%d", d.Mastered, d.Total),
			fmt.Sprintf("%d%%", d.Percent),
			Bar(d.Percent, barWidth),
		})
	}
	lines := append([]string{"Domains"}, formatTable(headers, rows, map[int]bool{1: true, 2: true})...)
	lines = append(lines, "")
	return writeLines(w, lines)
}

// RenderCurve prints the smoothed accuracy sparkline sized to width.
func RenderCurve(w io.Writer, sessions []model.SessionRecord, window, width int) error {
	if len(sessions) == 0 {
		return nil
	}
	label := "Accuracy: "
	series := MovingAverage(AccuracySeries(sessions), window)
	series = Tail(series, width-len(label))
	return writeLines(w, []string{
		fmt.Sprintf("Accuracy trend (window %d)", max(window, 1)),
		label + Sparkline(series),
		"",
	})
}

// RenderHistory prints one row per session, oldest first.
func RenderHistory(w io.Writer, sessions []model.SessionRecord) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	rows := HistoryRows(sessions)
	lines := append([]string{"History"}, formatTable(HistoryHeaders, rows, map[int]bool{2: true, 3: true, 4: true})...)
	lines = append(lines, "")
	return writeLines(w, lines)
}

// HistoryHeaders labels the columns produced by HistoryRows.
var HistoryHeaders = []string{"Finished", "Kind", "Correct", "Total", "Accuracy"}

// HistoryRows formats sessions for tabular output.
func HistoryRows(sessions []model.SessionRecord) [][]string {
	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		kind := "daily"
		if s.Review {
			kind = "review"
		}
		rows = append(rows, []string{
			s.EndedAt.Local().Format("2006-01-02 15:04"),
			kind,
			fmt.Sprintf("%d", s.Correct),
			fmt.Sprintf("%d", s.Total),
			fmt.Sprintf("%.1f%%", Accuracy(s.Correct, s.Total)),
		})
	}
	return rows
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
