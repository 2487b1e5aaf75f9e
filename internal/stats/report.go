package stats

import (
	"context"

	"github.com/verte-zerg/quizdrill/internal/model"
	"github.com/verte-zerg/quizdrill/internal/store"
)

// MasterySource exposes the mastery figures a report needs.
type MasterySource interface {
	DomainStats() []model.DomainStats
	TotalMastered() int
}

// Report contains precomputed data for stats rendering.
type Report struct {
	Sessions      []model.SessionRecord
	Domains       []model.DomainStats
	Streak        int
	TotalMastered int
	Questions     int
}

// BuildReport loads session history and snapshots mastery and streak.
func BuildReport(ctx context.Context, h store.History, m MasterySource, streak, questions int, cfg model.StatsConfig) (Report, error) {
	sessions, err := h.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	return Report{
		Sessions:      sessions,
		Domains:       m.DomainStats(),
		Streak:        streak,
		TotalMastered: m.TotalMastered(),
		Questions:     questions,
	}, nil
}
