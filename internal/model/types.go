// Package model defines shared data structures.
package model

import "time"

// MaxLevel is the mastery cap; a question at MaxLevel counts as mastered.
const MaxLevel = 4

// Question is a single multiple-choice or multiple-select item.
type Question struct {
	ID          string   `json:"id"`
	Domain      string   `json:"domain"`
	Prompt      string   `json:"question"`
	Options     []string `json:"options"`
	Correct     []int    `json:"correct"`
	Explanation string   `json:"explanation,omitempty"`
}

// MultiSelect reports whether the question needs more than one pick.
func (q Question) MultiSelect() bool {
	return len(q.Correct) > 1
}

// IsCorrect reports whether idx is one of the correct option indices.
func (q Question) IsCorrect(idx int) bool {
	for _, c := range q.Correct {
		if c == idx {
			return true
		}
	}
	return false
}

// DomainStats summarizes mastery for one domain.
type DomainStats struct {
	Domain   string
	Mastered int
	Total    int
	Percent  int
}

// StreakState is the persisted streak record.
type StreakState struct {
	Count    int    `json:"count"`
	LastDate string `json:"lastDate"`
}

// Outcome is the result of one submitted answer.
type Outcome struct {
	QuestionID string
	Correct    bool
	Level      int
}

// SessionRecord captures a completed quiz session.
type SessionRecord struct {
	ID        string    `json:"id"`
	StartedAt time.Time `json:"startedAt"`
	EndedAt   time.Time `json:"endedAt"`
	Total     int       `json:"total"`
	Correct   int       `json:"correct"`
	Review    bool      `json:"review"`
}

// Config defines practice settings.
type Config struct {
	BankPath   string
	WeakQuota  int
	OtherQuota int
	Store      StoreConfig
}

// StoreConfig selects and configures the persistence backend.
type StoreConfig struct {
	Backend  string
	Path     string
	RedisURL string
	Prefix   string
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Since  *time.Time
	Last   int
	Window int
}
