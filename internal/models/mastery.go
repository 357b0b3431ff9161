package models

import "time"

const (
	MinMasteryLevel = 0
	MaxMasteryLevel = 5
	MinEasiness     = 1.3
	InitialEasiness = 2.5
)

// MasteryRecord is the per-user learning state for one fact.
type MasteryRecord struct {
	ID            int64     `json:"id"`
	UserID        string    `json:"user_id"`
	FactID        int64     `json:"fact_id"`
	MasteryLevel  int       `json:"mastery_level"`
	Streak        int       `json:"streak"`
	Easiness      float64   `json:"easiness"`
	IntervalDays  float64   `json:"interval_days"`
	DueAt         time.Time `json:"due_at"`
	LastLatencyMs *int64    `json:"last_latency_ms,omitempty"`
	LastAccuracy  *float64  `json:"last_accuracy,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// IsDue reports whether the record is eligible for practice at now.
func (r MasteryRecord) IsDue(now time.Time) bool {
	return !r.DueAt.After(now)
}

// MasteryFilter narrows FindMasteryRecords. A nil bound is not applied.
// DueBefore is inclusive, DueAfter is exclusive.
type MasteryFilter struct {
	DueBefore *time.Time
	DueAfter  *time.Time
}

// BatchItem is one fact handed to the caller for practice.
type BatchItem struct {
	FactID       int64     `json:"fact_id"`
	A            int       `json:"a"`
	B            int       `json:"b"`
	Op           string    `json:"op"`
	MasteryLevel int       `json:"mastery_level"`
	DueAt        time.Time `json:"due_at"`
}

type AttemptResult struct {
	Correct      bool      `json:"correct"`
	Expected     int       `json:"expected"`
	Awarded      int       `json:"awarded"`
	MasteryLevel int       `json:"mastery_level"`
	Streak       int       `json:"streak"`
	DueAt        time.Time `json:"due_at"`
	SessionID    int64     `json:"session_id"`
}

type MasteryStats struct {
	TotalFacts      int         `json:"total_facts"`
	LevelCounts     map[int]int `json:"level_counts"`
	DueNow          int         `json:"due_now"`
	DueWithinDay    int         `json:"due_within_day"`
	AvgEasiness     float64     `json:"avg_easiness"`
	AvgIntervalDays float64     `json:"avg_interval_days"`
}
