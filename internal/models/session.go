package models

import "time"

type SessionMode string

const (
	ModePractice  SessionMode = "PRACTICE"
	ModeChallenge SessionMode = "CHALLENGE"
	ModeBoss      SessionMode = "BOSS"
)

// Valid reports whether m is one of the known session modes.
func (m SessionMode) Valid() bool {
	switch m {
	case ModePractice, ModeChallenge, ModeBoss:
		return true
	}
	return false
}

type Session struct {
	ID        int64       `json:"id"`
	UserID    string      `json:"user_id"`
	Mode      SessionMode `json:"mode"`
	StartedAt time.Time   `json:"started_at"`
	EndedAt   *time.Time  `json:"ended_at"`
}

// Active reports whether the session has not been ended yet.
func (s Session) Active() bool {
	return s.EndedAt == nil
}

// Attempt is an append-only log entry for one submitted answer.
type Attempt struct {
	ID        int64     `json:"id"`
	SessionID int64     `json:"session_id"`
	FactID    int64     `json:"fact_id"`
	Correct   bool      `json:"correct"`
	LatencyMs int64     `json:"latency_ms"`
	HintUsed  bool      `json:"hint_used"`
	CreatedAt time.Time `json:"created_at"`
}

type SessionSummary struct {
	Session
	Attempts     int     `json:"attempts"`
	Correct      int     `json:"correct"`
	HintsUsed    int     `json:"hints_used"`
	Accuracy     float64 `json:"accuracy"`
	AvgLatencyMs float64 `json:"avg_latency_ms"`
}
