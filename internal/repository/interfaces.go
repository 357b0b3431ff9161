package repository

import (
	"context"
	"time"

	"github.com/vytor/factflash/internal/models"
)

// Implementations return (nil, nil) from single-row lookups when the row
// does not exist.

// FactRepository handles the fact catalog
type FactRepository interface {
	Count(ctx context.Context) (int, error)
	// InsertBatch skips rows that already exist.
	InsertBatch(ctx context.Context, facts []models.Fact) error
	Get(ctx context.Context, id int64) (*models.Fact, error)
	// List returns up to take facts; take <= 0 means all.
	List(ctx context.Context, orderBy models.FactOrder, take int) ([]models.Fact, error)
}

// UserRepository handles user rows
type UserRepository interface {
	Upsert(ctx context.Context, id string) error
}

// MasteryRepository handles per-user fact mastery records
type MasteryRepository interface {
	Find(ctx context.Context, userID string, filter models.MasteryFilter) ([]models.MasteryRecord, error)
	// InsertIfAbsent ignores rows whose (user_id, fact_id) already exists.
	InsertIfAbsent(ctx context.Context, records []models.MasteryRecord) error
	Get(ctx context.Context, userID string, factID int64) (*models.MasteryRecord, error)
	Update(ctx context.Context, record models.MasteryRecord) (*models.MasteryRecord, error)
	Stats(ctx context.Context, userID string, now time.Time) (*models.MasteryStats, error)
}

// SessionRepository handles practice sessions
type SessionRepository interface {
	Create(ctx context.Context, userID string, mode models.SessionMode, startedAt time.Time) (*models.Session, error)
	Get(ctx context.Context, id int64) (*models.Session, error)
	// End sets ended_at if the session is still active.
	End(ctx context.Context, id int64, endedAt time.Time) error
}

// AttemptRepository handles the append-only attempt log
type AttemptRepository interface {
	Insert(ctx context.Context, attempt models.Attempt) (int64, error)
	SessionSummary(ctx context.Context, sessionID int64) (*models.SessionSummary, error)
}
