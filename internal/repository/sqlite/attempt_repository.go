package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/vytor/factflash/internal/logger"
	"github.com/vytor/factflash/internal/models"
	"github.com/vytor/factflash/internal/repository"
)

type attemptRepository struct {
	db *sql.DB
}

// NewAttemptRepository creates a new AttemptRepository implementation
func NewAttemptRepository(db *sql.DB) repository.AttemptRepository {
	return &attemptRepository{db: db}
}

func (r *attemptRepository) Insert(ctx context.Context, a models.Attempt) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("attempt_repo")
	log.Debug("inserting attempt: session_id=%d, fact_id=%d, correct=%v", a.SessionID, a.FactID, a.Correct)

	createdAt := a.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	res, err := r.db.ExecContext(ctx, `
INSERT INTO attempts (session_id, fact_id, correct, latency_ms, hint_used, created_at)
VALUES (?, ?, ?, ?, ?, ?)
`, a.SessionID, a.FactID, a.Correct, a.LatencyMs, a.HintUsed, utc(createdAt))
	if err != nil {
		log.Error("failed to insert attempt: %v", err)
		return 0, err
	}
	return res.LastInsertId()
}

func (r *attemptRepository) SessionSummary(ctx context.Context, sessionID int64) (*models.SessionSummary, error) {
	log := logger.FromContext(ctx).WithPrefix("attempt_repo")
	log.Debug("fetching session summary: session_id=%d", sessionID)

	s, err := scanSession(r.db.QueryRowContext(ctx, selectSession, sessionID))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("session not found: id=%d", sessionID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get session: %v", err)
		return nil, err
	}

	summary := models.SessionSummary{Session: s}
	err = r.db.QueryRowContext(ctx, `
SELECT
    COUNT(*),
    COALESCE(SUM(CASE WHEN correct THEN 1 ELSE 0 END), 0),
    COALESCE(SUM(CASE WHEN hint_used THEN 1 ELSE 0 END), 0),
    COALESCE(AVG(latency_ms), 0)
FROM attempts
WHERE session_id = ?
`, sessionID).Scan(&summary.Attempts, &summary.Correct, &summary.HintsUsed, &summary.AvgLatencyMs)
	if err != nil {
		log.Error("failed to aggregate attempts: %v", err)
		return nil, err
	}

	if summary.Attempts > 0 {
		summary.Accuracy = float64(summary.Correct) / float64(summary.Attempts)
	}
	return &summary, nil
}
