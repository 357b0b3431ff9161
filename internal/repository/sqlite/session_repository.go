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

type sessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SessionRepository implementation
func NewSessionRepository(db *sql.DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}

const selectSession = `SELECT id, user_id, mode, started_at, ended_at FROM sessions WHERE id = ?`

func scanSession(row rowScanner) (models.Session, error) {
	var s models.Session
	var endedAt sql.NullTime
	if err := row.Scan(&s.ID, &s.UserID, &s.Mode, &s.StartedAt, &endedAt); err != nil {
		return s, err
	}
	if endedAt.Valid {
		s.EndedAt = &endedAt.Time
	}
	return s, nil
}

func (r *sessionRepository) Create(ctx context.Context, userID string, mode models.SessionMode, startedAt time.Time) (*models.Session, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("creating session: user_id=%s, mode=%s", userID, mode)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO sessions (user_id, mode, started_at)
VALUES (?, ?, ?)
`, userID, string(mode), utc(startedAt))
	if err != nil {
		log.Error("failed to create session: %v", err)
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to read session id: %v", err)
		return nil, err
	}
	log.Info("created session: id=%d, user_id=%s, mode=%s", id, userID, mode)
	return r.Get(ctx, id)
}

func (r *sessionRepository) Get(ctx context.Context, id int64) (*models.Session, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("getting session: id=%d", id)

	s, err := scanSession(r.db.QueryRowContext(ctx, selectSession, id))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("session not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get session: %v", err)
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepository) End(ctx context.Context, id int64, endedAt time.Time) error {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("ending session: id=%d", id)

	res, err := r.db.ExecContext(ctx, `
UPDATE sessions SET ended_at = ?
WHERE id = ? AND ended_at IS NULL
`, utc(endedAt), id)
	if err != nil {
		log.Error("failed to end session: %v", err)
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		log.Debug("session already ended or missing: id=%d", id)
	}
	return nil
}
