package services

import (
	"context"
	"time"

	"github.com/vytor/factflash/internal/errors"
	"github.com/vytor/factflash/internal/logger"
	"github.com/vytor/factflash/internal/models"
	"github.com/vytor/factflash/internal/repository"
)

// SessionService handles the practice session lifecycle
type SessionService interface {
	Start(ctx context.Context, userID string, mode models.SessionMode) (*models.Session, error)
	End(ctx context.Context, sessionID int64) error
	Summary(ctx context.Context, sessionID int64) (*models.SessionSummary, error)
}

type sessionService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	attemptRepo repository.AttemptRepository
	now         func() time.Time
}

// NewSessionService creates a new SessionService
func NewSessionService(userRepo repository.UserRepository, sessionRepo repository.SessionRepository, attemptRepo repository.AttemptRepository) SessionService {
	return &sessionService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		attemptRepo: attemptRepo,
		now:         time.Now,
	}
}

func (s *sessionService) Start(ctx context.Context, userID string, mode models.SessionMode) (*models.Session, error) {
	log := logger.FromContext(ctx)
	log.Debug("starting session: user_id=%s, mode=%s", userID, mode)

	if userID == "" {
		return nil, errors.NewValidationError("user_id", "cannot be empty")
	}
	if mode == "" {
		mode = models.ModePractice
	}
	if !mode.Valid() {
		return nil, errors.NewValidationError("mode", "must be 'PRACTICE', 'CHALLENGE', or 'BOSS'")
	}

	if err := s.userRepo.Upsert(ctx, userID); err != nil {
		log.Error("failed to upsert user: %v", err)
		return nil, errors.NewInternalError(err)
	}

	session, err := s.sessionRepo.Create(ctx, userID, mode, s.now())
	if err != nil {
		log.Error("failed to create session: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return session, nil
}

// End marks the session ended. Ending an ended session is a no-op.
func (s *sessionService) End(ctx context.Context, sessionID int64) error {
	log := logger.FromContext(ctx)
	log.Debug("ending session: id=%d", sessionID)

	session, err := s.sessionRepo.Get(ctx, sessionID)
	if err != nil {
		log.Error("failed to get session: %v", err)
		return errors.NewInternalError(err)
	}
	if session == nil {
		return errors.NewNotFoundError("session", sessionID)
	}
	if !session.Active() {
		log.Debug("session %d already ended at %s", sessionID, session.EndedAt.Format(time.RFC3339))
		return nil
	}

	if err := s.sessionRepo.End(ctx, sessionID, s.now()); err != nil {
		log.Error("failed to end session: %v", err)
		return errors.NewInternalError(err)
	}
	log.Info("session ended: id=%d", sessionID)
	return nil
}

func (s *sessionService) Summary(ctx context.Context, sessionID int64) (*models.SessionSummary, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting session summary: id=%d", sessionID)

	summary, err := s.attemptRepo.SessionSummary(ctx, sessionID)
	if err != nil {
		log.Error("failed to get session summary: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if summary == nil {
		return nil, errors.NewNotFoundError("session", sessionID)
	}
	return summary, nil
}
