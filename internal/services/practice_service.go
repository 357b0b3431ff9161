package services

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/vytor/factflash/internal/catalog"
	"github.com/vytor/factflash/internal/errors"
	"github.com/vytor/factflash/internal/logger"
	"github.com/vytor/factflash/internal/metrics"
	"github.com/vytor/factflash/internal/models"
	"github.com/vytor/factflash/internal/repository"
	"github.com/vytor/factflash/internal/scheduler"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	levelUpBonus  = 200
	correctPoints = 10
)

// PracticeService handles fact scheduling and answer recording
type PracticeService interface {
	EnsureCatalog(ctx context.Context) error
	EnsureUser(ctx context.Context, userID string) error
	EnsureUserFacts(ctx context.Context, userID string) error
	GetNextBatch(ctx context.Context, userID string, batchSize int) ([]models.BatchItem, error)
	RecordAttempt(ctx context.Context, input AttemptInput) (*models.AttemptResult, error)
	MasteryStats(ctx context.Context, userID string) (*models.MasteryStats, error)
}

// AttemptInput is one submitted answer. A nil SessionID starts a new
// practice session.
type AttemptInput struct {
	UserID    string
	SessionID *int64
	FactID    int64
	Answer    int
	LatencyMs int64
	HintUsed  bool
}

// PracticeOptions tunes a PracticeService. Zero values fall back to defaults.
type PracticeOptions struct {
	DefaultBatchSize int
	MaxBatchSize     int
	Now              func() time.Time
}

type practiceService struct {
	factRepo    repository.FactRepository
	userRepo    repository.UserRepository
	masteryRepo repository.MasteryRepository
	sessionRepo repository.SessionRepository
	attemptRepo repository.AttemptRepository
	metrics     *metrics.Metrics

	defaultBatchSize int
	maxBatchSize     int
	now              func() time.Time

	catalogReady atomic.Bool
	ensureGroup  singleflight.Group
}

// NewPracticeService creates a new PracticeService
func NewPracticeService(
	factRepo repository.FactRepository,
	userRepo repository.UserRepository,
	masteryRepo repository.MasteryRepository,
	sessionRepo repository.SessionRepository,
	attemptRepo repository.AttemptRepository,
	m *metrics.Metrics,
	opts PracticeOptions,
) PracticeService {
	if opts.DefaultBatchSize <= 0 {
		opts.DefaultBatchSize = scheduler.DefaultBatchSize
	}
	if opts.MaxBatchSize < opts.DefaultBatchSize {
		opts.MaxBatchSize = opts.DefaultBatchSize
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &practiceService{
		factRepo:         factRepo,
		userRepo:         userRepo,
		masteryRepo:      masteryRepo,
		sessionRepo:      sessionRepo,
		attemptRepo:      attemptRepo,
		metrics:          m,
		defaultBatchSize: opts.DefaultBatchSize,
		maxBatchSize:     opts.MaxBatchSize,
		now:              opts.Now,
	}
}

func (s *practiceService) EnsureCatalog(ctx context.Context) error {
	if s.catalogReady.Load() {
		return nil
	}
	log := logger.FromContext(ctx)

	count, err := s.factRepo.Count(ctx)
	if err != nil {
		log.Error("failed to count facts: %v", err)
		return errors.NewInternalError(err)
	}
	if count < catalog.Size {
		log.Info("seeding fact catalog: have=%d, want=%d", count, catalog.Size)
		if err := s.factRepo.InsertBatch(ctx, catalog.Facts()); err != nil {
			log.Error("failed to seed fact catalog: %v", err)
			return errors.NewInternalError(err)
		}
	}
	s.catalogReady.Store(true)
	return nil
}

func (s *practiceService) EnsureUser(ctx context.Context, userID string) error {
	if userID == "" {
		return errors.NewValidationError("user_id", "cannot be empty")
	}
	if err := s.userRepo.Upsert(ctx, userID); err != nil {
		logger.FromContext(ctx).Error("failed to upsert user %s: %v", userID, err)
		return errors.NewInternalError(err)
	}
	return nil
}

func (s *practiceService) EnsureUserFacts(ctx context.Context, userID string) error {
	log := logger.FromContext(ctx)

	existing, err := s.masteryRepo.Find(ctx, userID, models.MasteryFilter{})
	if err != nil {
		log.Error("failed to load mastery records: %v", err)
		return errors.NewInternalError(err)
	}
	have := make(map[int64]struct{}, len(existing))
	for _, rec := range existing {
		have[rec.FactID] = struct{}{}
	}

	facts, err := s.factRepo.List(ctx, models.FactOrderCanonical, 0)
	if err != nil {
		log.Error("failed to list facts: %v", err)
		return errors.NewInternalError(err)
	}

	now := s.now()
	var missing []models.MasteryRecord
	for _, f := range facts {
		if _, ok := have[f.ID]; !ok {
			missing = append(missing, scheduler.NewRecord(userID, f.ID, now))
		}
	}
	if len(missing) == 0 {
		return nil
	}

	log.Info("seeding %d mastery records for user %s", len(missing), userID)
	if err := s.masteryRepo.InsertIfAbsent(ctx, missing); err != nil {
		log.Error("failed to seed mastery records: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}

// ensure runs every Ensure step for userID. Concurrent callers for the same
// user share one run, which is detached from the leader's cancellation so a
// dropped leader cannot fail the callers that joined it.
func (s *practiceService) ensure(ctx context.Context, userID string) error {
	if err := s.EnsureCatalog(ctx); err != nil {
		return err
	}
	_, err, shared := s.ensureGroup.Do(userID, func() (any, error) {
		runCtx := context.WithoutCancel(ctx)
		if err := s.EnsureUser(runCtx, userID); err != nil {
			return nil, err
		}
		return nil, s.EnsureUserFacts(runCtx, userID)
	})
	if shared {
		logger.FromContext(ctx).Debug("joined in-flight ensure for user %s", userID)
	}
	return err
}

func (s *practiceService) batchSize(requested int) int {
	if requested <= 0 {
		return s.defaultBatchSize
	}
	return min(requested, s.maxBatchSize)
}

func (s *practiceService) GetNextBatch(ctx context.Context, userID string, batchSize int) ([]models.BatchItem, error) {
	log := logger.FromContext(ctx).WithField("user_id", userID)
	size := s.batchSize(batchSize)
	log.Debug("getting next batch: size=%d", size)

	if err := s.ensure(ctx, userID); err != nil {
		return nil, err
	}

	now := s.now()
	var due, backlog []models.MasteryRecord
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		due, err = s.masteryRepo.Find(gctx, userID, models.MasteryFilter{DueBefore: &now})
		return err
	})
	g.Go(func() error {
		var err error
		backlog, err = s.masteryRepo.Find(gctx, userID, models.MasteryFilter{DueAfter: &now})
		return err
	})
	if err := g.Wait(); err != nil {
		log.Error("failed to load mastery records: %v", err)
		return nil, errors.NewInternalError(err)
	}

	facts, err := s.factRepo.List(ctx, models.FactOrderCanonical, 0)
	if err != nil {
		log.Error("failed to list facts: %v", err)
		return nil, errors.NewInternalError(err)
	}
	byID := make(map[int64]models.Fact, len(facts))
	for _, f := range facts {
		byID[f.ID] = f
	}

	selected := scheduler.SelectNextBatch(due, backlog, size)
	items := make([]models.BatchItem, 0, len(selected))
	for _, rec := range selected {
		f, ok := byID[rec.FactID]
		if !ok {
			log.Warn("mastery record %d references unknown fact %d", rec.ID, rec.FactID)
			continue
		}
		items = append(items, batchItem(f, rec))
	}

	if len(items) > 0 {
		log.Debug("selected %d facts (due=%d, backlog=%d)", len(items), len(due), len(backlog))
		s.metrics.ObserveBatch(len(items), false)
		return items, nil
	}

	items = s.fallbackBatch(ctx, size, now, append(due, backlog...))
	s.metrics.ObserveBatch(len(items), true)
	return items, nil
}

// fallbackBatch serves the first facts in catalog order, annotated with any
// mastery data the user has. It never fails.
func (s *practiceService) fallbackBatch(ctx context.Context, size int, now time.Time, records []models.MasteryRecord) []models.BatchItem {
	log := logger.FromContext(ctx)
	log.Warn("scheduler selected nothing, falling back to catalog order: size=%d", size)

	facts, err := s.factRepo.List(ctx, models.FactOrderCanonical, size)
	if err != nil {
		log.Error("failed to list facts for fallback batch: %v", err)
		return []models.BatchItem{}
	}

	byFact := make(map[int64]models.MasteryRecord, len(records))
	for _, rec := range records {
		byFact[rec.FactID] = rec
	}

	items := make([]models.BatchItem, 0, len(facts))
	for _, f := range facts {
		rec, ok := byFact[f.ID]
		if !ok {
			rec = models.MasteryRecord{MasteryLevel: models.MinMasteryLevel, DueAt: now}
		}
		items = append(items, batchItem(f, rec))
	}
	return items
}

func batchItem(f models.Fact, rec models.MasteryRecord) models.BatchItem {
	return models.BatchItem{
		FactID:       f.ID,
		A:            f.A,
		B:            f.B,
		Op:           f.Op,
		MasteryLevel: rec.MasteryLevel,
		DueAt:        rec.DueAt,
	}
}

func (s *practiceService) RecordAttempt(ctx context.Context, input AttemptInput) (*models.AttemptResult, error) {
	log := logger.FromContext(ctx).WithFields(map[string]any{"user_id": input.UserID, "fact_id": input.FactID})
	log.Debug("recording attempt: answer=%d, latency_ms=%d, hint_used=%v", input.Answer, input.LatencyMs, input.HintUsed)

	if input.UserID == "" {
		return nil, errors.NewValidationError("user_id", "cannot be empty")
	}
	if input.LatencyMs < 0 {
		return nil, errors.NewValidationError("latency_ms", "cannot be negative")
	}

	if err := s.EnsureCatalog(ctx); err != nil {
		return nil, err
	}
	fact, err := s.factRepo.Get(ctx, input.FactID)
	if err != nil {
		log.Error("failed to get fact: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if fact == nil {
		return nil, errors.NewNotFoundError("fact", input.FactID)
	}
	expected := fact.Product()
	correct := input.Answer == expected

	if err := s.ensure(ctx, input.UserID); err != nil {
		return nil, err
	}

	now := s.now()
	session, err := s.existingSession(ctx, input.UserID, input.SessionID)
	if err != nil {
		return nil, err
	}

	// The session and attempt rows are only written once the mastery update
	// has landed.
	rec, err := s.masteryRepo.Get(ctx, input.UserID, fact.ID)
	if err != nil {
		log.Error("failed to get mastery record: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if rec == nil {
		log.Error("mastery record missing after ensure")
		return nil, errors.NewDataIntegrityError("mastery record missing for user "+input.UserID, nil)
	}

	prevLevel := rec.MasteryLevel
	next := scheduler.UpdateOnAttempt(*rec, correct, now)
	latency := input.LatencyMs
	accuracy := 0.0
	if correct {
		accuracy = 1
	}
	next.LastLatencyMs = &latency
	next.LastAccuracy = &accuracy

	updated, err := s.masteryRepo.Update(ctx, next)
	if err != nil {
		log.Error("failed to update mastery record: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if updated == nil {
		log.Error("mastery record %d vanished during update", rec.ID)
		return nil, errors.NewDataIntegrityError("mastery record missing for user "+input.UserID, nil)
	}

	if session == nil {
		if session, err = s.sessionRepo.Create(ctx, input.UserID, models.ModePractice, now); err != nil {
			log.Error("failed to create implicit session: %v", err)
			return nil, errors.NewInternalError(err)
		}
	}

	if _, err := s.attemptRepo.Insert(ctx, models.Attempt{
		SessionID: session.ID,
		FactID:    fact.ID,
		Correct:   correct,
		LatencyMs: input.LatencyMs,
		HintUsed:  input.HintUsed,
		CreatedAt: now,
	}); err != nil {
		log.Error("failed to insert attempt: %v", err)
		return nil, errors.NewInternalError(err)
	}

	awarded := reward(correct, prevLevel, updated.MasteryLevel)
	s.metrics.ObserveAttempt(correct, awarded)
	log.Info("attempt recorded: correct=%v, level %d->%d, awarded=%d", correct, prevLevel, updated.MasteryLevel, awarded)

	return &models.AttemptResult{
		Correct:      correct,
		Expected:     expected,
		Awarded:      awarded,
		MasteryLevel: updated.MasteryLevel,
		Streak:       updated.Streak,
		DueAt:        updated.DueAt,
		SessionID:    session.ID,
	}, nil
}

// reward pays the level-up bonus every time a fact climbs off level 0,
// including after decaying back to it.
func reward(correct bool, prevLevel, newLevel int) int {
	switch {
	case !correct:
		return 0
	case prevLevel == models.MinMasteryLevel && newLevel > prevLevel:
		return levelUpBonus
	default:
		return correctPoints
	}
}

// existingSession loads and checks the session an attempt names. It returns
// nil without error when no session was named.
func (s *practiceService) existingSession(ctx context.Context, userID string, sessionID *int64) (*models.Session, error) {
	if sessionID == nil {
		return nil, nil
	}

	session, err := s.sessionRepo.Get(ctx, *sessionID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to get session: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if session == nil || session.UserID != userID {
		return nil, errors.NewNotFoundError("session", *sessionID)
	}
	if !session.Active() {
		return nil, errors.NewConflictError("session has already ended")
	}
	return session, nil
}

func (s *practiceService) MasteryStats(ctx context.Context, userID string) (*models.MasteryStats, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting mastery stats: user_id=%s", userID)

	if err := s.ensure(ctx, userID); err != nil {
		return nil, err
	}

	stats, err := s.masteryRepo.Stats(ctx, userID, s.now())
	if err != nil {
		log.Error("failed to get mastery stats: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return stats, nil
}
