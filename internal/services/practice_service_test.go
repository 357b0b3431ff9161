package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/factflash/internal/errors"
	"github.com/vytor/factflash/internal/models"
	"github.com/vytor/factflash/internal/testutil/mocks"
)

type practiceMocks struct {
	facts    *mocks.MockFactRepository
	users    *mocks.MockUserRepository
	mastery  *mocks.MockMasteryRepository
	sessions *mocks.MockSessionRepository
	attempts *mocks.MockAttemptRepository
}

func newMockedPracticeService(now time.Time) (PracticeService, practiceMocks) {
	m := practiceMocks{
		facts:    new(mocks.MockFactRepository),
		users:    new(mocks.MockUserRepository),
		mastery:  new(mocks.MockMasteryRepository),
		sessions: new(mocks.MockSessionRepository),
		attempts: new(mocks.MockAttemptRepository),
	}
	svc := NewPracticeService(m.facts, m.users, m.mastery, m.sessions, m.attempts, nil, PracticeOptions{
		Now: func() time.Time { return now },
	})
	return svc, m
}

func TestReward(t *testing.T) {
	tests := []struct {
		name      string
		correct   bool
		prevLevel int
		newLevel  int
		want      int
	}{
		{"first level up", true, 0, 1, 200},
		{"level up from one", true, 1, 2, 10},
		{"correct at max", true, 5, 5, 10},
		{"incorrect", false, 2, 1, 0},
		{"incorrect at zero", false, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, reward(tt.correct, tt.prevLevel, tt.newLevel))
		})
	}
}

func TestBatchSize(t *testing.T) {
	svc := NewPracticeService(nil, nil, nil, nil, nil, nil, PracticeOptions{DefaultBatchSize: 10, MaxBatchSize: 50}).(*practiceService)

	assert.Equal(t, 10, svc.batchSize(0))
	assert.Equal(t, 10, svc.batchSize(-3))
	assert.Equal(t, 7, svc.batchSize(7))
	assert.Equal(t, 50, svc.batchSize(500))
}

func TestGetNextBatchFallsBackToCatalogOrder(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	svc, m := newMockedPracticeService(now)

	facts := []models.Fact{
		{ID: 1, A: 1, B: 1, Op: models.OpMultiply},
		{ID: 2, A: 1, B: 2, Op: models.OpMultiply},
	}
	m.facts.On("Count", mock.Anything).Return(144, nil)
	m.users.On("Upsert", mock.Anything, "u1").Return(nil)
	m.mastery.On("Find", mock.Anything, "u1", mock.Anything).Return([]models.MasteryRecord{}, nil)
	m.mastery.On("InsertIfAbsent", mock.Anything, mock.Anything).Return(nil)
	m.facts.On("List", mock.Anything, models.FactOrderCanonical, 0).Return(facts, nil)
	m.facts.On("List", mock.Anything, models.FactOrderCanonical, 10).Return(facts, nil)

	batch, err := svc.GetNextBatch(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, batch, 2)
	assert.Equal(t, int64(1), batch[0].FactID)
	assert.Equal(t, int64(2), batch[1].FactID)
	assert.Equal(t, 0, batch[0].MasteryLevel)
	assert.True(t, now.Equal(batch[0].DueAt))

	m.facts.AssertCalled(t, "List", mock.Anything, models.FactOrderCanonical, 10)
}

func TestGetNextBatchFallbackNeverErrors(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	svc, m := newMockedPracticeService(now)

	m.facts.On("Count", mock.Anything).Return(144, nil)
	m.users.On("Upsert", mock.Anything, "u1").Return(nil)
	m.mastery.On("Find", mock.Anything, "u1", mock.Anything).Return(nil, nil)
	m.facts.On("List", mock.Anything, models.FactOrderCanonical, 0).Return([]models.Fact{}, nil)
	m.facts.On("List", mock.Anything, models.FactOrderCanonical, 5).Return(nil, assert.AnError)

	batch, err := svc.GetNextBatch(ctx, "u1", 5)
	require.NoError(t, err)
	assert.Empty(t, batch)
}

func TestRecordAttemptUnknownFact(t *testing.T) {
	svc, m := newMockedPracticeService(time.Now())
	m.facts.On("Count", mock.Anything).Return(144, nil)
	m.facts.On("Get", mock.Anything, int64(999)).Return(nil, nil)

	_, err := svc.RecordAttempt(context.Background(), AttemptInput{UserID: "u1", FactID: 999, Answer: 1})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))
	m.attempts.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestRecordAttemptMissingMasteryIsDataIntegrity(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	svc, m := newMockedPracticeService(now)

	fact := models.Fact{ID: 5, A: 3, B: 4, Op: models.OpMultiply}
	m.facts.On("Get", mock.Anything, int64(5)).Return(&fact, nil)
	m.facts.On("Count", mock.Anything).Return(144, nil)
	m.users.On("Upsert", mock.Anything, "u1").Return(nil)
	m.mastery.On("Find", mock.Anything, "u1", models.MasteryFilter{}).Return([]models.MasteryRecord{{FactID: 5}}, nil)
	m.facts.On("List", mock.Anything, models.FactOrderCanonical, 0).Return([]models.Fact{fact}, nil)
	m.mastery.On("Get", mock.Anything, "u1", int64(5)).Return(nil, nil)

	_, err := svc.RecordAttempt(ctx, AttemptInput{UserID: "u1", FactID: 5, Answer: 12})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeDataIntegrity))
	assert.False(t, errors.IsCode(err, errors.ErrCodeNotFound))
	m.mastery.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	m.sessions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	m.attempts.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestRecordAttemptFailedUpdateWritesNothing(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	svc, m := newMockedPracticeService(now)

	fact := models.Fact{ID: 5, A: 3, B: 4, Op: models.OpMultiply}
	rec := models.MasteryRecord{ID: 9, UserID: "u1", FactID: 5, DueAt: now}
	m.facts.On("Get", mock.Anything, int64(5)).Return(&fact, nil)
	m.facts.On("Count", mock.Anything).Return(144, nil)
	m.users.On("Upsert", mock.Anything, "u1").Return(nil)
	m.mastery.On("Find", mock.Anything, "u1", models.MasteryFilter{}).Return([]models.MasteryRecord{rec}, nil)
	m.facts.On("List", mock.Anything, models.FactOrderCanonical, 0).Return([]models.Fact{fact}, nil)
	m.mastery.On("Get", mock.Anything, "u1", int64(5)).Return(&rec, nil)
	m.mastery.On("Update", mock.Anything, mock.AnythingOfType("models.MasteryRecord")).Return(nil, assert.AnError)

	_, err := svc.RecordAttempt(ctx, AttemptInput{UserID: "u1", FactID: 5, Answer: 12})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInternal))
	m.sessions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	m.attempts.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestRecordAttemptWritesAttemptAfterUpdate(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	svc, m := newMockedPracticeService(now)

	fact := models.Fact{ID: 5, A: 3, B: 4, Op: models.OpMultiply}
	rec := models.MasteryRecord{ID: 9, UserID: "u1", FactID: 5, DueAt: now}
	var order []string
	m.facts.On("Get", mock.Anything, int64(5)).Return(&fact, nil)
	m.facts.On("Count", mock.Anything).Return(144, nil)
	m.users.On("Upsert", mock.Anything, "u1").Return(nil)
	m.mastery.On("Find", mock.Anything, "u1", models.MasteryFilter{}).Return([]models.MasteryRecord{rec}, nil)
	m.facts.On("List", mock.Anything, models.FactOrderCanonical, 0).Return([]models.Fact{fact}, nil)
	m.mastery.On("Get", mock.Anything, "u1", int64(5)).Return(&rec, nil)
	m.mastery.On("Update", mock.Anything, mock.AnythingOfType("models.MasteryRecord")).
		Run(func(mock.Arguments) { order = append(order, "update") }).
		Return(&models.MasteryRecord{ID: 9, UserID: "u1", FactID: 5, MasteryLevel: 1, Streak: 1, DueAt: now}, nil)
	m.sessions.On("Create", mock.Anything, "u1", models.ModePractice, now).
		Run(func(mock.Arguments) { order = append(order, "session") }).
		Return(&models.Session{ID: 3, UserID: "u1"}, nil)
	m.attempts.On("Insert", mock.Anything, mock.AnythingOfType("models.Attempt")).
		Run(func(mock.Arguments) { order = append(order, "attempt") }).
		Return(int64(1), nil)

	result, err := svc.RecordAttempt(ctx, AttemptInput{UserID: "u1", FactID: 5, Answer: 12})
	require.NoError(t, err)
	assert.True(t, result.Correct)
	assert.Equal(t, int64(3), result.SessionID)
	assert.Equal(t, []string{"update", "session", "attempt"}, order)
}

// gatedUserRepository holds Upsert open until released, then reports the
// state of the context it was handed.
type gatedUserRepository struct {
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (r *gatedUserRepository) Upsert(ctx context.Context, id string) error {
	r.once.Do(func() { close(r.entered) })
	<-r.release
	return ctx.Err()
}

func TestEnsureFollowerSurvivesLeaderCancel(t *testing.T) {
	users := &gatedUserRepository{entered: make(chan struct{}), release: make(chan struct{})}
	facts := new(mocks.MockFactRepository)
	mastery := new(mocks.MockMasteryRepository)
	facts.On("Count", mock.Anything).Return(144, nil)
	facts.On("List", mock.Anything, models.FactOrderCanonical, 0).Return([]models.Fact{{ID: 1, A: 1, B: 1, Op: models.OpMultiply}}, nil)
	mastery.On("Find", mock.Anything, "u1", models.MasteryFilter{}).Return([]models.MasteryRecord{}, nil)
	mastery.On("InsertIfAbsent", mock.Anything, mock.Anything).Return(nil)

	svc := NewPracticeService(facts, users, mastery, new(mocks.MockSessionRepository), new(mocks.MockAttemptRepository), nil, PracticeOptions{}).(*practiceService)
	require.NoError(t, svc.EnsureCatalog(context.Background()))

	leaderCtx, cancel := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() { leaderErr <- svc.ensure(leaderCtx, "u1") }()
	<-users.entered

	followerErr := make(chan error, 1)
	go func() { followerErr <- svc.ensure(context.Background(), "u1") }()
	// Give the follower time to join the in-flight call.
	time.Sleep(50 * time.Millisecond)

	cancel()
	close(users.release)

	require.NoError(t, <-followerErr)
	require.NoError(t, <-leaderErr)
	mastery.AssertCalled(t, "InsertIfAbsent", mock.Anything, mock.Anything)
}

func TestRecordAttemptValidation(t *testing.T) {
	svc, _ := newMockedPracticeService(time.Now())

	_, err := svc.RecordAttempt(context.Background(), AttemptInput{FactID: 1})
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))

	_, err = svc.RecordAttempt(context.Background(), AttemptInput{UserID: "u1", FactID: 1, LatencyMs: -1})
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
}

func TestRecordAttemptStorageFailureIsInternal(t *testing.T) {
	svc, m := newMockedPracticeService(time.Now())
	m.facts.On("Count", mock.Anything).Return(144, nil)
	m.facts.On("Get", mock.Anything, int64(1)).Return(nil, assert.AnError)

	_, err := svc.RecordAttempt(context.Background(), AttemptInput{UserID: "u1", FactID: 1})
	assert.True(t, errors.IsCode(err, errors.ErrCodeInternal))
}

func TestEnsureCatalogSeedsOnce(t *testing.T) {
	ctx := context.Background()
	svc, m := newMockedPracticeService(time.Now())

	m.facts.On("Count", mock.Anything).Return(0, nil).Once()
	m.facts.On("InsertBatch", mock.Anything, mock.MatchedBy(func(facts []models.Fact) bool {
		return len(facts) == 144
	})).Return(nil).Once()

	require.NoError(t, svc.EnsureCatalog(ctx))
	require.NoError(t, svc.EnsureCatalog(ctx))
	m.facts.AssertExpectations(t)
}
