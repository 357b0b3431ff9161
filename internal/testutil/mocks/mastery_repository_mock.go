package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/factflash/internal/models"
)

// MockMasteryRepository is a mock implementation of repository.MasteryRepository
type MockMasteryRepository struct {
	mock.Mock
}

func (m *MockMasteryRepository) Find(ctx context.Context, userID string, filter models.MasteryFilter) ([]models.MasteryRecord, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MasteryRecord), args.Error(1)
}

func (m *MockMasteryRepository) InsertIfAbsent(ctx context.Context, records []models.MasteryRecord) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func (m *MockMasteryRepository) Get(ctx context.Context, userID string, factID int64) (*models.MasteryRecord, error) {
	args := m.Called(ctx, userID, factID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MasteryRecord), args.Error(1)
}

func (m *MockMasteryRepository) Update(ctx context.Context, record models.MasteryRecord) (*models.MasteryRecord, error) {
	args := m.Called(ctx, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MasteryRecord), args.Error(1)
}

func (m *MockMasteryRepository) Stats(ctx context.Context, userID string, now time.Time) (*models.MasteryStats, error) {
	args := m.Called(ctx, userID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MasteryStats), args.Error(1)
}
