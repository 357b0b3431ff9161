package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/factflash/internal/models"
)

// MockFactRepository is a mock implementation of repository.FactRepository
type MockFactRepository struct {
	mock.Mock
}

func (m *MockFactRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockFactRepository) InsertBatch(ctx context.Context, facts []models.Fact) error {
	args := m.Called(ctx, facts)
	return args.Error(0)
}

func (m *MockFactRepository) Get(ctx context.Context, id int64) (*models.Fact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Fact), args.Error(1)
}

func (m *MockFactRepository) List(ctx context.Context, orderBy models.FactOrder, take int) ([]models.Fact, error) {
	args := m.Called(ctx, orderBy, take)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Fact), args.Error(1)
}

// MockUserRepository is a mock implementation of repository.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Upsert(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
