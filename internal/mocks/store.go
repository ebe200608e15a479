package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dahby/13-14-relationship-mapping/internal/models"
)

// MockFoodStore is a mock implementation of store.FoodStore
type MockFoodStore struct {
	mock.Mock
}

// Create mocks the Create method
func (m *MockFoodStore) Create(ctx context.Context, food *models.Food) error {
	args := m.Called(ctx, food)
	return args.Error(0)
}

// FindByID mocks the FindByID method
func (m *MockFoodStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Food, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Food), args.Error(1)
}

// FindByField mocks the FindByField method
func (m *MockFoodStore) FindByField(ctx context.Context, field, value string) (*models.Food, error) {
	args := m.Called(ctx, field, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Food), args.Error(1)
}

// Update mocks the Update method
func (m *MockFoodStore) Update(ctx context.Context, id uuid.UUID, update models.FoodUpdate) (*models.Food, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Food), args.Error(1)
}

// Delete mocks the Delete method
func (m *MockFoodStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
