package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/dahby/13-14-relationship-mapping/internal/models"
	"github.com/dahby/13-14-relationship-mapping/internal/store"
	"github.com/dahby/13-14-relationship-mapping/internal/types"
)

// FoodService handles food operations
type FoodService struct {
	store store.FoodStore
}

// Ensure FoodService implements IFoodService
var _ IFoodService = (*FoodService)(nil)

// NewFoodService creates a new FoodService instance
func NewFoodService(foods store.FoodStore) *FoodService {
	return &FoodService{store: foods}
}

// CreateFood validates and stores a new food
func (s *FoodService) CreateFood(ctx context.Context, req *types.CreateFoodRequest) (*models.Food, error) {
	if isBlank(req.Name) {
		return nil, &ValidationError{Field: "name", Message: "is required"}
	}
	if isBlank(req.Recipe) {
		return nil, &ValidationError{Field: "recipe", Message: "is required"}
	}

	if err := s.ensureNameFree(ctx, req.Name, uuid.Nil); err != nil {
		return nil, err
	}

	food := &models.Food{Name: req.Name, Recipe: req.Recipe}
	if err := s.store.Create(ctx, food); err != nil {
		if errors.Is(err, store.ErrDuplicateName) {
			return nil, &ConflictError{Field: "name", Value: req.Name}
		}
		return nil, fmt.Errorf("failed to create food: %w", err)
	}

	slog.Info("food created", "id", food.ID, "name", food.Name)
	return food, nil
}

// GetFood retrieves a food by its raw identifier
func (s *FoodService) GetFood(ctx context.Context, rawID string) (*models.Food, error) {
	id, err := models.ParseFoodID(rawID)
	if err != nil {
		return nil, &NotFoundError{ID: rawID}
	}

	food, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, &NotFoundError{ID: rawID}
		}
		return nil, fmt.Errorf("failed to get food: %w", err)
	}
	return food, nil
}

// UpdateFood merges the supplied fields into an existing food
func (s *FoodService) UpdateFood(ctx context.Context, rawID string, req *types.UpdateFoodRequest) (*models.Food, error) {
	id, err := models.ParseFoodID(rawID)
	if err != nil {
		return nil, &NotFoundError{ID: rawID}
	}

	if req.Name != nil && isBlank(*req.Name) {
		return nil, &ValidationError{Field: "name", Message: "must not be empty"}
	}
	if req.Recipe != nil && isBlank(*req.Recipe) {
		return nil, &ValidationError{Field: "recipe", Message: "must not be empty"}
	}

	if req.Name != nil {
		if err := s.ensureNameFree(ctx, *req.Name, id); err != nil {
			return nil, err
		}
	}

	food, err := s.store.Update(ctx, id, req.ToUpdate())
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return nil, &NotFoundError{ID: rawID}
		case errors.Is(err, store.ErrDuplicateName) && req.Name != nil:
			return nil, &ConflictError{Field: "name", Value: *req.Name}
		}
		return nil, fmt.Errorf("failed to update food: %w", err)
	}

	slog.Info("food updated", "id", food.ID, "name", food.Name)
	return food, nil
}

// DeleteFood removes a food. A missing identifier is a bad request,
// a malformed one is treated as not found.
func (s *FoodService) DeleteFood(ctx context.Context, rawID string) error {
	id, err := models.ParseFoodID(rawID)
	if err != nil {
		if errors.Is(err, models.ErrMissingID) {
			return &ValidationError{Field: "id", Message: "is required"}
		}
		return &NotFoundError{ID: rawID}
	}

	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return &NotFoundError{ID: rawID}
		}
		return fmt.Errorf("failed to delete food: %w", err)
	}

	slog.Info("food deleted", "id", id)
	return nil
}

// ensureNameFree fails with a ConflictError when name belongs to a food other than self.
// The store's unique index remains the authority; this only gives an early answer.
func (s *FoodService) ensureNameFree(ctx context.Context, name string, self uuid.UUID) error {
	existing, err := s.store.FindByField(ctx, "name", name)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("failed to check food name: %w", err)
	case existing.ID != self:
		return &ConflictError{Field: "name", Value: name}
	}
	return nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
