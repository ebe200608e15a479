package service

import (
	"context"

	"github.com/dahby/13-14-relationship-mapping/internal/models"
	"github.com/dahby/13-14-relationship-mapping/internal/types"
)

// IFoodService defines the interface for food operations.
// Identifiers arrive as raw path segments; parsing them is part of the contract.
type IFoodService interface {
	CreateFood(ctx context.Context, req *types.CreateFoodRequest) (*models.Food, error)
	GetFood(ctx context.Context, rawID string) (*models.Food, error)
	UpdateFood(ctx context.Context, rawID string, req *types.UpdateFoodRequest) (*models.Food, error)
	DeleteFood(ctx context.Context, rawID string) error
}
