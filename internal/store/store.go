// Package store holds the persistence collaborators behind the food service.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/dahby/13-14-relationship-mapping/internal/models"
)

var (
	// ErrNotFound is returned when no record matches the lookup.
	ErrNotFound = errors.New("food not found")
	// ErrDuplicateName is returned when a write would break name uniqueness.
	ErrDuplicateName = errors.New("food name already exists")
	// ErrUnknownField is returned by FindByField for fields that cannot be searched.
	ErrUnknownField = errors.New("unknown food field")
)

// FoodStore is a document collection of foods keyed by ID with a unique name.
// Implementations must enforce name uniqueness atomically with the write.
type FoodStore interface {
	Create(ctx context.Context, food *models.Food) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Food, error)
	FindByField(ctx context.Context, field, value string) (*models.Food, error)
	Update(ctx context.Context, id uuid.UUID, update models.FoodUpdate) (*models.Food, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// searchableFields maps FindByField names to storage columns.
var searchableFields = map[string]string{
	"name":   "name",
	"recipe": "recipe",
}

func columnFor(field string) (string, error) {
	col, ok := searchableFields[field]
	if !ok {
		return "", ErrUnknownField
	}
	return col, nil
}
