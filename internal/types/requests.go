package types

import "github.com/dahby/13-14-relationship-mapping/internal/models"

// CreateFoodRequest represents the request body for creating a food
type CreateFoodRequest struct {
	Name   string `json:"name" binding:"required"`
	Recipe string `json:"recipe" binding:"required"`
}

// UpdateFoodRequest represents the request body for updating a food.
// Omitted fields keep their stored value.
type UpdateFoodRequest struct {
	Name   *string `json:"name" binding:"omitempty,min=1"`
	Recipe *string `json:"recipe" binding:"omitempty,min=1"`
}

// ToUpdate converts the request into a store-level partial update
func (r *UpdateFoodRequest) ToUpdate() models.FoodUpdate {
	return models.FoodUpdate{Name: r.Name, Recipe: r.Recipe}
}
