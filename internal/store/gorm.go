package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/dahby/13-14-relationship-mapping/internal/models"
)

// GormStore keeps foods in a SQL table through gorm.
// Name uniqueness is enforced by the idx_foods_name unique index.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a GormStore over an opened database
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Create inserts a new food and assigns its ID and timestamp
func (s *GormStore) Create(ctx context.Context, food *models.Food) error {
	food.PrepareForInsert(time.Now())
	if err := s.db.WithContext(ctx).Create(food).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateName
		}
		return fmt.Errorf("failed to create food: %w", err)
	}
	return nil
}

// FindByID retrieves a food by ID
func (s *GormStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Food, error) {
	var food models.Food
	if err := s.db.WithContext(ctx).First(&food, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find food: %w", err)
	}
	return &food, nil
}

// FindByField retrieves the first food whose field equals value
func (s *GormStore) FindByField(ctx context.Context, field, value string) (*models.Food, error) {
	col, err := columnFor(field)
	if err != nil {
		return nil, err
	}

	var food models.Food
	if err := s.db.WithContext(ctx).Where(col+" = ?", value).First(&food).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find food by %s: %w", field, err)
	}
	return &food, nil
}

// Update merges the update into an existing food and returns the stored result
func (s *GormStore) Update(ctx context.Context, id uuid.UUID, update models.FoodUpdate) (*models.Food, error) {
	var food models.Food
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&food, "id = ?", id).Error; err != nil {
			return err
		}
		if update.IsEmpty() {
			return nil
		}
		if err := tx.Model(&models.Food{}).Where("id = ?", id).Updates(update.Columns()).Error; err != nil {
			return err
		}
		return tx.First(&food, "id = ?", id).Error
	})
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrNotFound
		case isUniqueViolation(err):
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("failed to update food: %w", err)
	}
	return &food, nil
}

// Delete removes a food by ID
func (s *GormStore) Delete(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&models.Food{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete food: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Truncate removes every food. Used between tests and by the seeder's reset flag.
func (s *GormStore) Truncate(ctx context.Context) error {
	return s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Food{}).Error
}

// isUniqueViolation recognises unique index errors from every dialector we run on:
// gorm's translated error, lib/pq's 23505, and sqlite's constraint message.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code.Name() == "unique_violation"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
