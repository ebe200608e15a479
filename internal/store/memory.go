package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dahby/13-14-relationship-mapping/internal/models"
)

// MemoryStore is an in-process FoodStore. Every method runs under one lock,
// so the uniqueness check and the write are a single step.
type MemoryStore struct {
	mu     sync.RWMutex
	foods  map[uuid.UUID]models.Food
	byName map[string]uuid.UUID
	now    func() time.Time
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		foods:  make(map[uuid.UUID]models.Food),
		byName: make(map[string]uuid.UUID),
		now:    time.Now,
	}
}

func (s *MemoryStore) Create(ctx context.Context, food *models.Food) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byName[food.Name]; taken {
		return ErrDuplicateName
	}
	food.PrepareForInsert(s.now())
	s.foods[food.ID] = *food
	s.byName[food.Name] = food.ID
	return nil
}

func (s *MemoryStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Food, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	food, ok := s.foods[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &food, nil
}

func (s *MemoryStore) FindByField(ctx context.Context, field, value string) (*models.Food, error) {
	if _, err := columnFor(field); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if field == "name" {
		id, ok := s.byName[value]
		if !ok {
			return nil, ErrNotFound
		}
		food := s.foods[id]
		return &food, nil
	}
	// Lowest id wins, the same row the SQL store's First returns.
	var match *models.Food
	for id, food := range s.foods {
		if food.Recipe != value {
			continue
		}
		if match == nil || id.String() < match.ID.String() {
			food := food
			match = &food
		}
	}
	if match == nil {
		return nil, ErrNotFound
	}
	return match, nil
}

func (s *MemoryStore) Update(ctx context.Context, id uuid.UUID, update models.FoodUpdate) (*models.Food, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	food, ok := s.foods[id]
	if !ok {
		return nil, ErrNotFound
	}
	if update.Name != nil && *update.Name != food.Name {
		if _, taken := s.byName[*update.Name]; taken {
			return nil, ErrDuplicateName
		}
		delete(s.byName, food.Name)
		s.byName[*update.Name] = id
	}
	update.ApplyTo(&food)
	s.foods[id] = food
	return &food, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	food, ok := s.foods[id]
	if !ok {
		return ErrNotFound
	}
	delete(s.foods, id)
	delete(s.byName, food.Name)
	return nil
}

// Reset drops every stored food.
func (s *MemoryStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.foods = make(map[uuid.UUID]models.Food)
	s.byName = make(map[string]uuid.UUID)
}

// Len returns the number of stored foods.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.foods)
}
