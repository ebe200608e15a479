package store_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dahby/13-14-relationship-mapping/internal/models"
	"github.com/dahby/13-14-relationship-mapping/internal/store"
)

func strPtr(s string) *string { return &s }

// runFoodStoreContract exercises the behaviour every FoodStore must share.
func runFoodStoreContract(t *testing.T, newStore func(t *testing.T) store.FoodStore) {
	ctx := context.Background()

	t.Run("create assigns identity", func(t *testing.T) {
		s := newStore(t)
		food := &models.Food{Name: "Pie", Recipe: "mix and bake"}

		require.NoError(t, s.Create(ctx, food))
		assert.NotEqual(t, uuid.Nil, food.ID)
		assert.False(t, food.Timestamp.IsZero())
	})

	t.Run("create rejects duplicate name", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Create(ctx, &models.Food{Name: "Pie", Recipe: "mix and bake"}))

		err := s.Create(ctx, &models.Food{Name: "Pie", Recipe: "something else"})
		assert.ErrorIs(t, err, store.ErrDuplicateName)
	})

	t.Run("find by id round trips", func(t *testing.T) {
		s := newStore(t)
		food := &models.Food{Name: "Soup", Recipe: "boil"}
		require.NoError(t, s.Create(ctx, food))

		got, err := s.FindByID(ctx, food.ID)
		require.NoError(t, err)
		assert.Equal(t, food.ID, got.ID)
		assert.Equal(t, "Soup", got.Name)
		assert.Equal(t, "boil", got.Recipe)
		assert.True(t, food.Timestamp.Equal(got.Timestamp), "created %s, stored %s", food.Timestamp, got.Timestamp)

		_, err = s.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("find by field", func(t *testing.T) {
		s := newStore(t)
		food := &models.Food{Name: "Bread", Recipe: "knead"}
		require.NoError(t, s.Create(ctx, food))

		got, err := s.FindByField(ctx, "name", "Bread")
		require.NoError(t, err)
		assert.Equal(t, food.ID, got.ID)

		got, err = s.FindByField(ctx, "recipe", "knead")
		require.NoError(t, err)
		assert.Equal(t, food.ID, got.ID)

		_, err = s.FindByField(ctx, "name", "Cake")
		assert.ErrorIs(t, err, store.ErrNotFound)

		_, err = s.FindByField(ctx, "id", food.ID.String())
		assert.ErrorIs(t, err, store.ErrUnknownField)
	})

	t.Run("find by shared field picks lowest id", func(t *testing.T) {
		s := newStore(t)
		var lowest uuid.UUID
		for _, name := range []string{"Toast", "Crostini", "Bruschetta", "Croutons", "Panzanella"} {
			food := &models.Food{Name: name, Recipe: "stale bread"}
			require.NoError(t, s.Create(ctx, food))
			if lowest == uuid.Nil || food.ID.String() < lowest.String() {
				lowest = food.ID
			}
		}

		for i := 0; i < 5; i++ {
			got, err := s.FindByField(ctx, "recipe", "stale bread")
			require.NoError(t, err)
			assert.Equal(t, lowest, got.ID)
		}
	})

	t.Run("update merges fields", func(t *testing.T) {
		s := newStore(t)
		food := &models.Food{Name: "Stew", Recipe: "simmer"}
		require.NoError(t, s.Create(ctx, food))

		got, err := s.Update(ctx, food.ID, models.FoodUpdate{Name: strPtr("new food name")})
		require.NoError(t, err)
		assert.Equal(t, food.ID, got.ID)
		assert.Equal(t, "new food name", got.Name)
		assert.Equal(t, "simmer", got.Recipe)

		reloaded, err := s.FindByID(ctx, food.ID)
		require.NoError(t, err)
		assert.Equal(t, "new food name", reloaded.Name)

		// the old name is free again
		require.NoError(t, s.Create(ctx, &models.Food{Name: "Stew", Recipe: "again"}))
	})

	t.Run("update with no fields returns the record", func(t *testing.T) {
		s := newStore(t)
		food := &models.Food{Name: "Tea", Recipe: "steep"}
		require.NoError(t, s.Create(ctx, food))

		got, err := s.Update(ctx, food.ID, models.FoodUpdate{})
		require.NoError(t, err)
		assert.Equal(t, "Tea", got.Name)
	})

	t.Run("update to own name is allowed", func(t *testing.T) {
		s := newStore(t)
		food := &models.Food{Name: "Rice", Recipe: "steam"}
		require.NoError(t, s.Create(ctx, food))

		got, err := s.Update(ctx, food.ID, models.FoodUpdate{Name: strPtr("Rice"), Recipe: strPtr("boil")})
		require.NoError(t, err)
		assert.Equal(t, "boil", got.Recipe)
	})

	t.Run("update rejects name of another record", func(t *testing.T) {
		s := newStore(t)
		first := &models.Food{Name: "Taco", Recipe: "fold"}
		second := &models.Food{Name: "Burrito", Recipe: "roll"}
		require.NoError(t, s.Create(ctx, first))
		require.NoError(t, s.Create(ctx, second))

		_, err := s.Update(ctx, second.ID, models.FoodUpdate{Name: strPtr("Taco")})
		assert.ErrorIs(t, err, store.ErrDuplicateName)

		unchanged, err := s.FindByID(ctx, second.ID)
		require.NoError(t, err)
		assert.Equal(t, "Burrito", unchanged.Name)
	})

	t.Run("update unknown id", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Update(ctx, uuid.New(), models.FoodUpdate{Name: strPtr("x")})
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("delete once", func(t *testing.T) {
		s := newStore(t)
		food := &models.Food{Name: "Salad", Recipe: "toss"}
		require.NoError(t, s.Create(ctx, food))

		require.NoError(t, s.Delete(ctx, food.ID))
		assert.ErrorIs(t, s.Delete(ctx, food.ID), store.ErrNotFound)

		_, err := s.FindByID(ctx, food.ID)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestMemoryStore(t *testing.T) {
	runFoodStoreContract(t, func(t *testing.T) store.FoodStore {
		return store.NewMemoryStore()
	})
}

func TestMemoryStoreConcurrentCreate(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	const workers = 32
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.Create(ctx, &models.Food{Name: "Pie", Recipe: "mix and bake"}); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, s.Len())
}

func TestMemoryStoreReset(t *testing.T) {
	s := store.NewMemoryStore()
	require.NoError(t, s.Create(context.Background(), &models.Food{Name: "Pie", Recipe: "bake"}))

	s.Reset()

	assert.Equal(t, 0, s.Len())
	require.NoError(t, s.Create(context.Background(), &models.Food{Name: "Pie", Recipe: "bake"}))
}
