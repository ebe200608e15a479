package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dahby/13-14-relationship-mapping/internal/service"
	"github.com/dahby/13-14-relationship-mapping/internal/store"
	"github.com/dahby/13-14-relationship-mapping/internal/types"
)

func TestSeedSkipsExisting(t *testing.T) {
	ctx := context.Background()
	foods := store.NewMemoryStore()
	svc := service.NewFoodService(foods)

	result, err := seed(ctx, svc, sampleFoods)
	require.NoError(t, err)
	assert.Equal(t, len(sampleFoods), result.Created)
	assert.Zero(t, result.Skipped)

	result, err = seed(ctx, svc, sampleFoods)
	require.NoError(t, err)
	assert.Zero(t, result.Created)
	assert.Equal(t, len(sampleFoods), result.Skipped)
	assert.Equal(t, len(sampleFoods), foods.Len())
}

func TestSeedStopsOnInvalidFood(t *testing.T) {
	svc := service.NewFoodService(store.NewMemoryStore())

	_, err := seed(context.Background(), svc, []types.CreateFoodRequest{{Name: "", Recipe: "nothing"}})
	var validation *service.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestLoadFoods(t *testing.T) {
	foods, err := loadFoods("")
	require.NoError(t, err)
	assert.Equal(t, sampleFoods, foods)

	path := filepath.Join(t.TempDir(), "foods.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"name":"Toast","recipe":"toast bread"}]`), 0o600))
	foods, err = loadFoods(path)
	require.NoError(t, err)
	assert.Equal(t, []types.CreateFoodRequest{{Name: "Toast", Recipe: "toast bread"}}, foods)

	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o600))
	_, err = loadFoods(path)
	assert.Error(t, err)
}
