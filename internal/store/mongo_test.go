package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dahby/13-14-relationship-mapping/internal/store"
	"github.com/dahby/13-14-relationship-mapping/internal/testhelpers"
)

func TestMongoStore(t *testing.T) {
	db := testhelpers.SetupMongoDatabase(t)
	s := store.NewMongoStore(db)
	require.NoError(t, s.EnsureIndexes(context.Background()))

	runFoodStoreContract(t, func(t *testing.T) store.FoodStore {
		require.NoError(t, s.Truncate(context.Background()))
		return s
	})
}
