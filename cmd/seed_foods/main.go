package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/dahby/13-14-relationship-mapping/config"
	"github.com/dahby/13-14-relationship-mapping/internal/database"
	"github.com/dahby/13-14-relationship-mapping/internal/service"
	"github.com/dahby/13-14-relationship-mapping/internal/types"
)

var sampleFoods = []types.CreateFoodRequest{
	{Name: "Pancakes", Recipe: "Whisk flour, milk, eggs and sugar. Fry ladlefuls in butter until golden."},
	{Name: "Tomato Soup", Recipe: "Roast tomatoes with garlic, blend with stock and season."},
	{Name: "Guacamole", Recipe: "Mash avocados with lime, onion, chili and salt."},
	{Name: "Fried Rice", Recipe: "Stir-fry day-old rice with egg, peas, scallions and soy sauce."},
	{Name: "Apple Pie", Recipe: "Fill a pastry shell with spiced apples, cover and bake for 45 minutes."},
	{Name: "Hummus", Recipe: "Blend chickpeas with tahini, lemon, garlic and olive oil."},
	{Name: "Omelette", Recipe: "Beat eggs, pour into a hot pan, add fillings and fold."},
	{Name: "Banana Bread", Recipe: "Mix ripe bananas, flour, sugar, eggs and butter. Bake for an hour."},
}

type seedResult struct {
	Created int
	Skipped int
}

// seed creates every food through the service. Names that already exist are skipped.
func seed(ctx context.Context, svc service.IFoodService, foods []types.CreateFoodRequest) (seedResult, error) {
	var result seedResult
	for i := range foods {
		food, err := svc.CreateFood(ctx, &foods[i])
		var conflict *service.ConflictError
		switch {
		case errors.As(err, &conflict):
			slog.Info("food already exists, skipping", "name", foods[i].Name)
			result.Skipped++
		case err != nil:
			return result, fmt.Errorf("failed to seed %q: %w", foods[i].Name, err)
		default:
			slog.Info("seeded food", "id", food.ID, "name", food.Name)
			result.Created++
		}
	}
	return result, nil
}

func loadFoods(path string) ([]types.CreateFoodRequest, error) {
	if path == "" {
		return sampleFoods, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var foods []types.CreateFoodRequest
	if err := json.Unmarshal(data, &foods); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return foods, nil
}

func main() {
	file := flag.String("file", "", "JSON file with [{\"name\":...,\"recipe\":...}] entries; built-in samples when empty")
	reset := flag.Bool("reset", false, "Remove every food before seeding")
	migrationsDir := flag.String("migrations", "migrations", "directory holding SQL migrations")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	foods, err := loadFoods(*file)
	if err != nil {
		log.Fatalf("Failed to load foods: %v", err)
	}

	ctx := context.Background()
	res, err := database.Open(ctx, cfg, *migrationsDir)
	if err != nil {
		log.Fatalf("Failed to open food store: %v", err)
	}
	defer res.Close()

	if *reset {
		if err := res.Truncate(ctx); err != nil {
			log.Fatalf("Failed to reset foods: %v", err)
		}
		slog.Info("removed existing foods")
	}

	result, err := seed(ctx, service.NewFoodService(res.Foods), foods)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	fmt.Printf("Seeded %d foods (%d already present)\n", result.Created, result.Skipped)
}
