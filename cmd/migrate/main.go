package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/dahby/13-14-relationship-mapping/config"
	"github.com/dahby/13-14-relationship-mapping/internal/database"
)

func main() {
	// Parse command line flags
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	migrationsDir := flag.String("dir", "migrations", "Directory holding the migration files")
	flag.Parse()

	db, err := connect()
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	if *rollback {
		name, err := database.RollbackLast(db, *migrationsDir)
		if errors.Is(err, database.ErrNoMigrations) {
			fmt.Println("No migrations to rollback")
			return
		}
		if err != nil {
			log.Fatalf("rollback failed: %v", err)
		}
		fmt.Printf("Successfully rolled back migration: %s\n", name)
		return
	}

	if err := database.RunMigrations(db, *migrationsDir); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	fmt.Println("All migrations applied successfully.")
}

// connect uses DATABASE_URL when set, otherwise the postgres settings from config
func connect() (*gorm.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		cfg, err := config.LoadConfig()
		if err != nil {
			return nil, err
		}
		if cfg.StoreDriver != config.StorePostgres {
			return nil, fmt.Errorf("migrations target postgres, STORE_DRIVER is %q", cfg.StoreDriver)
		}
		return database.NewPostgres(context.Background(), cfg)
	}

	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{TranslateError: true})
}
