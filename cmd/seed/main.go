package main

import (
	"context"
	"flag"
	"os"

	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/logging"
	"storefront/internal/repository"
	"storefront/internal/service"
)

func main() {
	count := flag.Int("count", service.DefaultSeedCount, "number of category names to generate")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.LoadDatabase()
	if err != nil {
		logging.New(os.Stderr, "error", false).Error(ctx, "invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logging.New(os.Stdout, cfg.LogLevel, cfg.IsProduction()).With("cmd", "seed")

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Error(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	log.Info(ctx, "connected to database", "driver", cfg.DBDriver)

	// Run migrations to ensure schema is up to date
	if err := db.Migrate(gormDB); err != nil {
		log.Error(ctx, "failed to run migrations", "error", err)
		os.Exit(1)
	}

	seeder := service.NewCategorySeeder(repository.NewCategoryRepository(gormDB), nil, log)
	created, err := seeder.Seed(ctx, *count)
	if err != nil {
		log.Error(ctx, "failed to seed categories", "error", err)
		os.Exit(1)
	}
	log.Info(ctx, "seed completed", "requested", *count, "created", created)
}
