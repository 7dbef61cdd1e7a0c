package main

import (
	"context"
	_ "embed"
	"flag"
	"time"

	"go.uber.org/zap"

	"storefront/internal/auth"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/logger"
	"storefront/internal/repository"
	"storefront/internal/seed"
)

//go:embed catalog.json
var defaultCatalog []byte

func main() {
	source := flag.String("source", "", "catalog file path or http(s) URL; defaults to the bundled demo catalog")
	flag.Parse()

	cfg := config.MustLoad()
	if err := logger.Init(cfg.LogLevel); err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.WithModule("seed")

	gormDB, err := db.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		log.Fatal("connect to database", zap.Error(err))
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatal("run migrations", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	var catalog *seed.Catalog
	if *source == "" {
		catalog, err = seed.Parse(defaultCatalog)
	} else {
		log.Info("fetching catalog", zap.String("source", *source))
		catalog, err = seed.Fetch(ctx, *source)
	}
	if err != nil {
		log.Fatal("load catalog", zap.Error(err))
	}

	seeder := seed.NewSeeder(
		repository.NewUserRepository(gormDB),
		repository.NewBusinessRepository(gormDB),
		repository.NewProductRepository(gormDB),
		auth.NewBcryptHasher(cfg.Tokens.BcryptCost),
	)

	res, err := seeder.Apply(ctx, catalog)
	if err != nil {
		log.Fatal("seed catalog", zap.Error(err))
	}

	log.Info("seed completed",
		zap.Int("created", res.Created),
		zap.Int("updated", res.Updated),
		zap.Int("skipped", res.Skipped),
	)
}
