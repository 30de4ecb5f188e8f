package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"github.com/oggyb/muzz-matchmaker/internal/app"
	"github.com/oggyb/muzz-matchmaker/internal/config"
	"github.com/oggyb/muzz-matchmaker/internal/db"
	"github.com/oggyb/muzz-matchmaker/internal/logger"
)

func main() {
	_ = godotenv.Load()

	// Load configuration
	cfg := config.New()
	log := logger.FromConfig(cfg)

	database, err := db.NewDB(cfg, log)
	if err != nil {
		log.Error("failed to init db", "err", err)
		os.Exit(1)
	}

	// no cache: coefficients are recomputed straight into the store
	ctx := context.Background()
	appCtx := app.New(cfg, database, nil, nil, nil, log)

	report, err := db.SeedTestData(ctx, database, appCtx.Answers, log)
	if err != nil {
		log.Error("failed to seed", "err", err)
		os.Exit(1)
	}

	for _, id := range report.EntitledUsers {
		if _, err := appCtx.Priority.Recompute(ctx, id); err != nil {
			log.Error("failed to recompute priority", "user_id", id, "err", err)
			os.Exit(1)
		}
	}

	log.Info("seeding completed")
}
