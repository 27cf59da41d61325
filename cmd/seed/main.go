package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"taskoo-project/backend/config"
	"taskoo-project/backend/database"
	"taskoo-project/backend/logging"
	"taskoo-project/backend/seed"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	if err := run(); err != nil {
		logging.Logger.Errorf("Event ID: SEED_ABORTED, Description: %v", err)
		os.Exit(1)
	}
	logging.Logger.Info("Event ID: SEED_COMPLETE, Description: Done seeding database")
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logging.InitLogger(logging.Options{SystemName: "taskoo-seed", File: cfg.LogFile, Level: cfg.LogLevel})

	ctx := context.Background()
	client, err := database.Connect(ctx, cfg.MongoURI)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logging.Logger.Errorf("Event ID: DB_DISCONNECT_FAILED, Description: %v", err)
		}
	}()

	static, err := seed.LoadStatic()
	if err != nil {
		return err
	}
	plan, err := seed.NewGenerator(static, cfg.SeedRandom).Plan()
	if err != nil {
		return fmt.Errorf("failed to generate seed data: %w", err)
	}

	cols := database.NewCollections(client.Database(cfg.MongoDBName))
	return seed.NewSeeder(seed.NewMongoStore(cols), bcrypt.DefaultCost, runtime.NumCPU()).Run(ctx, plan)
}
