package main

import (
	"context"
	"time"

	migrations "unimeet/internal/migrations/mongo"
	"unimeet/pkg/config"
)

func main() {
	cfg := config.Load("migrations")
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := migrations.RunMigration(ctx, cfg.Client.Mongo, cfg.MongoDatabaseName); err != nil {
		cfg.Log.Fatal("Migration failed", "error", err)
	}

	cfg.Log.Info("Migrations completed", "database", cfg.MongoDatabaseName)
}
