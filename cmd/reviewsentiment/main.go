package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"ReviewSentiment/internal/app"
	"ReviewSentiment/internal/config"
	"ReviewSentiment/internal/logging"
)

func main() {
	// Optional .env for local runs; absence is fine.
	_ = godotenv.Load()

	ctx := context.Background()
	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	application := app.New(cfg, logger)

	if err := application.Run(ctx); err != nil {
		logger.Error("application stopped", "error", err)
		os.Exit(1)
	}
}
