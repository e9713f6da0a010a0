package main

import (
	"fmt"
	"os"
	"path/filepath"

	"finance-manager/internal/config"
	"finance-manager/internal/database"
	"finance-manager/internal/logger"
	"finance-manager/internal/router"

	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real deployments set env vars directly
	_ = godotenv.Load()

	log := logger.New()

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	logger.SetLevel(cfg.Log.Level)

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		log.Fatal().Err(err).Msg("create data dir")
	}

	db, err := database.Init(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("init database")
	}

	if err := database.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	r := router.SetupRouter(cfg, db, log)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	log.Info().Str("addr", addr).Msg("server listening")
	if err := r.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
