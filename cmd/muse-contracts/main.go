package main

import (
	"fmt"
	"os"

	"github.com/paulster44/Muse-Contracts/internal/auth"
	"github.com/paulster44/Muse-Contracts/internal/config"
	"github.com/paulster44/Muse-Contracts/internal/db"
	"github.com/paulster44/Muse-Contracts/internal/excel"
	httphandler "github.com/paulster44/Muse-Contracts/internal/http"
	"github.com/paulster44/Muse-Contracts/internal/http/middleware"
	"github.com/paulster44/Muse-Contracts/internal/logger"
	"github.com/paulster44/Muse-Contracts/internal/pdf"
	"github.com/paulster44/Muse-Contracts/internal/repository"
	"github.com/paulster44/Muse-Contracts/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	userRepo := repository.NewUserRepository(database)
	contractRepo := repository.NewContractRepository(database)

	tokens := auth.NewManager(cfg.Auth.AccessSecret, cfg.Auth.AccessTTL)
	authService := service.NewAuthService(userRepo, tokens)
	contractService := service.NewContractService(contractRepo, pdf.NewGenerator(), excel.NewGenerator(), cfg)

	handler := httphandler.NewHandler(authService, contractService, tokens.TTL(), log)
	authMiddleware := middleware.Auth(tokens)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting contracts service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
