package main

import (
	"context"
	"fmt"
	"os"

	"rti-service/internal/auth"
	"rti-service/internal/client"
	"rti-service/internal/config"
	"rti-service/internal/db"
	httphandler "rti-service/internal/http"
	"rti-service/internal/http/middleware"
	"rti-service/internal/logger"
	"rti-service/internal/repository"
	"rti-service/internal/service"
	"rti-service/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	appLogger := logger.New(cfg.Environment)

	database, err := db.New(cfg, appLogger)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to connect database")
	}

	documents, err := storage.New(&cfg.Storage)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to create document store")
	}
	if err := documents.EnsureBucket(context.Background()); err != nil {
		appLogger.Fatal().Err(err).Msg("failed to prepare document bucket")
	}

	officeRepo := repository.NewOfficeRepository(database)
	requestRepo := repository.NewRequestRepository(database)
	responseRepo := repository.NewResponseRepository(database)
	reviewRepo := repository.NewReviewRepository(database)
	appealRepo := repository.NewAppealRepository(database)
	reportRepo := repository.NewReportRepository(database)
	userRepo := repository.NewUserRepository(database)

	policy := service.NewDocumentPolicy(cfg.Documents.AllowedExtensions)
	renderer := client.NewReportRenderer(cfg)

	issuer := auth.NewIssuer(cfg.Auth.AccessSecret, cfg.Auth.AccessTTL)
	authService := service.NewAuthService(userRepo, issuer)
	requestService := service.NewRequestService(requestRepo, officeRepo, responseRepo, reviewRepo, appealRepo, documents, policy)
	appealService := service.NewAppealService(appealRepo, requestRepo, documents, policy)
	reportService := service.NewReportService(reportRepo, renderer)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)

	handler := httphandler.NewHandler(authService, requestService, appealService, reportService, appLogger)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	appLogger.Info().Str("addr", addr).Msg("starting rti service")

	if err := router.Run(addr); err != nil {
		appLogger.Error().Err(err).Msg("failed to start server")
		os.Exit(1)
	}
}
