package main

import (
	api "torch-backend/cmd/api"
	briefUsecase "torch-backend/internal/brief/usecase"
	integrationDomain "torch-backend/internal/integration/domain"
	"torch-backend/internal/integration/provider"
	"torch-backend/internal/integration/repository"
	integrationUsecase "torch-backend/internal/integration/usecase"
	walletUsecase "torch-backend/internal/wallet/usecase"
	"torch-backend/pkg/config"
	"torch-backend/pkg/database"
	"torch-backend/pkg/discord"
	"torch-backend/pkg/gemini"
	"torch-backend/pkg/logger"
	"torch-backend/pkg/mirrornode"

	briefDelivery "torch-backend/internal/brief/delivery"
	integrationDelivery "torch-backend/internal/integration/delivery"
	walletDelivery "torch-backend/internal/wallet/delivery"
)

func main() {
	log := logger.New("torch-backend")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(
		&integrationDomain.Integration{},
		&integrationDomain.Email{},
		&integrationDomain.CalendarEvent{},
		&integrationDomain.DiscordMessage{},
		&integrationDomain.SyncLogEntry{},
		&integrationDomain.SyncLease{},
	); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	// Initialize repositories (dependency injection)
	integrationRepo := repository.NewIntegrationRepository(db)
	emailRepo := repository.NewEmailRepository(db)
	eventRepo := repository.NewCalendarEventRepository(db)
	messageRepo := repository.NewDiscordMessageRepository(db)
	syncLogRepo := repository.NewSyncLogRepository(db)
	leaseRepo := repository.NewSyncLeaseRepository(db)

	// Initialize upstream clients
	discordClient := discord.New(cfg.DiscordAPIURL, cfg.HTTPTimeout)
	mirrorClient := mirrornode.New(cfg.MirrorNodeURL, cfg.HTTPTimeout)
	geminiService := gemini.NewGeminiService(cfg.GeminiAPIKey, cfg.HTTPTimeout)

	// Initialize sync providers
	registry := provider.NewRegistry(
		provider.NewGmailProvider(cfg, integrationRepo, emailRepo, log),
		provider.NewCalendarProvider(cfg, integrationRepo, eventRepo, log),
		provider.NewDiscordProvider(cfg, discordClient, integrationRepo, messageRepo, log),
	)

	// Initialize use cases (dependency injection)
	syncUc := integrationUsecase.NewSyncUsecase(registry, integrationRepo, syncLogRepo, leaseRepo, log)
	feedUc := integrationUsecase.NewFeedUsecase(emailRepo, eventRepo, messageRepo)
	analyzerUc := walletUsecase.NewAnalyzerUsecase(mirrorClient, log)
	briefUc := briefUsecase.NewBriefUsecase(emailRepo, eventRepo, messageRepo, geminiService, log)

	// Initialize HTTP handler
	handler := api.NewHandler(
		integrationDelivery.NewIntegrationHandler(syncUc),
		integrationDelivery.NewFeedHandler(feedUc),
		walletDelivery.NewWalletHandler(analyzerUc),
		briefDelivery.NewBriefHandler(briefUc),
		cfg,
	)

	// Start server
	log.Info().Str("port", cfg.Port).Msg("server starting")
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
