package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/josepguedes/Projeto-2/internal/alerts"
	"github.com/josepguedes/Projeto-2/internal/config"
	"github.com/josepguedes/Projeto-2/internal/database"
	"github.com/josepguedes/Projeto-2/internal/events"
	"github.com/josepguedes/Projeto-2/internal/handlers"
	"github.com/josepguedes/Projeto-2/internal/middleware"
	"github.com/josepguedes/Projeto-2/internal/realtime"
	"github.com/josepguedes/Projeto-2/internal/repositories"
	"github.com/josepguedes/Projeto-2/internal/services"
	"github.com/josepguedes/Projeto-2/pkg/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	logger.Init()
	defer logger.Sync()

	logger.Info("Starting FoodShare API...")

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load config", err)
	}

	if cfg.AppEnv == "production" {
		if err := cfg.ValidateProductionSecurity(); err != nil {
			logger.Fatal("Production security validation failed", err)
		}
		logger.Info("Production security validation passed")
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	listingRepo := repositories.NewListingRepository(db)
	blockRepo := repositories.NewBlockRepository(db)
	reviewRepo := repositories.NewReviewRepository(db)
	messageRepo := repositories.NewMessageRepository(db)
	reportRepo := repositories.NewReportRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)

	categoryService := services.NewCategoryService(categoryRepo)
	if n, err := categoryService.Seed(ctx); err != nil {
		logger.Warn("Failed to seed categories", "error", err)
	} else if n > 0 {
		logger.Info("Seeded categories", "count", n)
	}

	// Realtime delivery. With Redis every instance relays the shared channels
	// into its own hub; without it pushes go straight to the local hub.
	hub := realtime.NewHub(cfg.CORSOrigin)
	go hub.Run(ctx)

	var pusher services.Pusher = hub
	if cfg.RedisAddr != "" {
		rdb, err := realtime.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", err)
		}
		defer rdb.Close()

		pusher = realtime.NewBroadcaster(rdb)
		relay := realtime.NewRelay(rdb, hub)
		go func() {
			if err := relay.Run(ctx); err != nil {
				logger.Error("Realtime relay stopped", "error", err)
			}
		}()
		logger.Info("Connected to Redis", "addr", cfg.RedisAddr)
	}

	notificationService := services.NewNotificationService(notificationRepo, userRepo, pusher)

	// Events go to the notifier worker over NATS when configured, otherwise
	// they are dispatched in process.
	var publisher events.Publisher
	if cfg.NatsURL != "" {
		nc, err := events.Connect(cfg.NatsURL, "foodshare-api")
		if err != nil {
			logger.Fatal("Failed to connect to NATS", err)
		}
		defer nc.Close()
		publisher = events.NewNATSPublisher(nc)
		logger.Info("Connected to NATS", "url", cfg.NatsURL)
	} else {
		var alerter events.Alerter
		tg, err := alerts.NewTelegramAlerter(cfg.TelegramBotToken, cfg.TelegramAdminChatID, cfg.AppEnv == "development")
		if err != nil {
			logger.Warn("Telegram alerts disabled", "error", err)
		} else if tg != nil {
			alerter = tg
		}
		publisher = events.NewLocalBus(events.NewDispatcher(notificationService, alerter))
	}

	blockService := services.NewBlockService(blockRepo, userRepo, publisher)
	userService := services.NewUserService(userRepo, blockService, cfg.JWTSecret, cfg.GetJWTTTL())
	listingService := services.NewListingService(listingRepo, categoryRepo, blockService, publisher, services.ListingOptions{
		MaxPrice:   cfg.ListingMaxPrice,
		CodeLength: cfg.VerificationCodeLength,
	})
	reviewService := services.NewReviewService(reviewRepo, listingRepo, userRepo)
	messageService := services.NewMessageService(messageRepo, userRepo, blockService, pusher)
	reportService := services.NewReportService(reportRepo, userRepo, listingRepo, publisher)

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerUser, cfg.RateLimitPerIP, cfg.GetRateLimitWindow())
	defer limiter.Stop()

	h := handlers.NewHandlerManager(
		userService,
		listingService,
		blockService,
		reviewService,
		messageService,
		reportService,
		notificationService,
		categoryService,
		hub,
	)
	router := handlers.NewRouter(h, handlers.RouterOptions{
		JWTSecret:   cfg.JWTSecret,
		CORSOrigin:  cfg.CORSOrigin,
		Limiter:     limiter,
		HealthCheck: database.Ping(db),
	})

	server := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("API listening", "addr", server.Addr, "env", cfg.AppEnv)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}
	stop()
	logger.Info("API stopped")
}
