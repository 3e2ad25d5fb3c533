package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/josepguedes/Projeto-2/internal/alerts"
	"github.com/josepguedes/Projeto-2/internal/config"
	"github.com/josepguedes/Projeto-2/internal/database"
	"github.com/josepguedes/Projeto-2/internal/events"
	"github.com/josepguedes/Projeto-2/internal/realtime"
	"github.com/josepguedes/Projeto-2/internal/repositories"
	"github.com/josepguedes/Projeto-2/internal/services"
	"github.com/josepguedes/Projeto-2/pkg/logger"
)

// The notifier consumes domain events from NATS, stores the resulting user
// notifications, pushes them through Redis and alerts moderators on Telegram.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	logger.Init()
	defer logger.Sync()

	logger.Info("Starting FoodShare notifier...")

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load config", err)
	}
	if err := cfg.ValidateProductionSecurity(); err != nil {
		logger.Fatal("Production security validation failed", err)
	}
	if cfg.NatsURL == "" {
		logger.Fatal("Notifier cannot start", fmt.Errorf("NATS_URL is not set"))
	}

	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", err)
	}
	defer database.Close(db)

	var pusher services.Pusher
	if cfg.RedisAddr != "" {
		rdb, err := realtime.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", err)
		}
		defer rdb.Close()
		pusher = realtime.NewBroadcaster(rdb)
	} else {
		logger.Warn("REDIS_ADDR not set, notifications are stored but not pushed")
	}

	notifications := services.NewNotificationService(
		repositories.NewNotificationRepository(db),
		repositories.NewUserRepository(db),
		pusher,
	)

	var alerter events.Alerter
	tg, err := alerts.NewTelegramAlerter(cfg.TelegramBotToken, cfg.TelegramAdminChatID, cfg.AppEnv == "development")
	if err != nil {
		logger.Warn("Telegram alerts disabled", "error", err)
	} else if tg != nil {
		alerter = tg
	}

	nc, err := events.Connect(cfg.NatsURL, "foodshare-notifier")
	if err != nil {
		logger.Fatal("Failed to connect to NATS", err)
	}
	defer nc.Close()

	consumer := events.NewNATSConsumer(nc, "notifier", events.NewDispatcher(notifications, alerter))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info("Shutting down gracefully...")
		cancel()
	}()

	if err := consumer.Start(ctx); err != nil {
		logger.Fatal("Notifier failed", err)
	}
	if err := consumer.Close(); err != nil {
		logger.Warn("Failed to unsubscribe", "error", err)
	}
	logger.Info("Notifier stopped")
}
