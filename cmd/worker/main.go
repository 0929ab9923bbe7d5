package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/whalewatch/whale-alert/internal/adapter"
	"github.com/whalewatch/whale-alert/internal/config"
	"github.com/whalewatch/whale-alert/internal/logger"
	"github.com/whalewatch/whale-alert/internal/providers/jetstream"
	"github.com/whalewatch/whale-alert/internal/providers/telegram"
	"github.com/whalewatch/whale-alert/internal/ratelimit"
	"github.com/whalewatch/whale-alert/internal/render"
	"github.com/whalewatch/whale-alert/internal/store"
	"github.com/whalewatch/whale-alert/internal/worker"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	cfg, err := config.LoadDeliveryWorkerConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	err = logger.Initialize(logger.Config{
		Debug:     cfg.Debug,
		SentryDSN: cfg.SentryDSN,
		Tags:      map[string]string{"service": "delivery-worker"},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.Info("Starting whale alert delivery worker")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clock := adapter.NewClock()

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	auditStore := store.NewPGStore(db)
	if err := auditStore.Migrate(); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}

	// Distributed send pacing across worker instances. The limiter degrades
	// to local pacing when Redis is unreachable, so a Redis outage slows
	// nothing down except fairness between instances.
	redisClient := adapter.NewRedisClient(adapter.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		TLS:      cfg.Redis.TLS,
	})
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("Failed to close redis client", zap.Error(err))
		}
	}()
	limiter := ratelimit.NewSendLimiter(ratelimit.Config{
		PerSecond: cfg.SendLimit.PerSecond,
		Burst:     cfg.SendLimit.Burst,
	}, redisClient.NewRateLimiter(), clock)

	consumer, err := jetstream.NewConsumer(jetstream.Config{
		URL:            cfg.NATS.URL,
		StreamName:     cfg.NATS.StreamName,
		Subject:        cfg.NATS.Subject,
		ConsumerName:   cfg.NATS.ConsumerName,
		MaxReconnects:  cfg.NATS.MaxReconnects,
		ReconnectWait:  cfg.NATS.ReconnectWait,
		ConnectionName: cfg.NATS.ConnectionName,
		AckWait:        cfg.NATS.AckWait,
		MaxDeliver:     cfg.NATS.MaxDeliver,
	}, adapter.NewNatsJetStream())
	if err != nil {
		logger.Fatal("Failed to connect to work queue", zap.Error(err))
	}
	defer consumer.Close()
	logger.Info("Connected to work queue",
		zap.String("url", cfg.NATS.URL),
		zap.String("stream", cfg.NATS.StreamName),
		zap.String("consumer", cfg.NATS.ConsumerName),
	)

	notifier := telegram.NewClient(telegram.Config{
		Token:      cfg.Telegram.Token,
		ChatID:     cfg.Telegram.ChatID,
		APIBaseURL: cfg.Telegram.APIBaseURL,
	}, adapter.NewHTTPClient(cfg.Telegram.Timeout))

	w := worker.New(worker.Config{
		MaxDeliver: cfg.NATS.MaxDeliver,
		PoolSize:   cfg.Worker.PoolSize,
		QueueSize:  cfg.Worker.QueueSize,
	}, consumer, notifier, render.NewRenderer(cfg.ExplorerBaseURL), limiter, auditStore)

	errCh := make(chan error, 1)
	go func() {
		errCh <- w.Run(ctx)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
		// Run drains in-flight deliveries before returning
		if err := <-errCh; err != nil {
			logger.Error(err, zap.String("component", "worker"))
		}
	case err := <-errCh:
		if err != nil {
			logger.Error(err, zap.String("component", "worker"))
		}
	}

	logger.Info("Delivery worker stopped")
}
