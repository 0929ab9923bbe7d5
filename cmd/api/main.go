package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/whalewatch/whale-alert/internal/adapter"
	"github.com/whalewatch/whale-alert/internal/admission"
	"github.com/whalewatch/whale-alert/internal/api/server"
	"github.com/whalewatch/whale-alert/internal/config"
	"github.com/whalewatch/whale-alert/internal/dedup"
	"github.com/whalewatch/whale-alert/internal/ingest"
	"github.com/whalewatch/whale-alert/internal/logger"
	"github.com/whalewatch/whale-alert/internal/providers/jetstream"
	"github.com/whalewatch/whale-alert/internal/render"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	cfg, err := config.LoadAPIConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	err = logger.Initialize(logger.Config{
		Debug:     cfg.Debug,
		SentryDSN: cfg.SentryDSN,
		Tags:      map[string]string{"service": "webhook-api"},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.Info("Starting whale alert webhook receiver")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clock := adapter.NewClock()
	jsonAdapter := adapter.NewJSON()

	// Dedup store: connection verified with bounded backoff; exceeding the
	// bound means the instance is unhealthy and must not accept webhooks
	redisClient := adapter.NewRedisClient(adapter.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		TLS:      cfg.Redis.TLS,
	})
	dedupStore, err := dedup.NewRedisStore(ctx, redisClient, dedup.Config{
		TTL:             cfg.Dedup.TTL,
		ConnectAttempts: cfg.Dedup.ConnectAttempts,
	})
	if err != nil {
		logger.Fatal("Failed to connect to dedup store", zap.Error(err))
	}
	defer func() {
		if err := dedupStore.Close(); err != nil {
			logger.Warn("Failed to close dedup store", zap.Error(err))
		}
	}()
	logger.Info("Connected to dedup store", zap.String("addr", cfg.Redis.Addr))

	// Work queue producer
	publisher, err := jetstream.NewPublisher(ctx, jetstream.Config{
		URL:            cfg.NATS.URL,
		StreamName:     cfg.NATS.StreamName,
		Subject:        cfg.NATS.Subject,
		MaxReconnects:  cfg.NATS.MaxReconnects,
		ReconnectWait:  cfg.NATS.ReconnectWait,
		ConnectionName: cfg.NATS.ConnectionName,
	}, adapter.NewNatsJetStream(), jsonAdapter)
	if err != nil {
		logger.Fatal("Failed to connect to work queue", zap.Error(err))
	}
	defer publisher.Close()
	logger.Info("Connected to work queue",
		zap.String("url", cfg.NATS.URL),
		zap.String("stream", cfg.NATS.StreamName),
	)

	limiter := admission.NewLimiter(admission.Config{
		EventsPerSecond: cfg.Admission.EventsPerSecond,
		Burst:           cfg.Admission.Burst,
		IdleTTL:         cfg.Admission.IdleTTL,
	}, clock)
	defer limiter.Close()

	ingestor := ingest.NewIngestor(
		ingest.Config{Threshold: cfg.Alert.Threshold, Mint: cfg.Alert.Mint},
		limiter,
		dedupStore,
		publisher,
		render.NewRenderer(cfg.ExplorerBaseURL),
		clock,
	)

	srv := server.New(server.Config{
		Debug:        cfg.Debug,
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}, ingestor, dedupStore)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		logger.Error(err, zap.String("component", "server"))
	}

	// Stop accepting new webhook requests, then drain in-flight ones
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		logger.Error(err, zap.String("component", "shutdown"))
	}

	logger.Info("Webhook receiver stopped")
}
