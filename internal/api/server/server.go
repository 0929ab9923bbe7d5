package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/whalewatch/whale-alert/internal/api/middleware"
	"github.com/whalewatch/whale-alert/internal/api/rest"
	"github.com/whalewatch/whale-alert/internal/dedup"
	"github.com/whalewatch/whale-alert/internal/ingest"
	"github.com/whalewatch/whale-alert/internal/logger"
)

// Config holds the server configuration
type Config struct {
	Debug        bool
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Server wraps the HTTP server hosting the webhook and health endpoints
type Server struct {
	config     Config
	ingestor   ingest.Ingestor
	store      dedup.Store
	httpServer *http.Server
}

// New creates a new webhook ingestion server
func New(cfg Config, ingestor ingest.Ingestor, store dedup.Store) *Server {
	return &Server{
		config:   cfg,
		ingestor: ingestor,
		store:    store,
	}
}

// Start initializes and starts the HTTP server, blocking until shutdown
func (s *Server) Start() error {
	if s.config.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.SetupCORS())

	rest.SetupRoutes(router, rest.NewHandler(s.ingestor, s.store))

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	logger.Info("Starting webhook receiver", zap.String("address", addr))

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown stops accepting new webhook requests and drains in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Info("Shutting down webhook receiver")

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
	}

	return nil
}
