package rest

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/whalewatch/whale-alert/internal/dedup"
	"github.com/whalewatch/whale-alert/internal/domain"
	"github.com/whalewatch/whale-alert/internal/ingest"
	"github.com/whalewatch/whale-alert/internal/logger"
)

// maxBodySize bounds webhook payload reads (1 MiB)
const maxBodySize = 1 << 20

// Handler defines the interface for REST handlers
//
//go:generate mockgen -source=handler.go -destination=../../mocks/api_handler.go -package=mocks -mock_names=Handler=MockAPIHandler
type Handler interface {
	// Webhook ingests one upstream webhook delivery
	// POST /alert/webhook
	Webhook(c *gin.Context)

	// Health reports liveness, including dedup store reachability
	// GET /
	Health(c *gin.Context)
}

type handler struct {
	ingestor ingest.Ingestor
	store    dedup.Store
}

// NewHandler creates a new REST handler
func NewHandler(ingestor ingest.Ingestor, store dedup.Store) Handler {
	return &handler{
		ingestor: ingestor,
		store:    store,
	}
}

// Webhook runs the ingestion path and maps its outcome to coarse status
// codes. Callers never see internal error detail; everything is logged
// with signature correlation instead.
func (h *handler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodySize))
	if err != nil {
		respondInternalError(c, err)
		return
	}

	result, err := h.ingestor.Process(c.Request.Context(), payload)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMalformedPayload):
			// Acknowledge so the sender stops redelivering, drop with a
			// diagnostic
			logger.Warn("Dropping malformed webhook payload", zap.Error(err))
			respondOK(c, "Webhook received successfully")
		case errors.Is(err, domain.ErrRateLimited):
			c.JSON(http.StatusTooManyRequests, gin.H{"message": "Too many requests"})
		default:
			// Store or queue unavailable: invite an upstream retry
			respondInternalError(c, err)
		}
		return
	}

	switch result.Status {
	case ingest.StatusDuplicate:
		respondOK(c, "Webhook already processed")
	default:
		respondOK(c, "Webhook received successfully")
	}
}

// Health pings the dedup store; an unreachable store means the ingestion
// path cannot uphold its dedup guarantee and the instance reports unhealthy
func (h *handler) Health(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		logger.Error(err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Service unavailable"})
		return
	}
	respondOK(c, "Webhook receiver is running")
}

func respondOK(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"message": message})
}

func respondInternalError(c *gin.Context, err error) {
	logger.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
}
