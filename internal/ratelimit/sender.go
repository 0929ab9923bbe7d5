// Package ratelimit paces outbound notification-channel calls. The budget
// is shared across worker instances through Redis; when Redis is down the
// limiter degrades to a process-local bucket so delivery keeps moving.
package ratelimit

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/whalewatch/whale-alert/internal/adapter"
	"github.com/whalewatch/whale-alert/internal/logger"
)

const redisKey = "whale:limiter:telegram"

// SendLimiter gates outbound sends against a shared rate budget
//
//go:generate mockgen -source=sender.go -destination=../mocks/ratelimit.go -package=mocks -mock_names=SendLimiter=MockSendLimiter
type SendLimiter interface {
	// Wait blocks until a send token is available or the context ends
	Wait(ctx context.Context) error
}

// Config holds the send budget
type Config struct {
	PerSecond int
	Burst     int
}

type sendLimiter struct {
	cfg            Config
	distributed    adapter.RedisRateLimiter
	local          *rate.Limiter
	clock          adapter.Clock
	redisAvailable atomic.Bool
}

// NewSendLimiter creates a send limiter on top of the given Redis rate
// limiter. A nil distributed limiter means local-only pacing.
func NewSendLimiter(cfg Config, distributed adapter.RedisRateLimiter, clock adapter.Clock) SendLimiter {
	if cfg.PerSecond <= 0 {
		cfg.PerSecond = 25
	}
	if cfg.Burst <= 0 {
		cfg.Burst = cfg.PerSecond
	}

	l := &sendLimiter{
		cfg:         cfg,
		distributed: distributed,
		local:       rate.NewLimiter(rate.Limit(cfg.PerSecond), cfg.Burst),
		clock:       clock,
	}
	l.redisAvailable.Store(distributed != nil)
	return l
}

// Wait acquires one send token. Tries the distributed limiter first and
// sleeps out its retry hints with jitter; Redis failures switch to the
// local bucket until the next successful distributed call.
func (l *sendLimiter) Wait(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if l.redisAvailable.Load() {
			res, err := l.distributed.Allow(ctx, redisKey, redis_rate.Limit{
				Rate:   l.cfg.PerSecond,
				Burst:  l.cfg.Burst,
				Period: time.Second,
			})
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				l.redisAvailable.Store(false)
				logger.Warn("Distributed send limiter unavailable, falling back to local",
					zap.Error(err),
				)
				continue
			}

			if res.Allowed > 0 {
				return nil
			}

			retryAfter := res.RetryAfter
			if retryAfter <= 0 {
				retryAfter = 50 * time.Millisecond
			}
			// 50-150% jitter spreads competing workers apart
			jitter := time.Duration(float64(retryAfter) * (0.5 + rand.Float64())) //nolint:gosec,G404
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-l.clock.After(jitter):
			}
			continue
		}

		if l.distributed == nil {
			return l.local.Wait(ctx)
		}

		// Local fallback for this token, then probe Redis again next call
		if err := l.local.Wait(ctx); err != nil {
			return fmt.Errorf("local send limiter: %w", err)
		}
		l.redisAvailable.Store(true)
		return nil
	}
}
