package dedup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/whalewatch/whale-alert/internal/adapter"
	"github.com/whalewatch/whale-alert/internal/domain"
	"github.com/whalewatch/whale-alert/internal/logger"
)

const keyPrefix = "whale:seen:"

// Config holds Redis dedup store configuration
type Config struct {
	// TTL bounds unbounded growth of dedup records; must exceed the maximum
	// plausible webhook retry window
	TTL time.Duration
	// ConnectAttempts bounds the initial connection backoff
	ConnectAttempts uint64
}

type redisStore struct {
	client adapter.RedisClient
	ttl    time.Duration
}

// NewRedisStore creates a dedup store on top of the given Redis client,
// verifying connectivity with bounded exponential backoff. When the attempt
// bound is exceeded the error is returned and the process should report
// itself unhealthy instead of retrying forever.
func NewRedisStore(ctx context.Context, client adapter.RedisClient, cfg Config) (Store, error) {
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("dedup TTL must be positive")
	}
	attempts := cfg.ConnectAttempts
	if attempts == 0 {
		attempts = 10
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxInterval = 3 * time.Second

	attempt := 0
	operation := func() error {
		attempt++
		if err := client.Ping(ctx); err != nil {
			logger.Warn("dedup store not reachable, retrying",
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			return err
		}
		return nil
	}

	if err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(b, attempts), ctx)); err != nil {
		return nil, fmt.Errorf("%w: connection attempts exceeded: %v", domain.ErrStoreUnavailable, err)
	}

	return &redisStore{client: client, ttl: cfg.TTL}, nil
}

// MarkSeen records the signature via SET NX with TTL. Atomic per key: of two
// concurrent callers exactly one observes first == true.
func (s *redisStore) MarkSeen(ctx context.Context, sig domain.TransactionSignature, payload string) (bool, error) {
	first, err := s.client.SetNX(ctx, keyPrefix+sig.String(), payload, s.ttl)
	if err != nil {
		return false, fmt.Errorf("%w: setnx %s: %v", domain.ErrStoreUnavailable, sig, err)
	}
	return first, nil
}

func (s *redisStore) SeenBefore(ctx context.Context, sig domain.TransactionSignature) (bool, error) {
	_, err := s.client.Get(ctx, keyPrefix+sig.String())
	if errors.Is(err, adapter.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: get %s: %v", domain.ErrStoreUnavailable, sig, err)
	}
	return true, nil
}

func (s *redisStore) Forget(ctx context.Context, sig domain.TransactionSignature) error {
	if err := s.client.Del(ctx, keyPrefix+sig.String()); err != nil {
		return fmt.Errorf("%w: del %s: %v", domain.ErrStoreUnavailable, sig, err)
	}
	return nil
}

func (s *redisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *redisStore) Close() error {
	return s.client.Close()
}
