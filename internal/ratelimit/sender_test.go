package ratelimit_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/whalewatch/whale-alert/internal/adapter"
	"github.com/whalewatch/whale-alert/internal/logger"
	"github.com/whalewatch/whale-alert/internal/mocks"
	"github.com/whalewatch/whale-alert/internal/ratelimit"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

func TestWait_DistributedAllowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	distributed := mocks.NewMockRedisRateLimiter(ctrl)
	clock := mocks.NewMockClock(ctrl)

	distributed.EXPECT().
		Allow(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&redis_rate.Result{Allowed: 1}, nil)

	l := ratelimit.NewSendLimiter(ratelimit.Config{PerSecond: 25}, distributed, clock)
	assert.NoError(t, l.Wait(context.Background()))
}

func TestWait_DistributedThrottledThenAllowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	distributed := mocks.NewMockRedisRateLimiter(ctrl)
	clock := mocks.NewMockClock(ctrl)

	expired := make(chan time.Time, 1)
	expired <- time.Now()

	gomock.InOrder(
		distributed.EXPECT().
			Allow(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&redis_rate.Result{Allowed: 0, RetryAfter: 10 * time.Millisecond}, nil),
		distributed.EXPECT().
			Allow(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&redis_rate.Result{Allowed: 1}, nil),
	)
	clock.EXPECT().After(gomock.Any()).Return((<-chan time.Time)(expired))

	l := ratelimit.NewSendLimiter(ratelimit.Config{PerSecond: 25}, distributed, clock)
	assert.NoError(t, l.Wait(context.Background()))
}

func TestWait_FallsBackToLocalWhenRedisDown(t *testing.T) {
	ctrl := gomock.NewController(t)
	distributed := mocks.NewMockRedisRateLimiter(ctrl)
	clock := mocks.NewMockClock(ctrl)

	distributed.EXPECT().
		Allow(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("redis: connection refused"))

	l := ratelimit.NewSendLimiter(ratelimit.Config{PerSecond: 25}, distributed, clock)
	// Redis failure degrades to the local bucket, which has burst available
	assert.NoError(t, l.Wait(context.Background()))
}

func TestWait_LocalOnly(t *testing.T) {
	l := ratelimit.NewSendLimiter(ratelimit.Config{PerSecond: 25}, nil, adapter.NewClock())
	assert.NoError(t, l.Wait(context.Background()))
}

func TestWait_ContextCanceled(t *testing.T) {
	l := ratelimit.NewSendLimiter(ratelimit.Config{PerSecond: 25}, nil, adapter.NewClock())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, l.Wait(ctx))
}
