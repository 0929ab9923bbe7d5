package admission_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/whalewatch/whale-alert/internal/adapter"
	"github.com/whalewatch/whale-alert/internal/admission"
)

func TestTryConsume_BurstExhaustion(t *testing.T) {
	l := admission.NewLimiter(admission.Config{
		EventsPerSecond: 1,
		Burst:           3,
	}, adapter.NewClock())
	defer l.Close()

	for i := 0; i < 3; i++ {
		assert.True(t, l.TryConsume("sig-a"), "admission %d should be allowed", i+1)
	}
	assert.False(t, l.TryConsume("sig-a"), "admission beyond the burst should be rejected")
}

func TestTryConsume_KeysAreIndependent(t *testing.T) {
	l := admission.NewLimiter(admission.Config{
		EventsPerSecond: 1,
		Burst:           1,
	}, adapter.NewClock())
	defer l.Close()

	assert.True(t, l.TryConsume("sig-a"))
	assert.False(t, l.TryConsume("sig-a"))

	// a drained bucket for one key must not affect another
	assert.True(t, l.TryConsume("sig-b"))
}

func TestTryConsume_InstancesAreIndependent(t *testing.T) {
	// admission is process local: each instance carries its own buckets
	a := admission.NewLimiter(admission.Config{EventsPerSecond: 1, Burst: 1}, adapter.NewClock())
	defer a.Close()
	b := admission.NewLimiter(admission.Config{EventsPerSecond: 1, Burst: 1}, adapter.NewClock())
	defer b.Close()

	assert.True(t, a.TryConsume("sig-a"))
	assert.False(t, a.TryConsume("sig-a"))
	assert.True(t, b.TryConsume("sig-a"))
}

func TestTryConsume_RefillsOverTime(t *testing.T) {
	l := admission.NewLimiter(admission.Config{
		EventsPerSecond: 100,
		Burst:           1,
	}, adapter.NewClock())
	defer l.Close()

	assert.True(t, l.TryConsume("sig-a"))
	assert.False(t, l.TryConsume("sig-a"))

	// at 100 events/s a token is back within 10ms
	time.Sleep(30 * time.Millisecond)
	assert.True(t, l.TryConsume("sig-a"))
}

func TestTryConsume_Defaults(t *testing.T) {
	l := admission.NewLimiter(admission.Config{}, adapter.NewClock())
	defer l.Close()

	// default burst is 10
	for i := 0; i < 10; i++ {
		assert.True(t, l.TryConsume("sig-a"))
	}
	assert.False(t, l.TryConsume("sig-a"))
}

func TestClose_Idempotent(t *testing.T) {
	l := admission.NewLimiter(admission.Config{}, adapter.NewClock())
	l.Close()
	l.Close()
}
