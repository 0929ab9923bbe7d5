// Package admission implements the per-key token bucket gating webhook
// ingestion before any store or queue side effect.
//
// The limiter state is scoped to the instance, not the process: tests can
// run several independent limiters side by side, and deployments with
// multiple ingestion instances get best-effort limiting only. That is a
// documented property of this component, not a bug.
package admission

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/whalewatch/whale-alert/internal/adapter"
)

// Limiter admits or rejects ingestion attempts keyed by event identity
//
//go:generate mockgen -source=limiter.go -destination=../mocks/admission.go -package=mocks -mock_names=Limiter=MockAdmissionLimiter
type Limiter interface {
	// TryConsume reports whether one admission for the key is allowed now.
	// It never blocks.
	TryConsume(identityKey string) bool

	// Close stops the idle-entry janitor
	Close()
}

// Config holds admission limiter configuration
type Config struct {
	// EventsPerSecond is the sustained admission rate per key
	EventsPerSecond float64
	// Burst is the bucket capacity per key
	Burst int
	// IdleTTL is how long an idle key's bucket is kept before eviction
	IdleTTL time.Duration
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type keyedLimiter struct {
	cfg     Config
	clock   adapter.Clock
	mu      sync.Mutex
	entries map[string]*entry
	done    chan struct{}
	once    sync.Once
}

// NewLimiter creates a per-key token bucket limiter. Defaults: 10 events
// per second, burst 10, idle eviction after 5 minutes.
func NewLimiter(cfg Config, clock adapter.Clock) Limiter {
	if cfg.EventsPerSecond <= 0 {
		cfg.EventsPerSecond = 10
	}
	if cfg.Burst <= 0 {
		cfg.Burst = int(cfg.EventsPerSecond)
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 5 * time.Minute
	}

	l := &keyedLimiter{
		cfg:     cfg,
		clock:   clock,
		entries: make(map[string]*entry),
		done:    make(chan struct{}),
	}
	go l.evictIdle()
	return l
}

// TryConsume takes one token from the key's bucket. The bucket is created
// on first sight; no I/O happens here so callers may hold the request path.
func (l *keyedLimiter) TryConsume(identityKey string) bool {
	now := l.clock.Now()

	l.mu.Lock()
	e, ok := l.entries[identityKey]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(rate.Limit(l.cfg.EventsPerSecond), l.cfg.Burst)}
		l.entries[identityKey] = e
	}
	e.lastSeen = now
	l.mu.Unlock()

	// Token take happens outside the map lock so one key cannot stall others
	return e.limiter.Allow()
}

// evictIdle drops buckets that have not been touched within IdleTTL
func (l *keyedLimiter) evictIdle() {
	interval := l.cfg.IdleTTL
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.done:
			return
		case <-ticker.C:
			cutoff := l.clock.Now().Add(-l.cfg.IdleTTL)
			l.mu.Lock()
			for key, e := range l.entries {
				if e.lastSeen.Before(cutoff) {
					delete(l.entries, key)
				}
			}
			l.mu.Unlock()
		}
	}
}

func (l *keyedLimiter) Close() {
	l.once.Do(func() {
		close(l.done)
	})
}
