package market

import (
	"errors"
	"sync"
	"time"
)

// BreakerState is the state of an endpoint breaker.
type BreakerState string

const (
	BreakerClosed   BreakerState = "CLOSED"
	BreakerOpen     BreakerState = "OPEN"
	BreakerHalfOpen BreakerState = "HALF_OPEN"
)

// ErrBreakerOpen is returned when the breaker is rejecting calls.
var ErrBreakerOpen = errors.New("endpoint breaker is open")

// Breaker trips an endpoint after consecutive failures so the rest of a
// symbol batch stops hammering it. Sized for a one-shot CLI: within a
// cycle a tripped history endpoint means the remaining symbols skip
// their sparkline fetch instead of each waiting out a full retry cycle.
type Breaker struct {
	failureThreshold int
	cooldown         time.Duration

	mu           sync.Mutex
	state        BreakerState
	failures     int
	lastFailure  time.Time
	totalTripped int64
}

// NewBreaker creates a breaker that opens after threshold consecutive
// failures and re-probes after cooldown.
func NewBreaker(threshold int, cooldown time.Duration) *Breaker {
	if threshold <= 0 {
		threshold = 3
	}
	return &Breaker{
		failureThreshold: threshold,
		cooldown:         cooldown,
		state:            BreakerClosed,
	}
}

// Allow reports whether a call may proceed.
func (b *Breaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case BreakerOpen:
		if b.cooldown > 0 && time.Since(b.lastFailure) > b.cooldown {
			b.state = BreakerHalfOpen
			return nil
		}
		b.totalTripped++
		return ErrBreakerOpen
	default:
		return nil
	}
}

// Record feeds a call outcome back into the breaker.
func (b *Breaker) Record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err == nil {
		b.state = BreakerClosed
		b.failures = 0
		return
	}

	b.failures++
	b.lastFailure = time.Now()
	if b.state == BreakerHalfOpen || b.failures >= b.failureThreshold {
		b.state = BreakerOpen
	}
}

// State returns the current state.
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}
