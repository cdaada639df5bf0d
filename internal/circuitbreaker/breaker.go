package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrCircuitOpen is returned while the breaker rejects calls. Callers treat
// it as transient.
var ErrCircuitOpen = errors.New("circuit breaker is open")

type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Config configures a breaker. Zero values take the defaults noted below.
type Config struct {
	FailureThreshold int           // consecutive failures before opening (5)
	SuccessThreshold int           // half-open successes before closing (2)
	OpenTimeout      time.Duration // time spent open before probing (30s)
	// MaxProbes caps concurrent calls let through while half-open (1).
	MaxProbes     int
	OnStateChange func(from, to State)
	Now           func() time.Time
}

// Breaker guards the checkpoint source. Only failures passed to
// RecordFailure count; callers decide which errors are the upstream's fault.
type Breaker struct {
	mu         sync.Mutex
	cfg        Config
	state      State
	failures   int
	successes  int
	probes     int
	openedAt   time.Time
	now        func() time.Time
	transition func(from, to State)
}

func New(cfg Config) *Breaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = 2
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}
	if cfg.MaxProbes <= 0 {
		cfg.MaxProbes = 1
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Breaker{cfg: cfg, state: StateClosed, now: now, transition: cfg.OnStateChange}
}

// Allow reserves a call slot. Every nil return must be followed by exactly
// one RecordSuccess or RecordFailure.
func (b *Breaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.expireLocked()
	switch b.state {
	case StateOpen:
		return ErrCircuitOpen
	case StateHalfOpen:
		if b.probes >= b.cfg.MaxProbes {
			return ErrCircuitOpen
		}
		b.probes++
	}
	return nil
}

func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures = 0
	if b.state != StateHalfOpen {
		return
	}
	b.releaseProbeLocked()
	b.successes++
	if b.successes >= b.cfg.SuccessThreshold {
		b.setStateLocked(StateClosed)
	}
}

func (b *Breaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.successes = 0
	switch b.state {
	case StateHalfOpen:
		b.releaseProbeLocked()
		b.openLocked()
	case StateClosed:
		b.failures++
		if b.failures >= b.cfg.FailureThreshold {
			b.openLocked()
		}
	}
}

// Execute runs fn through the breaker. countFailure decides whether a
// returned error reflects upstream health; a nil countFailure counts every
// error. Context cancellation is never counted.
func (b *Breaker) Execute(ctx context.Context, fn func(context.Context) error, countFailure func(error) bool) error {
	if err := b.Allow(); err != nil {
		return err
	}
	err := fn(ctx)
	switch {
	case err == nil:
		b.RecordSuccess()
	case errors.Is(err, context.Canceled) || (countFailure != nil && !countFailure(err)):
		// Neutral outcome: release a half-open probe without changing state.
		b.mu.Lock()
		b.releaseProbeLocked()
		b.mu.Unlock()
	default:
		b.RecordFailure()
	}
	return err
}

func (b *Breaker) GetState() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.expireLocked()
	return b.state
}

func (b *Breaker) expireLocked() {
	if b.state == StateOpen && b.now().Sub(b.openedAt) >= b.cfg.OpenTimeout {
		b.setStateLocked(StateHalfOpen)
	}
}

func (b *Breaker) openLocked() {
	b.openedAt = b.now()
	b.setStateLocked(StateOpen)
}

func (b *Breaker) releaseProbeLocked() {
	if b.state == StateHalfOpen && b.probes > 0 {
		b.probes--
	}
}

func (b *Breaker) setStateLocked(to State) {
	from := b.state
	if from == to {
		return
	}
	b.state = to
	b.successes = 0
	b.probes = 0
	if to == StateClosed {
		b.failures = 0
	}
	if b.transition != nil {
		b.transition(from, to)
	}
}
