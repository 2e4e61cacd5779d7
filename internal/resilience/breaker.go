// Package resilience keeps collaborator outages from cascading. The
// platform depends on two external calls per request class: the tenant
// directory on every navigation and the credential backend on every
// login. When one of them flaps, callers must fail closed immediately
// instead of queueing behind dead connections.
package resilience

import (
	"errors"
	"sync"
	"time"
)

// ErrCircuitOpen is returned while the breaker is shedding calls.
// Callers map it onto their own unavailability state: the resolver
// reports "tenant not found", the session reports the backend as down.
var ErrCircuitOpen = errors.New("circuit breaker is open")

type state int

const (
	stateClosed state = iota
	stateOpen
	stateHalfOpen
)

// Breaker counts consecutive failures and opens once a threshold is
// reached. An open breaker rejects calls until the timeout elapses,
// then lets a single probe call through (half-open).
type Breaker struct {
	mu          sync.Mutex
	state       state
	failures    int
	maxFailures int
	timeout     time.Duration
	openedAt    time.Time
	clock       func() time.Time
}

// NewBreaker creates a breaker that opens after maxFailures consecutive
// failures and stays open for timeout before probing again.
func NewBreaker(maxFailures int, timeout time.Duration) *Breaker {
	return &Breaker{
		maxFailures: maxFailures,
		timeout:     timeout,
		clock:       time.Now,
	}
}

// Execute runs fn unless the circuit is open. The caller decides what
// counts as a failure: a denied login is an answer, not an outage, so
// the session layer absorbs it before fn returns.
func (b *Breaker) Execute(fn func() error) error {
	if !b.allow() {
		return ErrCircuitOpen
	}

	err := fn()

	b.mu.Lock()
	defer b.mu.Unlock()

	if err != nil {
		b.recordFailure()
		return err
	}
	b.recordSuccess()
	return nil
}

func (b *Breaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case stateClosed:
		return true
	case stateOpen:
		if b.clock().Sub(b.openedAt) >= b.timeout {
			b.state = stateHalfOpen
			return true
		}
		return false
	case stateHalfOpen:
		return true
	}
	return false
}

// recordFailure must be called with b.mu held. A failed half-open probe
// reopens immediately.
func (b *Breaker) recordFailure() {
	b.failures++
	if b.state == stateHalfOpen || b.failures >= b.maxFailures {
		b.state = stateOpen
		b.openedAt = b.clock()
	}
}

// recordSuccess must be called with b.mu held.
func (b *Breaker) recordSuccess() {
	b.failures = 0
	b.state = stateClosed
}
