package resilience

import (
	"errors"
	"testing"
	"time"
)

var errDirectoryDown = errors.New("directory unavailable")

func TestClosedBreakerPassesCallsThrough(t *testing.T) {
	b := NewBreaker(3, time.Second)

	called := false
	if err := b.Execute(func() error { called = true; return nil }); err != nil {
		t.Fatalf("err = %v", err)
	}
	if !called {
		t.Fatal("closed breaker must run the call")
	}
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	b := NewBreaker(3, time.Second)

	for i := 0; i < 3; i++ {
		_ = b.Execute(func() error { return errDirectoryDown })
	}

	// The directory is no longer consulted at all.
	if err := b.Execute(func() error { t.Fatal("call must be shed"); return nil }); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("err = %v, want ErrCircuitOpen", err)
	}
}

func TestBreakerRecoversThroughHalfOpenProbe(t *testing.T) {
	now := time.Now()
	b := NewBreaker(2, time.Second)
	b.clock = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		_ = b.Execute(func() error { return errDirectoryDown })
	}
	if err := b.Execute(func() error { return nil }); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("err = %v, want ErrCircuitOpen before the timeout", err)
	}

	now = now.Add(2 * time.Second)

	// The directory came back: one probe succeeds and closes the circuit.
	probed := false
	if err := b.Execute(func() error { probed = true; return nil }); err != nil {
		t.Fatalf("half-open probe: %v", err)
	}
	if !probed {
		t.Fatal("half-open breaker must run the probe")
	}

	b.mu.Lock()
	if b.state != stateClosed {
		t.Fatalf("state = %d after a successful probe, want closed", b.state)
	}
	b.mu.Unlock()
}

func TestFailedProbeReopensImmediately(t *testing.T) {
	now := time.Now()
	b := NewBreaker(2, time.Second)
	b.clock = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		_ = b.Execute(func() error { return errDirectoryDown })
	}
	now = now.Add(2 * time.Second)

	// The outage persists: the single probe fails.
	_ = b.Execute(func() error { return errDirectoryDown })

	b.mu.Lock()
	if b.state != stateOpen {
		t.Fatalf("state = %d after a failed probe, want open", b.state)
	}
	b.mu.Unlock()

	if err := b.Execute(func() error { return nil }); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("err = %v, want ErrCircuitOpen after reopen", err)
	}
}

func TestSuccessResetsTheFailureCount(t *testing.T) {
	b := NewBreaker(3, time.Second)

	_ = b.Execute(func() error { return errDirectoryDown })
	_ = b.Execute(func() error { return errDirectoryDown })
	_ = b.Execute(func() error { return nil })
	_ = b.Execute(func() error { return errDirectoryDown })
	_ = b.Execute(func() error { return errDirectoryDown })

	// Never three in a row, so the circuit stays closed.
	called := false
	if err := b.Execute(func() error { called = true; return nil }); err != nil {
		t.Fatalf("err = %v", err)
	}
	if !called {
		t.Fatal("breaker must still run the call")
	}
}
