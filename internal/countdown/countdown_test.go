package countdown

import (
	"errors"
	"testing"
	"time"
)

type fakeTicker struct {
	ch      chan time.Time
	stopped bool
}

func (f *fakeTicker) C() <-chan time.Time { return f.ch }
func (f *fakeTicker) Stop()               { f.stopped = true }

type fakeClock struct {
	tickers []*fakeTicker
}

func (f *fakeClock) NewTicker(time.Duration) Ticker {
	t := &fakeTicker{ch: make(chan time.Time)}
	f.tickers = append(f.tickers, t)
	return t
}

func TestCountdownExpiresOnce(t *testing.T) {
	clock := &fakeClock{}
	c := New(clock, 0)
	if err := c.Start(3); err != nil {
		t.Fatalf("start: %v", err)
	}
	if c.State() != Running || c.Remaining() != 3 {
		t.Fatalf("unexpected start state %s remaining %d", c.State(), c.Remaining())
	}
	if ev := c.Tick(); ev != Ticked || c.Remaining() != 2 {
		t.Fatalf("expected tick to 2, got %v remaining %d", ev, c.Remaining())
	}
	if ev := c.Tick(); ev != Ticked || c.Remaining() != 1 {
		t.Fatalf("expected tick to 1, got %v remaining %d", ev, c.Remaining())
	}
	if ev := c.Tick(); ev != Fired {
		t.Fatalf("expected expiry, got %v", ev)
	}
	if c.State() != Expired || c.Remaining() != 0 {
		t.Fatalf("expected expired at 0, got %s remaining %d", c.State(), c.Remaining())
	}
	if !clock.tickers[0].stopped {
		t.Fatalf("expected ticker stopped on expiry")
	}
	for i := 0; i < 3; i++ {
		if ev := c.Tick(); ev != None {
			t.Fatalf("expected no event after expiry, got %v", ev)
		}
	}
	if c.C() != nil {
		t.Fatalf("expected nil channel after expiry")
	}
}

func TestCountdownCancelSuppressesEvents(t *testing.T) {
	clock := &fakeClock{}
	c := New(clock, 0)
	if err := c.Start(1); err != nil {
		t.Fatalf("start: %v", err)
	}
	c.Cancel()
	c.Cancel()
	if c.State() != Cancelled {
		t.Fatalf("expected cancelled, got %s", c.State())
	}
	if !clock.tickers[0].stopped {
		t.Fatalf("expected ticker stopped on cancel")
	}
	if ev := c.Tick(); ev != None {
		t.Fatalf("expected no event after cancel, got %v", ev)
	}
}

func TestCountdownRestartRules(t *testing.T) {
	c := New(&fakeClock{}, 0)
	if err := c.Start(0); !errors.Is(err, ErrInvalidDuration) {
		t.Fatalf("expected ErrInvalidDuration, got %v", err)
	}
	if err := c.Start(2); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := c.Start(2); !errors.Is(err, ErrRunning) {
		t.Fatalf("expected ErrRunning, got %v", err)
	}
	c.Tick()
	c.Cancel()
	if err := c.Start(5); err != nil {
		t.Fatalf("restart after cancel: %v", err)
	}
	if c.Remaining() != 5 || c.Duration() != 5 {
		t.Fatalf("expected reset to 5, got remaining %d duration %d", c.Remaining(), c.Duration())
	}
	for c.Tick() != Fired {
	}
	if err := c.Start(1); err != nil {
		t.Fatalf("restart after expiry: %v", err)
	}
}

func TestCancelOnIdleIsNoop(t *testing.T) {
	c := New(nil, 0)
	c.Cancel()
	if c.State() != Idle {
		t.Fatalf("expected idle, got %s", c.State())
	}
	if c.C() != nil {
		t.Fatalf("expected nil channel while idle")
	}
}

func TestSystemClockTicks(t *testing.T) {
	c := New(SystemClock{}, time.Millisecond)
	if err := c.Start(2); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer c.Cancel()
	select {
	case <-c.C():
	case <-time.After(time.Second):
		t.Fatalf("expected a tick from the system clock")
	}
}
