// Package countdown provides a cancellable per-question countdown.
package countdown

import (
	"errors"
	"time"
)

// State is the countdown's lifecycle state.
type State int

// Countdown states.
const (
	Idle State = iota
	Running
	Expired
	Cancelled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Expired:
		return "expired"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Event is the outcome of a single Tick.
type Event int

// Tick outcomes.
const (
	// None means the tick was ignored because the countdown is not running.
	None Event = iota
	// Ticked means one second elapsed and time remains.
	Ticked
	// Fired means the countdown reached zero; it is reported once per Start.
	Fired
)

var (
	// ErrRunning is returned by Start while a countdown is still running.
	ErrRunning = errors.New("countdown already running")
	// ErrInvalidDuration is returned for durations below one second.
	ErrInvalidDuration = errors.New("countdown duration must be at least 1 second")
)

// Ticker delivers periodic ticks.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Clock creates tickers.
type Clock interface {
	NewTicker(d time.Duration) Ticker
}

// SystemClock is a Clock backed by time.Ticker.
type SystemClock struct{}

// NewTicker implements Clock.
func (SystemClock) NewTicker(d time.Duration) Ticker {
	return systemTicker{t: time.NewTicker(d)}
}

type systemTicker struct {
	t *time.Ticker
}

func (s systemTicker) C() <-chan time.Time { return s.t.C }
func (s systemTicker) Stop()               { s.t.Stop() }

// Countdown is a single-question clock: Idle -> Running -> Expired | Cancelled.
// It is not safe for concurrent use; the owner serializes Start, Cancel and Tick.
type Countdown struct {
	clock    Clock
	interval time.Duration

	state     State
	duration  int
	remaining int
	ticker    Ticker
}

// New returns an idle countdown ticking once per interval (one second when interval <= 0).
func New(clock Clock, interval time.Duration) *Countdown {
	if clock == nil {
		clock = SystemClock{}
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &Countdown{clock: clock, interval: interval}
}

// Start begins a new countdown of the given number of seconds.
func (c *Countdown) Start(seconds int) error {
	if c.state == Running {
		return ErrRunning
	}
	if seconds < 1 {
		return ErrInvalidDuration
	}
	c.duration = seconds
	c.remaining = seconds
	c.state = Running
	c.ticker = c.clock.NewTicker(c.interval)
	return nil
}

// Cancel stops a running countdown. It is a no-op in any other state.
func (c *Countdown) Cancel() {
	if c.state != Running {
		return
	}
	c.stopTicker()
	c.state = Cancelled
}

// Tick advances a running countdown by one second.
func (c *Countdown) Tick() Event {
	if c.state != Running {
		return None
	}
	c.remaining--
	if c.remaining > 0 {
		return Ticked
	}
	c.remaining = 0
	c.stopTicker()
	c.state = Expired
	return Fired
}

// C returns the tick channel of the running countdown, or nil when stopped.
// Receiving from the nil channel blocks forever, which suits select loops.
func (c *Countdown) C() <-chan time.Time {
	if c.state != Running || c.ticker == nil {
		return nil
	}
	return c.ticker.C()
}

// State returns the current lifecycle state.
func (c *Countdown) State() State {
	return c.state
}

// Remaining returns the seconds left in the current countdown.
func (c *Countdown) Remaining() int {
	return c.remaining
}

// Duration returns the length of the most recent countdown.
func (c *Countdown) Duration() int {
	return c.duration
}

func (c *Countdown) stopTicker() {
	if c.ticker == nil {
		return
	}
	c.ticker.Stop()
	c.ticker = nil
}
