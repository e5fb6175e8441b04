package clock

import "time"

// Clock provides the current time and schedules work in the future.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
	// AfterFunc calls f in its own goroutine once d has elapsed.
	AfterFunc(d time.Duration, f func()) Timer
	// NewTicker returns a ticker delivering ticks every d. Panics if d <= 0.
	NewTicker(d time.Duration) Ticker
}

// Timer is a handle to a pending AfterFunc call.
type Timer interface {
	// Stop prevents the call from running. It reports whether the call was
	// stopped before it started.
	Stop() bool
}

// Ticker delivers periodic ticks.
type Ticker interface {
	// C returns the tick channel. Slow readers miss ticks rather than queue them.
	C() <-chan time.Time
	// Stop turns off the ticker. It does not close the channel.
	Stop()
}

// realClock delegates to package time.
type realClock struct{}

// Real returns the system clock.
//
//nolint:ireturn // Callers depend on the Clock abstraction.
func Real() Clock {
	return realClock{}
}

// Now returns time.Now.
func (realClock) Now() time.Time {
	return time.Now()
}

// AfterFunc wraps time.AfterFunc.
//
//nolint:ireturn // Timer is the abstraction.
func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// NewTicker wraps time.NewTicker.
//
//nolint:ireturn // Ticker is the abstraction.
func (realClock) NewTicker(d time.Duration) Ticker {
	return &realTicker{ticker: time.NewTicker(d)}
}

// realTicker adapts *time.Ticker to the Ticker interface.
type realTicker struct {
	ticker *time.Ticker
}

// C returns the underlying ticker channel.
func (t *realTicker) C() <-chan time.Time {
	return t.ticker.C
}

// Stop stops the underlying ticker.
func (t *realTicker) Stop() {
	t.ticker.Stop()
}
