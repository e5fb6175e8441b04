package clock

import (
	"sort"
	"sync"
	"time"
)

// Fake is a Clock that only moves when Advance or Set is called.
// AfterFunc callbacks run synchronously inside Advance, in deadline order.
type Fake struct {
	// now is the current fake time.
	now time.Time
	// timers holds pending AfterFunc calls.
	timers []*fakeTimer
	// tickers holds active tickers.
	tickers []*fakeTicker
	// mu protects all fields above.
	mu sync.Mutex
}

// NewFake creates a fake clock set to start.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

// Now returns the current fake time.
func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.now
}

// AfterFunc registers f to run when the fake time reaches now+d.
//
//nolint:ireturn // Timer is the abstraction.
func (f *Fake) AfterFunc(d time.Duration, fn func()) Timer {
	f.mu.Lock()
	defer f.mu.Unlock()

	timer := &fakeTimer{
		clock:    f,
		deadline: f.now.Add(d),
		fn:       fn,
	}
	f.timers = append(f.timers, timer)

	return timer
}

// NewTicker creates a ticker firing every d of fake time.
//
//nolint:ireturn // Ticker is the abstraction.
func (f *Fake) NewTicker(d time.Duration) Ticker {
	if d <= 0 {
		panic("clock: non-positive interval for NewTicker")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	ticker := &fakeTicker{
		clock:    f,
		ch:       make(chan time.Time, 1),
		interval: d,
		next:     f.now.Add(d),
	}
	f.tickers = append(f.tickers, ticker)

	return ticker
}

// PendingTimers returns the number of timers that have not fired or been stopped.
func (f *Fake) PendingTimers() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.timers)
}

// Set moves the fake time to t, firing everything due on the way.
// Moving backwards only changes Now.
func (f *Fake) Set(t time.Time) {
	f.mu.Lock()
	d := t.Sub(f.now)
	if d <= 0 {
		f.now = t
		f.mu.Unlock()

		return
	}
	f.mu.Unlock()

	f.Advance(d)
}

// Advance moves the fake time forward by d. Due timers run in deadline order
// without the clock lock held, so callbacks may use the clock themselves.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	target := f.now.Add(d)
	f.mu.Unlock()

	for {
		timer := f.popDue(target)
		if timer == nil {
			break
		}

		timer.fn()
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.now = target

	for _, ticker := range f.tickers {
		ticker.deliver(target)
	}
}

// popDue removes and returns the earliest timer due at or before target,
// advancing the clock to its deadline.
func (f *Fake) popDue(target time.Time) *fakeTimer {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.timers) == 0 {
		return nil
	}

	sort.SliceStable(f.timers, func(i, j int) bool {
		return f.timers[i].deadline.Before(f.timers[j].deadline)
	})

	next := f.timers[0]
	if next.deadline.After(target) {
		return nil
	}

	f.timers = f.timers[1:]

	if next.deadline.After(f.now) {
		f.now = next.deadline
	}

	return next
}

// removeTimer drops timer from the pending list and reports whether it was there.
func (f *Fake) removeTimer(timer *fakeTimer) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, pending := range f.timers {
		if pending == timer {
			f.timers = append(f.timers[:i], f.timers[i+1:]...)
			return true
		}
	}

	return false
}

// removeTicker drops ticker from the active list.
func (f *Fake) removeTicker(ticker *fakeTicker) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, active := range f.tickers {
		if active == ticker {
			f.tickers = append(f.tickers[:i], f.tickers[i+1:]...)
			return
		}
	}
}

// fakeTimer is a pending AfterFunc call on a Fake clock.
type fakeTimer struct {
	clock    *Fake
	deadline time.Time
	fn       func()
}

// Stop cancels the call if it has not run yet.
func (t *fakeTimer) Stop() bool {
	return t.clock.removeTimer(t)
}

// fakeTicker is a ticker driven by a Fake clock.
type fakeTicker struct {
	clock    *Fake
	ch       chan time.Time
	next     time.Time
	interval time.Duration
}

// C returns the tick channel.
func (t *fakeTicker) C() <-chan time.Time {
	return t.ch
}

// Stop deregisters the ticker.
func (t *fakeTicker) Stop() {
	t.clock.removeTicker(t)
}

// deliver sends at most one tick if a tick was due by now. Called with the clock lock held.
func (t *fakeTicker) deliver(now time.Time) {
	if now.Before(t.next) {
		return
	}

	for !now.Before(t.next) {
		t.next = t.next.Add(t.interval)
	}

	select {
	case t.ch <- now:
	default:
	}
}
