package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestFake_AfterFuncOrder verifies that due timers run in deadline order and observe their own deadline.
func TestFake_AfterFuncOrder(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 10, 16, 7, 0, 0, 0, time.UTC)
	c := NewFake(start)

	var fired []time.Time

	c.AfterFunc(2*time.Minute, func() { fired = append(fired, c.Now()) })
	c.AfterFunc(time.Minute, func() { fired = append(fired, c.Now()) })
	c.AfterFunc(10*time.Minute, func() { fired = append(fired, c.Now()) })

	c.Advance(5 * time.Minute)

	require.Equal(t, []time.Time{start.Add(time.Minute), start.Add(2 * time.Minute)}, fired)
	require.Equal(t, start.Add(5*time.Minute), c.Now())
	require.Equal(t, 1, c.PendingTimers())
}

// TestFake_TimerStop ensures a stopped timer never runs and Stop reports correctly.
func TestFake_TimerStop(t *testing.T) {
	t.Parallel()

	c := NewFake(time.Unix(0, 0))
	called := false

	timer := c.AfterFunc(time.Second, func() { called = true })
	require.True(t, timer.Stop())
	require.False(t, timer.Stop())

	c.Advance(time.Hour)
	require.False(t, called)
}

// TestFake_CallbackSchedulesTimer checks that callbacks may schedule further timers.
func TestFake_CallbackSchedulesTimer(t *testing.T) {
	t.Parallel()

	c := NewFake(time.Unix(0, 0))
	count := 0

	c.AfterFunc(time.Second, func() {
		count++

		c.AfterFunc(time.Second, func() { count++ })
	})

	c.Advance(3 * time.Second)
	require.Equal(t, 2, count)
}

// TestFake_Ticker verifies ticks are delivered without blocking and stop after Stop.
func TestFake_Ticker(t *testing.T) {
	t.Parallel()

	start := time.Unix(1000, 0)
	c := NewFake(start)
	ticker := c.NewTicker(time.Second)

	c.Advance(500 * time.Millisecond)

	select {
	case <-ticker.C():
		t.Fatal("tick delivered too early")
	default:
	}

	// Several intervals pass but only one tick is buffered.
	c.Advance(3 * time.Second)
	require.Equal(t, start.Add(3500*time.Millisecond), <-ticker.C())

	select {
	case <-ticker.C():
		t.Fatal("ticks must not queue up")
	default:
	}

	ticker.Stop()
	c.Advance(time.Minute)

	select {
	case <-ticker.C():
		t.Fatal("tick after Stop")
	default:
	}
}

// TestFake_Set moves forward through timers and backward without firing.
func TestFake_Set(t *testing.T) {
	t.Parallel()

	start := time.Unix(0, 0)
	c := NewFake(start)
	called := false

	c.AfterFunc(time.Minute, func() { called = true })

	c.Set(start.Add(-time.Hour))
	require.False(t, called)
	require.Equal(t, start.Add(-time.Hour), c.Now())

	c.Set(start.Add(time.Hour))
	require.True(t, called)
}

// TestReal_Now sanity-checks the real clock.
func TestReal_Now(t *testing.T) {
	t.Parallel()

	require.WithinDuration(t, time.Now(), Real().Now(), time.Second)
}
