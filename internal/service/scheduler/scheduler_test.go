package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/alarm-clock/internal/clock"
	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/events"
)

// recorder is a Publisher that keeps every event for assertions.
type recorder struct {
	// events holds published events in order.
	events []domain.Event
	// mu protects events.
	mu sync.Mutex
}

// Publish appends the event.
func (r *recorder) Publish(event domain.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, event)
}

// types returns the recorded event types in order.
func (r *recorder) types() []domain.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]domain.EventType, 0, len(r.events))
	for _, event := range r.events {
		result = append(result, event.Type)
	}

	return result
}

// at builds a local wall-clock time on a fixed day.
func at(hour, minute, second int) time.Time {
	return time.Date(2026, 10, 16, hour, minute, second, 0, time.Local)
}

// newTestScheduler returns a scheduler on a fake clock with a recording publisher.
func newTestScheduler(start time.Time) (*Scheduler, *clock.Fake, *recorder) {
	fake := clock.NewFake(start)
	rec := new(recorder)

	return New(fake, rec), fake, rec
}

// TestNew_StartsIdle verifies the initial state is idle with no target.
func TestNew_StartsIdle(t *testing.T) {
	t.Parallel()

	s, _, rec := newTestScheduler(at(6, 0, 0))

	state := s.State()
	require.Nil(t, state.Target)
	require.False(t, state.Armed)
	require.False(t, state.Ringing)
	require.Equal(t, domain.PhaseIdle, state.Phase())
	require.Empty(t, rec.types())
}

// TestSetAlarm_AllValidTimesTrigger checks that every valid time arms and then rings at that minute.
func TestSetAlarm_AllValidTimesTrigger(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	for hour := 0; hour <= domain.MaxHour; hour++ {
		for minute := 0; minute <= domain.MaxMinute; minute++ {
			s, _, _ := newTestScheduler(at(0, 0, 0))

			state, err := s.SetAlarm(ctx, hour, minute)
			require.NoError(t, err)
			require.Equal(t, domain.PhaseArmed, state.Phase())

			s.Tick(ctx, at(hour, minute, 30))
			require.Equal(t, domain.PhaseRinging, s.State().Phase(), "%02d:%02d", hour, minute)
		}
	}
}

// TestSetAlarm_InvalidLeavesStateUnchanged ensures rejected input neither mutates state nor emits.
func TestSetAlarm_InvalidLeavesStateUnchanged(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, _, rec := newTestScheduler(at(6, 0, 0))

	_, err := s.SetAlarm(ctx, 7, 15)
	require.NoError(t, err)

	before := s.State()

	invalid := [][2]int{{-1, 0}, {24, 0}, {7, -1}, {7, 60}, {100, 100}}
	for _, input := range invalid {
		state, err := s.SetAlarm(ctx, input[0], input[1])

		var validationErr *domain.ValidationError
		require.ErrorAs(t, err, &validationErr)
		require.Nil(t, state)
		require.Equal(t, before, s.State())
	}

	require.Equal(t, []domain.EventType{domain.EventConfigured}, rec.types())
}

// TestSetAlarm_Overwrites verifies a new Set silently replaces the previous target.
func TestSetAlarm_Overwrites(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, _, rec := newTestScheduler(at(6, 0, 0))

	_, err := s.SetAlarm(ctx, 7, 0)
	require.NoError(t, err)

	_, err = s.SetAlarm(ctx, 8, 30)
	require.NoError(t, err)

	s.Tick(ctx, at(7, 0, 0))
	require.Equal(t, domain.PhaseArmed, s.State().Phase())

	s.Tick(ctx, at(8, 30, 0))
	require.Equal(t, domain.PhaseRinging, s.State().Phase())

	require.Equal(t, []domain.EventType{
		domain.EventConfigured,
		domain.EventConfigured,
		domain.EventTriggered,
	}, rec.types())
	require.Equal(t, "08:30", rec.events[1].Target.String())
}

// TestTick_EdgeTriggered ensures repeated matching ticks trigger exactly once.
func TestTick_EdgeTriggered(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, _, rec := newTestScheduler(at(8, 0, 0))

	_, err := s.SetAlarm(ctx, 8, 30)
	require.NoError(t, err)

	for second := range 60 {
		s.Tick(ctx, at(8, 30, second))
	}

	require.Equal(t, []domain.EventType{domain.EventConfigured, domain.EventTriggered}, rec.types())
}

// TestTick_SkippedMinuteDoesNotFire documents the minute-granular boundary:
// a tick cadence that jumps over the target minute never rings.
func TestTick_SkippedMinuteDoesNotFire(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, _, rec := newTestScheduler(at(8, 0, 0))

	_, err := s.SetAlarm(ctx, 8, 30)
	require.NoError(t, err)

	s.Tick(ctx, at(8, 29, 59))
	s.Tick(ctx, at(8, 31, 0))

	require.Equal(t, domain.PhaseArmed, s.State().Phase())
	require.Equal(t, []domain.EventType{domain.EventConfigured}, rec.types())
}

// TestStopAlarm_Idempotent verifies stop only acts on a ringing alarm and repeats are no-ops.
func TestStopAlarm_Idempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, _, rec := newTestScheduler(at(6, 0, 0))

	// Stop while idle does nothing.
	state := s.StopAlarm(ctx)
	require.Equal(t, domain.PhaseIdle, state.Phase())

	_, err := s.SetAlarm(ctx, 7, 0)
	require.NoError(t, err)

	// Stop while armed but not ringing does nothing either.
	state = s.StopAlarm(ctx)
	require.Equal(t, domain.PhaseArmed, state.Phase())

	s.Tick(ctx, at(7, 0, 0))

	first := s.StopAlarm(ctx)
	second := s.StopAlarm(ctx)

	require.Equal(t, domain.PhaseIdle, first.Phase())
	require.Equal(t, first, second)
	require.Equal(t, []domain.EventType{
		domain.EventConfigured,
		domain.EventTriggered,
		domain.EventStopped,
	}, rec.types())

	// The target survives the stop for display and reuse.
	require.Equal(t, "07:00", second.Target.String())
}

// TestSnoozeAlarm_NotRinging checks snooze is a no-op outside the ringing phase.
func TestSnoozeAlarm_NotRinging(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, fake, rec := newTestScheduler(at(6, 0, 0))

	require.Equal(t, domain.PhaseIdle, s.SnoozeAlarm(ctx).Phase())

	_, err := s.SetAlarm(ctx, 7, 0)
	require.NoError(t, err)

	require.Equal(t, domain.PhaseArmed, s.SnoozeAlarm(ctx).Phase())
	require.Zero(t, fake.PendingTimers())
	require.Equal(t, []domain.EventType{domain.EventConfigured}, rec.types())
}

// TestScenario_SetTickStop walks set, early tick, trigger, stop and a late tick.
func TestScenario_SetTickStop(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, _, rec := newTestScheduler(at(6, 0, 0))

	_, err := s.SetAlarm(ctx, 7, 0)
	require.NoError(t, err)

	// One minute early: nothing happens.
	s.Tick(ctx, at(6, 59, 0))
	require.Equal(t, domain.PhaseArmed, s.State().Phase())

	// Target minute: ringing, triggered once.
	s.Tick(ctx, at(7, 0, 0))
	require.Equal(t, domain.PhaseRinging, s.State().Phase())

	// Stop goes back to idle.
	require.Equal(t, domain.PhaseIdle, s.StopAlarm(ctx).Phase())

	// The same minute again does not re-trigger.
	s.Tick(ctx, at(7, 0, 0))
	require.Equal(t, domain.PhaseIdle, s.State().Phase())

	require.Equal(t, []domain.EventType{
		domain.EventConfigured,
		domain.EventTriggered,
		domain.EventStopped,
	}, rec.types())
}

// TestScenario_SnoozeRoundTrip covers trigger, snooze at 07:00:05 and ringing again at 07:05.
func TestScenario_SnoozeRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, fake, rec := newTestScheduler(at(6, 59, 0))

	_, err := s.SetAlarm(ctx, 7, 0)
	require.NoError(t, err)

	fake.Set(at(7, 0, 0))
	s.Tick(ctx, fake.Now())
	require.True(t, s.State().Ringing)

	fake.Set(at(7, 0, 5))

	state := s.SnoozeAlarm(ctx)
	require.Equal(t, "07:05", state.Target.String())
	require.True(t, state.Armed)
	require.False(t, state.Ringing)
	require.True(t, state.Snoozed)
	require.Equal(t, domain.PhaseSnoozed, state.Phase())
	require.Equal(t, at(7, 5, 5), state.SnoozeDeadline)

	// Still inside the old minute: no re-trigger.
	s.Tick(ctx, at(7, 0, 6))
	require.False(t, s.State().Ringing)

	fake.Set(at(7, 5, 0))
	s.Tick(ctx, fake.Now())
	require.Equal(t, domain.PhaseRinging, s.State().Phase())

	// The confirmation comes after ringing resumed and is ignored.
	fake.Set(at(7, 5, 5))

	require.Equal(t, []domain.EventType{
		domain.EventConfigured,
		domain.EventTriggered,
		domain.EventSnoozed,
		domain.EventTriggered,
	}, rec.types())
	require.Equal(t, "07:05", rec.events[2].Target.String())
}

// TestSnooze_ConfirmationFiresOnce verifies the informational confirmation after exactly five minutes.
func TestSnooze_ConfirmationFiresOnce(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, fake, rec := newTestScheduler(at(7, 0, 0))

	_, err := s.SetAlarm(ctx, 7, 0)
	require.NoError(t, err)

	s.Tick(ctx, fake.Now())
	s.SnoozeAlarm(ctx)

	fake.Advance(SnoozeDuration - time.Second)
	require.NotContains(t, rec.types(), domain.EventSnoozeElapsed)

	before := s.State()

	fake.Advance(time.Second)

	types := rec.types()
	require.Equal(t, domain.EventSnoozeElapsed, types[len(types)-1])
	require.Equal(t, at(7, 5, 0), rec.events[len(rec.events)-1].At)

	// Informational only: the state is not modified.
	require.Equal(t, before, s.State())
	require.Zero(t, fake.PendingTimers())
}

// TestSnooze_StopCancelsConfirmation ensures Stop during the snooze window cancels the pending callback.
func TestSnooze_StopCancelsConfirmation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, fake, rec := newTestScheduler(at(7, 0, 0))

	_, err := s.SetAlarm(ctx, 7, 0)
	require.NoError(t, err)

	s.Tick(ctx, fake.Now())
	s.SnoozeAlarm(ctx)
	require.Equal(t, 1, fake.PendingTimers())

	// Ring again early by moving the target into the current minute, then stop.
	fake.Advance(time.Minute)
	_, err = s.SetAlarm(ctx, 7, 1)
	require.NoError(t, err)
	require.Zero(t, fake.PendingTimers())

	s.Tick(ctx, fake.Now())
	s.StopAlarm(ctx)

	fake.Advance(10 * time.Minute)

	require.NotContains(t, rec.types(), domain.EventSnoozeElapsed)
	require.Equal(t, domain.PhaseIdle, s.State().Phase())
}

// TestSnooze_StaleCallbackIgnored covers a confirmation already in flight when the snooze was replaced.
func TestSnooze_StaleCallbackIgnored(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, fake, rec := newTestScheduler(at(7, 0, 0))

	_, err := s.SetAlarm(ctx, 7, 0)
	require.NoError(t, err)

	s.Tick(ctx, fake.Now())
	s.SnoozeAlarm(ctx)

	generation := s.snoozeGeneration

	_, err = s.SetAlarm(ctx, 9, 0)
	require.NoError(t, err)

	// Simulate the timer goroutine winning the race against Stop.
	s.confirmSnooze(ctx, generation)

	require.NotContains(t, rec.types(), domain.EventSnoozeElapsed)
	require.Equal(t, domain.PhaseArmed, s.State().Phase())
}

// TestSnooze_WrapsMidnight verifies the snooze target wraps past midnight.
func TestSnooze_WrapsMidnight(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, fake, _ := newTestScheduler(at(23, 58, 0))

	_, err := s.SetAlarm(ctx, 23, 58)
	require.NoError(t, err)

	s.Tick(ctx, fake.Now())

	state := s.SnoozeAlarm(ctx)
	require.Equal(t, "00:03", state.Target.String())

	s.Tick(ctx, fake.Now().Add(SnoozeDuration))
	require.True(t, s.State().Ringing)
}

// TestSetAlarm_WhileRingingRearms ensures Set during ringing silences and re-arms.
func TestSetAlarm_WhileRingingRearms(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, fake, _ := newTestScheduler(at(7, 0, 0))

	_, err := s.SetAlarm(ctx, 7, 0)
	require.NoError(t, err)

	s.Tick(ctx, fake.Now())

	state, err := s.SetAlarm(ctx, 7, 30)
	require.NoError(t, err)
	require.False(t, state.Ringing)
	require.Equal(t, domain.PhaseArmed, state.Phase())
}

// TestScheduler_PublishesToBus wires the scheduler into the real event bus.
func TestScheduler_PublishesToBus(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	bus := events.NewBus()
	sub := bus.Subscribe(8)
	fake := clock.NewFake(at(7, 0, 0))
	s := New(fake, bus)

	_, err := s.SetAlarm(ctx, 7, 0)
	require.NoError(t, err)

	s.Tick(ctx, fake.Now())
	s.StopAlarm(ctx)

	require.Equal(t, domain.EventConfigured, (<-sub.C()).Type)

	triggered := <-sub.C()
	require.Equal(t, domain.EventTriggered, triggered.Type)
	require.Equal(t, "07:00", triggered.Target.String())

	require.Equal(t, domain.EventStopped, (<-sub.C()).Type)
}

// TestScheduler_ConcurrentCommands runs commands and ticks from many goroutines under the race detector.
func TestScheduler_ConcurrentCommands(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := New(clock.Real(), nil)

	var wg sync.WaitGroup

	for i := range 8 {
		wg.Go(func() {
			for j := range 50 {
				_, _ = s.SetAlarm(ctx, i, j) //nolint:errcheck // All inputs are valid.
				s.Tick(ctx, time.Date(2026, 1, 1, i, j, 0, 0, time.Local))
				s.SnoozeAlarm(ctx)
				s.StopAlarm(ctx)
				_ = s.State()
			}
		})
	}

	wg.Wait()
	s.Close()
}
