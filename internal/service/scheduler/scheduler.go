package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/oshokin/alarm-clock/internal/clock"
	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/logger"
)

// SnoozeDuration is how far a snooze pushes the alarm.
const SnoozeDuration = 5 * time.Minute

// Publisher receives the events emitted on transitions. Publish must not block.
type Publisher interface {
	Publish(event domain.Event)
}

// Scheduler is the alarm state machine. All methods are safe for concurrent
// use; calls are applied one at a time in arrival order.
type Scheduler struct {
	// clock supplies "now" for snoozes and the snooze confirmation timer.
	clock clock.Clock
	// publisher receives transition events.
	publisher Publisher
	// state is the single alarm state owned by the scheduler.
	state domain.State
	// snoozeTimer is the pending snooze confirmation, nil if none.
	snoozeTimer clock.Timer
	// snoozeGeneration identifies the current snooze; stale callbacks compare against it.
	snoozeGeneration uint64
	// mu serializes commands, ticks and timer callbacks.
	mu sync.Mutex
}

// New creates an idle scheduler with no alarm set.
func New(clk clock.Clock, publisher Publisher) *Scheduler {
	return &Scheduler{
		clock:     clk,
		publisher: publisher,
		state: domain.State{
			UpdatedAt: clk.Now(),
		},
	}
}

// SetAlarm arms the alarm for hour:minute, replacing any previous target.
// Out-of-range input returns *domain.ValidationError and leaves the state untouched.
func (s *Scheduler) SetAlarm(ctx context.Context, hour, minute int) (*domain.State, error) {
	target, err := domain.NewTimeOfDay(hour, minute)
	if err != nil {
		logger.DebugKV(ctx, "Rejected alarm time", "hour", hour, "minute", minute, "error", err)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelSnoozeLocked()

	s.state.Target = &target
	s.state.Armed = true
	s.state.Ringing = false
	s.state.Snoozed = false
	s.state.SnoozeDeadline = time.Time{}
	s.state.UpdatedAt = s.clock.Now()

	s.emitLocked(ctx, domain.EventConfigured)

	return s.state.Clone(), nil
}

// Tick compares now with the alarm target and starts ringing on a match.
// Only hour and minute are compared, so the alarm fires on the first tick
// inside the target minute. If no tick lands inside that minute (for
// example the host was asleep) the alarm does not fire at all.
// Ticks while ringing or idle do nothing.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.Armed || s.state.Ringing || s.state.Target == nil {
		return
	}

	if !s.state.Target.Matches(now) {
		return
	}

	s.state.Ringing = true
	s.state.Snoozed = false
	s.state.SnoozeDeadline = time.Time{}
	s.state.UpdatedAt = now

	s.emitLocked(ctx, domain.EventTriggered)
}

// StopAlarm silences a ringing alarm and disarms it. The target is kept.
// It does nothing when the alarm is not ringing.
func (s *Scheduler) StopAlarm(ctx context.Context) *domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.Ringing {
		logger.Debug(ctx, "Stop ignored, alarm is not ringing")
		return s.state.Clone()
	}

	s.stopLocked()
	s.emitLocked(ctx, domain.EventStopped)

	return s.state.Clone()
}

// SnoozeAlarm silences a ringing alarm and re-arms it SnoozeDuration from now.
// It does nothing when the alarm is not ringing.
func (s *Scheduler) SnoozeAlarm(ctx context.Context) *domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.Ringing {
		logger.Debug(ctx, "Snooze ignored, alarm is not ringing")
		return s.state.Clone()
	}

	s.stopLocked()

	now := s.clock.Now()
	deadline := now.Add(SnoozeDuration)
	target := domain.TimeOfDayOf(deadline)

	s.state.Target = &target
	s.state.Armed = true
	s.state.Snoozed = true
	s.state.SnoozeDeadline = deadline
	s.state.UpdatedAt = now

	s.snoozeGeneration++
	generation := s.snoozeGeneration
	timerCtx := context.WithoutCancel(ctx)

	s.snoozeTimer = s.clock.AfterFunc(SnoozeDuration, func() {
		s.confirmSnooze(timerCtx, generation)
	})

	s.emitLocked(ctx, domain.EventSnoozed)

	return s.state.Clone()
}

// State returns a copy of the current alarm state.
func (s *Scheduler) State() *domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.Clone()
}

// Close cancels any pending snooze confirmation.
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelSnoozeLocked()
}

// confirmSnooze runs when the snooze window ends. It only reports; the alarm
// is already armed and rings through the normal Tick comparison.
func (s *Scheduler) confirmSnooze(ctx context.Context, generation uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.snoozeGeneration || !s.state.Armed || !s.state.Snoozed {
		logger.Debug(ctx, "Stale snooze confirmation ignored")
		return
	}

	s.snoozeTimer = nil

	s.emitLocked(ctx, domain.EventSnoozeElapsed)
}

// stopLocked clears ringing and armed and cancels the snooze confirmation.
func (s *Scheduler) stopLocked() {
	s.cancelSnoozeLocked()

	s.state.Ringing = false
	s.state.Armed = false
	s.state.Snoozed = false
	s.state.SnoozeDeadline = time.Time{}
	s.state.UpdatedAt = s.clock.Now()
}

// cancelSnoozeLocked stops the pending confirmation and invalidates one already in flight.
func (s *Scheduler) cancelSnoozeLocked() {
	s.snoozeGeneration++

	if s.snoozeTimer == nil {
		return
	}

	s.snoozeTimer.Stop()
	s.snoozeTimer = nil
}

// emitLocked logs the transition and publishes the matching event.
func (s *Scheduler) emitLocked(ctx context.Context, eventType domain.EventType) {
	event := domain.NewEvent(eventType, s.state.Target, s.state.UpdatedAt)
	if eventType == domain.EventSnoozeElapsed {
		event.At = s.clock.Now()
	}

	logger.InfoKV(
		ctx,
		"Alarm transition",
		"event", eventType,
		"phase", s.state.Phase(),
		"target", targetString(s.state.Target),
	)

	if s.publisher != nil {
		s.publisher.Publish(event)
	}
}

// targetString renders an optional target for logs.
func targetString(target *domain.TimeOfDay) string {
	if target == nil {
		return "<unset>"
	}

	return target.String()
}
