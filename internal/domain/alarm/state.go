package alarm

import "time"

// Phase is the externally visible state of the alarm.
type Phase string

const (
	// PhaseIdle means no alarm is active.
	PhaseIdle Phase = "idle"
	// PhaseArmed means the alarm waits for its target time.
	PhaseArmed Phase = "armed"
	// PhaseRinging means the alert is firing and waits for stop or snooze.
	PhaseRinging Phase = "ringing"
	// PhaseSnoozed means the alarm is armed again after a snooze.
	PhaseSnoozed Phase = "snoozed"
)

// State represents the alarm status at a specific point in time.
type State struct {
	// Target is the configured time of day, nil until an alarm is first set.
	// It survives stop and snooze so it can be displayed and reused.
	Target *TimeOfDay
	// SnoozeDeadline is when the current snooze window ends, zero if not snoozed.
	SnoozeDeadline time.Time
	// UpdatedAt is when the state last changed.
	UpdatedAt time.Time
	// Armed indicates whether ticks are compared against Target.
	Armed bool
	// Ringing indicates whether the alert is currently firing.
	Ringing bool
	// Snoozed indicates that the armed state was produced by a snooze.
	Snoozed bool
}

// Phase derives the state machine phase from the flags.
func (s *State) Phase() Phase {
	switch {
	case !s.Armed:
		return PhaseIdle
	case s.Ringing:
		return PhaseRinging
	case s.Snoozed:
		return PhaseSnoozed
	default:
		return PhaseArmed
	}
}

// Clone returns a copy of the state to avoid leaking internal references.
func (s *State) Clone() *State {
	cloned := *s

	if s.Target != nil {
		target := *s.Target
		cloned.Target = &target
	}

	return &cloned
}
