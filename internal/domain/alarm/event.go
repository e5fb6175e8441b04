package alarm

import (
	"time"

	"github.com/google/uuid"
)

// EventType identifies a state machine transition.
type EventType string

const (
	// EventConfigured is emitted when an alarm is set.
	EventConfigured EventType = "configured"
	// EventTriggered is emitted when the alarm starts ringing.
	EventTriggered EventType = "triggered"
	// EventStopped is emitted when a ringing alarm is stopped.
	EventStopped EventType = "stopped"
	// EventSnoozed is emitted when a ringing alarm is snoozed.
	EventSnoozed EventType = "snoozed"
	// EventSnoozeElapsed is informational: the snooze window has passed.
	EventSnoozeElapsed EventType = "snooze_elapsed"
)

// Event describes a transition for observers such as renderers.
type Event struct {
	// At is when the transition happened.
	At time.Time
	// Target is the alarm target after the transition, if any.
	Target *TimeOfDay
	// Type is the kind of transition.
	Type EventType
	// ID uniquely identifies the event.
	ID uuid.UUID
}

// NewEvent creates an event with a fresh ID.
func NewEvent(eventType EventType, target *TimeOfDay, at time.Time) Event {
	var copied *TimeOfDay
	if target != nil {
		t := *target
		copied = &t
	}

	return Event{
		At:     at,
		Target: copied,
		Type:   eventType,
		ID:     uuid.New(),
	}
}
