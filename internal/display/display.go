// Package display renders the clock face and the alarm indicator as text.
package display

import (
	"fmt"
	"time"

	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
)

const (
	// TimeLayout is the clock face time, e.g. "07:04:59".
	TimeLayout = "15:04:05"
	// DateLayout is the clock face date, e.g. "Fri, Oct 16, 2026".
	DateLayout = "Mon, Jan 2, 2006"
)

// Face is the rendered clock face.
type Face struct {
	Time string
	Date string
}

// ClockFace renders now in the local wall-clock layouts.
func ClockFace(now time.Time) Face {
	return Face{
		Time: now.Format(TimeLayout),
		Date: now.Format(DateLayout),
	}
}

// Indicator renders the alarm indicator line for a state.
func Indicator(state *domain.State) string {
	if state == nil {
		return "No Alarm Set"
	}

	switch state.Phase() {
	case domain.PhaseRinging:
		return "ALARM!"
	case domain.PhaseSnoozed:
		return "Snoozed Until: " + target(state.Target)
	case domain.PhaseArmed:
		return "Alarm Set: " + target(state.Target)
	default:
		return "No Alarm Set"
	}
}

// EventLine renders one event for a terminal log.
func EventLine(event domain.Event) string {
	at := event.At.Local().Format(TimeLayout)

	switch event.Type {
	case domain.EventConfigured:
		return fmt.Sprintf("%s  Alarm Set: %s", at, target(event.Target))
	case domain.EventTriggered:
		return fmt.Sprintf("%s  ALARM! It's %s!", at, target(event.Target))
	case domain.EventStopped:
		return at + "  Alarm stopped"
	case domain.EventSnoozed:
		return fmt.Sprintf("%s  Snoozed Until: %s", at, target(event.Target))
	case domain.EventSnoozeElapsed:
		return at + "  Snooze period ended"
	default:
		return fmt.Sprintf("%s  %s", at, event.Type)
	}
}

// target renders an optional target.
func target(t *domain.TimeOfDay) string {
	if t == nil {
		return "--:--"
	}

	return t.String()
}
