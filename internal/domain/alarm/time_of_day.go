package alarm

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// MaxHour is the largest accepted hour value.
	MaxHour = 23
	// MaxMinute is the largest accepted minute value.
	MaxMinute = 59
)

// TimeOfDay is a wall-clock time with minute granularity.
type TimeOfDay struct {
	// Hour is in the range [0, 23].
	Hour int
	// Minute is in the range [0, 59].
	Minute int
}

// NewTimeOfDay validates hour and minute and returns the combined time of day.
func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > MaxHour {
		return TimeOfDay{}, &ValidationError{Field: "hour", Value: hour, Min: 0, Max: MaxHour}
	}

	if minute < 0 || minute > MaxMinute {
		return TimeOfDay{}, &ValidationError{Field: "minute", Value: minute, Min: 0, Max: MaxMinute}
	}

	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// TimeOfDayOf returns the hour and minute of t in t's location.
func TimeOfDayOf(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}
}

// ParseTimeOfDay parses the "HH:MM" form produced by String.
// Single-digit hours and minutes are accepted.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	hourPart, minutePart, found := strings.Cut(strings.TrimSpace(s), ":")
	if !found {
		return TimeOfDay{}, fmt.Errorf("parse time of day %q: expected HH:MM", s)
	}

	hour, err := strconv.Atoi(hourPart)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("parse hour %q: %w", hourPart, err)
	}

	minute, err := strconv.Atoi(minutePart)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("parse minute %q: %w", minutePart, err)
	}

	return NewTimeOfDay(hour, minute)
}

// Matches reports whether now falls within this minute of the day.
// Seconds are ignored.
func (t TimeOfDay) Matches(now time.Time) bool {
	return now.Hour() == t.Hour && now.Minute() == t.Minute
}

// String renders the time of day as zero-padded "HH:MM".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}
