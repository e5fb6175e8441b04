// Package alarm contains core domain types for the alarm clock.
//
// It defines Actor (who issued a command), TimeOfDay (the wall-clock minute
// an alarm targets), State (the alarm status at a point in time) with its
// derived Phase, the Event values emitted on every transition, and
// ValidationError for rejected input.
package alarm
