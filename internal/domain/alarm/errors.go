package alarm

import "fmt"

// ValidationError is returned when alarm input is out of range.
// The alarm state is never modified when it is returned.
type ValidationError struct {
	// Field names the rejected input ("hour" or "minute").
	Field string
	// Value is the rejected value.
	Value int
	// Min is the smallest accepted value.
	Min int
	// Max is the largest accepted value.
	Max int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %d: must be between %d and %d", e.Field, e.Value, e.Min, e.Max)
}
