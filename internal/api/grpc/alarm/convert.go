package alarm

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"google.golang.org/protobuf/types/known/structpb"

	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
)

// Message field names.
const (
	fieldHour           = "hour"
	fieldMinute         = "minute"
	fieldPhase          = "phase"
	fieldArmed          = "armed"
	fieldRinging        = "ringing"
	fieldSnoozed        = "snoozed"
	fieldTarget         = "target"
	fieldSnoozeDeadline = "snooze_deadline"
	fieldUpdatedAt      = "updated_at"
	fieldID             = "id"
	fieldType           = "type"
	fieldAt             = "at"
)

var (
	// errMissingField is returned when a required message field is absent.
	errMissingField = errors.New("missing field")
	// errWrongKind is returned when a field holds an unexpected value kind.
	errWrongKind = errors.New("unexpected value kind")
	// errNotInteger is returned for fractional or out of range numbers.
	errNotInteger = errors.New("not an integer")
)

// AlarmTimeToProto builds a SetAlarm request.
func AlarmTimeToProto(hour, minute int) *structpb.Struct {
	return &structpb.Struct{
		Fields: map[string]*structpb.Value{
			fieldHour:   structpb.NewNumberValue(float64(hour)),
			fieldMinute: structpb.NewNumberValue(float64(minute)),
		},
	}
}

// AlarmTimeFromProto extracts hour and minute from a SetAlarm request.
// Range checks are left to the scheduler; only the shape is checked here.
func AlarmTimeFromProto(msg *structpb.Struct) (hour, minute int, err error) {
	if hour, err = intField(msg, fieldHour); err != nil {
		return 0, 0, err
	}

	if minute, err = intField(msg, fieldMinute); err != nil {
		return 0, 0, err
	}

	return hour, minute, nil
}

// StateToProto converts a domain state to its wire form.
func StateToProto(state *domain.State) *structpb.Struct {
	if state == nil {
		state = new(domain.State)
	}

	return &structpb.Struct{
		Fields: map[string]*structpb.Value{
			fieldPhase:          structpb.NewStringValue(string(state.Phase())),
			fieldArmed:          structpb.NewBoolValue(state.Armed),
			fieldRinging:        structpb.NewBoolValue(state.Ringing),
			fieldSnoozed:        structpb.NewBoolValue(state.Snoozed),
			fieldTarget:         targetToValue(state.Target),
			fieldSnoozeDeadline: timeToValue(state.SnoozeDeadline),
			fieldUpdatedAt:      timeToValue(state.UpdatedAt),
		},
	}
}

// StateFromProto converts the wire form back to a domain state.
func StateFromProto(msg *structpb.Struct) (*domain.State, error) {
	state := new(domain.State)

	var err error

	if state.Armed, err = boolField(msg, fieldArmed); err != nil {
		return nil, err
	}

	if state.Ringing, err = boolField(msg, fieldRinging); err != nil {
		return nil, err
	}

	if state.Snoozed, err = boolField(msg, fieldSnoozed); err != nil {
		return nil, err
	}

	if state.Target, err = targetField(msg, fieldTarget); err != nil {
		return nil, err
	}

	if state.SnoozeDeadline, err = timeField(msg, fieldSnoozeDeadline); err != nil {
		return nil, err
	}

	if state.UpdatedAt, err = timeField(msg, fieldUpdatedAt); err != nil {
		return nil, err
	}

	return state, nil
}

// EventToProto converts a domain event to its wire form.
func EventToProto(event domain.Event) *structpb.Struct {
	return &structpb.Struct{
		Fields: map[string]*structpb.Value{
			fieldID:     structpb.NewStringValue(event.ID.String()),
			fieldType:   structpb.NewStringValue(string(event.Type)),
			fieldTarget: targetToValue(event.Target),
			fieldAt:     timeToValue(event.At),
		},
	}
}

// EventFromProto converts the wire form back to a domain event.
func EventFromProto(msg *structpb.Struct) (domain.Event, error) {
	var event domain.Event

	rawID, err := stringField(msg, fieldID)
	if err != nil {
		return event, err
	}

	if event.ID, err = uuid.Parse(rawID); err != nil {
		return event, fmt.Errorf("field %s: %w", fieldID, err)
	}

	rawType, err := stringField(msg, fieldType)
	if err != nil {
		return event, err
	}

	event.Type = domain.EventType(rawType)

	if event.Target, err = targetField(msg, fieldTarget); err != nil {
		return event, err
	}

	if event.At, err = timeField(msg, fieldAt); err != nil {
		return event, err
	}

	return event, nil
}

// targetToValue renders an optional target as "HH:MM" or null.
func targetToValue(target *domain.TimeOfDay) *structpb.Value {
	if target == nil {
		return structpb.NewNullValue()
	}

	return structpb.NewStringValue(target.String())
}

// timeToValue renders a time as RFC 3339 with nanoseconds, or null when zero.
func timeToValue(t time.Time) *structpb.Value {
	if t.IsZero() {
		return structpb.NewNullValue()
	}

	return structpb.NewStringValue(t.Format(time.RFC3339Nano))
}

// field returns the named value, nil when absent or null.
func field(msg *structpb.Struct, name string) *structpb.Value {
	value, ok := msg.GetFields()[name]
	if !ok {
		return nil
	}

	if _, isNull := value.GetKind().(*structpb.Value_NullValue); isNull {
		return nil
	}

	return value
}

// intField reads a required integral number.
func intField(msg *structpb.Struct, name string) (int, error) {
	value := field(msg, name)
	if value == nil {
		return 0, fmt.Errorf("field %s: %w", name, errMissingField)
	}

	kind, ok := value.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("field %s: %w", name, errWrongKind)
	}

	number := kind.NumberValue
	if number != math.Trunc(number) || number < math.MinInt32 || number > math.MaxInt32 {
		return 0, fmt.Errorf("field %s: %w", name, errNotInteger)
	}

	return int(number), nil
}

// boolField reads a required boolean.
func boolField(msg *structpb.Struct, name string) (bool, error) {
	value := field(msg, name)
	if value == nil {
		return false, fmt.Errorf("field %s: %w", name, errMissingField)
	}

	kind, ok := value.GetKind().(*structpb.Value_BoolValue)
	if !ok {
		return false, fmt.Errorf("field %s: %w", name, errWrongKind)
	}

	return kind.BoolValue, nil
}

// stringField reads a required string.
func stringField(msg *structpb.Struct, name string) (string, error) {
	value := field(msg, name)
	if value == nil {
		return "", fmt.Errorf("field %s: %w", name, errMissingField)
	}

	kind, ok := value.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", fmt.Errorf("field %s: %w", name, errWrongKind)
	}

	return kind.StringValue, nil
}

// targetField reads an optional "HH:MM" value.
func targetField(msg *structpb.Struct, name string) (*domain.TimeOfDay, error) {
	if field(msg, name) == nil {
		return nil, nil //nolint:nilnil // Unset target is valid.
	}

	raw, err := stringField(msg, name)
	if err != nil {
		return nil, err
	}

	target, err := domain.ParseTimeOfDay(raw)
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", name, err)
	}

	return &target, nil
}

// timeField reads an optional RFC 3339 timestamp.
func timeField(msg *structpb.Struct, name string) (time.Time, error) {
	if field(msg, name) == nil {
		return time.Time{}, nil
	}

	raw, err := stringField(msg, name)
	if err != nil {
		return time.Time{}, err
	}

	parsed, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("field %s: %w", name, err)
	}

	return parsed, nil
}
