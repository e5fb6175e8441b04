package alarm

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/events"
	"github.com/oshokin/alarm-clock/internal/logger"
)

// Service abstracts the business operations the transport layer depends on.
type Service interface {
	SetAlarm(ctx context.Context, hour, minute int) (*domain.State, error)
	StopAlarm(ctx context.Context) *domain.State
	SnoozeAlarm(ctx context.Context) *domain.State
	State() *domain.State
}

// EventSource hands out event subscriptions for WatchEvents.
type EventSource interface {
	Subscribe(buffer int) *events.Subscription
}

// Server implements the AlarmClockService gRPC API.
type Server struct {
	// service provides the alarm state machine.
	service Service
	// events provides subscriptions for WatchEvents.
	events EventSource
	// eventBuffer is the per-stream subscription buffer.
	eventBuffer int
}

// NewServer wires the provided service and event source into a gRPC handler.
func NewServer(service Service, source EventSource, eventBuffer int) *Server {
	return &Server{
		service:     service,
		events:      source,
		eventBuffer: eventBuffer,
	}
}

// SetAlarm validates the requested time and arms the alarm.
func (s *Server) SetAlarm(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	hour, minute, err := AlarmTimeFromProto(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	state, err := s.service.SetAlarm(ctx, hour, minute)
	if err != nil {
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) {
			return nil, status.Error(codes.InvalidArgument, validationErr.Error())
		}

		logger.ErrorKV(ctx, "SetAlarm failed", "error", err)

		return nil, status.Error(codes.Internal, "unable to set alarm")
	}

	return StateToProto(state), nil
}

// StopAlarm silences a ringing alarm; otherwise it just reports the state.
func (s *Server) StopAlarm(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return StateToProto(s.service.StopAlarm(ctx)), nil
}

// SnoozeAlarm snoozes a ringing alarm; otherwise it just reports the state.
func (s *Server) SnoozeAlarm(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return StateToProto(s.service.SnoozeAlarm(ctx)), nil
}

// GetAlarmState returns the current alarm state.
func (s *Server) GetAlarmState(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	state := s.service.State()

	logger.DebugKV(ctx, "Alarm state requested", "phase", state.Phase())

	return StateToProto(state), nil
}

// WatchEvents streams alarm events until the client goes away.
// A client that falls behind, or a server shutting down, ends the stream with
// Unavailable; the client may reconnect.
func (s *Server) WatchEvents(_ *emptypb.Empty, stream EventStream) error {
	ctx := stream.Context()

	if s.events == nil {
		return status.Error(codes.Unavailable, "event stream is not available")
	}

	sub := s.events.Subscribe(s.eventBuffer)
	defer func() {
		_ = sub.Close()
	}()

	logger.Info(ctx, "Event watcher connected")

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Event watcher disconnected")
			return nil
		case event, ok := <-sub.C():
			if !ok {
				return status.Error(codes.Unavailable, "event stream closed")
			}

			if err := stream.Send(EventToProto(event)); err != nil {
				return err
			}
		}
	}
}
