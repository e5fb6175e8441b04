//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	api "github.com/oshokin/alarm-clock/internal/api/grpc/alarm"
	"github.com/oshokin/alarm-clock/internal/config"
	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
)

// Client wraps the AlarmClockService stub with timeouts and domain types.
type Client struct {
	// conn is the underlying gRPC connection to the alarm clock server.
	conn *grpc.ClientConn
	// api is the AlarmClockService stub.
	api *api.Client
	// actor is attached to every call when set.
	actor *domain.Actor

	// callTimeout is the default timeout for individual RPC calls.
	callTimeout time.Duration
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for unary calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// WithActor identifies the caller on every request.
func WithActor(actor *domain.Actor) Option {
	return func(c *Client) {
		c.actor = actor.Clone()
	}
}

var (
	// errAddressRequired is returned when a required address value is missing.
	errAddressRequired = errors.New("address must be provided")
	// ErrEventHandler marks a Watch failure caused by the event handler rather than the stream.
	ErrEventHandler = errors.New("event handler failed")
)

// EventHandler is called for every event received by Watch.
type EventHandler func(event domain.Event) error

// Dial creates a gRPC client for the alarm clock server.
// Note: this uses insecure transport credentials; run on a trusted network.
func Dial(_ context.Context, address string, opts ...Option) (*Client, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial alarm clock server: %w", err)
	}

	client := &Client{
		conn:        conn,
		api:         api.NewClient(conn),
		callTimeout: config.DefaultTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}

	return c.conn.Close()
}

// SetAlarm arms the alarm for hour:minute.
func (c *Client) SetAlarm(ctx context.Context, hour, minute int) (*domain.State, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.SetAlarm(callCtx, api.AlarmTimeToProto(hour, minute))
	if err != nil {
		return nil, fmt.Errorf("set alarm: %w", err)
	}

	return decodeState(resp)
}

// StopAlarm stops a ringing alarm.
func (c *Client) StopAlarm(ctx context.Context) (*domain.State, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.StopAlarm(callCtx)
	if err != nil {
		return nil, fmt.Errorf("stop alarm: %w", err)
	}

	return decodeState(resp)
}

// SnoozeAlarm snoozes a ringing alarm.
func (c *Client) SnoozeAlarm(ctx context.Context) (*domain.State, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.SnoozeAlarm(callCtx)
	if err != nil {
		return nil, fmt.Errorf("snooze alarm: %w", err)
	}

	return decodeState(resp)
}

// GetAlarmState retrieves the current alarm state.
func (c *Client) GetAlarmState(ctx context.Context) (*domain.State, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.GetAlarmState(callCtx)
	if err != nil {
		return nil, fmt.Errorf("get alarm state: %w", err)
	}

	return decodeState(resp)
}

// Watch streams events to handle until ctx is canceled, the server closes
// the stream or handle returns an error. The call timeout does not apply.
// Errors returned by handle are wrapped with ErrEventHandler.
func (c *Client) Watch(ctx context.Context, handle EventHandler) error {
	// The stream is released on every return path, not only on cancellation.
	streamCtx, cancel := context.WithCancel(api.WithActor(ctx, c.actor))
	defer cancel()

	receiver, err := c.api.WatchEvents(streamCtx)
	if err != nil {
		return fmt.Errorf("watch events: %w", err)
	}

	for {
		msg, err := receiver.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return nil
			}

			return fmt.Errorf("receive event: %w", err)
		}

		event, err := api.EventFromProto(msg)
		if err != nil {
			return fmt.Errorf("decode event: %w", err)
		}

		if err = handle(event); err != nil {
			return fmt.Errorf("%w: %w", ErrEventHandler, err)
		}
	}
}

// callContext returns a context carrying the actor and the client's call
// timeout if configured, otherwise a cancellable child context.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx = api.WithActor(ctx, c.actor)

	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}

// decodeState converts a response into a domain state.
func decodeState(resp *structpb.Struct) (*domain.State, error) {
	state, err := api.StateFromProto(resp)
	if err != nil {
		return nil, fmt.Errorf("decode alarm state: %w", err)
	}

	return state, nil
}
