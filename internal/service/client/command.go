package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/oshokin/alarm-clock/internal/config"
	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/display"
	"github.com/oshokin/alarm-clock/internal/logger"
	"github.com/oshokin/alarm-clock/internal/service/common"
)

// Options configures how the CLI reaches the server and where it prints.
type Options struct {
	// Out receives the rendered output, os.Stdout when nil.
	Out io.Writer
	// ConfigPath to YAML settings file, defaults to standard filename if empty.
	ConfigPath string
	// ServerAddress overrides server address from config when specified.
	ServerAddress string
	// Bell rings the terminal bell when the alarm triggers during Watch.
	Bell bool
}

// reconnectInterval defines the delay between Watch reconnection attempts.
const reconnectInterval = 1 * time.Second

// Set arms the alarm for hour:minute and prints the new state.
func Set(ctx context.Context, opts *Options, hour, minute int) error {
	ctx = logger.WithName(ctx, "alarm-clock")

	return withClient(ctx, opts, func(client *common.Client) error {
		state, err := client.SetAlarm(ctx, hour, minute)
		if err != nil {
			if status.Code(err) == codes.InvalidArgument {
				return fmt.Errorf("please enter a valid time (hour: 0-23, minute: 0-59): %w", err)
			}

			return err
		}

		return printState(opts.out(), time.Now(), state)
	})
}

// Stop stops a ringing alarm and prints the state.
func Stop(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "alarm-clock")

	return withClient(ctx, opts, func(client *common.Client) error {
		state, err := client.StopAlarm(ctx)
		if err != nil {
			return err
		}

		return printState(opts.out(), time.Now(), state)
	})
}

// Snooze snoozes a ringing alarm and prints the state.
func Snooze(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "alarm-clock")

	return withClient(ctx, opts, func(client *common.Client) error {
		state, err := client.SnoozeAlarm(ctx)
		if err != nil {
			return err
		}

		return printState(opts.out(), time.Now(), state)
	})
}

// Status prints the clock face and the alarm indicator.
func Status(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "alarm-clock")

	return withClient(ctx, opts, func(client *common.Client) error {
		state, err := client.GetAlarmState(ctx)
		if err != nil {
			return err
		}

		return printState(opts.out(), time.Now(), state)
	})
}

// Watch prints every alarm event until ctx is canceled, reconnecting when
// the stream breaks.
func Watch(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "alarm-clock")

	return withClient(ctx, opts, func(client *common.Client) error {
		out := opts.out()

		handle := func(event domain.Event) error {
			line := display.EventLine(event)
			if opts.Bell && event.Type == domain.EventTriggered {
				line += "\a"
			}

			_, err := fmt.Fprintln(out, line)

			return err
		}

		ticker := time.NewTicker(reconnectInterval)
		defer ticker.Stop()

		for {
			err := client.Watch(ctx, handle)
			if ctx.Err() != nil {
				return nil
			}

			// Output failures do not heal by reconnecting.
			if errors.Is(err, common.ErrEventHandler) {
				return err
			}

			// Keep retrying for transient failures.
			logger.ErrorKV(ctx, "Event stream interrupted, reconnecting", "error", err)

			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
		}
	})
}

// withClient loads settings, dials the server and runs fn with the client.
func withClient(ctx context.Context, opts *Options, fn func(client *common.Client) error) error {
	// Load settings from configuration file.
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	if err = logger.SetLevelName(cfg.LogLevel); err != nil {
		return err
	}

	// Use server address from options if provided, otherwise use config.
	serverAddress := cfg.ServerAddress
	if opts.ServerAddress != "" {
		serverAddress = opts.ServerAddress
	}

	// Identify current user and hostname for the server logs.
	actor, err := common.DetectActor()
	if err != nil {
		return err
	}

	client, err := common.Dial(ctx, serverAddress, common.WithCallTimeout(cfg.Timeout), common.WithActor(actor))
	if err != nil {
		return err
	}

	// Close connection on function exit.
	defer func() {
		_ = client.Close()
	}()

	logger.DebugKV(ctx, "Connected to alarm clock server", "server_address", serverAddress)

	return fn(client)
}

// printState renders the clock face and the indicator.
func printState(out io.Writer, now time.Time, state *domain.State) error {
	face := display.ClockFace(now)

	_, err := fmt.Fprintf(out, "%s  %s\n%s\n", face.Time, face.Date, display.Indicator(state))

	return err
}

// out returns the configured writer.
func (o *Options) out() io.Writer {
	if o.Out == nil {
		return os.Stdout
	}

	return o.Out
}
