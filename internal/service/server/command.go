package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"google.golang.org/grpc"

	api "github.com/oshokin/alarm-clock/internal/api/grpc/alarm"
	"github.com/oshokin/alarm-clock/internal/clock"
	"github.com/oshokin/alarm-clock/internal/config"
	"github.com/oshokin/alarm-clock/internal/events"
	"github.com/oshokin/alarm-clock/internal/logger"
	"github.com/oshokin/alarm-clock/internal/service/instance"
	"github.com/oshokin/alarm-clock/internal/service/scheduler"
	"github.com/oshokin/alarm-clock/internal/service/ticker"
)

// Options controls the alarm-clock-server process and configuration.
type Options struct {
	// Clock overrides the wall clock; nil means the system clock.
	Clock clock.Clock
	// ConfigPath specifies the path to settings YAML file.
	ConfigPath string
	// ListenAddress provides an optional listen address override for the gRPC server.
	ListenAddress string
	// AllowMultiple skips the single-instance check.
	AllowMultiple bool
}

// ErrNoServerAddress indicates missing server configuration.
var ErrNoServerAddress = errors.New("no server address configured")

// Run starts the scheduler and the gRPC server and blocks until the context
// is canceled or the server stops.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "alarm-clock-server")

	// Load configuration first to get server settings.
	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if err = logger.SetLevelName(settings.LogLevel); err != nil {
		return fmt.Errorf("apply log level: %w", err)
	}

	// Only one scheduler may own the alarm on a host.
	if !opts.AllowMultiple {
		if err = instance.NewGuard("").Check(); err != nil {
			return fmt.Errorf("single instance check: %w", err)
		}
	}

	// Determine listen address: CLI argument overrides config port extraction.
	listenAddress, err := resolveListenAddress(settings.ServerAddress, opts.ListenAddress)
	if err != nil {
		return fmt.Errorf("resolve listen address: %w", err)
	}

	clk := opts.Clock
	if clk == nil {
		clk = clock.Real()
	}

	// The bus is closed on shutdown so event watchers end and GracefulStop can finish.
	bus := events.NewBus()
	defer bus.Close()

	sched := scheduler.New(clk, bus)
	defer sched.Close()

	// Setup TCP listener for gRPC server.
	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", listenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", listenAddress, err)
	}

	// Create and configure gRPC server with the alarm clock service.
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(api.LoggingUnaryInterceptor(ctx)),
		grpc.ChainStreamInterceptor(api.LoggingStreamInterceptor(ctx)),
	)
	api.RegisterAlarmClockServer(grpcServer, api.NewServer(sched, bus, settings.EventBuffer))

	var workers sync.WaitGroup

	// Log every transition, as any other renderer would.
	eventLog := bus.Subscribe(settings.EventBuffer)

	workers.Go(func() {
		logEvents(logger.WithName(ctx, "events"), eventLog)
	})

	// Drive the scheduler with wall-clock ticks.
	workers.Go(func() {
		_ = ticker.Run(ctx, clk, settings.TickInterval, sched.Tick) //nolint:errcheck // Returns nil on cancellation.
	})

	logger.InfoKV(
		ctx,
		"Alarm clock server listening",
		"listen_address", listenAddress,
		"tick_interval", settings.TickInterval.String(),
	)

	// Done channel is closed after GracefulStop finishes to ensure we block
	// until the server fully stops before returning.
	done := make(chan struct{})

	go func() {
		<-ctx.Done()
		logger.Info(ctx, "Shutting down gRPC server")
		bus.Close()
		grpcServer.GracefulStop()
		close(done)
	}()

	if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}

	<-done
	workers.Wait()
	logger.Info(ctx, "GRPC server stopped")

	return nil
}

// resolveListenAddress determines the listen address for the gRPC server.
// If override is provided, uses it directly. Otherwise extracts port from configAddr.
// Returns appropriate listen address (e.g., ":8080" for port-only binding).
func resolveListenAddress(configAddr, override string) (string, error) {
	// Use override address if provided (e.g., ":9090", "0.0.0.0:8080").
	if override != "" {
		return override, nil
	}

	if configAddr == "" {
		return "", ErrNoServerAddress
	}

	// Parse the address to extract port.
	_, port, err := net.SplitHostPort(configAddr)
	if err != nil {
		return "", fmt.Errorf("invalid server address format %q: %w", configAddr, err)
	}

	// Return port-only listen address to bind on all interfaces.
	return ":" + port, nil
}
