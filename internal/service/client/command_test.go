package client

import (
	"bytes"
	"context"
	"errors"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"

	api "github.com/oshokin/alarm-clock/internal/api/grpc/alarm"
	"github.com/oshokin/alarm-clock/internal/clock"
	"github.com/oshokin/alarm-clock/internal/config"
	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/events"
	"github.com/oshokin/alarm-clock/internal/service/common"
	"github.com/oshokin/alarm-clock/internal/service/scheduler"
)

var errTestWrite = errors.New("test write error")

// failingWriter rejects every write.
type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errTestWrite
}

// TestPrintState renders face and indicator.
func TestPrintState(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	now := time.Date(2026, 10, 16, 6, 59, 30, 0, time.Local)
	state := &domain.State{Target: &domain.TimeOfDay{Hour: 7}, Armed: true}

	require.NoError(t, printState(&buf, now, state))
	require.Equal(t, "06:59:30  Fri, Oct 16, 2026\nAlarm Set: 07:00\n", buf.String())
}

// TestCommands_MissingConfig ensures every command fails without settings.
func TestCommands_MissingConfig(t *testing.T) {
	t.Parallel()

	opts := &Options{ConfigPath: filepath.Join(t.TempDir(), "missing.yaml")}
	ctx := context.Background()

	require.Error(t, Set(ctx, opts, 7, 0))
	require.Error(t, Stop(ctx, opts))
	require.Error(t, Snooze(ctx, opts))
	require.Error(t, Status(ctx, opts))
	require.Error(t, Watch(ctx, opts))
}

// TestWatch_StopsOnOutputError ensures a broken output ends Watch instead of
// reconnecting in a loop.
func TestWatch_StopsOnOutputError(t *testing.T) {
	t.Parallel()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	bus := events.NewBus()
	sched := scheduler.New(clock.NewFake(time.Date(2026, 10, 16, 6, 0, 0, 0, time.Local)), bus)

	grpcServer := grpc.NewServer()
	api.RegisterAlarmClockServer(grpcServer, api.NewServer(sched, bus, 8))

	go func() {
		_ = grpcServer.Serve(lis) //nolint:errcheck // Stopped by cleanup.
	}()

	t.Cleanup(func() {
		grpcServer.Stop()
		bus.Close()
		sched.Close()
	})

	cfgPath := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, config.Save(cfgPath, &config.Config{ServerAddress: lis.Addr().String()}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)

	go func() {
		done <- Watch(ctx, &Options{Out: failingWriter{}, ConfigPath: cfgPath})
	}()

	require.Eventually(t, func() bool {
		return bus.Subscribers() == 1
	}, 3*time.Second, 10*time.Millisecond)

	_, err = sched.SetAlarm(context.Background(), 7, 0)
	require.NoError(t, err)

	select {
	case err = <-done:
		require.ErrorIs(t, err, common.ErrEventHandler)
		require.ErrorIs(t, err, errTestWrite)
	case <-time.After(3 * time.Second):
		t.Fatal("Watch kept running after the output failed")
	}
}
