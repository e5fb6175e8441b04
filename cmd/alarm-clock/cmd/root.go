package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/alarm-clock/internal/config"
	"github.com/oshokin/alarm-clock/internal/logger"
	"github.com/oshokin/alarm-clock/internal/service/client"
	"github.com/oshokin/alarm-clock/internal/version"
)

var (
	// cfgPath stores the configuration file path.
	cfgPath string
	// serverAddress overrides the address from the configuration file.
	serverAddress string
	// bell rings the terminal bell on trigger while watching.
	bell bool

	// rootCmd represents the base command controlling the alarm clock.
	rootCmd = &cobra.Command{
		Use:   "alarm-clock",
		Short: "Control the alarm clock server.",
		Long: `Sets, stops, snoozes and watches the single alarm kept by alarm-clock-server.

Server address is loaded from configuration file unless --server is given.`,
		SilenceUsage: true,
	}

	setCmd = &cobra.Command{
		Use:   "set HH:MM | set HOUR MINUTE",
		Short: "Arm the alarm for a time of day.",
		Long: `Arms the alarm for the given time of day, replacing any previous alarm.

Hour must be between 0 and 23, minute between 0 and 59.
Setting an alarm cancels an active snooze.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(_ *cobra.Command, args []string) error {
			hour, minute, err := parseTimeArgs(args)
			if err != nil {
				return err
			}

			return runWithSignals(func(ctx context.Context) error {
				return client.Set(ctx, options(), hour, minute)
			})
		},
	}

	stopCmd = &cobra.Command{
		Use:   "stop",
		Short: "Stop a ringing alarm.",
		Long:  "Stops the alarm if it is ringing. Does nothing otherwise, including while snoozed.",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runWithSignals(func(ctx context.Context) error {
				return client.Stop(ctx, options())
			})
		},
	}

	snoozeCmd = &cobra.Command{
		Use:   "snooze",
		Short: "Snooze a ringing alarm for five minutes.",
		Long:  "Moves a ringing alarm five minutes past the current time. Does nothing unless the alarm is ringing.",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runWithSignals(func(ctx context.Context) error {
				return client.Snooze(ctx, options())
			})
		},
	}

	statusCmd = &cobra.Command{
		Use:   "status",
		Short: "Print the clock face and the alarm indicator.",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runWithSignals(func(ctx context.Context) error {
				return client.Status(ctx, options())
			})
		},
	}

	watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "Follow alarm events until interrupted.",
		Long: `Streams alarm events from the server and prints one line per event.

Reconnects automatically when the server goes away.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runWithSignals(func(ctx context.Context) error {
				return client.Watch(ctx, options())
			})
		},
	}
)

// Execute runs the alarm-clock CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	err := rootCmd.Execute()

	logger.Sync()

	if err != nil {
		os.Exit(1)
	}
}

func options() *client.Options {
	return &client.Options{
		Out:           os.Stdout,
		ConfigPath:    cfgPath,
		ServerAddress: serverAddress,
		Bell:          bell,
	}
}

// runWithSignals cancels the command context on SIGTERM or SIGINT.
func runWithSignals(fn func(ctx context.Context) error) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	return fn(ctx)
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.PersistentFlags().
		StringVarP(&cfgPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.PersistentFlags().
		StringVarP(&serverAddress, "server", "a", "", "server address, overrides configuration")

	watchCmd.Flags().BoolVarP(&bell, "bell", "b", false, "ring the terminal bell when the alarm triggers")

	rootCmd.AddCommand(setCmd, stopCmd, snoozeCmd, statusCmd, watchCmd)
}
