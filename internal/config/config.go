package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/alarm-clock/internal/logger"
)

// Config holds the settings shared by the alarm clock binaries.
type Config struct {
	// ServerAddress is the gRPC address of the alarm clock server.
	ServerAddress string `yaml:"server_addr"`
	// LogLevel is the minimum zap level name ("debug", "info", ...).
	LogLevel string `yaml:"log_level"`
	// Timeout is the duration for network operations and RPC calls.
	Timeout time.Duration `yaml:"timeout"`
	// TickInterval is how often the scheduler compares the wall clock to the alarm.
	TickInterval time.Duration `yaml:"tick_interval"`
	// EventBuffer is the per-subscriber event channel capacity.
	EventBuffer int `yaml:"event_buffer"`
}

const (
	// DefaultConfigFilename is the default filename for settings.
	DefaultConfigFilename = "alarm-clock-settings.yaml"

	// DefaultTimeout is the default duration for network operations.
	DefaultTimeout = 5 * time.Second

	// DefaultTickInterval is the nominal 1 Hz scheduler cadence.
	DefaultTickInterval = time.Second

	// MaxTickInterval keeps at least one tick inside every target minute.
	MaxTickInterval = 30 * time.Second

	// DefaultEventBuffer is the default per-subscriber event buffer.
	DefaultEventBuffer = 16

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errServerSocketRequired is returned when server address is missing.
	errServerSocketRequired = errors.New("server address must be provided")
	// errTickIntervalTooLong is returned when ticks could skip a whole minute.
	errTickIntervalTooLong = errors.New("tick interval must not exceed " + MaxTickInterval.String())
	// errNegativeEventBuffer is returned for a negative event buffer.
	errNegativeEventBuffer = errors.New("event buffer must not be negative")
)

// Load reads configuration from the provided path and validates essential fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes settings to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks required fields and fills in defaults for optional ones.
func Validate(settings *Config) error {
	if settings == nil {
		return errConfigIsNotSet
	}

	if settings.ServerAddress == "" {
		return errServerSocketRequired
	}

	if _, err := net.ResolveTCPAddr("tcp", settings.ServerAddress); err != nil {
		return fmt.Errorf("invalid server socket: %w", err)
	}

	if _, ok := logger.ParseLogLevel(settings.LogLevel); !ok {
		return fmt.Errorf("invalid log level %q", settings.LogLevel)
	}

	if settings.TickInterval > MaxTickInterval {
		return errTickIntervalTooLong
	}

	if settings.EventBuffer < 0 {
		return errNegativeEventBuffer
	}

	if settings.Timeout <= 0 {
		settings.Timeout = DefaultTimeout
	}

	if settings.TickInterval <= 0 {
		settings.TickInterval = DefaultTickInterval
	}

	if settings.EventBuffer == 0 {
		settings.EventBuffer = DefaultEventBuffer
	}

	return nil
}
