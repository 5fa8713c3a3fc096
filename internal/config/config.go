package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/pomodoro/internal/domain/pomodoro"
	"github.com/oshokin/pomodoro/internal/logger"
)

// Config holds the settings of the timer server, its clients and the local timer.
type Config struct {
	// ServerAddress is the gRPC address of the timer server.
	ServerAddress string `yaml:"server_addr"`
	// Timeout bounds every RPC call made by clients.
	Timeout time.Duration `yaml:"timeout"`
	// WorkMinutes is the focus interval length.
	WorkMinutes float64 `yaml:"work_minutes"`
	// ShortBreakMinutes is the break after the 1st to 3rd work interval.
	ShortBreakMinutes float64 `yaml:"short_break_minutes"`
	// LongBreakMinutes is the break after every 4th work interval.
	LongBreakMinutes float64 `yaml:"long_break_minutes"`
	// TickInterval is the wall-clock time between ticks. One tick always removes one second.
	TickInterval time.Duration `yaml:"tick_interval"`
	// LogLevel is the minimum level for log output.
	LogLevel string `yaml:"log_level"`
	// Opacity is the initial display opacity in percent. Nil means fully opaque.
	Opacity *int `yaml:"opacity,omitempty"`
	// Dialogs raises a native modal dialog for every phase notification.
	Dialogs bool `yaml:"dialogs"`
}

const (
	// DefaultConfigFilename is the default settings file.
	DefaultConfigFilename = "pomodoro-settings.yaml"

	// DefaultServerAddress is where the timer server listens when nothing is configured.
	DefaultServerAddress = "127.0.0.1:50515"

	// DefaultTimeout is the default duration for RPC calls.
	DefaultTimeout = 5 * time.Second

	// DefaultTickInterval is one real second per tick.
	DefaultTickInterval = time.Second

	// DefaultOpacity is a fully opaque display.
	DefaultOpacity = 100

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errOpacityRange is returned for opacity values outside 0..100.
	errOpacityRange = errors.New("opacity must be between 0 and 100")
)

// Default returns settings with every field at its default value.
func Default() *Config {
	opacity := DefaultOpacity

	return &Config{
		ServerAddress:     DefaultServerAddress,
		Timeout:           DefaultTimeout,
		WorkMinutes:       pomodoro.DefaultWork.Minutes(),
		ShortBreakMinutes: pomodoro.DefaultShortBreak.Minutes(),
		LongBreakMinutes:  pomodoro.DefaultLongBreak.Minutes(),
		TickInterval:      DefaultTickInterval,
		LogLevel:          "info",
		Opacity:           &opacity,
	}
}

// Load reads configuration from the provided path and validates it.
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

// LoadOrDefault behaves like Load but returns Default when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	return cfg, err
}

// Save writes the settings to the provided path.
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

	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate fills unset fields with defaults and checks the rest.
func Validate(settings *Config) error {
	if settings == nil {
		return errConfigIsNotSet
	}

	defaults := Default()

	if settings.ServerAddress == "" {
		settings.ServerAddress = defaults.ServerAddress
	}

	if _, _, err := net.SplitHostPort(settings.ServerAddress); err != nil {
		return fmt.Errorf("invalid server address: %w", err)
	}

	if settings.Timeout <= 0 {
		settings.Timeout = defaults.Timeout
	}

	if settings.TickInterval <= 0 {
		settings.TickInterval = defaults.TickInterval
	}

	if settings.WorkMinutes == 0 {
		settings.WorkMinutes = defaults.WorkMinutes
	}

	if settings.ShortBreakMinutes == 0 {
		settings.ShortBreakMinutes = defaults.ShortBreakMinutes
	}

	if settings.LongBreakMinutes == 0 {
		settings.LongBreakMinutes = defaults.LongBreakMinutes
	}

	if _, err := settings.Timer(); err != nil {
		return fmt.Errorf("invalid durations: %w", err)
	}

	if settings.LogLevel == "" {
		settings.LogLevel = defaults.LogLevel
	}

	if _, ok := logger.ParseLogLevel(settings.LogLevel); !ok {
		return fmt.Errorf("invalid log level %q", settings.LogLevel)
	}

	if settings.Opacity == nil {
		settings.Opacity = defaults.Opacity
	}

	if *settings.Opacity < 0 || *settings.Opacity > 100 {
		return fmt.Errorf("%w: %d", errOpacityRange, *settings.Opacity)
	}

	return nil
}

// Timer converts the minute settings into a timer configuration.
func (c *Config) Timer() (pomodoro.Config, error) {
	return pomodoro.ConfigFromMinutes(c.WorkMinutes, c.ShortBreakMinutes, c.LongBreakMinutes)
}
