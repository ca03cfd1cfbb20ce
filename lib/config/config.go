// Copyright 2026 The VoiceX Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvConfig names the environment variable that points at the config
// file when no --config flag is given.
const EnvConfig = "VOICEX_CONFIG"

// Config is the daemon configuration.
type Config struct {
	// Device configures the serial link.
	Device DeviceConfig `yaml:"device"`

	// Paths configures file locations.
	Paths PathsConfig `yaml:"paths"`

	// HTTP configures the API listener.
	HTTP HTTPConfig `yaml:"http"`

	// Telemetry configures the in-memory sample window.
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Log configures daemon logging.
	Log LogConfig `yaml:"log"`
}

// DeviceConfig configures the serial link to the device.
type DeviceConfig struct {
	// Port is the serial device path.
	// Default: /dev/ttyUSB0
	Port string `yaml:"port"`

	// Baud is the line rate. Must match the firmware.
	// Default: 115200
	Baud int `yaml:"baud"`

	// ReadTimeout bounds each ingestion read.
	// Default: 200ms
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// CommandDelay is the pause after each command sent to the device.
	// Default: 100ms
	CommandDelay time.Duration `yaml:"command_delay"`

	// ErrorBackoff is the pause after a failed read.
	// Default: 1s
	ErrorBackoff time.Duration `yaml:"error_backoff"`
}

// PathsConfig configures file locations. Relative file paths are
// resolved against DataDir.
type PathsConfig struct {
	// DataDir holds everything the bridge persists.
	// Default: ${HOME}/voicex_data
	DataDir string `yaml:"data_dir"`

	// Tunables is the device tunables file.
	// Default: config.json
	Tunables string `yaml:"tunables"`

	// EventLog is the activity log.
	// Default: usage_log.csv
	EventLog string `yaml:"event_log"`

	// Phrases is the phrase definition directory.
	// Default: phrases
	Phrases string `yaml:"phrases"`
}

// HTTPConfig configures the API listener.
type HTTPConfig struct {
	// Listen is the TCP address to serve on.
	// Default: 0.0.0.0:8080
	Listen string `yaml:"listen"`

	// ShutdownTimeout bounds graceful shutdown of in-flight requests.
	// Default: 5s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// TelemetryConfig configures the sample window.
type TelemetryConfig struct {
	// Capacity is the number of samples retained.
	// Default: 1000
	Capacity int `yaml:"capacity"`

	// RecentLimit is how many samples /api/data returns without an
	// explicit limit.
	// Default: 100
	RecentLimit int `yaml:"recent_limit"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	// Default: info
	Level string `yaml:"level"`
}

// Default returns the built-in configuration with variables expanded.
func Default() *Config {
	cfg := defaults()
	cfg.expandVariables()
	return cfg
}

func defaults() *Config {
	return &Config{
		Device: DeviceConfig{
			Port:         "/dev/ttyUSB0",
			Baud:         115200,
			ReadTimeout:  200 * time.Millisecond,
			CommandDelay: 100 * time.Millisecond,
			ErrorBackoff: time.Second,
		},
		Paths: PathsConfig{
			DataDir:  "${HOME}/voicex_data",
			Tunables: "config.json",
			EventLog: "usage_log.csv",
			Phrases:  "phrases",
		},
		HTTP: HTTPConfig{
			Listen:          "0.0.0.0:8080",
			ShutdownTimeout: 5 * time.Second,
		},
		Telemetry: TelemetryConfig{
			Capacity:    1000,
			RecentLimit: 100,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Resolve loads the file named by flagPath, or by VOICEX_CONFIG when
// flagPath is empty, or returns Default when neither is set.
func Resolve(flagPath string) (*Config, error) {
	if flagPath != "" {
		return LoadFile(flagPath)
	}
	return Load()
}

// Load loads the file named by VOICEX_CONFIG, or returns Default when
// the variable is unset.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvConfig)
	if configPath == "" {
		return Default(), nil
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path. Fields the
// file omits keep their defaults.
func LoadFile(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.expandVariables()
	return cfg, nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths
// and anchors relative file paths at the data directory.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}

	c.Paths.DataDir = expandVars(c.Paths.DataDir, vars)
	vars["VOICEX_DATA"] = c.Paths.DataDir

	c.Paths.Tunables = c.dataPath(expandVars(c.Paths.Tunables, vars))
	c.Paths.EventLog = c.dataPath(expandVars(c.Paths.EventLog, vars))
	c.Paths.Phrases = c.dataPath(expandVars(c.Paths.Phrases, vars))
	c.Device.Port = expandVars(c.Device.Port, vars)
}

// SetDataDir moves the data directory to directory, carrying along
// every file path that lived under the old one. Absolute paths outside
// the old data directory are left alone.
func (c *Config) SetDataDir(directory string) {
	previous := c.Paths.DataDir
	c.Paths.DataDir = directory
	rebase := func(path string) string {
		relative, err := filepath.Rel(previous, path)
		if err != nil || relative == ".." || strings.HasPrefix(relative, ".."+string(filepath.Separator)) {
			return path
		}
		return filepath.Join(directory, relative)
	}
	c.Paths.Tunables = rebase(c.Paths.Tunables)
	c.Paths.EventLog = rebase(c.Paths.EventLog)
	c.Paths.Phrases = rebase(c.Paths.Phrases)
}

func (c *Config) dataPath(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Paths.DataDir, path)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} patterns. Provided
// vars take precedence over the environment.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// LogLevel returns the slog level for Log.Level. Unknown levels map to
// Info; Validate reports them.
func (c *Config) LogLevel() slog.Level {
	if level, ok := logLevels[strings.ToLower(c.Log.Level)]; ok {
		return level
	}
	return slog.LevelInfo
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Device.Port == "" {
		errs = append(errs, fmt.Errorf("device.port is required"))
	}
	if c.Device.Baud <= 0 {
		errs = append(errs, fmt.Errorf("device.baud must be positive, got %d", c.Device.Baud))
	}
	if c.Device.ReadTimeout <= 0 {
		errs = append(errs, fmt.Errorf("device.read_timeout must be positive"))
	}
	if c.Device.CommandDelay < 0 {
		errs = append(errs, fmt.Errorf("device.command_delay must not be negative"))
	}
	if c.Device.ErrorBackoff <= 0 {
		errs = append(errs, fmt.Errorf("device.error_backoff must be positive"))
	}

	if c.Paths.DataDir == "" {
		errs = append(errs, fmt.Errorf("paths.data_dir is required"))
	}
	if c.Paths.Tunables == "" {
		errs = append(errs, fmt.Errorf("paths.tunables is required"))
	}
	if c.Paths.EventLog == "" {
		errs = append(errs, fmt.Errorf("paths.event_log is required"))
	}
	if c.Paths.Phrases == "" {
		errs = append(errs, fmt.Errorf("paths.phrases is required"))
	}

	if c.HTTP.Listen == "" {
		errs = append(errs, fmt.Errorf("http.listen is required"))
	}
	if c.HTTP.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("http.shutdown_timeout must be positive"))
	}

	if c.Telemetry.Capacity <= 0 {
		errs = append(errs, fmt.Errorf("telemetry.capacity must be positive, got %d", c.Telemetry.Capacity))
	}
	if c.Telemetry.RecentLimit <= 0 || c.Telemetry.RecentLimit > c.Telemetry.Capacity {
		errs = append(errs, fmt.Errorf("telemetry.recent_limit must be between 1 and telemetry.capacity, got %d", c.Telemetry.RecentLimit))
	}

	if _, ok := logLevels[strings.ToLower(c.Log.Level)]; !ok {
		errs = append(errs, fmt.Errorf("log.level must be one of debug, info, warn, error; got %q", c.Log.Level))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// EnsurePaths creates the data directory and the directories holding
// every configured file.
func (c *Config) EnsurePaths() error {
	directories := []string{
		c.Paths.DataDir,
		filepath.Dir(c.Paths.Tunables),
		filepath.Dir(c.Paths.EventLog),
		c.Paths.Phrases,
	}
	for _, directory := range directories {
		if directory == "" {
			continue
		}
		if err := os.MkdirAll(directory, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", directory, err)
		}
	}
	return nil
}
