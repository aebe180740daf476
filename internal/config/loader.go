package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// ConfigFileEnvVar names the environment variable that points at the YAML
// configuration file.
const ConfigFileEnvVar = "ATT_CONFIG"

// Flag names shared by the command line and the override loader.
const (
	FlagConfig          = "config"
	FlagDBDir           = "db-dir"
	FlagDBFilename      = "db-filename"
	FlagDBQueryTimeout  = "db-query-timeout"
	FlagDBWriteTimeout  = "db-write-timeout"
	FlagThreshold       = "threshold"
	FlagPollInterval    = "poll-interval"
	FlagIdlePolicy      = "idle-policy"
	FlagFlushOnShutdown = "flush-on-shutdown"
	FlagProbeCommand    = "probe-command"
	FlagProbeOutput     = "probe-output"
	FlagTimeFormat      = "time-format"
	FlagTimezone        = "timezone"
	FlagSummaryWidth    = "summary-width"
	FlagLogFormat       = "log-format"
	FlagAppTimeout      = "app-timeout"
	FlagVerbose         = "verbose"
)

// DefaultConfigPath returns the configuration file used when neither a flag
// nor ATT_CONFIG names one.
func DefaultConfigPath() string {
	return filepath.Join(DefaultDir(), "config.yaml")
}

// ResolveConfigPath picks the configuration file: explicit path, then
// ATT_CONFIG, then the default location.
func ResolveConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if fromEnv := os.Getenv(ConfigFileEnvVar); fromEnv != "" {
		return fromEnv
	}
	return DefaultConfigPath()
}

// Loader handles loading configuration from multiple sources
type Loader struct {
	path      string
	overrides *ConfigOverrides
}

// NewLoader creates a configuration loader reading the file at path. An
// empty path resolves through ResolveConfigPath.
func NewLoader(path string) *Loader {
	return &Loader{path: ResolveConfigPath(path)}
}

// Path returns the configuration file the loader reads.
func (l *Loader) Path() string {
	return l.path
}

// Load loads configuration using the cascading strategy:
// 1. Start with defaults
// 2. Override with the YAML file, when present
// 3. Override with environment variables
// 4. Override with command line flags (see LoadWithOverrides)
func (l *Loader) Load() (*Config, error) {
	config := NewConfig()

	if err := l.loadFile(config); err != nil {
		return nil, err
	}

	if err := config.LoadFromEnvironment(); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// LoadWithOverrides loads configuration and applies command line overrides.
// The overrides are remembered for Reload.
func (l *Loader) LoadWithOverrides(overrides *ConfigOverrides) (*Config, error) {
	l.overrides = overrides

	config := NewConfig()
	if err := l.loadFile(config); err != nil {
		return nil, err
	}
	if err := config.LoadFromEnvironment(); err != nil {
		return nil, err
	}

	if overrides != nil {
		overrides.apply(config)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Reload re-reads the file and environment and reapplies the last
// overrides, returning a fresh Config. Values already handed to running
// components are not touched.
func (l *Loader) Reload() (*Config, error) {
	return l.LoadWithOverrides(l.overrides)
}

// UpdateFile applies mutate to the configuration stored in the file and
// writes it back. Environment and flag overrides are not persisted.
func (l *Loader) UpdateFile(mutate func(*Config)) error {
	config := NewConfig()
	if err := l.loadFile(config); err != nil {
		return err
	}

	mutate(config)

	if err := config.Validate(); err != nil {
		return err
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(l.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (l *Loader) loadFile(config *Config) error {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", l.path, err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(config); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse config file %s: %w", l.path, err)
	}
	return nil
}

// Marshal renders the configuration as YAML.
func Marshal(config *Config) ([]byte, error) {
	return yaml.Marshal(config)
}

// ConfigOverrides holds command line flag overrides
type ConfigOverrides struct {
	// Database overrides
	DBDir          *string
	DBFilename     *string
	DBQueryTimeout *time.Duration
	DBWriteTimeout *time.Duration

	// Tracking overrides
	Threshold       *time.Duration
	PollInterval    *time.Duration
	IdlePolicy      *string
	FlushOnShutdown *bool
	ProbeCommand    *string
	ProbeOutput     *string

	// Display overrides
	TimeFormat   *string
	Timezone     *string
	SummaryWidth *int
	LogFormat    *string

	// Application overrides
	Timeout *time.Duration
	Verbose *bool
}

// RegisterFlags adds the override flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String(FlagConfig, "", "Configuration file (overrides "+ConfigFileEnvVar+")")

	fs.String(FlagDBDir, "", "Database directory (overrides ATT_DB_DIR)")
	fs.String(FlagDBFilename, "", "Database filename (overrides ATT_DB_FILENAME)")
	fs.Duration(FlagDBQueryTimeout, 0, "Database query timeout (overrides ATT_DB_QUERY_TIMEOUT)")
	fs.Duration(FlagDBWriteTimeout, 0, "Database write timeout (overrides ATT_DB_WRITE_TIMEOUT)")

	fs.Duration(FlagThreshold, 0, "Minimum session length (overrides ATT_TRACK_THRESHOLD)")
	fs.Duration(FlagPollInterval, 0, "Window poll interval (overrides ATT_TRACK_INTERVAL)")
	fs.String(FlagIdlePolicy, "", "Idle policy: ignore or track (overrides ATT_TRACK_IDLE_POLICY)")
	fs.Bool(FlagFlushOnShutdown, false, "Record the open session when tracking stops (overrides ATT_TRACK_FLUSH_ON_SHUTDOWN)")
	fs.String(FlagProbeCommand, "", "Command reporting the focused window (overrides ATT_PROBE_COMMAND)")
	fs.String(FlagProbeOutput, "", "Probe output kind: name or pid (overrides ATT_PROBE_OUTPUT)")

	fs.String(FlagTimeFormat, "", "Time display format (overrides ATT_TIME_FORMAT)")
	fs.String(FlagTimezone, "", "Display timezone (overrides ATT_TIMEZONE)")
	fs.Int(FlagSummaryWidth, 0, "Summary display width (overrides ATT_DISPLAY_SUMMARY_WIDTH)")
	fs.String(FlagLogFormat, "", "Log format: text or json (overrides ATT_LOG_FORMAT)")

	fs.Duration(FlagAppTimeout, 0, "Application timeout (overrides ATT_APP_TIMEOUT)")
	fs.Bool(FlagVerbose, false, "Enable verbose output (overrides ATT_APP_VERBOSE)")
}

// OverridesFromFlags collects the flags that were set explicitly on fs.
func OverridesFromFlags(fs *pflag.FlagSet) (*ConfigOverrides, error) {
	o := &ConfigOverrides{}
	var err error

	str := func(name string) *string {
		if err != nil || !fs.Changed(name) {
			return nil
		}
		var v string
		v, err = fs.GetString(name)
		return &v
	}
	dur := func(name string) *time.Duration {
		if err != nil || !fs.Changed(name) {
			return nil
		}
		var v time.Duration
		v, err = fs.GetDuration(name)
		return &v
	}
	boolean := func(name string) *bool {
		if err != nil || !fs.Changed(name) {
			return nil
		}
		var v bool
		v, err = fs.GetBool(name)
		return &v
	}

	o.DBDir = str(FlagDBDir)
	o.DBFilename = str(FlagDBFilename)
	o.DBQueryTimeout = dur(FlagDBQueryTimeout)
	o.DBWriteTimeout = dur(FlagDBWriteTimeout)
	o.Threshold = dur(FlagThreshold)
	o.PollInterval = dur(FlagPollInterval)
	o.IdlePolicy = str(FlagIdlePolicy)
	o.FlushOnShutdown = boolean(FlagFlushOnShutdown)
	o.ProbeCommand = str(FlagProbeCommand)
	o.ProbeOutput = str(FlagProbeOutput)
	o.TimeFormat = str(FlagTimeFormat)
	o.Timezone = str(FlagTimezone)
	o.LogFormat = str(FlagLogFormat)
	o.Timeout = dur(FlagAppTimeout)
	o.Verbose = boolean(FlagVerbose)

	if err == nil && fs.Changed(FlagSummaryWidth) {
		var width int
		width, err = fs.GetInt(FlagSummaryWidth)
		o.SummaryWidth = &width
	}

	if err != nil {
		return nil, err
	}
	return o, nil
}

// apply applies command line overrides to the configuration
func (o *ConfigOverrides) apply(config *Config) {
	// Database overrides
	if o.DBDir != nil {
		config.Database.Dir = *o.DBDir
	}
	if o.DBFilename != nil {
		config.Database.Filename = *o.DBFilename
	}
	if o.DBQueryTimeout != nil {
		config.Database.QueryTimeout = *o.DBQueryTimeout
	}
	if o.DBWriteTimeout != nil {
		config.Database.WriteTimeout = *o.DBWriteTimeout
	}

	// Tracking overrides
	if o.Threshold != nil {
		config.Tracking.Threshold = *o.Threshold
	}
	if o.PollInterval != nil {
		config.Tracking.PollInterval = *o.PollInterval
	}
	if o.IdlePolicy != nil {
		config.Tracking.IdlePolicy = *o.IdlePolicy
	}
	if o.FlushOnShutdown != nil {
		config.Tracking.FlushOnShutdown = *o.FlushOnShutdown
	}
	if o.ProbeCommand != nil {
		config.Tracking.ProbeCommand = *o.ProbeCommand
	}
	if o.ProbeOutput != nil {
		config.Tracking.ProbeOutput = *o.ProbeOutput
	}

	// Display overrides
	if o.TimeFormat != nil {
		config.Display.TimeFormat = *o.TimeFormat
	}
	if o.Timezone != nil {
		config.Display.Timezone = *o.Timezone
	}
	if o.SummaryWidth != nil {
		config.Display.SummaryWidth = *o.SummaryWidth
	}
	if o.LogFormat != nil {
		config.Display.LogFormat = *o.LogFormat
	}

	// Application overrides
	if o.Timeout != nil {
		config.Application.Timeout = *o.Timeout
	}
	if o.Verbose != nil {
		config.Application.Verbose = *o.Verbose
	}
}

// ParseDurationWithFallback parses a duration string with a fallback value
func ParseDurationWithFallback(s string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return fallback
}

// ParseIntWithFallback parses an integer string with a fallback value
func ParseIntWithFallback(s string, fallback int) int {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	return fallback
}

// ParseBoolWithFallback parses a boolean string with a fallback value
func ParseBoolWithFallback(s string, fallback bool) bool {
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return fallback
}

// ParseUint32WithFallback parses a uint32 string with a fallback value
func ParseUint32WithFallback(s string, base int, fallback uint32) uint32 {
	if u, err := strconv.ParseUint(s, base, 32); err == nil {
		return uint32(u)
	}
	return fallback
}
