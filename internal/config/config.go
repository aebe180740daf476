package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata"
)

// Idle policies for samples that resolve to no foreground application.
const (
	IdlePolicyIgnore = "ignore"
	IdlePolicyTrack  = "track"
)

// Probe output kinds. A "name" probe prints the application name, a "pid"
// probe prints the process id of the focused window.
const (
	ProbeOutputName = "name"
	ProbeOutputPID  = "pid"
)

// Config holds all configuration options for the app time tracker
type Config struct {
	Database    DatabaseConfig    `yaml:"database"`
	Tracking    TrackingConfig    `yaml:"tracking"`
	Validation  ValidationConfig  `yaml:"validation"`
	Display     DisplayConfig     `yaml:"display"`
	Application ApplicationConfig `yaml:"application"`
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Dir            string        `yaml:"dir" env:"ATT_DB_DIR"`
	Filename       string        `yaml:"filename" env:"ATT_DB_FILENAME"`
	QueryTimeout   time.Duration `yaml:"query_timeout" env:"ATT_DB_QUERY_TIMEOUT"`
	WriteTimeout   time.Duration `yaml:"write_timeout" env:"ATT_DB_WRITE_TIMEOUT"`
	BusyTimeout    time.Duration `yaml:"busy_timeout" env:"ATT_DB_BUSY_TIMEOUT"`
	DirPermissions uint32        `yaml:"dir_permissions" env:"ATT_DB_DIR_PERMISSIONS"`
}

// TrackingConfig holds session tracking and window probe configuration
type TrackingConfig struct {
	Threshold              time.Duration `yaml:"threshold" env:"ATT_TRACK_THRESHOLD"`
	PollInterval           time.Duration `yaml:"poll_interval" env:"ATT_TRACK_INTERVAL"`
	IdlePolicy             string        `yaml:"idle_policy" env:"ATT_TRACK_IDLE_POLICY"`
	IdleAppName            string        `yaml:"idle_app_name" env:"ATT_TRACK_IDLE_APP"`
	FlushOnShutdown        bool          `yaml:"flush_on_shutdown" env:"ATT_TRACK_FLUSH_ON_SHUTDOWN"`
	MaxConsecutiveFailures int           `yaml:"max_consecutive_failures" env:"ATT_TRACK_MAX_FAILURES"`
	ProbeCommand           string        `yaml:"probe_command" env:"ATT_PROBE_COMMAND"`
	ProbeOutput            string        `yaml:"probe_output" env:"ATT_PROBE_OUTPUT"`
	ProbeTimeout           time.Duration `yaml:"probe_timeout" env:"ATT_PROBE_TIMEOUT"`
}

// ValidationConfig holds validation rules configuration
type ValidationConfig struct {
	ProjectNameMinLength int           `yaml:"project_name_min_length" env:"ATT_VALIDATION_PROJECT_NAME_MIN"`
	ProjectNameMaxLength int           `yaml:"project_name_max_length" env:"ATT_VALIDATION_PROJECT_NAME_MAX"`
	MaxSessionDuration   time.Duration `yaml:"max_session_duration" env:"ATT_VALIDATION_MAX_SESSION_DURATION"`
	DurationTolerance    time.Duration `yaml:"duration_tolerance" env:"ATT_VALIDATION_DURATION_TOLERANCE"`
}

// DisplayConfig holds display formatting configuration
type DisplayConfig struct {
	TimeFormat   string `yaml:"time_format" env:"ATT_TIME_FORMAT"`
	Timezone     string `yaml:"timezone" env:"ATT_TIMEZONE"`
	SummaryWidth int    `yaml:"summary_width" env:"ATT_DISPLAY_SUMMARY_WIDTH"`
	LogFormat    string `yaml:"log_format" env:"ATT_LOG_FORMAT"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Timeout time.Duration `yaml:"timeout" env:"ATT_APP_TIMEOUT"`
	Verbose bool          `yaml:"verbose" env:"ATT_APP_VERBOSE"`
}

// DefaultDir returns ~/.att, falling back to a relative directory when the
// home directory is unknown.
func DefaultDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".att"
	}
	return filepath.Join(homeDir, ".att")
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Dir:            DefaultDir(),
			Filename:       "att.db",
			QueryTimeout:   10 * time.Second,
			WriteTimeout:   5 * time.Second,
			BusyTimeout:    5 * time.Second,
			DirPermissions: 0755,
		},
		Tracking: TrackingConfig{
			Threshold:              30 * time.Second,
			PollInterval:           2 * time.Second,
			IdlePolicy:             IdlePolicyIgnore,
			IdleAppName:            "Idle",
			FlushOnShutdown:        false,
			MaxConsecutiveFailures: 3,
			ProbeCommand:           "xdotool getactivewindow getwindowpid",
			ProbeOutput:            ProbeOutputPID,
			ProbeTimeout:           time.Second,
		},
		Validation: ValidationConfig{
			ProjectNameMinLength: 1,
			ProjectNameMaxLength: 255,
			MaxSessionDuration:   24 * time.Hour,
			DurationTolerance:    time.Second,
		},
		Display: DisplayConfig{
			TimeFormat:   "2006-01-02 15:04:05",
			Timezone:     "Local",
			SummaryWidth: 60,
			LogFormat:    "text",
		},
		Application: ApplicationConfig{
			Timeout: 60 * time.Second,
			Verbose: false,
		},
	}
}

// GetDatabasePath returns the full path to the database file
func (c *Config) GetDatabasePath() string {
	if c.Database.Filename == ":memory:" {
		return c.Database.Filename
	}
	return filepath.Join(c.Database.Dir, c.Database.Filename)
}

// GetQueryTimeout returns the database query timeout
func (c *Config) GetQueryTimeout() time.Duration {
	return c.Database.QueryTimeout
}

// GetWriteTimeout returns the database write timeout
func (c *Config) GetWriteTimeout() time.Duration {
	return c.Database.WriteTimeout
}

// Location resolves the display timezone.
func (c *Config) Location() (*time.Location, error) {
	switch strings.TrimSpace(c.Display.Timezone) {
	case "", "Local":
		return time.Local, nil
	case "UTC":
		return time.UTC, nil
	}
	return time.LoadLocation(c.Display.Timezone)
}

// TrackIdle reports whether no-window samples are tracked as a pseudo-app.
func (c *Config) TrackIdle() bool {
	return c.Tracking.IdlePolicy == IdlePolicyTrack
}

// ProbeArgs splits the probe command into argv on whitespace. Quoting is
// not interpreted; wrap anything fancier in a script.
func (c *Config) ProbeArgs() []string {
	return strings.Fields(c.Tracking.ProbeCommand)
}

// LoadFromEnvironment loads configuration from environment variables.
// Unparseable values keep the current setting.
func (c *Config) LoadFromEnvironment() error {
	// Database configuration
	if dir := os.Getenv("ATT_DB_DIR"); dir != "" {
		c.Database.Dir = dir
	}
	if filename := os.Getenv("ATT_DB_FILENAME"); filename != "" {
		c.Database.Filename = filename
	}
	if timeout := os.Getenv("ATT_DB_QUERY_TIMEOUT"); timeout != "" {
		c.Database.QueryTimeout = ParseDurationWithFallback(timeout, c.Database.QueryTimeout)
	}
	if timeout := os.Getenv("ATT_DB_WRITE_TIMEOUT"); timeout != "" {
		c.Database.WriteTimeout = ParseDurationWithFallback(timeout, c.Database.WriteTimeout)
	}
	if timeout := os.Getenv("ATT_DB_BUSY_TIMEOUT"); timeout != "" {
		c.Database.BusyTimeout = ParseDurationWithFallback(timeout, c.Database.BusyTimeout)
	}
	if perms := os.Getenv("ATT_DB_DIR_PERMISSIONS"); perms != "" {
		c.Database.DirPermissions = ParseUint32WithFallback(perms, 8, c.Database.DirPermissions)
	}

	// Tracking configuration
	if threshold := os.Getenv("ATT_TRACK_THRESHOLD"); threshold != "" {
		c.Tracking.Threshold = ParseDurationWithFallback(threshold, c.Tracking.Threshold)
	}
	if interval := os.Getenv("ATT_TRACK_INTERVAL"); interval != "" {
		c.Tracking.PollInterval = ParseDurationWithFallback(interval, c.Tracking.PollInterval)
	}
	if policy := os.Getenv("ATT_TRACK_IDLE_POLICY"); policy != "" {
		c.Tracking.IdlePolicy = strings.ToLower(policy)
	}
	if name := os.Getenv("ATT_TRACK_IDLE_APP"); name != "" {
		c.Tracking.IdleAppName = name
	}
	if flush := os.Getenv("ATT_TRACK_FLUSH_ON_SHUTDOWN"); flush != "" {
		c.Tracking.FlushOnShutdown = ParseBoolWithFallback(flush, c.Tracking.FlushOnShutdown)
	}
	if failures := os.Getenv("ATT_TRACK_MAX_FAILURES"); failures != "" {
		c.Tracking.MaxConsecutiveFailures = ParseIntWithFallback(failures, c.Tracking.MaxConsecutiveFailures)
	}
	if command := os.Getenv("ATT_PROBE_COMMAND"); command != "" {
		c.Tracking.ProbeCommand = command
	}
	if output := os.Getenv("ATT_PROBE_OUTPUT"); output != "" {
		c.Tracking.ProbeOutput = strings.ToLower(output)
	}
	if timeout := os.Getenv("ATT_PROBE_TIMEOUT"); timeout != "" {
		c.Tracking.ProbeTimeout = ParseDurationWithFallback(timeout, c.Tracking.ProbeTimeout)
	}

	// Validation configuration
	if minLen := os.Getenv("ATT_VALIDATION_PROJECT_NAME_MIN"); minLen != "" {
		c.Validation.ProjectNameMinLength = ParseIntWithFallback(minLen, c.Validation.ProjectNameMinLength)
	}
	if maxLen := os.Getenv("ATT_VALIDATION_PROJECT_NAME_MAX"); maxLen != "" {
		c.Validation.ProjectNameMaxLength = ParseIntWithFallback(maxLen, c.Validation.ProjectNameMaxLength)
	}
	if maxDur := os.Getenv("ATT_VALIDATION_MAX_SESSION_DURATION"); maxDur != "" {
		c.Validation.MaxSessionDuration = ParseDurationWithFallback(maxDur, c.Validation.MaxSessionDuration)
	}
	if tolerance := os.Getenv("ATT_VALIDATION_DURATION_TOLERANCE"); tolerance != "" {
		c.Validation.DurationTolerance = ParseDurationWithFallback(tolerance, c.Validation.DurationTolerance)
	}

	// Display configuration
	if format := os.Getenv("ATT_TIME_FORMAT"); format != "" {
		c.Display.TimeFormat = format
	}
	if tz := os.Getenv("ATT_TIMEZONE"); tz != "" {
		c.Display.Timezone = tz
	}
	if width := os.Getenv("ATT_DISPLAY_SUMMARY_WIDTH"); width != "" {
		c.Display.SummaryWidth = ParseIntWithFallback(width, c.Display.SummaryWidth)
	}
	if format := os.Getenv("ATT_LOG_FORMAT"); format != "" {
		c.Display.LogFormat = strings.ToLower(format)
	}

	// Application configuration
	if timeout := os.Getenv("ATT_APP_TIMEOUT"); timeout != "" {
		c.Application.Timeout = ParseDurationWithFallback(timeout, c.Application.Timeout)
	}
	if verbose := os.Getenv("ATT_APP_VERBOSE"); verbose != "" {
		c.Application.Verbose = ParseBoolWithFallback(verbose, c.Application.Verbose)
	}

	return nil
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	// Validate database configuration
	if c.Database.Dir == "" {
		return &ConfigError{Field: "database.dir", Message: "database directory cannot be empty"}
	}
	if c.Database.Filename == "" {
		return &ConfigError{Field: "database.filename", Message: "database filename cannot be empty"}
	}
	if c.Database.QueryTimeout <= 0 {
		return &ConfigError{Field: "database.query_timeout", Message: "query timeout must be positive"}
	}
	if c.Database.WriteTimeout <= 0 {
		return &ConfigError{Field: "database.write_timeout", Message: "write timeout must be positive"}
	}
	if c.Database.BusyTimeout < 0 {
		return &ConfigError{Field: "database.busy_timeout", Message: "busy timeout cannot be negative"}
	}

	// Validate tracking configuration
	if c.Tracking.Threshold < 0 {
		return &ConfigError{Field: "tracking.threshold", Message: "threshold cannot be negative"}
	}
	if c.Tracking.PollInterval <= 0 {
		return &ConfigError{Field: "tracking.poll_interval", Message: "poll interval must be positive"}
	}
	switch c.Tracking.IdlePolicy {
	case IdlePolicyIgnore, IdlePolicyTrack:
	default:
		return &ConfigError{Field: "tracking.idle_policy", Message: "idle policy must be 'ignore' or 'track'"}
	}
	if c.TrackIdle() && strings.TrimSpace(c.Tracking.IdleAppName) == "" {
		return &ConfigError{Field: "tracking.idle_app_name", Message: "idle app name cannot be empty when idle time is tracked"}
	}
	if c.Tracking.MaxConsecutiveFailures < 1 {
		return &ConfigError{Field: "tracking.max_consecutive_failures", Message: "must allow at least one failure"}
	}
	if len(c.ProbeArgs()) == 0 {
		return &ConfigError{Field: "tracking.probe_command", Message: "probe command cannot be empty"}
	}
	switch c.Tracking.ProbeOutput {
	case ProbeOutputName, ProbeOutputPID:
	default:
		return &ConfigError{Field: "tracking.probe_output", Message: "probe output must be 'name' or 'pid'"}
	}
	if c.Tracking.ProbeTimeout <= 0 {
		return &ConfigError{Field: "tracking.probe_timeout", Message: "probe timeout must be positive"}
	}

	// Validate validation configuration
	if c.Validation.ProjectNameMinLength < 1 {
		return &ConfigError{Field: "validation.project_name_min_length", Message: "project name minimum length must be at least 1"}
	}
	if c.Validation.ProjectNameMaxLength < c.Validation.ProjectNameMinLength {
		return &ConfigError{Field: "validation.project_name_max_length", Message: "project name maximum length must be greater than minimum length"}
	}
	if c.Validation.MaxSessionDuration <= 0 {
		return &ConfigError{Field: "validation.max_session_duration", Message: "max session duration must be positive"}
	}
	if c.Validation.DurationTolerance < 0 {
		return &ConfigError{Field: "validation.duration_tolerance", Message: "duration tolerance cannot be negative"}
	}

	// Validate display configuration
	if c.Display.TimeFormat == "" {
		return &ConfigError{Field: "display.time_format", Message: "time format cannot be empty"}
	}
	if _, err := c.Location(); err != nil {
		return &ConfigError{Field: "display.timezone", Message: "unknown timezone " + c.Display.Timezone}
	}
	if c.Display.SummaryWidth < 10 {
		return &ConfigError{Field: "display.summary_width", Message: "summary width must be at least 10"}
	}
	switch c.Display.LogFormat {
	case "text", "json":
	default:
		return &ConfigError{Field: "display.log_format", Message: "log format must be 'text' or 'json'"}
	}

	// Validate application configuration
	if c.Application.Timeout <= 0 {
		return &ConfigError{Field: "application.timeout", Message: "application timeout must be positive"}
	}

	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
