package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "att.db", cfg.Database.Filename)
	assert.Equal(t, 30*time.Second, cfg.Tracking.Threshold)
	assert.Equal(t, 2*time.Second, cfg.Tracking.PollInterval)
	assert.Equal(t, IdlePolicyIgnore, cfg.Tracking.IdlePolicy)
	assert.False(t, cfg.TrackIdle())
	assert.False(t, cfg.Tracking.FlushOnShutdown)
	assert.Equal(t, 3, cfg.Tracking.MaxConsecutiveFailures)
	assert.Equal(t, []string{"xdotool", "getactivewindow", "getwindowpid"}, cfg.ProbeArgs())
	assert.Equal(t, 60, cfg.Display.SummaryWidth)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"empty db dir", func(c *Config) { c.Database.Dir = "" }, "database.dir"},
		{"zero query timeout", func(c *Config) { c.Database.QueryTimeout = 0 }, "database.query_timeout"},
		{"negative threshold", func(c *Config) { c.Tracking.Threshold = -time.Second }, "tracking.threshold"},
		{"zero poll interval", func(c *Config) { c.Tracking.PollInterval = 0 }, "tracking.poll_interval"},
		{"unknown idle policy", func(c *Config) { c.Tracking.IdlePolicy = "sometimes" }, "tracking.idle_policy"},
		{"tracked idle without name", func(c *Config) {
			c.Tracking.IdlePolicy = IdlePolicyTrack
			c.Tracking.IdleAppName = " "
		}, "tracking.idle_app_name"},
		{"no failures allowed", func(c *Config) { c.Tracking.MaxConsecutiveFailures = 0 }, "tracking.max_consecutive_failures"},
		{"blank probe command", func(c *Config) { c.Tracking.ProbeCommand = "   " }, "tracking.probe_command"},
		{"unknown probe output", func(c *Config) { c.Tracking.ProbeOutput = "json" }, "tracking.probe_output"},
		{"max below min", func(c *Config) { c.Validation.ProjectNameMaxLength = 0 }, "validation.project_name_max_length"},
		{"unknown timezone", func(c *Config) { c.Display.Timezone = "Mars/Olympus_Mons" }, "display.timezone"},
		{"narrow summary", func(c *Config) { c.Display.SummaryWidth = 5 }, "display.summary_width"},
		{"unknown log format", func(c *Config) { c.Display.LogFormat = "xml" }, "display.log_format"},
		{"zero app timeout", func(c *Config) { c.Application.Timeout = 0 }, "application.timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestConfig_ZeroThresholdAllowed(t *testing.T) {
	cfg := NewConfig()
	cfg.Tracking.Threshold = 0
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ATT_DB_DIR", "/tmp/att-test")
	t.Setenv("ATT_TRACK_THRESHOLD", "45s")
	t.Setenv("ATT_TRACK_INTERVAL", "500ms")
	t.Setenv("ATT_TRACK_IDLE_POLICY", "TRACK")
	t.Setenv("ATT_TRACK_FLUSH_ON_SHUTDOWN", "true")
	t.Setenv("ATT_TRACK_MAX_FAILURES", "5")
	t.Setenv("ATT_PROBE_COMMAND", "osascript -e frontmost")
	t.Setenv("ATT_PROBE_OUTPUT", "name")
	t.Setenv("ATT_TIMEZONE", "UTC")
	t.Setenv("ATT_DB_DIR_PERMISSIONS", "0700")
	t.Setenv("ATT_APP_VERBOSE", "1")

	cfg := NewConfig()
	require.NoError(t, cfg.LoadFromEnvironment())

	assert.Equal(t, "/tmp/att-test", cfg.Database.Dir)
	assert.Equal(t, 45*time.Second, cfg.Tracking.Threshold)
	assert.Equal(t, 500*time.Millisecond, cfg.Tracking.PollInterval)
	assert.Equal(t, IdlePolicyTrack, cfg.Tracking.IdlePolicy)
	assert.True(t, cfg.Tracking.FlushOnShutdown)
	assert.Equal(t, 5, cfg.Tracking.MaxConsecutiveFailures)
	assert.Equal(t, []string{"osascript", "-e", "frontmost"}, cfg.ProbeArgs())
	assert.Equal(t, ProbeOutputName, cfg.Tracking.ProbeOutput)
	assert.Equal(t, uint32(0700), cfg.Database.DirPermissions)
	assert.True(t, cfg.Application.Verbose)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoadFromEnvironment_InvalidValuesKeepDefaults(t *testing.T) {
	t.Setenv("ATT_TRACK_THRESHOLD", "half a minute")
	t.Setenv("ATT_TRACK_MAX_FAILURES", "many")
	t.Setenv("ATT_APP_VERBOSE", "perhaps")

	cfg := NewConfig()
	require.NoError(t, cfg.LoadFromEnvironment())

	assert.Equal(t, 30*time.Second, cfg.Tracking.Threshold)
	assert.Equal(t, 3, cfg.Tracking.MaxConsecutiveFailures)
	assert.False(t, cfg.Application.Verbose)
}
