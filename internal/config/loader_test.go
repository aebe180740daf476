package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestResolveConfigPath(t *testing.T) {
	t.Setenv(ConfigFileEnvVar, "/etc/att/config.yaml")

	assert.Equal(t, "/explicit.yaml", ResolveConfigPath("/explicit.yaml"))
	assert.Equal(t, "/etc/att/config.yaml", ResolveConfigPath(""))

	t.Setenv(ConfigFileEnvVar, "")
	assert.Equal(t, DefaultConfigPath(), ResolveConfigPath(""))
}

func TestLoader_MissingFileUsesDefaults(t *testing.T) {
	loader := NewLoader(filepath.Join(t.TempDir(), "absent.yaml"))

	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, NewConfig().Tracking, cfg.Tracking)
}

func TestLoader_File(t *testing.T) {
	path := writeConfigFile(t, t.TempDir(), `
tracking:
  threshold: 45s
  idle_policy: track
  idle_app_name: Away
display:
  timezone: UTC
`)

	cfg, err := NewLoader(path).Load()
	require.NoError(t, err)

	assert.Equal(t, 45*time.Second, cfg.Tracking.Threshold)
	assert.True(t, cfg.TrackIdle())
	assert.Equal(t, "Away", cfg.Tracking.IdleAppName)
	assert.Equal(t, "UTC", cfg.Display.Timezone)
	// Untouched keys keep their defaults.
	assert.Equal(t, 2*time.Second, cfg.Tracking.PollInterval)
}

func TestLoader_EmptyFile(t *testing.T) {
	path := writeConfigFile(t, t.TempDir(), "")

	cfg, err := NewLoader(path).Load()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.Tracking.Threshold)
}

func TestLoader_RejectsUnknownKeys(t *testing.T) {
	path := writeConfigFile(t, t.TempDir(), "tracking:\n  treshold: 10s\n")

	_, err := NewLoader(path).Load()
	assert.Error(t, err)
}

func TestLoader_RejectsInvalidValues(t *testing.T) {
	path := writeConfigFile(t, t.TempDir(), "tracking:\n  idle_policy: sometimes\n")

	_, err := NewLoader(path).Load()
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "tracking.idle_policy", cfgErr.Field)
}

func TestLoader_Precedence(t *testing.T) {
	path := writeConfigFile(t, t.TempDir(), "tracking:\n  threshold: 45s\n  poll_interval: 5s\n  idle_policy: track\n")
	t.Setenv("ATT_TRACK_INTERVAL", "3s")
	t.Setenv("ATT_TRACK_IDLE_POLICY", "ignore")

	threshold := 10 * time.Second
	cfg, err := NewLoader(path).LoadWithOverrides(&ConfigOverrides{Threshold: &threshold})
	require.NoError(t, err)

	assert.Equal(t, 10*time.Second, cfg.Tracking.Threshold, "flag beats file")
	assert.Equal(t, 3*time.Second, cfg.Tracking.PollInterval, "env beats file")
	assert.Equal(t, IdlePolicyIgnore, cfg.Tracking.IdlePolicy, "env beats file")
}

func TestLoader_Reload(t *testing.T) {
	dir := t.TempDir()
	path := writeConfigFile(t, dir, "tracking:\n  threshold: 45s\n")

	verbose := true
	loader := NewLoader(path)
	first, err := loader.LoadWithOverrides(&ConfigOverrides{Verbose: &verbose})
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, first.Tracking.Threshold)

	writeConfigFile(t, dir, "tracking:\n  threshold: 1m\n")

	second, err := loader.Reload()
	require.NoError(t, err)
	assert.Equal(t, time.Minute, second.Tracking.Threshold)
	assert.True(t, second.Application.Verbose, "overrides survive a reload")
	assert.Equal(t, 45*time.Second, first.Tracking.Threshold, "earlier values are not mutated")
}

func TestLoader_UpdateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	t.Setenv("ATT_TRACK_THRESHOLD", "5s")

	loader := NewLoader(path)
	require.NoError(t, loader.UpdateFile(func(c *Config) {
		c.Display.Timezone = "UTC"
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "timezone: UTC")
	assert.Contains(t, string(data), "threshold: 30s", "environment values are not persisted")

	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, "UTC", cfg.Display.Timezone)
}

func TestLoader_UpdateFileRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	err := NewLoader(path).UpdateFile(func(c *Config) {
		c.Display.Timezone = "Nowhere/Special"
	})
	assert.Error(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestOverridesFromFlags(t *testing.T) {
	fs := pflag.NewFlagSet("att", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{
		"--threshold=10s",
		"--idle-policy", "track",
		"--flush-on-shutdown",
		"--summary-width=80",
	}))

	overrides, err := OverridesFromFlags(fs)
	require.NoError(t, err)

	require.NotNil(t, overrides.Threshold)
	assert.Equal(t, 10*time.Second, *overrides.Threshold)
	require.NotNil(t, overrides.IdlePolicy)
	assert.Equal(t, IdlePolicyTrack, *overrides.IdlePolicy)
	require.NotNil(t, overrides.FlushOnShutdown)
	assert.True(t, *overrides.FlushOnShutdown)
	require.NotNil(t, overrides.SummaryWidth)
	assert.Equal(t, 80, *overrides.SummaryWidth)

	assert.Nil(t, overrides.PollInterval, "unset flags do not override")
	assert.Nil(t, overrides.Verbose)
	assert.Nil(t, overrides.DBDir)
}

func TestParseWithFallback(t *testing.T) {
	assert.Equal(t, 5*time.Second, ParseDurationWithFallback("5s", time.Second))
	assert.Equal(t, time.Second, ParseDurationWithFallback("soon", time.Second))
	assert.Equal(t, 7, ParseIntWithFallback("7", 1))
	assert.Equal(t, 1, ParseIntWithFallback("seven", 1))
	assert.True(t, ParseBoolWithFallback("true", false))
	assert.False(t, ParseBoolWithFallback("nah", false))
	assert.Equal(t, uint32(0750), ParseUint32WithFallback("750", 8, 0755))
	assert.Equal(t, uint32(0755), ParseUint32WithFallback("rwx", 8, 0755))
}
