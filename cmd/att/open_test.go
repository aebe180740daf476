package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"app-time-tracker/internal/config"
	"app-time-tracker/internal/logging"
)

func TestOpenAPI(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Database.Dir = t.TempDir()

	a, closer, err := openAPI(cfg, logging.Discard())
	require.NoError(t, err)
	require.NotNil(t, closer)
	defer closer.Close()

	project, err := a.CreateProject(context.Background(), "Alpha", "")
	require.NoError(t, err)
	assert.Equal(t, "Alpha", project.Name)
}

func TestOpenAPI_BadProbe(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Database.Dir = t.TempDir()
	cfg.Tracking.ProbeOutput = "window-title"

	_, _, err := openAPI(cfg, logging.Discard())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error creating window probe")
}
