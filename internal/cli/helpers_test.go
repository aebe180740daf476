package cli

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"app-time-tracker/internal/api"
	"app-time-tracker/internal/config"
	"app-time-tracker/internal/logging"
	"app-time-tracker/internal/probe"
	"app-time-tracker/internal/repository/sqlite"
)

var base = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

// setupTestAPI returns a real API over an in-memory database.
func setupTestAPI(t *testing.T) (api.API, sqlite.Repository) {
	t.Helper()
	repo, err := config.CreateTestRepository()
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	idle := probe.Func(func(context.Context) (probe.Sample, error) { return probe.None, nil })
	return api.NewWithConfig(repo, config.NewConfig(), idle, logging.Discard()), repo
}

func seedSession(t *testing.T, repo sqlite.Repository, projectID int64, app string, start time.Time, seconds float64) {
	t.Helper()
	require.NoError(t, repo.InsertSession(context.Background(), &sqlite.TimeSession{
		ProjectID: projectID,
		AppName:   app,
		StartTime: start,
		EndTime:   start.Add(time.Duration(seconds * float64(time.Second))),
		Duration:  seconds,
	}))
}

// runCLI executes the root command with args against a throwaway config
// file and returns stdout.
func runCLI(t *testing.T, root *RootCommand, configPath string, args ...string) (string, error) {
	t.Helper()
	if configPath == "" {
		configPath = filepath.Join(t.TempDir(), "config.yaml")
	}

	var out bytes.Buffer
	root.Command().SetOut(&out)
	root.Command().SetErr(io.Discard)
	root.Command().SetArgs(append([]string{"--config", configPath, "--timezone", "UTC"}, args...))

	err := root.Execute(context.Background())
	return out.String(), err
}
