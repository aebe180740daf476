package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"app-time-tracker/internal/probe"
	"app-time-tracker/internal/repository/sqlite"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRepository(t *testing.T) {
	tmpDir := filepath.Join(t.TempDir(), "nested")
	t.Setenv("ATT_DB_DIR", tmpDir)
	t.Setenv(ConfigFileEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := NewLoader("").Load()
	require.NoError(t, err)

	repo, err := CreateRepository(cfg)
	require.NoError(t, err)
	defer repo.Close()

	_, err = os.Stat(filepath.Join(tmpDir, "att.db"))
	assert.NoError(t, err)

	project := &sqlite.Project{Name: "Test Project", Status: "WIP"}
	require.NoError(t, repo.CreateProject(context.Background(), project))

	projects, err := repo.ListProjects(context.Background())
	require.NoError(t, err)
	assert.Len(t, projects, 1)
}

func TestCreateTestRepository(t *testing.T) {
	repo, err := CreateTestRepository()
	require.NoError(t, err)
	defer repo.Close()

	projects, err := repo.ListProjects(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, projects)
	assert.Empty(t, projects)
}

func TestGetDatabasePath(t *testing.T) {
	cfg := NewConfig()
	cfg.Database.Dir = "/data"
	assert.Equal(t, filepath.Join("/data", "att.db"), cfg.GetDatabasePath())

	cfg.Database.Filename = sqlite.MemoryPath
	assert.Equal(t, sqlite.MemoryPath, cfg.GetDatabasePath())
}

func TestCreateProbe(t *testing.T) {
	cfg := NewConfig()
	cfg.Tracking.ProbeCommand = "echo Code"
	cfg.Tracking.ProbeOutput = ProbeOutputName

	p, err := CreateProbe(cfg)
	require.NoError(t, err)
	assert.IsType(t, &probe.CommandProbe{}, p)

	cfg.Tracking.ProbeOutput = ProbeOutputPID
	p, err = CreateProbe(cfg)
	require.NoError(t, err)
	assert.IsType(t, &probe.PIDProbe{}, p)

	cfg.Tracking.ProbeCommand = ""
	_, err = CreateProbe(cfg)
	assert.Error(t, err)
}
