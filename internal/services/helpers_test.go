package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"app-time-tracker/internal/repository/sqlite"
)

func setupRepo(t *testing.T) sqlite.Repository {
	t.Helper()
	repo, err := sqlite.New(sqlite.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func seedProject(t *testing.T, repo sqlite.Repository, name string) int64 {
	t.Helper()
	project := &sqlite.Project{Name: name, Status: "WIP"}
	require.NoError(t, repo.CreateProject(context.Background(), project))
	return project.ID
}

func seedSession(t *testing.T, repo sqlite.Repository, projectID int64, app string, start time.Time, seconds float64) {
	t.Helper()
	session := &sqlite.TimeSession{
		ProjectID: projectID,
		AppName:   app,
		StartTime: start,
		EndTime:   start.Add(time.Duration(seconds * float64(time.Second))),
		Duration:  seconds,
	}
	require.NoError(t, repo.InsertSession(context.Background(), session))
}
