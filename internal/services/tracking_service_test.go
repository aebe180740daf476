package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"app-time-tracker/internal/clock"
	"app-time-tracker/internal/config"
	"app-time-tracker/internal/domain"
	"app-time-tracker/internal/errors"
	"app-time-tracker/internal/probe"
	"app-time-tracker/internal/repository/sqlite"
)

const pollInterval = 10 * time.Second

// scriptProbe returns one app per call, repeating the last, and reports
// each call on called.
func scriptProbe(apps ...string) (probe.Probe, <-chan struct{}) {
	var mu sync.Mutex
	n := 0
	called := make(chan struct{}, 1024)
	return probe.Func(func(context.Context) (probe.Sample, error) {
		mu.Lock()
		i := n
		if i >= len(apps) {
			i = len(apps) - 1
		}
		n++
		mu.Unlock()
		called <- struct{}{}
		return probe.App(apps[i]), nil
	}), called
}

func trackingConfig() *config.Config {
	cfg := config.NewConfig()
	cfg.Tracking.PollInterval = pollInterval
	cfg.Tracking.Threshold = 30 * time.Second
	return cfg
}

type trackRun struct {
	result  *TrackResult
	err     error
	commits []domain.TimeSession
	errs    []error
}

// track runs Track against a fake clock, letting the probe be called
// calls times before cancelling.
func track(t *testing.T, repo sqlite.Repository, cfg *config.Config, projectID int64, calls int, apps ...string) trackRun {
	t.Helper()

	clk := clock.Fake(base)
	p, called := scriptProbe(apps...)
	service := NewTrackingService(repo, cfg, p, clk, NewReportingService(repo, cfg, nil), nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var run trackRun
	done := make(chan struct{})
	go func() {
		defer close(done)
		run.result, run.err = service.Track(ctx, projectID, TrackHooks{
			OnCommit: func(s domain.TimeSession) { run.commits = append(run.commits, s) },
			OnError:  func(err error) { run.errs = append(run.errs, err) },
		})
	}()

	clk.WaitForTimers(1)
	for i := 0; i < calls; i++ {
		select {
		case <-called:
		case <-time.After(2 * time.Second):
			t.Fatalf("probe call %d never happened", i)
		}
		if i < calls-1 {
			clk.Advance(pollInterval)
		}
	}
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Track did not return after cancel")
	}
	return run
}

func TestTrackingService_Track(t *testing.T) {
	repo := setupRepo(t)
	id := seedProject(t, repo, "Thesis")

	// A from 0s to 40s, then B from 40s until cancellation at 50s.
	run := track(t, repo, trackingConfig(), id, 6, "A", "A", "A", "A", "B")

	require.NoError(t, run.err)
	require.NotNil(t, run.result)
	require.Len(t, run.result.Committed, 1)
	assert.Equal(t, "A", run.result.Committed[0].AppName)
	assert.InDelta(t, 40.0, run.result.Committed[0].DurationSeconds, 0.001)
	assert.Equal(t, "B", run.result.Discarded)
	assert.Nil(t, run.result.Flushed)
	assert.Len(t, run.commits, 1)

	require.NotNil(t, run.result.Report)
	assert.InDelta(t, 40.0, run.result.Report.TotalSeconds, 0.001)
	assert.Equal(t, []domain.AppTotal{{AppName: "A", Seconds: 40}}, run.result.Report.Apps)

	sessions, err := repo.ListSessions(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.True(t, base.Equal(sessions[0].StartTime))
	assert.True(t, base.Add(40*time.Second).Equal(sessions[0].EndTime))
}

func TestTrackingService_FlushOnShutdown(t *testing.T) {
	repo := setupRepo(t)
	id := seedProject(t, repo, "Thesis")
	cfg := trackingConfig()
	cfg.Tracking.FlushOnShutdown = true

	// B opens at 40s and is still focused at 80s.
	run := track(t, repo, cfg, id, 9, "A", "A", "A", "A", "B")

	require.NoError(t, run.err)
	require.NotNil(t, run.result.Flushed)
	assert.Equal(t, "B", run.result.Flushed.AppName)
	assert.InDelta(t, 40.0, run.result.Flushed.DurationSeconds, 0.001)
	assert.Empty(t, run.result.Discarded)
	assert.Len(t, run.result.Committed, 2)
	assert.Len(t, run.commits, 2)
	assert.InDelta(t, 80.0, run.result.Report.TotalSeconds, 0.001)
}

func TestTrackingService_RejectedSessionKeepsTracking(t *testing.T) {
	repo := setupRepo(t)
	id := seedProject(t, repo, "Thesis")
	cfg := trackingConfig()
	cfg.Validation.MaxSessionDuration = 35 * time.Second

	// A (40s) exceeds the limit, B (30s) does not.
	run := track(t, repo, cfg, id, 8, "A", "A", "A", "A", "B", "B", "B", "C")

	require.NoError(t, run.err)
	assert.Equal(t, 1, run.result.Failed)
	require.Len(t, run.errs, 1)
	assert.True(t, errors.IsErrorType(run.errs[0], errors.ErrorTypeValidation))
	require.Len(t, run.result.Committed, 1)
	assert.Equal(t, "B", run.result.Committed[0].AppName)
	assert.Equal(t, "C", run.result.Discarded)
}

func TestTrackingService_UnknownProject(t *testing.T) {
	repo := setupRepo(t)
	p, _ := scriptProbe("A")
	service := NewTrackingService(repo, nil, p, clock.Fake(base), NewReportingService(repo, nil, nil), nil)

	result, err := service.Track(context.Background(), 999, TrackHooks{})
	assert.Nil(t, result)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
}

func TestSessionRecorder(t *testing.T) {
	repo := setupRepo(t)
	id := seedProject(t, repo, "Thesis")
	cfg := config.NewConfig()
	recorder := NewTrackingService(repo, cfg, nil, nil, nil, nil).(*trackingServiceImpl).recorder
	ctx := context.Background()

	session, err := domain.NewTimeSession(id, "Code", base, base.Add(time.Minute))
	require.NoError(t, err)

	sessionID, err := recorder.WriteSession(ctx, session)
	require.NoError(t, err)
	assert.Greater(t, sessionID, int64(0))

	session.DurationSeconds = 600
	_, err = recorder.WriteSession(ctx, session)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
}
