package services

import (
	"context"
	stderrors "errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"app-time-tracker/internal/clock"
	"app-time-tracker/internal/config"
	"app-time-tracker/internal/domain"
	"app-time-tracker/internal/errors"
	"app-time-tracker/internal/logging"
	"app-time-tracker/internal/poller"
	"app-time-tracker/internal/probe"
	"app-time-tracker/internal/repository/sqlite"
	"app-time-tracker/internal/tracker"
	"app-time-tracker/internal/validation"
)

// trackingServiceImpl implements the TrackingService interface
type trackingServiceImpl struct {
	repo      sqlite.Repository
	reporting ReportingService
	probe     probe.Probe
	clock     clock.Clock
	config    *config.Config
	recorder  *sessionRecorder
	mapper    *domain.Mapper
	logger    *slog.Logger
}

// NewTrackingService creates a new TrackingService instance. A nil cfg
// uses defaults and a nil clk uses the system clock.
func NewTrackingService(repo sqlite.Repository, cfg *config.Config, p probe.Probe, clk clock.Clock, reporting ReportingService, logger *slog.Logger) TrackingService {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	if clk == nil {
		clk = clock.Real()
	}
	return &trackingServiceImpl{
		repo:      repo,
		reporting: reporting,
		probe:     p,
		clock:     clk,
		config:    cfg,
		recorder: &sessionRecorder{
			repo:      repo,
			validator: validation.NewSessionValidatorWithConfig(cfg),
			mapper:    domain.NewMapper(),
		},
		mapper: domain.NewMapper(),
		logger: logging.OrDiscard(logger),
	}
}

// event is a tracker outcome forwarded from the polling goroutine
type event struct {
	session *domain.TimeSession
	err     error
}

// Track polls the probe for projectID until ctx is cancelled. Cancellation
// is a normal stop and is not returned as an error. The session still
// open at that point is flushed when flush_on_shutdown is set and
// otherwise dropped. Store unavailability stops tracking with an error;
// the result is returned alongside it.
func (t *trackingServiceImpl) Track(ctx context.Context, projectID int64, hooks TrackHooks) (*TrackResult, error) {
	dbProject, err := t.repo.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	project := t.mapper.Project.FromDatabase(*dbProject)
	logger := t.logger.With("project", project.Name)

	trackingCfg := t.config.Tracking
	tr := tracker.New(t.recorder, projectID, tracker.Options{
		Threshold:   trackingCfg.Threshold,
		TrackIdle:   t.config.TrackIdle(),
		IdleAppName: trackingCfg.IdleAppName,
		Logger:      logger,
	})

	if hooks.OnStart != nil {
		hooks.OnStart(project)
	}

	result := &TrackResult{Project: project}
	events := make(chan event, 16)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(events)
		err := poller.Run(gctx, poller.Config{
			Tracker:                tr,
			Probe:                  t.probe,
			Interval:               trackingCfg.PollInterval,
			Clock:                  t.clock,
			Logger:                 logger,
			MaxConsecutiveFailures: trackingCfg.MaxConsecutiveFailures,
			OnCommit: func(s domain.TimeSession) {
				events <- event{session: &s}
			},
			OnError: func(err error) {
				events <- event{err: err}
			},
		})
		if ctx.Err() != nil {
			return nil
		}
		return err
	})
	g.Go(func() error {
		for ev := range events {
			if ev.err != nil {
				result.Failed++
				if hooks.OnError != nil {
					hooks.OnError(ev.err)
				}
				continue
			}
			result.Committed = append(result.Committed, *ev.session)
			if hooks.OnCommit != nil {
				hooks.OnCommit(*ev.session)
			}
		}
		return nil
	})
	runErr := g.Wait()

	// The parent context is done by now; finish with one that is not.
	finishCtx := context.WithoutCancel(ctx)

	if runErr == nil {
		t.finishOpenSession(finishCtx, tr, result, hooks, logger)
	}

	report, err := t.reporting.ProjectReport(finishCtx, projectID)
	if err != nil && runErr == nil {
		return result, err
	}
	result.Report = report

	if runErr != nil {
		logger.Error("tracking stopped", "error", runErr)
	}
	return result, runErr
}

func (t *trackingServiceImpl) finishOpenSession(ctx context.Context, tr *tracker.Tracker, result *TrackResult, hooks TrackHooks, logger *slog.Logger) {
	state := tr.State()
	if !state.Open {
		return
	}

	if !t.config.Tracking.FlushOnShutdown {
		result.Discarded = state.CurrentApp
		logger.Info("open session not recorded", "app", state.CurrentApp,
			"seconds", t.clock.Now().Sub(state.SessionStart).Seconds())
		return
	}

	flushed, err := tr.Flush(ctx, t.clock.Now())
	if err != nil {
		result.Failed++
		if hooks.OnError != nil {
			hooks.OnError(err)
		}
		return
	}
	if flushed != nil {
		result.Flushed = flushed
		result.Committed = append(result.Committed, *flushed)
		if hooks.OnCommit != nil {
			hooks.OnCommit(*flushed)
		}
	}
}

// sessionRecorder validates sessions against configured limits before
// storing them
type sessionRecorder struct {
	repo      sqlite.Repository
	validator *validation.SessionValidator
	mapper    *domain.Mapper
}

// WriteSession implements tracker.SessionWriter
func (s *sessionRecorder) WriteSession(ctx context.Context, session domain.TimeSession) (int64, error) {
	if err := s.validator.ValidateSession(session); err != nil {
		return 0, errors.NewValidationError("invalid session", err)
	}

	row := s.mapper.TimeSession.ToDatabase(session)
	if err := s.repo.InsertSession(ctx, &row); err != nil {
		return 0, err
	}
	return row.ID, nil
}

// IsStoreUnavailable reports whether err ended tracking because commits
// kept failing
func IsStoreUnavailable(err error) bool {
	return stderrors.Is(err, poller.ErrStoreUnavailable)
}
