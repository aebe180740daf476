// Package tracker turns a stream of foreground-application samples into
// committed time sessions.
//
// A Tracker is either idle or has exactly one open session. Each Update
// compares the sample with the open session's application; on a change the
// open session is committed when it lasted at least the threshold, and a new
// one is opened for the sample. A Tracker has a single writer: only the
// polling goroutine that owns it may call Update or Flush.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"app-time-tracker/internal/domain"
	"app-time-tracker/internal/logging"
	"app-time-tracker/internal/probe"
)

// DefaultThreshold is the minimum session length that gets committed.
const DefaultThreshold = 30 * time.Second

// DefaultIdleAppName names the pseudo-application for "no foreground
// window" when idle time is tracked.
const DefaultIdleAppName = "Idle"

// ErrCommitFailed matches every error returned when the store rejected a
// session. The tracker has already moved on to the new sample by then.
var ErrCommitFailed = errors.New("session commit failed")

// CommitError carries the session that could not be stored.
type CommitError struct {
	Session domain.TimeSession
	Err     error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("commit %s session (%.0fs): %v", e.Session.AppName, e.Session.DurationSeconds, e.Err)
}

// Unwrap exposes both ErrCommitFailed and the store error.
func (e *CommitError) Unwrap() []error {
	return []error{ErrCommitFailed, e.Err}
}

// SessionWriter persists a committed session and returns its id.
type SessionWriter interface {
	WriteSession(ctx context.Context, session domain.TimeSession) (int64, error)
}

// WriterFunc adapts a function to SessionWriter.
type WriterFunc func(ctx context.Context, session domain.TimeSession) (int64, error)

// WriteSession calls f.
func (f WriterFunc) WriteSession(ctx context.Context, session domain.TimeSession) (int64, error) {
	return f(ctx, session)
}

// Options configures a Tracker.
type Options struct {
	// Threshold is the minimum elapsed time for a session to be committed.
	Threshold time.Duration
	// TrackIdle records "no foreground window" as the IdleAppName
	// pseudo-application instead of leaving the tracker idle.
	TrackIdle   bool
	IdleAppName string
	Logger      *slog.Logger
}

// State is a snapshot of the tracker. CurrentApp and SessionStart are set
// together and only when Open is true.
type State struct {
	CurrentApp   string
	SessionStart time.Time
	Open         bool
}

// Tracker is the session state machine for one project.
type Tracker struct {
	store     SessionWriter
	projectID int64
	threshold time.Duration
	trackIdle bool
	idleApp   string
	logger    *slog.Logger

	current string
	start   time.Time
}

// New returns an idle tracker committing sessions for projectID to store.
func New(store SessionWriter, projectID int64, opts Options) *Tracker {
	idleApp := opts.IdleAppName
	if idleApp == "" {
		idleApp = DefaultIdleAppName
	}
	return &Tracker{
		store:     store,
		projectID: projectID,
		threshold: opts.Threshold,
		trackIdle: opts.TrackIdle,
		idleApp:   idleApp,
		logger:    logging.OrDiscard(opts.Logger).With("project_id", projectID),
	}
}

// ProjectID returns the project sessions are attributed to.
func (t *Tracker) ProjectID() int64 {
	return t.projectID
}

// State returns the current state.
func (t *Tracker) State() State {
	return State{
		CurrentApp:   t.current,
		SessionStart: t.start,
		Open:         t.current != "",
	}
}

// Update feeds one sample observed at now.
//
// It returns the committed session, if the sample ended one that cleared
// the threshold. If the store fails, the returned error matches
// ErrCommitFailed and the tracker still transitions to the new sample.
// An invalid session (end not after start) is returned as a validation
// error without touching the store.
func (t *Tracker) Update(ctx context.Context, sample probe.Sample, now time.Time) (*domain.TimeSession, error) {
	app := t.appFor(sample)
	if app == t.current {
		return nil, nil
	}

	var (
		committed *domain.TimeSession
		err       error
	)
	if t.current != "" {
		committed, err = t.close(ctx, now)
	}

	if app == "" {
		t.current, t.start = "", time.Time{}
	} else {
		t.current, t.start = app, now
		t.logger.Debug("session opened", "app", app)
	}
	return committed, err
}

// Flush closes the open session at now, committing it if it cleared the
// threshold, and leaves the tracker idle. It is a no-op when idle.
func (t *Tracker) Flush(ctx context.Context, now time.Time) (*domain.TimeSession, error) {
	if t.current == "" {
		return nil, nil
	}
	committed, err := t.close(ctx, now)
	t.current, t.start = "", time.Time{}
	return committed, err
}

func (t *Tracker) appFor(sample probe.Sample) string {
	if sample.IsNone() && t.trackIdle {
		return t.idleApp
	}
	return sample.App
}

// close commits or discards the open session. It does not change state.
func (t *Tracker) close(ctx context.Context, now time.Time) (*domain.TimeSession, error) {
	elapsed := now.Sub(t.start)
	if elapsed < t.threshold {
		t.logger.Debug("session below threshold discarded",
			"app", t.current, "seconds", elapsed.Seconds(), "threshold", t.threshold.Seconds())
		return nil, nil
	}

	session, err := domain.NewTimeSession(t.projectID, t.current, t.start, now)
	if err != nil {
		return nil, err
	}

	id, err := t.store.WriteSession(ctx, session)
	if err != nil {
		t.logger.Error("session commit failed", "app", session.AppName, "seconds", session.DurationSeconds, "error", err)
		return nil, &CommitError{Session: session, Err: err}
	}
	session.ID = id

	t.logger.Info("session committed", "app", session.AppName, "seconds", session.DurationSeconds, "session_id", id)
	return &session, nil
}
