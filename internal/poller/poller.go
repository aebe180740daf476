// Package poller drives a tracker from a window probe at a fixed cadence.
package poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"app-time-tracker/internal/clock"
	"app-time-tracker/internal/domain"
	apperrors "app-time-tracker/internal/errors"
	"app-time-tracker/internal/logging"
	"app-time-tracker/internal/probe"
	"app-time-tracker/internal/tracker"
)

// DefaultInterval is the default time between probe samples.
const DefaultInterval = 2 * time.Second

// ErrStoreUnavailable is returned by Run once MaxConsecutiveFailures
// commits in a row have failed.
var ErrStoreUnavailable = errors.New("session store unavailable")

// Config configures Run. Tracker and Probe are required.
type Config struct {
	Tracker  *tracker.Tracker
	Probe    probe.Probe
	Interval time.Duration
	Clock    clock.Clock
	Logger   *slog.Logger

	// OnCommit is called after every committed session.
	OnCommit func(domain.TimeSession)
	// OnError is called with every error returned by the tracker.
	OnError func(error)

	// MaxConsecutiveFailures stops the loop after that many failed commits
	// in a row. Sessions the store rejected as invalid do not count.
	// Zero means never stop.
	MaxConsecutiveFailures int
}

// Run samples the probe immediately and then on every tick, feeding each
// sample to the tracker. It returns ctx.Err() once ctx is cancelled,
// leaving any open session in the tracker, or an error wrapping
// ErrStoreUnavailable when commits keep failing.
//
// Probe failures never stop the loop; they count as "no application" for
// that tick. A commit already in progress when ctx is cancelled is allowed
// to finish.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Tracker == nil || cfg.Probe == nil {
		return fmt.Errorf("poller: tracker and probe are required")
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	clk := cfg.Clock
	if clk == nil {
		clk = clock.Real()
	}
	logger := logging.OrDiscard(cfg.Logger)

	l := &loop{cfg: cfg, logger: logger}

	ticker := clk.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("polling started", "project_id", cfg.Tracker.ProjectID(), "interval", interval)
	defer logger.Info("polling stopped", "project_id", cfg.Tracker.ProjectID())

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := l.step(ctx, clk.Now()); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			if err := l.step(ctx, now); err != nil {
				return err
			}
		}
	}
}

type loop struct {
	cfg      Config
	logger   *slog.Logger
	failures int
}

func (l *loop) step(ctx context.Context, now time.Time) error {
	sample, err := l.cfg.Probe.Sample(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		l.logger.Warn("probe failed, treating as no application", "error", err)
		sample = probe.None
	}

	committed, err := l.cfg.Tracker.Update(context.WithoutCancel(ctx), sample, now)
	if committed != nil {
		l.failures = 0
		if l.cfg.OnCommit != nil {
			l.cfg.OnCommit(*committed)
		}
	}
	if err == nil {
		return nil
	}

	if l.cfg.OnError != nil {
		l.cfg.OnError(err)
	}
	if !errors.Is(err, tracker.ErrCommitFailed) || apperrors.IsErrorType(err, apperrors.ErrorTypeValidation) {
		l.logger.Error("session rejected", "error", err)
		return nil
	}

	l.failures++
	if limit := l.cfg.MaxConsecutiveFailures; limit > 0 && l.failures >= limit {
		return fmt.Errorf("%w: %d consecutive commits failed: %w", ErrStoreUnavailable, l.failures, err)
	}
	return nil
}
