package domain

import (
	"fmt"
	"math"
	"strings"
	"time"

	"app-time-tracker/internal/errors"
)

// DefaultDurationTolerance is how far a stored duration may drift from
// end-start before the session is considered corrupt.
const DefaultDurationTolerance = time.Second

// TimeSession is one committed interval during which a single application
// held focus, attributed to a project. Sessions are immutable once stored
// except through an explicit rescale.
type TimeSession struct {
	ID              int64
	ProjectID       int64
	AppName         string
	StartTime       time.Time
	EndTime         time.Time
	DurationSeconds float64
}

// NewTimeSession builds a session whose duration is derived from its bounds.
// It rejects sessions with a missing project, an empty app name or
// end <= start.
func NewTimeSession(projectID int64, appName string, start, end time.Time) (TimeSession, error) {
	s := TimeSession{
		ProjectID:       projectID,
		AppName:         appName,
		StartTime:       start,
		EndTime:         end,
		DurationSeconds: end.Sub(start).Seconds(),
	}
	if err := s.Validate(DefaultDurationTolerance); err != nil {
		return TimeSession{}, err
	}
	return s, nil
}

// Validate checks the session invariants. Duration must match end-start
// within tolerance; rescaled sessions are validated by the store, not here.
func (s TimeSession) Validate(tolerance time.Duration) error {
	if s.ProjectID <= 0 {
		return errors.NewValidationError("session project id must be positive", nil).
			WithContext("project_id", s.ProjectID)
	}
	if strings.TrimSpace(s.AppName) == "" {
		return errors.NewValidationError("session app name cannot be empty", nil)
	}
	if s.StartTime.IsZero() || s.EndTime.IsZero() {
		return errors.NewValidationError("session start and end times are required", nil)
	}
	if !s.EndTime.After(s.StartTime) {
		return errors.NewValidationError(
			fmt.Sprintf("session end %s is not after start %s",
				s.EndTime.Format(time.RFC3339), s.StartTime.Format(time.RFC3339)), nil)
	}
	expected := s.EndTime.Sub(s.StartTime).Seconds()
	if math.Abs(expected-s.DurationSeconds) > tolerance.Seconds() {
		return errors.NewValidationError(
			fmt.Sprintf("session duration %.3fs does not match interval %.3fs", s.DurationSeconds, expected), nil)
	}
	return nil
}

// Duration returns the stored duration, which may differ from
// EndTime-StartTime after a rescale.
func (s TimeSession) Duration() time.Duration {
	return time.Duration(s.DurationSeconds * float64(time.Second))
}
