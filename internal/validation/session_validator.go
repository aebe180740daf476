package validation

import (
	"fmt"

	"app-time-tracker/internal/config"
	"app-time-tracker/internal/domain"
)

// SessionValidator validates time sessions before they are stored and the
// inputs of manual corrections.
type SessionValidator struct {
	validator *Validator
}

// NewSessionValidator creates a session validator using default limits
func NewSessionValidator() *SessionValidator {
	return &SessionValidator{validator: NewValidator()}
}

// NewSessionValidatorWithConfig creates a session validator using configured limits
func NewSessionValidatorWithConfig(cfg *config.Config) *SessionValidator {
	return &SessionValidator{validator: NewValidatorWithConfig(cfg)}
}

// ValidateSession checks every field of a session about to be stored
func (sv *SessionValidator) ValidateSession(session domain.TimeSession) error {
	validationError := NewValidationError()

	if !sv.validator.IsValidID(session.ProjectID) {
		validationError.AddInvalidValueError("project_id", session.ProjectID, "must be a positive integer")
	}
	if !sv.validator.IsNonEmptyString(session.AppName) {
		validationError.AddRequiredError("app_name")
	}
	if session.StartTime.IsZero() {
		validationError.AddRequiredError("start_time")
	}
	if session.EndTime.IsZero() {
		validationError.AddRequiredError("end_time")
	}
	if validationError.HasErrors() {
		return validationError
	}

	if !sv.validator.IsValidTimeRange(session.StartTime, session.EndTime) {
		validationError.AddInvalidRangeError("end_time", session.EndTime, "must be after start_time")
		return validationError
	}

	if !sv.validator.IsValidSessionDuration(session.Duration()) {
		validationError.AddInvalidRangeError("duration", session.Duration().String(),
			fmt.Sprintf("must not exceed %s", sv.validator.getMaxSessionDuration()))
	}
	if !sv.validator.IsWithinTolerance(session.StartTime, session.EndTime, session.DurationSeconds) {
		validationError.AddMismatchError("duration", session.DurationSeconds,
			fmt.Sprintf("recorded %.3fs, bounds span %.3fs", session.DurationSeconds, session.Duration().Seconds()))
	}

	return validationError.ErrOrNil()
}

// ValidateRescale checks the inputs of a manual total correction
func (sv *SessionValidator) ValidateRescale(projectID int64, appName string, newTotalSeconds float64) error {
	validationError := NewValidationError()

	if !sv.validator.IsValidID(projectID) {
		validationError.AddInvalidValueError("project_id", projectID, "must be a positive integer")
	}
	if !sv.validator.IsNonEmptyString(appName) {
		validationError.AddRequiredError("app_name")
	}
	if !sv.validator.IsFiniteNonNegative(newTotalSeconds) {
		validationError.AddInvalidValueError("new_total", newTotalSeconds, "must be a non-negative number of seconds")
	}

	return validationError.ErrOrNil()
}
