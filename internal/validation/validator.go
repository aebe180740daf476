package validation

import (
	"math"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"app-time-tracker/internal/config"
)

// Validator provides common validation utilities
type Validator struct {
	config *config.Config
}

// NewValidator creates a new validator instance using default limits
func NewValidator() *Validator {
	return &Validator{}
}

// NewValidatorWithConfig creates a new validator instance with configuration
func NewValidatorWithConfig(cfg *config.Config) *Validator {
	return &Validator{config: cfg}
}

// IsNonEmptyString checks if a string is not empty after trimming whitespace
func (v *Validator) IsNonEmptyString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsValidStringLength checks if the trimmed string has between min and max
// characters.
func (v *Validator) IsValidStringLength(s string, min, max int) bool {
	length := utf8.RuneCountInString(strings.TrimSpace(s))
	return length >= min && length <= max
}

// IsValidProjectNameLength checks a project name against configured limits
func (v *Validator) IsValidProjectNameLength(name string) bool {
	return v.IsValidStringLength(name, v.getProjectNameMinLength(), v.getProjectNameMaxLength())
}

// HasNoControlCharacters rejects newlines, tabs and other control runes.
func (v *Validator) HasNoControlCharacters(s string) bool {
	return strings.IndexFunc(s, unicode.IsControl) < 0
}

// IsValidID checks that an identifier is positive
func (v *Validator) IsValidID(id int64) bool {
	return id > 0
}

// IsValidTimeRange checks that end is strictly after start
func (v *Validator) IsValidTimeRange(start, end time.Time) bool {
	return end.After(start)
}

// IsValidSessionDuration checks that a duration is positive and no longer
// than the configured maximum
func (v *Validator) IsValidSessionDuration(d time.Duration) bool {
	return d > 0 && d <= v.getMaxSessionDuration()
}

// IsWithinTolerance reports whether a stored duration in seconds agrees with
// the session bounds.
func (v *Validator) IsWithinTolerance(start, end time.Time, seconds float64) bool {
	diff := math.Abs(end.Sub(start).Seconds() - seconds)
	return diff <= v.getDurationTolerance().Seconds()
}

// IsFiniteNonNegative checks a user-supplied number of seconds
func (v *Validator) IsFiniteNonNegative(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0) && f >= 0
}

// TrimAndValidateString trims whitespace and returns the cleaned string
func (v *Validator) TrimAndValidateString(s string) string {
	return strings.TrimSpace(s)
}

func (v *Validator) getProjectNameMinLength() int {
	if v.config != nil {
		return v.config.Validation.ProjectNameMinLength
	}
	return 1
}

func (v *Validator) getProjectNameMaxLength() int {
	if v.config != nil {
		return v.config.Validation.ProjectNameMaxLength
	}
	return 255
}

func (v *Validator) getMaxSessionDuration() time.Duration {
	if v.config != nil {
		return v.config.Validation.MaxSessionDuration
	}
	return 24 * time.Hour
}

func (v *Validator) getDurationTolerance() time.Duration {
	if v.config != nil {
		return v.config.Validation.DurationTolerance
	}
	return time.Second
}
