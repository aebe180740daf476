package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"app-time-tracker/internal/errors"
)

func TestNewTimeSession(t *testing.T) {
	start := time.Date(2025, 6, 23, 11, 0, 0, 0, time.UTC)

	session, err := NewTimeSession(1, "code", start, start.Add(38*time.Second))
	require.NoError(t, err)
	assert.Equal(t, int64(1), session.ProjectID)
	assert.Equal(t, "code", session.AppName)
	assert.InDelta(t, 38.0, session.DurationSeconds, 1e-9)
	assert.Equal(t, 38*time.Second, session.Duration())
}

func TestNewTimeSession_RejectsInvalid(t *testing.T) {
	start := time.Date(2025, 6, 23, 11, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		projectID int64
		app       string
		start     time.Time
		end       time.Time
	}{
		{"end equals start", 1, "code", start, start},
		{"end before start", 1, "code", start, start.Add(-time.Second)},
		{"missing project", 0, "code", start, start.Add(time.Minute)},
		{"empty app", 1, "  ", start, start.Add(time.Minute)},
		{"zero start", 1, "code", time.Time{}, start},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTimeSession(tt.projectID, tt.app, tt.start, tt.end)
			require.Error(t, err)
			assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
		})
	}
}

func TestTimeSession_ValidateDurationMismatch(t *testing.T) {
	start := time.Date(2025, 6, 23, 11, 0, 0, 0, time.UTC)
	session := TimeSession{
		ProjectID:       1,
		AppName:         "code",
		StartTime:       start,
		EndTime:         start.Add(60 * time.Second),
		DurationSeconds: 60.5,
	}
	assert.NoError(t, session.Validate(DefaultDurationTolerance))

	session.DurationSeconds = 75
	err := session.Validate(DefaultDurationTolerance)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match")
}

func TestSortAppTotals(t *testing.T) {
	totals := []AppTotal{
		{"zeta", 100},
		{"beta", 300},
		{"alpha", 100},
		{"gamma", 300},
		{"delta", 50},
	}

	SortAppTotals(totals)

	assert.Equal(t, []AppTotal{
		{"beta", 300},
		{"gamma", 300},
		{"alpha", 100},
		{"zeta", 100},
		{"delta", 50},
	}, totals)
}

func TestProjectReport_TotalHours(t *testing.T) {
	report := ProjectReport{TotalSeconds: 2700 + 900}
	assert.Equal(t, 1.0, report.TotalHours())
}
