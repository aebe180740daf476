package sqlite

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTimeForDB(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Time
		expected string
	}{
		{
			name:     "Valid time",
			input:    time.Date(2024, 1, 15, 10, 30, 45, 0, time.UTC),
			expected: "2024-01-15T10:30:45.000000000Z",
		},
		{
			name:     "Time with timezone is stored in UTC",
			input:    time.Date(2024, 6, 15, 14, 30, 0, 0, time.FixedZone("EST", -5*3600)),
			expected: "2024-06-15T19:30:00.000000000Z",
		},
		{
			name:     "Time with nanoseconds",
			input:    time.Date(2024, 3, 10, 9, 15, 30, 123456789, time.UTC),
			expected: "2024-03-10T09:15:30.123456789Z",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatTimeForDB(tt.input))
		})
	}
}

func TestFormatTimeForDB_SortsChronologically(t *testing.T) {
	base := time.Date(2024, 3, 10, 9, 15, 30, 0, time.UTC)
	times := []time.Time{
		base.Add(500 * time.Millisecond),
		base,
		base.Add(time.Second),
		base.Add(1),
	}

	formatted := make([]string, len(times))
	for i, ts := range times {
		formatted[i] = FormatTimeForDB(ts)
	}
	sort.Strings(formatted)

	assert.Equal(t, []string{
		FormatTimeForDB(base),
		FormatTimeForDB(base.Add(1)),
		FormatTimeForDB(base.Add(500 * time.Millisecond)),
		FormatTimeForDB(base.Add(time.Second)),
	}, formatted)
}

func TestParseTimeFromDB(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    time.Time
		expectError bool
	}{
		{
			name:     "Stored layout",
			input:    "2024-03-10T09:15:30.123456789Z",
			expected: time.Date(2024, 3, 10, 9, 15, 30, 123456789, time.UTC),
		},
		{
			name:     "Plain RFC3339 with offset",
			input:    "2024-06-15T14:30:00-05:00",
			expected: time.Date(2024, 6, 15, 19, 30, 0, 0, time.UTC),
		},
		{
			name:        "Invalid format",
			input:       "2024-06-15 14:30:00",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseTimeFromDB(tt.input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(result), "expected %v, got %v", tt.expected, result)
		})
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	original := time.Date(2025, 6, 23, 11, 47, 24, 890799000, time.Local)
	parsed, err := ParseTimeFromDB(FormatTimeForDB(original))
	require.NoError(t, err)
	assert.True(t, original.Equal(parsed))
}
