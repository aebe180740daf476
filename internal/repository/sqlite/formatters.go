package sqlite

import (
	"time"
)

// dbTimeLayout is fixed-width and always written in UTC so that stored
// timestamps sort lexically in chronological order.
const dbTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// FormatTimeForDB formats a time.Time value for database storage
func FormatTimeForDB(t time.Time) string {
	return t.UTC().Format(dbTimeLayout)
}

// ParseTimeFromDB parses a timestamp written by FormatTimeForDB. Any
// RFC3339 value is accepted.
func ParseTimeFromDB(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
