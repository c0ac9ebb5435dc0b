package sqlite

import (
	"time"
)

// dbTimeLayout is fixed width and always UTC, so stored timestamps sort
// lexically in chronological order.
const dbTimeLayout = "2006-01-02T15:04:05.000000000Z"

// FormatTimeForDB formats a time.Time value for storage in a TEXT column
func FormatTimeForDB(t time.Time) string {
	return t.UTC().Format(dbTimeLayout)
}

// ParseTimeFromDB parses a timestamp written by FormatTimeForDB.
// Plain RFC3339 values are accepted as well.
func ParseTimeFromDB(s string) (time.Time, error) {
	t, err := time.Parse(dbTimeLayout, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return time.Time{}, err
		}
	}
	return t.UTC(), nil
}
