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
			name:     "whole seconds",
			input:    time.Date(2024, 1, 15, 10, 30, 45, 0, time.UTC),
			expected: "2024-01-15T10:30:45.000000000Z",
		},
		{
			name:     "nanoseconds kept",
			input:    time.Date(2024, 3, 10, 9, 15, 30, 123456789, time.UTC),
			expected: "2024-03-10T09:15:30.123456789Z",
		},
		{
			name:     "offset converted to UTC",
			input:    time.Date(2024, 6, 15, 14, 30, 0, 0, time.FixedZone("EST", -5*3600)),
			expected: "2024-06-15T19:30:00.000000000Z",
		},
		{
			name:     "zero time",
			input:    time.Time{},
			expected: "0001-01-01T00:00:00.000000000Z",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatTimeForDB(tt.input))
		})
	}
}

func TestFormatTimeForDB_SortsChronologically(t *testing.T) {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	times := []time.Time{
		base.Add(time.Second),
		base,
		base.Add(500 * time.Millisecond),
		base.Add(time.Microsecond),
		base.Add(-time.Hour),
	}

	formatted := make([]string, len(times))
	for i, tm := range times {
		formatted[i] = FormatTimeForDB(tm)
	}
	sort.Strings(formatted)

	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
	for i, tm := range times {
		assert.Equal(t, FormatTimeForDB(tm), formatted[i])
	}
}

func TestParseTimeFromDB(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    time.Time
		expectError bool
	}{
		{
			name:     "storage layout",
			input:    "2024-01-15T10:30:45.123456000Z",
			expected: time.Date(2024, 1, 15, 10, 30, 45, 123456000, time.UTC),
		},
		{
			name:     "rfc3339 with offset",
			input:    "2024-01-15T10:30:45+01:00",
			expected: time.Date(2024, 1, 15, 9, 30, 45, 0, time.UTC),
		},
		{
			name:        "garbage",
			input:       "yesterday",
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
			assert.True(t, tt.expected.Equal(result))
			assert.Equal(t, time.UTC, result.Location())
		})
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	original := time.Date(2025, 7, 4, 23, 59, 59, 999999000, time.UTC)
	parsed, err := ParseTimeFromDB(FormatTimeForDB(original))
	require.NoError(t, err)
	assert.Equal(t, original, parsed)
}
