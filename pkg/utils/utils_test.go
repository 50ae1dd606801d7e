package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsOverdue(t *testing.T) {
	date := func(s string) time.Time {
		d, err := ParseDate(s)
		assert.NoError(t, err)
		return d
	}

	tests := []struct {
		name    string
		due     string
		now     time.Time
		overdue bool
	}{
		{
			name:    "due date in the future",
			due:     "2026-01-01",
			now:     date("2025-12-31"),
			overdue: false,
		},
		{
			name:    "due today",
			due:     "2026-01-01",
			now:     date("2026-01-01"),
			overdue: true,
		},
		{
			name:    "due date in the past",
			due:     "2026-01-01",
			now:     date("2026-02-15"),
			overdue: true,
		},
		{
			name:    "same calendar day, earlier hour than due timestamp",
			due:     "2026-01-01",
			now:     time.Date(2026, 1, 1, 0, 30, 0, 0, time.UTC),
			overdue: true,
		},
		{
			name:    "day before, late in the evening",
			due:     "2026-01-01",
			now:     time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC),
			overdue: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.overdue, IsOverdue(date(tt.due), tt.now))
		})
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-03-09")
	assert.NoError(t, err)
	assert.Equal(t, "2026-03-09", FormatDate(d))

	_, err = ParseDate("03/09/2026")
	assert.Error(t, err)
}

func TestDecimalFromString(t *testing.T) {
	d, err := DecimalFromString("500.25")
	assert.NoError(t, err)
	assert.Equal(t, "500.25", d.String())

	_, err = DecimalFromString("not-a-number")
	assert.Error(t, err)
}
