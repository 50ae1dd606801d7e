package utils

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire format for calendar dates (no time-of-day component).
const DateLayout = "2006-01-02"

// IsOverdue reports whether a schedule's next payment date is due.
// The comparison is date-only: a schedule is overdue on its due date,
// regardless of the hour either timestamp carries.
func IsOverdue(nextPaymentDate, now time.Time) bool {
	due := Midnight(nextPaymentDate)
	today := Midnight(now)
	return !today.Before(due)
}

// Midnight truncates a timestamp to its calendar date in UTC.
func Midnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// FormatDate renders a timestamp as a YYYY-MM-DD calendar date.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// DecimalFromFloat converts float64 to decimal.Decimal
func DecimalFromFloat(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

// DecimalFromString converts string to decimal.Decimal
func DecimalFromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}
