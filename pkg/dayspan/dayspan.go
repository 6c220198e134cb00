// Package dayspan computes calendar-day offsets between a YYYY-MM-DD date and
// a reference time, ignoring the time-of-day component entirely.
package dayspan

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// DaysUntil returns how many calendar days separate dateStr from now's local
// calendar date. 0 means today, negative means already past. Only the civil
// year/month/day of both sides matters: calling this at 00:01 and at 23:59 of
// the same day yields the same answer, and DST transitions between the two
// dates cannot skew the count because the difference is taken between UTC
// midnights of the two civil dates.
func DaysUntil(dateStr string, now time.Time) (int, error) {
	target, err := time.Parse(DateLayout, dateStr)
	if err != nil {
		return 0, fmt.Errorf("invalid expiry date %q: %w", dateStr, err)
	}

	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	ty, tm, td := target.Date()
	targetMidnight := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)

	return int(targetMidnight.Sub(today) / (24 * time.Hour)), nil
}

// DayKey formats now's local calendar date as YYYY-MM-DD, the suffix used in
// notification dedup keys.
func DayKey(now time.Time) string {
	return now.Format(DateLayout)
}
