// Package biztime centralizes UTC-storage / business-timezone-display time
// handling. All persisted timestamps are UTC (spec.md §4.5); business
// timezone only matters when computing calendar-day boundaries, e.g. for
// the once-per-day attendance check-in rule.
package biztime

import (
	"fmt"
	"sync"
	"time"
)

const DefaultTimezone = "UTC"

var (
	bizLocation *time.Location
	once        sync.Once
	initErr     error
)

// Init sets the business timezone used for calendar-day boundaries.
func Init(tz string) error {
	once.Do(func() {
		if tz == "" {
			tz = DefaultTimezone
		}
		bizLocation, initErr = time.LoadLocation(tz)
	})
	return initErr
}

func Location() *time.Location {
	if bizLocation == nil {
		if err := Init(""); err != nil {
			panic(fmt.Sprintf("biztime: failed to init default timezone: %v", err))
		}
	}
	return bizLocation
}

// NowUTC returns the current instant in UTC (time.Now().UTC()); it offers
// no hook for substituting a fixed clock.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// StartOfDayUTC returns 00:00:00 of t's calendar day in the business
// timezone, converted back to UTC — the boundary used to detect whether a
// user already checked in today.
func StartOfDayUTC(t time.Time) time.Time {
	local := t.In(Location())
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, Location())
	return start.UTC()
}

// SameCalendarDay reports whether a and b fall on the same business-
// timezone calendar day.
func SameCalendarDay(a, b time.Time) bool {
	la, lb := a.In(Location()), b.In(Location())
	return la.Year() == lb.Year() && la.YearDay() == lb.YearDay()
}

// FloorMinutes truncates a duration down to whole minutes, per the
// exposure-time flooring rule in spec.md §4.5.
func FloorMinutes(d time.Duration) int {
	if d < 0 {
		return 0
	}
	return int(d / time.Minute)
}
