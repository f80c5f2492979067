package notification

import (
	"time"
)

// DefaultTimeZone is used when a user has no time zone set or set an
// unloadable one.
const DefaultTimeZone = "Europe/Moscow"

// ISOWeekNumber returns the ISO-8601 week number of the instant. Week
// numbers are embedded in weekly dedupe keys, so this must follow the
// standard definition (Monday-start weeks, week 1 contains the year's first
// Thursday).
func ISOWeekNumber(t time.Time) int {
	_, week := t.ISOWeek()
	return week
}

// LocalHour returns the 24-hour clock hour of the instant in the location.
func LocalHour(t time.Time, loc *time.Location) int {
	return t.In(loc).Hour()
}

// LocalDateKey returns the calendar date in the location as "YYYY-MM-DD".
func LocalDateKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}

// Location resolves an IANA time zone name, falling back to the default and
// finally to UTC.
func Location(name string) *time.Location {
	if name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	loc, err := time.LoadLocation(DefaultTimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// localTime is the per-user time context computed once per run and passed by
// value into every evaluator.
type localTime struct {
	now     time.Time
	loc     *time.Location
	hour    int
	dateKey string
	weekday time.Weekday
	week    int
}

func newLocalTime(now time.Time, timeZone string) localTime {
	loc := Location(timeZone)
	local := now.In(loc)
	return localTime{
		now:     now,
		loc:     loc,
		hour:    local.Hour(),
		dateKey: LocalDateKey(now, loc),
		weekday: local.Weekday(),
		week:    ISOWeekNumber(local),
	}
}

func (lt localTime) local() time.Time {
	return lt.now.In(lt.loc)
}

// dayBounds returns the local calendar day of the run as a [start, end)
// instant pair.
func (lt localTime) dayBounds() (time.Time, time.Time) {
	local := lt.local()
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, lt.loc)
	return start, start.AddDate(0, 0, 1)
}

// parseHHMM parses a "HH:MM" string into minutes since midnight.
func parseHHMM(s string) (int, bool) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

// inQuietWindow reports whether the local instant falls inside the quiet
// window, which may wrap past midnight (22:00–08:00).
func inQuietWindow(local time.Time, start, end string) bool {
	startM, ok := parseHHMM(start)
	if !ok {
		return false
	}
	endM, ok := parseHHMM(end)
	if !ok {
		return false
	}
	m := local.Hour()*60 + local.Minute()
	if startM <= endM {
		return m >= startM && m < endM
	}
	return m >= startM || m < endM
}
