package notification

import (
	"testing"
	"time"
)

// helper: build a time in given tz and return its UTC
func mustLocalUTC(t *testing.T, tz string, y int, m time.Month, d, hh, mm int) time.Time {
	t.Helper()
	loc, err := time.LoadLocation(tz)
	if err != nil {
		t.Fatalf("load tz: %v", err)
	}
	lt := time.Date(y, m, d, hh, mm, 0, 0, loc)
	return lt.UTC()
}

func TestISOWeekNumber_YearBoundary(t *testing.T) {
	cases := []struct {
		y    int
		m    time.Month
		d    int
		want int
	}{
		{2023, time.January, 1, 52}, // Sunday, still 2022's last week
		{2021, time.January, 1, 53}, // Friday, belongs to 2020-W53
		{2024, time.January, 1, 1},  // Monday starts week 1
		{2026, time.January, 1, 1},  // Thursday, week 1 by definition
		{2015, time.December, 31, 53},
	}
	for _, c := range cases {
		d := time.Date(c.y, c.m, c.d, 12, 0, 0, 0, time.UTC)
		if got := ISOWeekNumber(d); got != c.want {
			t.Fatalf("%v: want week %d, got %d", d, c.want, got)
		}
	}
}

func TestLocalHour_CrossesMidnight(t *testing.T) {
	// 21:30 UTC is 00:30 the next day in Moscow
	now := time.Date(2025, time.May, 5, 21, 30, 0, 0, time.UTC)
	loc, err := time.LoadLocation("Europe/Moscow")
	if err != nil {
		t.Fatalf("load tz: %v", err)
	}
	if got := LocalHour(now, loc); got != 0 {
		t.Fatalf("want hour 0, got %d", got)
	}
	if got := LocalDateKey(now, loc); got != "2025-05-06" {
		t.Fatalf("want 2025-05-06, got %s", got)
	}
}

func TestLocalDateKey_WesternZone(t *testing.T) {
	now := time.Date(2025, time.May, 6, 2, 0, 0, 0, time.UTC)
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load tz: %v", err)
	}
	if got := LocalDateKey(now, loc); got != "2025-05-05" {
		t.Fatalf("want 2025-05-05, got %s", got)
	}
}

func TestLocation_FallsBack(t *testing.T) {
	loc := Location("Not/AZone")
	if loc.String() != DefaultTimeZone {
		t.Fatalf("want %s, got %s", DefaultTimeZone, loc)
	}
	if Location("").String() != DefaultTimeZone {
		t.Fatalf("empty zone should fall back to %s", DefaultTimeZone)
	}
}

func TestInQuietWindow_Wrapping(t *testing.T) {
	at := func(hh, mm int) time.Time {
		return time.Date(2025, time.May, 5, hh, mm, 0, 0, time.UTC)
	}
	cases := []struct {
		hh, mm int
		want   bool
	}{
		{23, 0, true},
		{3, 15, true},
		{7, 59, true},
		{8, 0, false},
		{12, 0, false},
		{22, 0, true},
		{21, 59, false},
	}
	for _, c := range cases {
		if got := inQuietWindow(at(c.hh, c.mm), "22:00", "08:00"); got != c.want {
			t.Fatalf("%02d:%02d: want %v, got %v", c.hh, c.mm, c.want, got)
		}
	}
}

func TestInQuietWindow_SameDay(t *testing.T) {
	at := func(hh int) time.Time {
		return time.Date(2025, time.May, 5, hh, 0, 0, 0, time.UTC)
	}
	if !inQuietWindow(at(14), "13:00", "15:00") {
		t.Fatal("14:00 should be inside 13:00-15:00")
	}
	if inQuietWindow(at(16), "13:00", "15:00") {
		t.Fatal("16:00 should be outside 13:00-15:00")
	}
}

func TestNewLocalTime_Context(t *testing.T) {
	// Monday 2025-06-02 10:00 in Moscow is 07:00 UTC
	now := mustLocalUTC(t, "Europe/Moscow", 2025, time.June, 2, 10, 0)
	lt := newLocalTime(now, "Europe/Moscow")
	if lt.hour != 10 {
		t.Fatalf("want hour 10, got %d", lt.hour)
	}
	if lt.dateKey != "2025-06-02" {
		t.Fatalf("want 2025-06-02, got %s", lt.dateKey)
	}
	if lt.weekday != time.Monday {
		t.Fatalf("want Monday, got %v", lt.weekday)
	}
	start, end := lt.dayBounds()
	if !start.Before(now) || !end.After(now) {
		t.Fatalf("day bounds [%v, %v) should contain %v", start, end, now)
	}
	if end.Sub(start) != 24*time.Hour {
		t.Fatalf("want a 24h day, got %v", end.Sub(start))
	}
}
