// Package period computes the calendar windows the earnings ledger buckets
// verified payments into. All windows are closed [Start, now] anchored at
// local midnight in now's location, so the month window always contains the
// week window, which always contains the day window.
package period

import "time"

type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

type Windows struct {
	Today     Window
	ThisWeek  Window
	ThisMonth Window
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns midnight of the most recent firstDay on or before t.
// Each boundary is derived from t directly, never from an already shifted
// value, so the week start is stable no matter when in the week it is asked.
func StartOfWeek(t time.Time, firstDay time.Weekday) time.Time {
	day := StartOfDay(t)
	offset := (int(day.Weekday()) - int(firstDay) + 7) % 7
	return day.AddDate(0, 0, -offset)
}

// StartOfMonth returns midnight of the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

// Compute returns the day, week, and month windows ending at now. firstDay
// is the locale's first day of the week; the ISO convention is Monday.
func Compute(now time.Time, firstDay time.Weekday) Windows {
	return Windows{
		Today:     Window{Start: StartOfDay(now), End: now},
		ThisWeek:  Window{Start: StartOfWeek(now, firstDay), End: now},
		ThisMonth: Window{Start: StartOfMonth(now), End: now},
	}
}
