package period

import (
	"testing"
	"time"
)

func TestStartOfWeek(t *testing.T) {
	// 2026-03-04 is a Wednesday.
	wed := time.Date(2026, 3, 4, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		now      time.Time
		firstDay time.Weekday
		want     time.Time
	}{
		{"monday convention", wed, time.Monday, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)},
		{"sunday convention", wed, time.Sunday, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"on the boundary day", time.Date(2026, 3, 2, 0, 0, 1, 0, time.UTC), time.Monday, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)},
		{"week spans month boundary", time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC), time.Monday, time.Date(2026, 3, 30, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StartOfWeek(tt.now, tt.firstDay); !got.Equal(tt.want) {
				t.Errorf("StartOfWeek() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStartOfWeekIsStableAcrossTheWeek(t *testing.T) {
	// Asking on any day of the same week must return the same boundary.
	want := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	for d := 0; d < 7; d++ {
		now := want.AddDate(0, 0, d).Add(13 * time.Hour)
		if got := StartOfWeek(now, time.Monday); !got.Equal(want) {
			t.Errorf("StartOfWeek(%v) = %v, want %v", now, got, want)
		}
	}
}

func TestComputeContainment(t *testing.T) {
	now := time.Date(2026, 3, 18, 12, 0, 0, 0, time.UTC)
	w := Compute(now, time.Monday)

	if w.Today.Start.Before(w.ThisWeek.Start) {
		t.Error("day window must start within the week window")
	}
	if w.ThisWeek.Start.Before(w.ThisMonth.Start) {
		// Legitimate when the week began in the previous month; not on the 18th.
		t.Error("week window must start within the month window mid-month")
	}

	// A payment collected this morning lands in all three buckets.
	morning := time.Date(2026, 3, 18, 8, 0, 0, 0, time.UTC)
	for name, win := range map[string]Window{"today": w.Today, "week": w.ThisWeek, "month": w.ThisMonth} {
		if !win.Contains(morning) {
			t.Errorf("%s window should contain this morning", name)
		}
	}

	// Yesterday is in week and month but not today.
	yesterday := morning.AddDate(0, 0, -1)
	if w.Today.Contains(yesterday) {
		t.Error("today window must not contain yesterday")
	}
	if !w.ThisWeek.Contains(yesterday) || !w.ThisMonth.Contains(yesterday) {
		t.Error("week and month windows should contain yesterday")
	}
}

func TestStartOfMonth(t *testing.T) {
	now := time.Date(2026, 1, 31, 23, 59, 0, 0, time.UTC)
	want := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	if got := StartOfMonth(now); !got.Equal(want) {
		t.Errorf("StartOfMonth() = %v, want %v", got, want)
	}
}

func TestWindowExcludesFuture(t *testing.T) {
	now := time.Date(2026, 3, 18, 12, 0, 0, 0, time.UTC)
	w := Compute(now, time.Monday)
	if w.Today.Contains(now.Add(time.Minute)) {
		t.Error("window must not contain instants after now")
	}
}

func TestWindowIncludesBothEnds(t *testing.T) {
	now := time.Date(2026, 3, 18, 12, 0, 0, 0, time.UTC)
	w := Compute(now, time.Monday)

	// The window is closed on both ends: a payment stamped exactly at local
	// midnight or exactly at now still lands in today's bucket.
	if !w.Today.Contains(w.Today.Start) {
		t.Error("window must contain its start instant")
	}
	if !w.Today.Contains(w.Today.End) {
		t.Error("window must contain its end instant")
	}
	if w.Today.Contains(w.Today.Start.Add(-time.Nanosecond)) {
		t.Error("window must not contain instants before its start")
	}
}
