package worktime

import (
	"testing"
	"time"

	"sweeply/pkg/model"
)

func TestActiveFullLifecycle(t *testing.T) {
	// Booking scheduled at T, started at T+10m, paused T+40m..T+50m,
	// completed at T+70m. Active time = (70-10) - 10 = 50 minutes.
	T := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	started := T.Add(10 * time.Minute)
	completed := T.Add(70 * time.Minute)

	b := &model.Booking{
		Status:            model.StatusCompleted,
		StartedAt:         &started,
		TotalPauseMinutes: 10,
		CompletedAt:       &completed,
	}

	got := Active(b, completed.Add(3*time.Hour))
	if want := 50 * time.Minute; got != want {
		t.Errorf("Active() = %v, want %v", got, want)
	}
	if s := Format(got); s != "0h 50m" {
		t.Errorf("Format() = %q, want %q", s, "0h 50m")
	}
}

func TestActiveFreezesWhilePaused(t *testing.T) {
	T := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	started := T
	pausedAt := T.Add(40 * time.Minute)

	b := &model.Booking{
		Status:    model.StatusPaused,
		StartedAt: &started,
		PausedAt:  &pausedAt,
	}

	atPause := Active(b, pausedAt)
	if want := 40 * time.Minute; atPause != want {
		t.Fatalf("Active() at pause = %v, want %v", atPause, want)
	}

	// Twenty wall-clock minutes later the active duration is unchanged.
	later := Active(b, pausedAt.Add(20*time.Minute))
	if later != atPause {
		t.Errorf("Active() while paused = %v, want frozen %v", later, atPause)
	}
}

func TestActiveRunningBooking(t *testing.T) {
	started := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	b := &model.Booking{
		Status:            model.StatusInProgress,
		StartedAt:         &started,
		TotalPauseMinutes: 5,
	}

	got := Active(b, started.Add(95*time.Minute))
	if want := 90 * time.Minute; got != want {
		t.Errorf("Active() = %v, want %v", got, want)
	}
	if s := Format(got); s != "1h 30m" {
		t.Errorf("Format() = %q, want %q", s, "1h 30m")
	}
}

func TestActiveClampsNegative(t *testing.T) {
	started := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	b := &model.Booking{
		Status:            model.StatusInProgress,
		StartedAt:         &started,
		TotalPauseMinutes: 120,
	}

	// Clock skew: accumulated pause exceeds wall-clock elapsed.
	if got := Active(b, started.Add(30*time.Minute)); got != 0 {
		t.Errorf("Active() = %v, want 0", got)
	}
}

func TestActiveNotStarted(t *testing.T) {
	b := &model.Booking{Status: model.StatusPicked}
	if got := Active(b, time.Now()); got != 0 {
		t.Errorf("Active() = %v, want 0", got)
	}
}

func TestPauseMinutesTruncatesDown(t *testing.T) {
	pausedAt := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		elapsed time.Duration
		want    int64
	}{
		{0, 0},
		{59 * time.Second, 0},
		{60 * time.Second, 1},
		{10*time.Minute + 59*time.Second, 10},
		{-5 * time.Minute, 0},
	}
	for _, tt := range tests {
		if got := PauseMinutes(pausedAt, pausedAt.Add(tt.elapsed)); got != tt.want {
			t.Errorf("PauseMinutes(+%v) = %d, want %d", tt.elapsed, got, tt.want)
		}
	}
}

func TestPauseTotalNeverDecreases(t *testing.T) {
	// Simulate a sequence of pause/resume cycles and assert monotonicity.
	T := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	var total int64
	cursor := T
	for _, pause := range []time.Duration{90 * time.Second, 30 * time.Second, 12 * time.Minute} {
		prev := total
		total += PauseMinutes(cursor, cursor.Add(pause))
		if total < prev {
			t.Fatalf("pause total decreased: %d -> %d", prev, total)
		}
		cursor = cursor.Add(pause + 5*time.Minute)
	}
	if total != 1+0+12 {
		t.Errorf("accumulated total = %d, want 13", total)
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0h 0m"},
		{50 * time.Minute, "0h 50m"},
		{60 * time.Minute, "1h 0m"},
		{2*time.Hour + 5*time.Minute, "2h 5m"},
		{-time.Minute, "0h 0m"},
	}
	for _, tt := range tests {
		if got := Format(tt.d); got != tt.want {
			t.Errorf("Format(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
