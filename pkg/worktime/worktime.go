// Package worktime computes the active work duration of a booking: wall-clock
// time between start and completion minus every pause interval, including a
// pause that is still open.
package worktime

import (
	"fmt"
	"time"

	"sweeply/pkg/model"
)

// Active returns the active work duration of a booking at the given instant.
//
// The committed pause total only grows on resume, so while a booking is
// paused the open interval since paused_at is subtracted as well; the visible
// timer freezes at the moment of pausing even though wall-clock advances.
// Clock skew can make the raw result negative, in which case it clamps to 0.
func Active(b *model.Booking, now time.Time) time.Duration {
	if b.StartedAt == nil {
		return 0
	}

	end := now
	if b.CompletedAt != nil {
		end = *b.CompletedAt
	}

	d := end.Sub(*b.StartedAt)
	d -= time.Duration(b.TotalPauseMinutes) * time.Minute
	if b.Status == model.StatusPaused && b.PausedAt != nil {
		d -= now.Sub(*b.PausedAt)
	}

	if d < 0 {
		return 0
	}
	return d
}

// PauseMinutes returns the whole minutes elapsed in a pause interval,
// truncated down. This is the increment committed to total_pause_minutes
// on resume.
func PauseMinutes(pausedAt, now time.Time) int64 {
	elapsed := now.Sub(pausedAt)
	if elapsed < 0 {
		return 0
	}
	return int64(elapsed / time.Minute)
}

// Hours converts a duration to fractional hours, for earnings totals.
func Hours(d time.Duration) float64 {
	return d.Hours()
}

// Format renders a duration as whole hours and minutes, e.g. "1h 30m".
func Format(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	return fmt.Sprintf("%dh %dm", h, m)
}
