package repository

import (
	"testing"
	"time"

	"sweeply/pkg/model"
)

const (
	queueCleanerID = "65d000000000000000000001"
	otherCleanerID = "65d000000000000000000099"
)

// queueBooking builds a well-formed booking in the given status, assigned to
// cleanerID for every post-pending state.
func queueBooking(status model.Status, cleanerID string) *model.Booking {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	b := &model.Booking{
		ID:          "65a000000000000000000001",
		CustomerID:  "65b000000000000000000001",
		ServiceID:   "65c000000000000000000001",
		ServiceType: "standard",
		Address:     "12 Rothschild Blvd, Tel Aviv",
		Status:      status,
		ScheduledAt: now,
		Amount:      15000,
		CreatedAt:   now,
	}

	if status == model.StatusPending {
		return b
	}

	b.CleanerID = &cleanerID
	picked := now.Add(time.Hour)
	b.PickedAt = &picked

	switch status {
	case model.StatusPicked:
	case model.StatusInProgress:
		started := now.Add(2 * time.Hour)
		b.StartedAt = &started
	case model.StatusPaused:
		started := now.Add(2 * time.Hour)
		paused := now.Add(3 * time.Hour)
		b.StartedAt = &started
		b.PausedAt = &paused
	case model.StatusCompleted:
		started := now.Add(2 * time.Hour)
		completed := now.Add(4 * time.Hour)
		b.StartedAt = &started
		b.CompletedAt = &completed
	case model.StatusPaymentVerified:
		started := now.Add(2 * time.Hour)
		completed := now.Add(4 * time.Hour)
		collected := now.Add(5 * time.Hour)
		url := "/api/v1/bookings/id/65a000000000000000000001/payment-proof"
		b.StartedAt = &started
		b.CompletedAt = &completed
		b.PaymentCollectedAt = &collected
		b.PaymentProofURL = &url
	}
	return b
}

func TestQueuePartition_OwnBookings(t *testing.T) {
	// Every booking a cleaner can act on lands in exactly one of the two
	// queues: payment_verified in history, everything else in current.
	for _, status := range model.AllStatuses() {
		b := queueBooking(status, queueCleanerID)
		if err := b.CheckInvariants(); err != nil {
			t.Fatalf("fixture for %s is malformed: %v", status, err)
		}

		current := InCurrentQueue(b, queueCleanerID)
		history := InHistory(b, queueCleanerID)

		if current == history {
			t.Errorf("status %s: current=%v history=%v, want exactly one", status, current, history)
		}
		if wantHistory := status == model.StatusPaymentVerified; history != wantHistory {
			t.Errorf("status %s: history=%v, want %v", status, history, wantHistory)
		}
	}
}

func TestQueuePartition_ForeignBookings(t *testing.T) {
	// Another cleaner's claimed work is invisible to both queues; only the
	// pending pool is shared.
	for _, status := range model.AllStatuses() {
		b := queueBooking(status, otherCleanerID)

		current := InCurrentQueue(b, queueCleanerID)
		history := InHistory(b, queueCleanerID)

		if status == model.StatusPending {
			if !current || history {
				t.Errorf("pending: current=%v history=%v, want current only", current, history)
			}
			continue
		}
		if current || history {
			t.Errorf("status %s assigned elsewhere: current=%v history=%v, want neither", status, current, history)
		}
	}
}

func TestQueuePartition_DeletedBookingsExcluded(t *testing.T) {
	deletedAt := time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC)
	for _, status := range model.AllStatuses() {
		b := queueBooking(status, queueCleanerID)
		b.DeletedAt = &deletedAt

		if InCurrentQueue(b, queueCleanerID) || InHistory(b, queueCleanerID) {
			t.Errorf("status %s: soft-deleted booking must appear in neither queue", status)
		}
	}
}

func TestQueuePartition_CollectedPaymentLeavesCurrent(t *testing.T) {
	// The filters guard on payment_collected_at as well as status, so a
	// document mid-verification can never show up in both queues.
	b := queueBooking(model.StatusCompleted, queueCleanerID)
	collected := time.Date(2026, 3, 2, 17, 0, 0, 0, time.UTC)
	b.PaymentCollectedAt = &collected

	if InCurrentQueue(b, queueCleanerID) {
		t.Error("completed booking with collected payment must leave the current queue")
	}
	if InHistory(b, queueCleanerID) {
		t.Error("history requires payment_verified status, not just a collected payment")
	}
}
