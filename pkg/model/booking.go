package model

import (
	"fmt"
	"time"
)

type Booking struct {
	ID         string  `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	CustomerID string  `json:"customer_id" bson:"customer_id" validate:"required,mongodb"`
	CleanerID  *string `json:"cleaner_id,omitempty" bson:"cleaner_id,omitempty" validate:"omitempty,mongodb"`
	ServiceID  string  `json:"service_id" bson:"service_id" validate:"required,mongodb"`

	// ServiceType keys the commission rate table, e.g. "standard" or "deep_clean".
	ServiceType string `json:"service_type" bson:"service_type" validate:"required,min=2,max=50"`
	Address     string `json:"address" bson:"address" validate:"required,min=5,max=300"`
	Notes       string `json:"notes,omitempty" bson:"notes,omitempty" validate:"omitempty,max=1000"`

	Status Status `json:"status" bson:"status" validate:"required,booking_status"`

	ScheduledAt        time.Time  `json:"scheduled_at" bson:"scheduled_at" validate:"required"`
	PickedAt           *time.Time `json:"picked_at,omitempty" bson:"picked_at,omitempty"`
	StartedAt          *time.Time `json:"started_at,omitempty" bson:"started_at,omitempty"`
	PausedAt           *time.Time `json:"paused_at,omitempty" bson:"paused_at,omitempty"`
	TotalPauseMinutes  int64      `json:"total_pause_minutes" bson:"total_pause_minutes" validate:"min=0"`
	CompletedAt        *time.Time `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
	PaymentCollectedAt *time.Time `json:"payment_collected_at,omitempty" bson:"payment_collected_at,omitempty"`

	// Amount is the fixed price in the minor currency unit, set at creation.
	Amount          int64   `json:"amount" bson:"amount" validate:"required,min=1"`
	PaymentProofURL *string `json:"payment_proof_url,omitempty" bson:"payment_proof_url,omitempty"`

	CreatedAt time.Time  `json:"created_at" bson:"created_at" validate:"omitempty"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" bson:"deleted_at,omitempty"`
}

// IsDeleted reports whether the booking has been soft-deleted. Deleted
// bookings are excluded from every query and transition, never removed.
func (b *Booking) IsDeleted() bool {
	return b.DeletedAt != nil
}

// AssignedTo reports whether the booking is claimed by the given cleaner.
func (b *Booking) AssignedTo(cleanerID string) bool {
	return b.CleanerID != nil && *b.CleanerID == cleanerID
}

// CheckInvariants verifies the field-presence rules that must hold for every
// persisted booking regardless of how it got into its current state.
func (b *Booking) CheckInvariants() error {
	if !b.Status.IsValid() {
		return fmt.Errorf("unknown status %q", b.Status)
	}
	if (b.PausedAt != nil) != (b.Status == StatusPaused) {
		return fmt.Errorf("paused_at must be set iff status is paused, status=%s", b.Status)
	}
	if b.TotalPauseMinutes < 0 {
		return fmt.Errorf("total_pause_minutes is negative: %d", b.TotalPauseMinutes)
	}
	if b.CleanerID == nil && b.Status != StatusPending {
		return fmt.Errorf("status %s requires an assigned cleaner", b.Status)
	}
	if b.StartedAt == nil && (b.Status == StatusInProgress || b.Status == StatusPaused ||
		b.Status == StatusCompleted || b.Status == StatusPaymentVerified) {
		return fmt.Errorf("status %s requires started_at", b.Status)
	}
	if (b.CompletedAt != nil) != (b.Status == StatusCompleted || b.Status == StatusPaymentVerified) {
		return fmt.Errorf("completed_at presence does not match status %s", b.Status)
	}
	if (b.PaymentProofURL != nil) != (b.PaymentCollectedAt != nil) {
		return fmt.Errorf("payment_proof_url and payment_collected_at must be set together")
	}
	if (b.PaymentCollectedAt != nil) != (b.Status == StatusPaymentVerified) {
		return fmt.Errorf("payment_collected_at presence does not match status %s", b.Status)
	}
	return nil
}

// BookingCreate is the customer-facing creation payload. The amount is fixed
// here and never changes for the life of the booking.
type BookingCreate struct {
	ServiceID   string    `json:"service_id" validate:"required,mongodb"`
	ServiceType string    `json:"service_type" validate:"required,min=2,max=50"`
	Address     string    `json:"address" validate:"required,min=5,max=300"`
	Notes       string    `json:"notes,omitempty" validate:"omitempty,max=1000"`
	ScheduledAt time.Time `json:"scheduled_at" validate:"required"`
	Amount      int64     `json:"amount" validate:"required,min=1"`
}
