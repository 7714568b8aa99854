package validator

import (
	"testing"
	"time"

	"sweeply/pkg/logger"
	"sweeply/pkg/model"
)

func newTestValidator(t *testing.T) *BookingValidator {
	t.Helper()
	log := logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
	return NewBookingValidator(log)
}

func validBooking() *model.Booking {
	return &model.Booking{
		CustomerID:  "65b000000000000000000001",
		ServiceID:   "65c000000000000000000001",
		ServiceType: "standard",
		Address:     "12 Rothschild Blvd, Tel Aviv",
		Status:      model.StatusPending,
		ScheduledAt: time.Now().Add(24 * time.Hour),
		Amount:      15000,
	}
}

func TestValidate_ValidBooking(t *testing.T) {
	v := newTestValidator(t)

	if err := v.Validate(validBooking()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_RejectsUnknownStatus(t *testing.T) {
	v := newTestValidator(t)

	b := validBooking()
	b.Status = model.Status("cancelled")

	if err := v.Validate(b); err == nil {
		t.Fatal("expected validation error for unknown status")
	}
}

func TestValidate_RejectsInvariantViolations(t *testing.T) {
	v := newTestValidator(t)
	cleanerID := "65d000000000000000000001"
	now := time.Now()

	tests := []struct {
		name   string
		mutate func(b *model.Booking)
	}{
		{
			name: "picked without cleaner",
			mutate: func(b *model.Booking) {
				b.Status = model.StatusPicked
			},
		},
		{
			name: "paused_at set while pending",
			mutate: func(b *model.Booking) {
				b.PausedAt = &now
			},
		},
		{
			name: "in_progress without started_at",
			mutate: func(b *model.Booking) {
				b.Status = model.StatusInProgress
				b.CleanerID = &cleanerID
			},
		},
		{
			name: "proof url without collection timestamp",
			mutate: func(b *model.Booking) {
				url := "/api/v1/bookings/id/x/payment-proof"
				b.PaymentProofURL = &url
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBooking()
			tt.mutate(b)
			if err := v.Validate(b); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidateCreate(t *testing.T) {
	v := newTestValidator(t)

	tests := []struct {
		name    string
		mutate  func(p *model.BookingCreate)
		wantErr bool
	}{
		{
			name:    "valid payload",
			mutate:  func(p *model.BookingCreate) {},
			wantErr: false,
		},
		{
			name: "missing service id",
			mutate: func(p *model.BookingCreate) {
				p.ServiceID = ""
			},
			wantErr: true,
		},
		{
			name: "zero amount",
			mutate: func(p *model.BookingCreate) {
				p.Amount = 0
			},
			wantErr: true,
		},
		{
			name: "scheduled in the past",
			mutate: func(p *model.BookingCreate) {
				p.ScheduledAt = time.Now().Add(-time.Hour)
			},
			wantErr: true,
		},
		{
			name: "address too short",
			mutate: func(p *model.BookingCreate) {
				p.Address = "x"
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &model.BookingCreate{
				ServiceID:   "65c000000000000000000001",
				ServiceType: "standard",
				Address:     "12 Rothschild Blvd, Tel Aviv",
				ScheduledAt: time.Now().Add(24 * time.Hour),
				Amount:      15000,
			}
			tt.mutate(p)

			err := v.ValidateCreate(p)
			if tt.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
