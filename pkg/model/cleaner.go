package model

import "time"

// Cleaner is a field worker's earnings account. One per worker, created once,
// mutated only by the payment verification trigger and withdrawal creation.
type Cleaner struct {
	ID    string `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name  string `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Phone string `json:"phone" bson:"phone" validate:"omitempty,e164"`

	// EarningsBalance is the current withdrawable total in the minor unit.
	EarningsBalance int64 `json:"earnings_balance" bson:"earnings_balance" validate:"min=0"`

	// Rating is supplied by the review system, never derived here.
	Rating float64 `json:"rating" bson:"rating" validate:"min=0,max=5"`

	CreatedAt time.Time  `json:"created_at" bson:"created_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" bson:"deleted_at,omitempty"`
}

// EarningEvent is one append-only entry in a cleaner's earnings history,
// written together with the balance credit when a payment is verified.
type EarningEvent struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty"`
	CleanerID string    `json:"cleaner_id" bson:"cleaner_id"`
	BookingID string    `json:"booking_id" bson:"booking_id"`
	Amount    int64     `json:"amount" bson:"amount"`
	Service   string    `json:"service" bson:"service"`
	EarnedAt  time.Time `json:"earned_at" bson:"earned_at"`
}
