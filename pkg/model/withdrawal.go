package model

import "time"

// Withdrawal records a cashout request. Creating one decrements the cleaner's
// balance in the same transaction, so amount <= balance always held at write.
type Withdrawal struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty"`
	CleanerID   string    `json:"cleaner_id" bson:"cleaner_id" validate:"required,mongodb"`
	Amount      int64     `json:"amount" bson:"amount" validate:"required,min=1"`
	RequestedAt time.Time `json:"requested_at" bson:"requested_at"`
}

// ServiceRate is one row of the fixed commission table: the amount credited
// to a cleaner when payment is verified for a booking of this service type.
type ServiceRate struct {
	ServiceType string    `json:"service_type" bson:"_id"`
	Commission  int64     `json:"commission" bson:"commission"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}
