package service

import (
	"context"
	"time"

	"sweeply/pkg/config"
	"sweeply/pkg/kafka"
	"sweeply/pkg/model"
)

// StatusPublisher emits booking status changes to the change feed. Delivery
// is best effort: booking correctness never depends on an event arriving.
type StatusPublisher interface {
	PublishStatusChange(ctx context.Context, booking *model.Booking, previous model.Status)
}

// BookingStatusEvent is the change-feed payload, keyed by booking ID so all
// events for one booking land on the same partition in order.
type BookingStatusEvent struct {
	BookingID   string       `json:"booking_id"`
	CustomerID  string       `json:"customer_id"`
	CleanerID   *string      `json:"cleaner_id,omitempty"`
	ServiceType string       `json:"service_type"`
	Previous    model.Status `json:"previous_status,omitempty"`
	Current     model.Status `json:"current_status"`
	OccurredAt  time.Time    `json:"occurred_at"`
}

type kafkaStatusPublisher struct {
	producer *kafka.Producer
	cfg      *config.Config
}

func NewKafkaStatusPublisher(producer *kafka.Producer, cfg *config.Config) StatusPublisher {
	return &kafkaStatusPublisher{
		producer: producer,
		cfg:      cfg,
	}
}

func (p *kafkaStatusPublisher) PublishStatusChange(ctx context.Context, booking *model.Booking, previous model.Status) {
	event := BookingStatusEvent{
		BookingID:   booking.ID,
		CustomerID:  booking.CustomerID,
		CleanerID:   booking.CleanerID,
		ServiceType: booking.ServiceType,
		Previous:    previous,
		Current:     booking.Status,
		OccurredAt:  time.Now().UTC(),
	}

	msg := kafka.NewMessage().
		WithKey(booking.ID).
		WithValue(event).
		WithEventType("booking.status_changed").
		WithSource("bookings").
		Build()

	if err := p.producer.Publish(ctx, msg); err != nil {
		// Listeners catch up from state, not from the feed, so a lost
		// event is logged and dropped.
		p.cfg.Log.Warn("Failed to publish booking status event",
			"booking_id", booking.ID,
			"status", booking.Status,
			"error", err,
		)
	}
}

// NoopPublisher is used when the change feed is disabled.
type NoopPublisher struct{}

func (NoopPublisher) PublishStatusChange(context.Context, *model.Booking, model.Status) {}
