package notifier

import (
	"context"
	"fmt"
	"time"

	"sweeply/pkg/config"
	"sweeply/pkg/kafka"
	kafka_config "sweeply/pkg/kafka/config"
	kafka_middleware "sweeply/pkg/kafka/middleware"
	"sweeply/pkg/logger"
	"sweeply/pkg/model"
)

// StatusEvent mirrors the change-feed payload published by the bookings
// service. Declared locally so the notifier only couples to the wire format.
type StatusEvent struct {
	BookingID   string       `json:"booking_id"`
	CustomerID  string       `json:"customer_id"`
	CleanerID   *string      `json:"cleaner_id,omitempty"`
	ServiceType string       `json:"service_type"`
	Previous    model.Status `json:"previous_status,omitempty"`
	Current     model.Status `json:"current_status"`
	OccurredAt  time.Time    `json:"occurred_at"`
}

// Notification is one rendered message addressed to a single recipient.
type Notification struct {
	Recipient string
	Role      string
	Body      string
}

// Sender delivers a rendered notification. The default sender writes a
// structured log line; a push or SMS gateway can be swapped in behind it.
type Sender interface {
	Send(ctx context.Context, n Notification) error
}

type logSender struct {
	log *logger.Logger
}

func (s *logSender) Send(ctx context.Context, n Notification) error {
	s.log.Info("Notification dispatched",
		"recipient", n.Recipient,
		"role", n.Role,
		"body", n.Body,
	)
	return nil
}

func NewLogSender(log *logger.Logger) Sender {
	return &logSender{log: log}
}

// Notifier consumes booking status events and fans each one out to the
// parties who care about that transition.
type Notifier struct {
	sender Sender
	log    *logger.Logger
}

func New(sender Sender, log *logger.Logger) *Notifier {
	return &Notifier{
		sender: sender,
		log:    log,
	}
}

// Handle is the kafka message handler. Decode failures are permanent (the
// payload will never get better) and go straight to the DLQ.
func (n *Notifier) Handle(ctx context.Context, msg kafka.Message) error {
	var event StatusEvent
	if err := msg.DecodeValue(&event); err != nil {
		return kafka.NewPermanentError("invalid booking status event", err)
	}

	if event.BookingID == "" || !event.Current.IsValid() {
		return kafka.NewPermanentError("booking status event missing required fields", nil).
			WithDetail("booking_id", event.BookingID).
			WithDetail("status", string(event.Current))
	}

	notifications := n.render(event)
	if len(notifications) == 0 {
		n.log.Debug("No notification for transition",
			"booking_id", event.BookingID,
			"status", event.Current,
		)
		return nil
	}

	for _, notification := range notifications {
		if err := n.sender.Send(ctx, notification); err != nil {
			return kafka.NewTransientError("failed to deliver notification", err)
		}
	}

	n.log.Info("Booking status event handled",
		"booking_id", event.BookingID,
		"from", event.Previous,
		"to", event.Current,
		"notifications", len(notifications),
	)
	return nil
}

// render maps a transition to its recipients. Customers follow the job's
// progress; the cleaner only hears about money landing.
func (n *Notifier) render(event StatusEvent) []Notification {
	var out []Notification

	customer := func(body string) {
		out = append(out, Notification{
			Recipient: event.CustomerID,
			Role:      "customer",
			Body:      body,
		})
	}

	switch event.Current {
	case model.StatusPicked:
		customer(fmt.Sprintf("A cleaner accepted your %s booking.", event.ServiceType))
	case model.StatusInProgress:
		if event.Previous == model.StatusPaused {
			customer("Your cleaning has resumed.")
		} else {
			customer("Your cleaning is underway.")
		}
	case model.StatusPaused:
		customer("Your cleaning is paused and will resume shortly.")
	case model.StatusCompleted:
		customer("Your cleaning is done. The cleaner will collect payment on site.")
	case model.StatusPaymentVerified:
		customer("Payment received, thanks for booking with us.")
		if event.CleanerID != nil {
			out = append(out, Notification{
				Recipient: *event.CleanerID,
				Role:      "cleaner",
				Body:      "Payment verified, your commission has been credited.",
			})
		}
	}

	return out
}

// NewStatusConsumer wires the notifier into a consumer group on the booking
// status topic, with the standard logging middleware and a DLQ.
func NewStatusConsumer(cfg *config.Config, kafkaCfg *kafka_config.Config, n *Notifier) (*kafka.Consumer, error) {
	consumer, err := kafka.NewConsumer(
		kafkaCfg,
		cfg.BookingStatusTopic,
		"notifier",
		"dlq-notifier",
		n.Handle,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create status consumer: %w", err)
	}
	consumer.Use(kafka_middleware.LoggingConsumerMiddleware())
	consumer.Use(kafka_middleware.MetricsConsumerMiddleware())
	return consumer, nil
}
