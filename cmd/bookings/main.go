package main

import (
	"sweeply/internal/bookings/handler"
	"sweeply/internal/bookings/repository"
	"sweeply/internal/bookings/service"
	"sweeply/internal/bookings/validator"
	earningsrepo "sweeply/internal/earnings/repository"
	"sweeply/pkg/app"
	"sweeply/pkg/auth"
	"sweeply/pkg/blob"
	"sweeply/pkg/config"
	"sweeply/pkg/kafka"
	kafka_config "sweeply/pkg/kafka/config"
	kafka_middleware "sweeply/pkg/kafka/middleware"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Bookings service")
	bookingService := initServices(cfg)
	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTokenTTL)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(issuer, handler.NewBookingHandler(bookingService, cfg, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.BookingService {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)

	proofStore, err := blob.NewGridFSStore(db, "payment_proofs")
	if err != nil {
		cfg.Log.Fatal("Failed to initialize payment proof store", "error", err)
	}

	var publisher service.StatusPublisher
	if cfg.ChangeFeedEnabled {
		producer, err := kafka.NewProducer(kafka_config.Load(), cfg.BookingStatusTopic, "dlq-bookings")
		if err != nil {
			cfg.Log.Fatal("Failed to initialize status producer", "error", err)
		}
		producer.Use(kafka_middleware.LoggingProducerMiddleware())
		producer.Use(kafka_middleware.MetricsProducerMiddleware())
		publisher = service.NewKafkaStatusPublisher(producer, cfg)
		cfg.Log.Info("Booking status change feed enabled", "topic", cfg.BookingStatusTopic)
	}

	bookingService := service.NewBookingService(
		repository.NewMongoBookingRepository(cfg),
		repository.NewMongoRateRepository(cfg),
		earningsrepo.NewMongoCleanerRepository(cfg),
		proofStore,
		validator.NewBookingValidator(cfg.Log),
		publisher,
		cfg,
	)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return bookingService
}
