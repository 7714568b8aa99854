package main

import (
	"sweeply/internal/earnings/handler"
	"sweeply/internal/earnings/repository"
	"sweeply/internal/earnings/service"
	"sweeply/pkg/app"
	"sweeply/pkg/auth"
	"sweeply/pkg/config"
)

const ServiceName = "earnings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Earnings service")
	earningsService := initServices(cfg)
	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTokenTTL)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(issuer, handler.NewEarningsHandler(earningsService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.EarningsService {
	earningsService := service.NewEarningsService(
		repository.NewMongoCleanerRepository(cfg),
		cfg,
	)

	cfg.Log.Info("Earnings service initialized", "database", cfg.MongoDatabaseName)
	return earningsService
}
