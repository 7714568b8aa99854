package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"sweeply/internal/notifier"
	"sweeply/pkg/config"
	kafka_config "sweeply/pkg/kafka/config"
)

const ServiceName = "notifier"

func main() {
	cfg := config.LoadWorker(ServiceName)

	n := notifier.New(notifier.NewLogSender(cfg.Log), cfg.Log)
	consumer, err := notifier.NewStatusConsumer(cfg, kafka_config.Load(), n)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize status consumer", "error", err)
	}
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-shutdown
		cfg.Log.Info("Shutdown signal received", "signal", sig)
		cancel()
	}()

	cfg.Log.Info("Notifier started", "topic", cfg.BookingStatusTopic)
	if err := consumer.Start(ctx); err != nil && err != context.Canceled {
		cfg.Log.Error("Consumer stopped with error", "error", err)
	}
	cfg.Log.Info("Notifier stopped")
}
