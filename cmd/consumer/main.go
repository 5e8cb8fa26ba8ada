package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"trendradar/kafka"
	"trendradar/pipeline"
)

func main() {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()
	log.SetOutput(os.Stderr)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p, err := pipeline.NewFromEnv(ctx)
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	defer p.Close()

	consumer, err := kafka.NewConsumer(kafka.ConfigFromEnv(), kafka.NewBatchHandler(p))
	if err != nil {
		log.Fatalf("failed to create Kafka consumer: %v", err)
	}
	defer consumer.Close()

	if err := consumer.Start(ctx); err != nil {
		log.Fatalf("failed to start Kafka consumer: %v", err)
	}

	// Block until interrupted
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	log.Println("Shutting down consumer...")
}
