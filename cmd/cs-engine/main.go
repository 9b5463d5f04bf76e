package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"CountSpectra/internal/config"
	"CountSpectra/internal/engine"
	"CountSpectra/internal/model"
	"CountSpectra/internal/probe"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to the configuration file.")
	flag.Parse()

	log.Println("Starting cs-engine...")

	// 1. Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Println("Configuration loaded successfully.")

	// 2. Initialize the engine and start its ingest loop
	eng := engine.New(cfg)
	eng.Start()

	// 3. Subscribe to the batch stream and feed the engine
	sub, err := probe.NewSubscriber(cfg.NATS)
	if err != nil {
		log.Fatalf("Failed to create subscriber: %v", err)
	}
	input := eng.Input()
	if err := sub.Start(func(batch *model.Batch) { input <- batch }); err != nil {
		log.Fatalf("Subscriber failed to start: %v", err)
	}

	// 4. Block until the stopping threshold is crossed or an interrupt
	// arrives; either way the batch in flight completes first.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-eng.Done():
		log.Println("Stopping threshold reached.")
	case <-sigChan:
		log.Println("Shutdown signal received before threshold.")
	}

	// 5. Stop consuming, drain, and emit the final report.
	sub.Close()
	eng.Stop()
	eng.Finalize()
	log.Println("Run complete.")
}
