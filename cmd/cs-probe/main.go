package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"CountSpectra/internal/config"
	"CountSpectra/internal/model"
	"CountSpectra/internal/probe"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to the configuration file.")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pub, err := probe.NewPublisher(cfg.NATS)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer pub.Close()

	published := uint64(0)
	emit := func(batch *model.Batch) {
		if err := pub.Publish(batch); err != nil {
			log.Printf("Failed to publish batch %d: %v", batch.Seq, err)
			return
		}
		published++
		if published%1000 == 0 {
			log.Printf("%d batches published...", published)
		}
	}

	switch cfg.Probe.Source {
	case "gen":
		runGenerator(cfg, emit)
	default:
		runStream(cfg, emit)
	}

	log.Printf("Probe finished after %d batches.", published)
}

// runStream reads tokens from the configured tcp or file source until EOF
// or an interrupt.
func runStream(cfg *config.Config, emit probe.BatchFunc) {
	src, err := probe.OpenSource(cfg.Probe)
	if err != nil {
		log.Fatalf("Failed to open stream source: %v", err)
	}
	defer src.Close()

	// An interrupt closes the source, which ends the read loop after the
	// batch being assembled.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Shutdown signal received, closing stream source...")
		src.Close()
	}()

	reader := probe.NewReader(cfg.Probe.BatchSize)
	if err := reader.ReadBatches(src, emit); err != nil {
		log.Printf("Stream reader stopped: %v", err)
	}
}

// runGenerator publishes synthetic batches until an interrupt.
func runGenerator(cfg *config.Config, emit probe.BatchFunc) {
	log.Printf("Generating uniform items in [%d,%d]...", cfg.Probe.Gen.Min, cfg.Probe.Gen.Max)

	stop := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		close(stop)
	}()

	probe.Generate(cfg.Probe.Gen, cfg.Probe.BatchSize, emit, stop)
}
