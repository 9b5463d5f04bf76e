package probe

import (
	"encoding/json"
	"log"

	"CountSpectra/internal/config"
	"CountSpectra/internal/model"

	"github.com/nats-io/nats.go"
)

// BatchHandler is a function that processes a received batch.
type BatchHandler func(batch *model.Batch)

// Subscriber is responsible for subscribing to the batch subject and
// decoding messages for the engine.
type Subscriber struct {
	nc      *nats.Conn
	sub     *nats.Subscription
	subject string
}

// NewSubscriber creates a new NATS subscriber.
func NewSubscriber(cfg config.NATSConfig) (*Subscriber, error) {
	nc, err := nats.Connect(cfg.URL)
	if err != nil {
		return nil, err
	}
	log.Printf("Connected to NATS server at %s", cfg.URL)
	return &Subscriber{nc: nc, subject: cfg.Subject}, nil
}

// Start subscribes to the configured subject and feeds each decoded batch
// to the handler.
func (s *Subscriber) Start(handler BatchHandler) error {
	sub, err := s.nc.Subscribe(s.subject, func(msg *nats.Msg) {
		var batch model.Batch
		if err := json.Unmarshal(msg.Data, &batch); err != nil {
			log.Printf("Error unmarshalling batch: %v", err)
			return
		}
		handler(&batch)
	})
	if err != nil {
		return err
	}
	s.sub = sub
	log.Printf("Subscribed to '%s'. Waiting for batches...", s.subject)
	return nil
}

// Close unsubscribes and closes the NATS connection.
func (s *Subscriber) Close() {
	if s.sub != nil {
		s.sub.Unsubscribe()
	}
	if s.nc != nil {
		s.nc.Close()
		log.Println("NATS connection closed.")
	}
}
