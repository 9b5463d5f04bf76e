package factory

import (
	"fmt"
	"log"

	"CountSpectra/internal/config"
	"CountSpectra/internal/model"
)

// WriterFactory defines a function that creates a report writer from its
// config definition.
type WriterFactory func(def config.WriterDef) (model.ReportWriter, error)

// registry holds the mapping of writer types to their factory functions.
var registry = make(map[string]WriterFactory)

// RegisterWriter registers a new writer type with its factory function.
func RegisterWriter(name string, factory WriterFactory) {
	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("writer type '%s' already registered", name))
	}
	registry[name] = factory
}

// CreateWriters creates all enabled report writers from the config. An
// unknown or failing writer is skipped with a warning rather than aborting
// the run; losing one output sink should not lose the measurement.
func CreateWriters(cfg *config.Config) []model.ReportWriter {
	writers := make([]model.ReportWriter, 0, len(cfg.Writers))

	for _, def := range cfg.Writers {
		if !def.Enabled {
			continue
		}

		factory, ok := registry[def.Type]
		if !ok {
			log.Printf("Warning: unknown writer type '%s' in config, skipping.", def.Type)
			continue
		}

		writer, err := factory(def)
		if err != nil {
			log.Printf("Warning: failed to create writer type '%s': %v, skipping.", def.Type, err)
			continue
		}
		writers = append(writers, writer)
		log.Printf("Report writer '%s' created.", def.Type)
	}

	return writers
}
