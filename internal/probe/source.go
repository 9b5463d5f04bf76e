package probe

import (
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"net"
	"os"

	"CountSpectra/internal/config"
	"CountSpectra/internal/model"
)

// OpenSource returns the token stream selected by the probe config: a TCP
// connection for "tcp" or an open file for "file". The "gen" source has no
// reader; use Generate instead.
func OpenSource(cfg config.ProbeConfig) (io.ReadCloser, error) {
	switch cfg.Source {
	case "tcp":
		conn, err := net.Dial("tcp", cfg.Addr)
		if err != nil {
			return nil, fmt.Errorf("failed to dial stream source %s: %w", cfg.Addr, err)
		}
		log.Printf("Connected to stream source at %s", cfg.Addr)
		return conn, nil
	case "file":
		file, err := os.Open(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open stream file: %w", err)
		}
		return file, nil
	default:
		return nil, fmt.Errorf("unknown probe source '%s'", cfg.Source)
	}
}

// Generate emits synthetic batches of uniform random items in
// [cfg.Min, cfg.Max] until the stop channel closes. It exists for load
// tests and demos where no live stream is available.
func Generate(gen config.GenConfig, batchSize int, emit BatchFunc, stop <-chan struct{}) {
	if gen.Max < gen.Min {
		log.Fatalf("Generator range [%d,%d] is empty", gen.Min, gen.Max)
	}
	if batchSize <= 0 {
		batchSize = 1000
	}
	span := gen.Max - gen.Min + 1

	seq := uint64(0)
	for {
		select {
		case <-stop:
			return
		default:
		}

		items := make([]int64, batchSize)
		for i := range items {
			items[i] = gen.Min + rand.Int64N(span)
		}
		seq++
		emit(&model.Batch{Seq: seq, Items: items})
	}
}
