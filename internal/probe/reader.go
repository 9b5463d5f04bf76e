package probe

import (
	"bufio"
	"io"
	"log"
	"strconv"

	"CountSpectra/internal/model"
)

// BatchFunc consumes one completed batch.
type BatchFunc func(batch *model.Batch)

// Reader slices a stream of whitespace-separated integer tokens into
// discrete batches of a fixed size. Malformed tokens are the probe's
// concern: they are logged and skipped here so the engine only ever sees
// well-formed integers.
type Reader struct {
	batchSize int
	seq       uint64
}

// NewReader creates a reader emitting batches of batchSize items.
func NewReader(batchSize int) *Reader {
	if batchSize <= 0 {
		batchSize = 1000
	}
	return &Reader{batchSize: batchSize}
}

// ReadBatches scans src until EOF, emitting a batch every batchSize parsed
// items plus one final partial batch. It returns the scanner's error, if
// any; plain EOF returns nil.
func (r *Reader) ReadBatches(src io.Reader, emit BatchFunc) error {
	scanner := bufio.NewScanner(src)
	scanner.Split(bufio.ScanWords)

	items := make([]int64, 0, r.batchSize)
	skipped := 0

	for scanner.Scan() {
		item, err := strconv.ParseInt(scanner.Text(), 10, 64)
		if err != nil {
			skipped++
			if skipped%1000 == 1 {
				log.Printf("Skipping malformed token %q (%d skipped so far)", scanner.Text(), skipped)
			}
			continue
		}
		items = append(items, item)

		if len(items) == r.batchSize {
			r.emitBatch(items, emit)
			items = make([]int64, 0, r.batchSize)
		}
	}
	if len(items) > 0 {
		r.emitBatch(items, emit)
	}

	if skipped > 0 {
		log.Printf("Finished reading: %d malformed tokens skipped in total.", skipped)
	}
	return scanner.Err()
}

func (r *Reader) emitBatch(items []int64, emit BatchFunc) {
	r.seq++
	emit(&model.Batch{Seq: r.seq, Items: items})
}
