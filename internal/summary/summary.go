package summary

import (
	"log"

	"CountSpectra/internal/sketch"
)

// Summary owns all mutable state of one ingestion run: the Count Sketch,
// the exact histogram kept as evaluation ground truth, and the running
// stream counters. A single goroutine must drive ProcessBatch; there is
// no internal locking because sketch updates are read-modify-write and
// the ingestion model is strictly sequential.
type Summary struct {
	left, right int64

	matrix    *sketch.Matrix
	histogram map[int64]int64

	totalSeen     int64
	totalAdmitted int64

	frozen bool
}

// New creates an empty summary admitting items in [left, right]. The hash
// family (and with it D, W and the seed) is fixed here for the whole run.
func New(family *sketch.HashFamily, left, right int64) *Summary {
	if left > right {
		log.Panicf("summary: invalid admissible interval [%d,%d]", left, right)
	}
	return &Summary{
		left:      left,
		right:     right,
		matrix:    sketch.NewMatrix(family),
		histogram: make(map[int64]int64),
	}
}

// ProcessBatch ingests one batch: totalSeen grows by the raw batch size,
// items outside [left, right] are discarded, totalAdmitted grows by the
// filtered size, and each distinct admitted item bumps the histogram and
// the sketch by its multiplicity in the batch. Batches arriving after
// Freeze are ignored entirely.
func (s *Summary) ProcessBatch(items []int64) {
	if s.frozen {
		return
	}
	s.totalSeen += int64(len(items))

	counts := make(map[int64]int64)
	for _, item := range items {
		if item < s.left || item > s.right {
			continue
		}
		s.totalAdmitted++
		counts[item]++
	}

	for item, m := range counts {
		s.histogram[item] += m
		s.matrix.Update(item, m)
	}
}

// Counts reports (totalSeen, totalAdmitted). The stopping policy reads
// these between batches; the summary itself never decides to stop.
func (s *Summary) Counts() (seen, admitted int64) {
	return s.totalSeen, s.totalAdmitted
}

// Freeze marks the end of ingestion. Afterwards the summary is logically
// immutable: ProcessBatch becomes a no-op and Snapshot becomes legal.
func (s *Summary) Freeze() {
	s.frozen = true
}

// Frozen reports whether ingestion has ended.
func (s *Summary) Frozen() bool {
	return s.frozen
}

// Snapshot returns the histogram, the sketch and totalAdmitted for the
// reporting stage. Calling it while ingestion may still mutate state is a
// contract violation, hence the panic on a non-frozen summary. The
// returned structures are shared, not copied; callers must treat them as
// read-only.
func (s *Summary) Snapshot() (map[int64]int64, *sketch.Matrix, int64) {
	if !s.frozen {
		log.Panicf("summary: snapshot of a summary still being ingested")
	}
	return s.histogram, s.matrix, s.totalAdmitted
}
