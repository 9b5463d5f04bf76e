package engine

import (
	"testing"
	"time"

	"CountSpectra/internal/config"
	"CountSpectra/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(threshold int64, k int) *config.Config {
	return &config.Config{
		Sketch: config.SketchConfig{D: 5, W: 512, Prime: 8191, Seed: 21},
		Filter: config.FilterConfig{Left: 0, Right: 1000},
		Report: config.ReportConfig{K: k, TieBreak: config.TieBreakEstimated},
		Stop:   config.StopConfig{Threshold: threshold},
	}
}

func waitDone(t *testing.T, e *Engine) {
	t.Helper()
	select {
	case <-e.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("engine did not signal done")
	}
}

func TestThresholdStopsAfterFullBatch(t *testing.T) {
	e := New(testConfig(10, 3))
	e.Start()

	input := e.Input()
	input <- &model.Batch{Seq: 1, Items: []int64{1, 1, 2, 3, 3, 3}}
	// This batch crosses the threshold mid-batch; it must still be
	// accounted in full.
	input <- &model.Batch{Seq: 2, Items: []int64{2, 2, 4, 4, 4, 4}}
	waitDone(t, e)

	// Anything after the crossing batch is ignored entirely.
	input <- &model.Batch{Seq: 3, Items: []int64{9, 9, 9}}
	e.Stop()

	seen, admitted := e.Summary().Counts()
	assert.Equal(t, int64(12), seen)
	assert.Equal(t, int64(12), admitted)
}

func TestStopBeforeThresholdStillReports(t *testing.T) {
	e := New(testConfig(1000000, 2))
	e.Start()

	e.Input() <- &model.Batch{Seq: 1, Items: []int64{5, 5, 7}}
	e.Stop()
	waitDone(t, e)

	rep := e.Report()
	assert.Equal(t, int64(3), rep.TotalSeen)
	assert.Equal(t, 2, rep.DistinctItems)
}

func TestEngineEndToEnd(t *testing.T) {
	cfg := testConfig(6, 1)
	cfg.Filter = config.FilterConfig{Left: 1, Right: 3}
	e := New(cfg)
	e.Start()

	// Admitted stream [1,2,2,3,3,3] plus two filtered items.
	e.Input() <- &model.Batch{Seq: 1, Items: []int64{1, 2, 2, 0}}
	e.Input() <- &model.Batch{Seq: 2, Items: []int64{3, 3, 3, 7}}
	waitDone(t, e)
	e.Stop()

	rep := e.Finalize()
	require.NotNil(t, rep)

	assert.Equal(t, int64(8), rep.TotalSeen)
	assert.Equal(t, int64(6), rep.TotalAdmitted)
	assert.Equal(t, 3, rep.DistinctItems)
	require.Len(t, rep.Entries, 1)
	assert.Equal(t, int64(3), rep.Entries[0].Item)
	assert.Equal(t, int64(3), rep.Entries[0].TrueFreq)
	assert.InDelta(t, 3.0, rep.Entries[0].EstFreq, 1e-9)
	assert.InDelta(t, 14.0/36.0, rep.F2True, 1e-12)
}

func TestBatchesProcessedInOrder(t *testing.T) {
	e := New(testConfig(100, 5))
	e.Start()

	for i := 0; i < 10; i++ {
		e.Input() <- &model.Batch{Seq: uint64(i + 1), Items: []int64{int64(i), int64(i)}}
	}
	e.Stop()
	waitDone(t, e)

	seen, admitted := e.Summary().Counts()
	assert.Equal(t, int64(20), seen)
	assert.Equal(t, int64(20), admitted)

	histogram, _, _ := e.Summary().Snapshot()
	assert.Len(t, histogram, 10)
	for i := int64(0); i < 10; i++ {
		assert.Equal(t, int64(2), histogram[i])
	}
}
