package engine

import (
	"log"
	"sync"
	"time"

	"CountSpectra/internal/config"
	"CountSpectra/internal/factory"
	"CountSpectra/internal/model"
	"CountSpectra/internal/report"
	"CountSpectra/internal/sketch"
	"CountSpectra/internal/summary"
)

// Engine drives one ingestion run: batches flow from the input channel
// through a single ingest goroutine into the summary, until the stopping
// threshold is crossed or the input is closed. A single goroutine owns all
// summary mutation, so batches are processed strictly in order and a batch
// in flight always completes before the engine stops.
type Engine struct {
	cfg     *config.Config
	summary *summary.Summary
	writers []model.ReportWriter

	batchCh  chan *model.Batch
	done     chan struct{}
	doneOnce sync.Once
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New creates an engine from the config: hash family and sketch are drawn
// here, once, and live for the whole run.
func New(cfg *config.Config) *Engine {
	family := sketch.NewHashFamily(cfg.Sketch.D, cfg.Sketch.W, cfg.Sketch.Prime, cfg.Sketch.Seed)

	return &Engine{
		cfg:     cfg,
		summary: summary.New(family, cfg.Filter.Left, cfg.Filter.Right),
		writers: factory.CreateWriters(cfg),
		batchCh: make(chan *model.Batch, 1024),
		done:    make(chan struct{}),
	}
}

// Start launches the ingest goroutine.
func (e *Engine) Start() {
	e.wg.Add(1)
	go e.ingest()
	log.Printf("Engine started: D=%d W=%d filter=[%d,%d] threshold=%d",
		e.cfg.Sketch.D, e.cfg.Sketch.W, e.cfg.Filter.Left, e.cfg.Filter.Right, e.cfg.Stop.Threshold)
}

// Input returns the channel to which batches should be sent.
func (e *Engine) Input() chan<- *model.Batch {
	return e.batchCh
}

// Done is closed once the stopping threshold has been crossed and the
// crossing batch has been fully processed. Callers block on it as the
// run's cancellation signal.
func (e *Engine) Done() <-chan struct{} {
	return e.done
}

// ingest is the single mutation owner. Each batch fully updates histogram,
// sketch and counters before the next one is looked at; the threshold
// check happens only between batches, so the stop is always graceful.
func (e *Engine) ingest() {
	defer e.wg.Done()
	for batch := range e.batchCh {
		e.summary.ProcessBatch(batch.Items)

		if seen, _ := e.summary.Counts(); seen >= e.cfg.Stop.Threshold {
			e.freeze()
			// Keep draining so publishers never block; the frozen
			// summary ignores everything after the threshold batch.
		}
	}
	// Input closed externally (e.g. interrupt) before the threshold.
	e.freeze()
}

func (e *Engine) freeze() {
	e.doneOnce.Do(func() {
		e.summary.Freeze()
		seen, admitted := e.summary.Counts()
		log.Printf("Ingestion stopped: %d items seen, %d admitted.", seen, admitted)
		close(e.done)
	})
}

// Stop closes the input channel and waits for the ingest goroutine to
// finish its current batch and exit.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() {
		close(e.batchCh)
	})
	e.wg.Wait()
}

// Summary exposes the run's summary for the stopping policy and tests.
func (e *Engine) Summary() *summary.Summary {
	return e.summary
}

// Report builds the final statistics from the frozen summary. It must only
// be called after Done has fired and Stop has returned.
func (e *Engine) Report() *model.Report {
	histogram, matrix, totalAdmitted := e.summary.Snapshot()
	seen, _ := e.summary.Counts()

	return report.Build(report.Params{
		Histogram:     histogram,
		Estimator:     matrix,
		K:             e.cfg.Report.K,
		TieBreak:      e.cfg.Report.TieBreak,
		TotalSeen:     seen,
		TotalAdmitted: totalAdmitted,
		D:             e.cfg.Sketch.D,
		W:             e.cfg.Sketch.W,
		Left:          e.cfg.Filter.Left,
		Right:         e.cfg.Filter.Right,
	})
}

// Finalize builds the report, prints it and hands it to every configured
// writer. It returns the report for the caller's own use.
func (e *Engine) Finalize() *model.Report {
	rep := e.Report()
	log.Printf("Final report:\n%s", report.Format(rep))

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	for _, w := range e.writers {
		if err := w.Write(rep, timestamp); err != nil {
			log.Printf("Error writing report: %v", err)
		}
	}
	return rep
}
