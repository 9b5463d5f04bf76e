package report

import (
	"log"
	"math"
	"slices"

	"CountSpectra/internal/config"
	"CountSpectra/internal/model"
)

// Estimator is the query side of the sketch. The reporter only ever reads
// point estimates, so tests can substitute a fixed table for a real sketch.
type Estimator interface {
	Estimate(item int64) float64
}

// Params bundles the frozen inputs of the statistics stage.
type Params struct {
	Histogram map[int64]int64
	Estimator Estimator
	K         int
	TieBreak  string // config.TieBreakEstimated or config.TieBreakTrue

	TotalSeen     int64
	TotalAdmitted int64

	// Echoed into the report.
	D           int
	W           int
	Left, Right int64
}

type rankedItem struct {
	item     int64
	trueFreq int64
	estFreq  float64
}

// Build computes the final report from a frozen summary: the tie-extended
// top-K set ranked by true frequency, the average relative error over that
// set, and the true and approximate F2 moments over every distinct item.
// It performs no mutation, so concurrent calls on the same inputs are safe.
func Build(p Params) *model.Report {
	if p.K < 0 {
		log.Panicf("report: negative K %d reached the reporter", p.K)
	}
	if p.TieBreak != config.TieBreakEstimated && p.TieBreak != config.TieBreakTrue {
		log.Panicf("report: unknown tie break policy %q", p.TieBreak)
	}

	// Estimate every distinct item exactly once; ranking, tie extension
	// and F2 all read from this table.
	ranked := make([]rankedItem, 0, len(p.Histogram))
	for item, trueFreq := range p.Histogram {
		ranked = append(ranked, rankedItem{
			item:     item,
			trueFreq: trueFreq,
			estFreq:  p.Estimator.Estimate(item),
		})
	}

	// True frequency descending; equal frequencies ordered by item value
	// ascending so the ranking is stable across runs.
	slices.SortFunc(ranked, func(a, b rankedItem) int {
		if a.trueFreq != b.trueFreq {
			if a.trueFreq > b.trueFreq {
				return -1
			}
			return 1
		}
		if a.item < b.item {
			return -1
		}
		if a.item > b.item {
			return 1
		}
		return 0
	})

	// K may exceed the number of distinct items; the reported set is
	// clamped to what exists.
	limit := min(p.K, len(ranked))
	reported := ranked[:limit]

	// Tie extension: keep taking items past K while they match the K-th
	// item's estimated frequency (or true frequency, if configured so).
	// Comparing estimates while ranking by true frequency is intentional.
	if limit > 0 {
		boundary := ranked[limit-1]
		for _, r := range ranked[limit:] {
			if !tied(r, boundary, p.TieBreak) {
				break
			}
			reported = append(reported, r)
		}
	}

	entries := make([]model.ReportEntry, len(reported))
	errSum := 0.0
	for i, r := range reported {
		entries[i] = model.ReportEntry{Item: r.item, TrueFreq: r.trueFreq, EstFreq: r.estFreq}
		// trueFreq >= 1 for every histogram entry, so no zero division.
		errSum += math.Abs(float64(r.trueFreq)-r.estFreq) / float64(r.trueFreq)
	}
	avgRelErr := 0.0
	if len(reported) > 0 {
		avgRelErr = errSum / float64(len(reported))
	}

	// F2 walks every distinct item's own (true, estimate) pair.
	f2True, f2Approx := 0.0, 0.0
	if p.TotalAdmitted > 0 {
		norm := float64(p.TotalAdmitted) * float64(p.TotalAdmitted)
		for _, r := range ranked {
			f2True += float64(r.trueFreq) * float64(r.trueFreq) / norm
			f2Approx += r.estFreq * r.estFreq / norm
		}
	}

	return &model.Report{
		D:             p.D,
		W:             p.W,
		Left:          p.Left,
		Right:         p.Right,
		K:             p.K,
		TotalSeen:     p.TotalSeen,
		TotalAdmitted: p.TotalAdmitted,
		DistinctItems: len(ranked),
		Entries:       entries,
		AvgRelErr:     avgRelErr,
		F2True:        f2True,
		F2Approx:      f2Approx,
	}
}

// tied reports whether r shares the boundary item's frequency under the
// configured policy. Estimates are compared exactly: identical items hash
// through identical parameters, so equal estimates are bit-equal.
func tied(r, boundary rankedItem, policy string) bool {
	if policy == config.TieBreakTrue {
		return r.trueFreq == boundary.trueFreq
	}
	return r.estFreq == boundary.estFreq
}
