package model

// Batch is a finite slice of the input stream: the integer items decoded
// from one window of raw tokens. Seq is assigned by the probe in publish
// order; the engine treats it as informational only.
type Batch struct {
	Seq   uint64  `json:"seq"`
	Items []int64 `json:"items"`
}

// ReportEntry is one row of the top-K section of a report: an item together
// with its exact and its sketch-estimated frequency.
type ReportEntry struct {
	Item     int64   `json:"item"`
	TrueFreq int64   `json:"true_freq"`
	EstFreq  float64 `json:"est_freq"`
}

// Report is the final output of a run, produced once ingestion has stopped.
// Entries holds the tie-extended top-K set ordered by true frequency
// descending (item value ascending among equal true frequencies).
type Report struct {
	// Echoed configuration.
	D     int   `json:"d"`
	W     int   `json:"w"`
	Left  int64 `json:"left"`
	Right int64 `json:"right"`
	K     int   `json:"k"`

	TotalSeen     int64 `json:"total_seen"`
	TotalAdmitted int64 `json:"total_admitted"`
	DistinctItems int   `json:"distinct_items"`

	Entries []ReportEntry `json:"entries"`

	// AvgRelErr is the mean of |true-est|/true over Entries; 0 when
	// Entries is empty.
	AvgRelErr float64 `json:"avg_rel_err"`

	// Second moments over all distinct items, normalized by
	// TotalAdmitted^2; 0 when TotalAdmitted is 0.
	F2True   float64 `json:"f2_true"`
	F2Approx float64 `json:"f2_approx"`
}
