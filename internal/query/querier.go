package query

import (
	"context"
	"fmt"
	"time"

	"CountSpectra/internal/config"
	"CountSpectra/internal/model"
	"CountSpectra/internal/report"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// StoredReport is a persisted report together with its run timestamp.
type StoredReport struct {
	Timestamp time.Time `json:"timestamp"`
	model.Report
}

// Querier defines the interface for reading persisted reports.
type Querier interface {
	// ListReports returns the most recent report headers, newest first,
	// without their top-K entries.
	ListReports(ctx context.Context, limit int) ([]StoredReport, error)
	// LatestReport returns the newest report including its top-K entries.
	LatestReport(ctx context.Context) (*StoredReport, error)
}

// clickhouseQuerier implements the Querier interface for ClickHouse.
type clickhouseQuerier struct {
	conn driver.Conn
}

// NewClickHouseQuerier creates a new querier for ClickHouse.
func NewClickHouseQuerier(cfg config.ClickHouseConfig) (Querier, error) {
	conn, err := report.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to clickhouse: %w", err)
	}
	return &clickhouseQuerier{conn: conn}, nil
}

const selectReportsQuery = `
SELECT Timestamp, D, W, LeftBound, RightBound, K,
       TotalSeen, TotalAdmitted, DistinctItems,
       AvgRelErr, F2True, F2Approx
FROM sketch_reports
ORDER BY Timestamp DESC
LIMIT ?
`

const selectReportItemsQuery = `
SELECT Item, TrueFreq, EstFreq
FROM sketch_report_items
WHERE Timestamp = ?
ORDER BY Rank
`

func (q *clickhouseQuerier) ListReports(ctx context.Context, limit int) ([]StoredReport, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := q.conn.Query(ctx, selectReportsQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	var reports []StoredReport
	for rows.Next() {
		var (
			r                        StoredReport
			d, w, k                  uint32
			seen, admitted, distinct uint64
		)
		err := rows.Scan(&r.Timestamp, &d, &w, &r.Left, &r.Right, &k,
			&seen, &admitted, &distinct,
			&r.AvgRelErr, &r.F2True, &r.F2Approx)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		r.D, r.W, r.K = int(d), int(w), int(k)
		r.TotalSeen = int64(seen)
		r.TotalAdmitted = int64(admitted)
		r.DistinctItems = int(distinct)
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

func (q *clickhouseQuerier) LatestReport(ctx context.Context) (*StoredReport, error) {
	reports, err := q.ListReports(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(reports) == 0 {
		return nil, fmt.Errorf("no reports stored")
	}
	latest := reports[0]

	rows, err := q.conn.Query(ctx, selectReportItemsQuery, latest.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("failed to query report items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e model.ReportEntry
		if err := rows.Scan(&e.Item, &e.TrueFreq, &e.EstFreq); err != nil {
			return nil, fmt.Errorf("failed to scan report item row: %w", err)
		}
		latest.Entries = append(latest.Entries, e)
	}
	return &latest, rows.Err()
}
