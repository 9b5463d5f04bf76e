package report

import (
	"context"
	"fmt"
	"log"
	"time"

	"CountSpectra/internal/config"
	"CountSpectra/internal/model"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

const createReportsTableStatement = `
CREATE TABLE IF NOT EXISTS sketch_reports (
    Timestamp      DateTime,
    D              UInt32,
    W              UInt32,
    LeftBound      Int64,
    RightBound     Int64,
    K              UInt32,
    TotalSeen      UInt64,
    TotalAdmitted  UInt64,
    DistinctItems  UInt64,
    AvgRelErr      Float64,
    F2True         Float64,
    F2Approx       Float64
) ENGINE = MergeTree()
PARTITION BY toYYYYMM(Timestamp)
ORDER BY Timestamp;
`

const createReportItemsTableStatement = `
CREATE TABLE IF NOT EXISTS sketch_report_items (
    Timestamp DateTime,
    Rank      UInt32,
    Item      Int64,
    TrueFreq  Int64,
    EstFreq   Float64
) ENGINE = MergeTree()
PARTITION BY toYYYYMM(Timestamp)
ORDER BY (Timestamp, Rank);
`

// ClickHouseWriter implements the model.ReportWriter interface for ClickHouse.
type ClickHouseWriter struct {
	conn driver.Conn
}

// NewClickHouseWriter connects to ClickHouse and ensures the report tables
// exist.
func NewClickHouseWriter(cfg config.ClickHouseConfig) (model.ReportWriter, error) {
	conn, err := Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to clickhouse: %w", err)
	}

	for _, stmt := range []string{createReportsTableStatement, createReportItemsTableStatement} {
		if err := conn.Exec(context.Background(), stmt); err != nil {
			return nil, fmt.Errorf("failed to create report table: %w", err)
		}
	}
	log.Println("Successfully connected to ClickHouse and ensured report tables exist.")

	return &ClickHouseWriter{conn: conn}, nil
}

// Connect opens a ClickHouse connection and verifies it with a ping. The
// query API reuses it for its read-only connection.
func Connect(cfg config.ClickHouseConfig) (driver.Conn, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
	})
	if err != nil {
		return nil, err
	}

	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping clickhouse: %w", err)
	}

	return conn, nil
}

func (w *ClickHouseWriter) Write(report *model.Report, timestamp string) error {
	reportTime, err := time.Parse("2006-01-02_15-04-05", timestamp)
	if err != nil {
		return fmt.Errorf("invalid report timestamp '%s': %w", timestamp, err)
	}

	batch, err := w.conn.PrepareBatch(context.Background(), "INSERT INTO sketch_reports")
	if err != nil {
		return fmt.Errorf("failed to prepare report batch: %w", err)
	}
	err = batch.Append(
		reportTime,
		uint32(report.D),
		uint32(report.W),
		report.Left,
		report.Right,
		uint32(report.K),
		uint64(report.TotalSeen),
		uint64(report.TotalAdmitted),
		uint64(report.DistinctItems),
		report.AvgRelErr,
		report.F2True,
		report.F2Approx,
	)
	if err != nil {
		return fmt.Errorf("failed to append report row: %w", err)
	}
	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send report batch: %w", err)
	}

	itemBatch, err := w.conn.PrepareBatch(context.Background(), "INSERT INTO sketch_report_items")
	if err != nil {
		return fmt.Errorf("failed to prepare report items batch: %w", err)
	}
	for i, e := range report.Entries {
		if err := itemBatch.Append(reportTime, uint32(i+1), e.Item, e.TrueFreq, e.EstFreq); err != nil {
			return fmt.Errorf("failed to append report item to batch: %w", err)
		}
	}
	if err := itemBatch.Send(); err != nil {
		return fmt.Errorf("failed to send report items batch: %w", err)
	}

	log.Printf("Wrote report and %d top-K items to ClickHouse", len(report.Entries))
	return nil
}
