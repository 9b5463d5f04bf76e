package report

import (
	"CountSpectra/internal/config"
	"CountSpectra/internal/factory"
	"CountSpectra/internal/model"
)

func init() {
	factory.RegisterWriter("text", func(def config.WriterDef) (model.ReportWriter, error) {
		return NewTextWriter(def.Text.RootPath), nil
	})
	factory.RegisterWriter("clickhouse", func(def config.WriterDef) (model.ReportWriter, error) {
		return NewClickHouseWriter(def.ClickHouse)
	})
}
