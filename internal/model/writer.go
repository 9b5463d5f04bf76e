package model

// ReportWriter defines a generic interface for persisting a finished report.
// Implementations are registered with the factory package and selected by
// the writers section of the config file.
type ReportWriter interface {
	// Write persists the report. The timestamp is the engine's stop time,
	// formatted for use in file names and table rows.
	Write(report *Report, timestamp string) error
}
