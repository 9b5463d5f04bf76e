package report

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"CountSpectra/internal/model"
)

// TextWriter handles writing a finished report to a text file under a
// timestamped directory.
type TextWriter struct {
	rootPath string
}

// NewTextWriter creates a new text writer rooted at rootPath.
func NewTextWriter(rootPath string) model.ReportWriter {
	return &TextWriter{rootPath: rootPath}
}

func (w *TextWriter) Write(report *model.Report, timestamp string) error {
	runDir := filepath.Join(w.rootPath, timestamp)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	filePath := filepath.Join(runDir, "report.txt")
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create report file '%s': %w", filePath, err)
	}
	defer file.Close()

	if _, err := file.WriteString(Format(report)); err != nil {
		return fmt.Errorf("failed to write report to file: %w", err)
	}

	log.Printf("Successfully wrote report with %d entries to %s\n", len(report.Entries), filePath)
	return nil
}
