package config

import (
	"fmt"
	"os"

	"CountSpectra/internal/sketch"

	"gopkg.in/yaml.v3"
)

// TieBreak selects which frequency the reporter compares when deciding
// whether to extend the top-K set past the K-th item.
const (
	TieBreakEstimated = "estimated"
	TieBreakTrue      = "true"
)

// SketchConfig holds the Count Sketch dimensions and hash parameters.
type SketchConfig struct {
	D     int    `yaml:"d"`
	W     int    `yaml:"w"`
	Prime int64  `yaml:"prime"` // 0 selects sketch.DefaultPrime
	Seed  uint64 `yaml:"seed"`  // 0 selects a nondeterministic seed
}

// FilterConfig is the inclusive admissible interval for stream items.
type FilterConfig struct {
	Left  int64 `yaml:"left"`
	Right int64 `yaml:"right"`
}

// ReportConfig controls the statistics stage.
type ReportConfig struct {
	K        int    `yaml:"k"`
	TieBreak string `yaml:"tie_break"` // "estimated" (default) or "true"
}

// StopConfig is the count-based stopping policy: ingestion ends after the
// batch that pushes totalSeen to at least Threshold completes.
type StopConfig struct {
	Threshold int64 `yaml:"threshold"`
}

// GenConfig parameterizes the built-in uniform item generator.
type GenConfig struct {
	Min int64 `yaml:"min"`
	Max int64 `yaml:"max"`
}

// ProbeConfig configures the ingestion probe.
type ProbeConfig struct {
	Source    string    `yaml:"source"` // "tcp", "file" or "gen"
	Addr      string    `yaml:"addr"`   // host:port for the tcp source
	Path      string    `yaml:"path"`   // file path for the file source
	BatchSize int       `yaml:"batch_size"`
	Gen       GenConfig `yaml:"gen"`
}

// NATSConfig holds the batch transport settings shared by probe and engine.
type NATSConfig struct {
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

// TextWriterConfig configures the plain-text report writer.
type TextWriterConfig struct {
	RootPath string `yaml:"root_path"`
}

// ClickHouseConfig holds the connection details for the ClickHouse writer
// and the query API.
type ClickHouseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// WriterDef defines a single report writer instance.
type WriterDef struct {
	Type       string           `yaml:"type"`
	Enabled    bool             `yaml:"enabled"`
	Text       TextWriterConfig `yaml:"text"`
	ClickHouse ClickHouseConfig `yaml:"clickhouse"`
}

// APIConfig configures the report query server.
type APIConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// Config is the top-level configuration struct for the entire application.
type Config struct {
	Sketch  SketchConfig `yaml:"sketch"`
	Filter  FilterConfig `yaml:"filter"`
	Report  ReportConfig `yaml:"report"`
	Stop    StopConfig   `yaml:"stop"`
	Probe   ProbeConfig  `yaml:"probe"`
	NATS    NATSConfig   `yaml:"nats"`
	Writers []WriterDef  `yaml:"writers"`
	API     APIConfig    `yaml:"api"`
}

// LoadConfig reads the configuration from a YAML file, applies defaults
// for the optional fields and validates the result.
func LoadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}

	if cfg.Sketch.Prime == 0 {
		cfg.Sketch.Prime = sketch.DefaultPrime
	}
	if cfg.Report.TieBreak == "" {
		cfg.Report.TieBreak = TieBreakEstimated
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate fails fast on any invalid setting. Nothing is ever silently
// clamped: a bad value aborts startup.
func (c *Config) Validate() error {
	if c.Sketch.D <= 0 {
		return fmt.Errorf("sketch.d must be positive, got %d", c.Sketch.D)
	}
	if c.Sketch.W <= 0 {
		return fmt.Errorf("sketch.w must be positive, got %d", c.Sketch.W)
	}
	if c.Sketch.Prime < 2 {
		return fmt.Errorf("sketch.prime must be at least 2, got %d", c.Sketch.Prime)
	}
	if c.Filter.Left > c.Filter.Right {
		return fmt.Errorf("filter interval [%d,%d] is empty", c.Filter.Left, c.Filter.Right)
	}
	if c.Report.K < 0 {
		return fmt.Errorf("report.k must be non-negative, got %d", c.Report.K)
	}
	if c.Report.TieBreak != TieBreakEstimated && c.Report.TieBreak != TieBreakTrue {
		return fmt.Errorf("report.tie_break must be %q or %q, got %q",
			TieBreakEstimated, TieBreakTrue, c.Report.TieBreak)
	}
	if c.Stop.Threshold <= 0 {
		return fmt.Errorf("stop.threshold must be positive, got %d", c.Stop.Threshold)
	}
	return nil
}
