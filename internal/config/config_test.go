package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
sketch:
  d: 8
  w: 4096
  seed: 12345
filter:
  left: 1
  right: 1000
report:
  k: 20
stop:
  threshold: 10000000
probe:
  source: tcp
  addr: "localhost:8888"
  batch_size: 5000
nats:
  url: "nats://localhost:4222"
  subject: "countspectra.batches"
writers:
  - type: text
    enabled: true
    text:
      root_path: "data/reports"
api:
  listen_addr: ":8080"
`

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeTempConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Sketch.D)
	assert.Equal(t, 4096, cfg.Sketch.W)
	assert.Equal(t, uint64(12345), cfg.Sketch.Seed)
	assert.Equal(t, int64(1), cfg.Filter.Left)
	assert.Equal(t, int64(1000), cfg.Filter.Right)
	assert.Equal(t, 20, cfg.Report.K)
	assert.Equal(t, int64(10000000), cfg.Stop.Threshold)
	assert.Equal(t, "nats://localhost:4222", cfg.NATS.URL)
	require.Len(t, cfg.Writers, 1)
	assert.Equal(t, "text", cfg.Writers[0].Type)
	assert.True(t, cfg.Writers[0].Enabled)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeTempConfig(t, sampleConfig))
	require.NoError(t, err)

	// Unset optional fields pick up defaults, not zero values.
	assert.Equal(t, int64(8191), cfg.Sketch.Prime)
	assert.Equal(t, TieBreakEstimated, cfg.Report.TieBreak)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Sketch: SketchConfig{D: 4, W: 64, Prime: 8191},
			Filter: FilterConfig{Left: 0, Right: 10},
			Report: ReportConfig{K: 5, TieBreak: TieBreakEstimated},
			Stop:   StopConfig{Threshold: 1000},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"zero rows", func(c *Config) { c.Sketch.D = 0 }, "sketch.d"},
		{"negative rows", func(c *Config) { c.Sketch.D = -3 }, "sketch.d"},
		{"zero columns", func(c *Config) { c.Sketch.W = 0 }, "sketch.w"},
		{"bad prime", func(c *Config) { c.Sketch.Prime = 1 }, "sketch.prime"},
		{"empty interval", func(c *Config) { c.Filter.Left = 11 }, "filter interval"},
		{"negative k", func(c *Config) { c.Report.K = -1 }, "report.k"},
		{"bad tie break", func(c *Config) { c.Report.TieBreak = "closest" }, "tie_break"},
		{"zero threshold", func(c *Config) { c.Stop.Threshold = 0 }, "stop.threshold"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
