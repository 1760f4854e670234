package config

import (
	"fmt"
	"os"

	"github.com/ostafen/seginfo/internal/sample"
	"github.com/ostafen/seginfo/internal/scan"
	"gopkg.in/yaml.v3"
)

// Config holds the settings of a scan that can be stored in a file.
type Config struct {
	Layout  Layout  `yaml:"layout"`
	Scan    Scan    `yaml:"scan"`
	Logging Logging `yaml:"logging"`
}

// Layout describes the geometry of the native trace dump.
type Layout struct {
	Format          string `yaml:"format"`
	SamplesPerTrace int    `yaml:"samples_per_trace"`
	SampleBytes     int    `yaml:"sample_bytes"`
	DataOffset      int64  `yaml:"data_offset"`
	TraceHeaderSize int    `yaml:"trace_header_size"`
	CountOffset     int    `yaml:"count_offset"`
}

type Scan struct {
	Mmap       bool `yaml:"mmap"`
	Decompress bool `yaml:"decompress"`
	Workers    int  `yaml:"workers"`
	Digest     bool `yaml:"digest"`
}

type Logging struct {
	Level    string `yaml:"level"`
	Dir      string `yaml:"dir"`
	Disabled bool   `yaml:"disabled"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Layout: Layout{
			DataOffset:      scan.DefaultLayout.DataOffset,
			TraceHeaderSize: scan.DefaultLayout.TraceHeaderSize,
			CountOffset:     scan.DefaultLayout.CountOffset,
		},
		Scan: Scan{
			Workers: 1,
		},
		Logging: Logging{
			Level: "INFO",
			Dir:   ".",
		},
	}
}

// Load reads a YAML configuration. Keys missing from the file keep their
// default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
	}
	return cfg, nil
}

// ScanLayout converts the stored layout, validating the sample format.
func (l Layout) ScanLayout() (scan.Layout, error) {
	if l.Format == "" {
		return scan.Layout{}, fmt.Errorf("sample format is required")
	}

	format, err := sample.ParseFormat(l.Format)
	if err != nil {
		return scan.Layout{}, err
	}

	if l.SamplesPerTrace <= 0 {
		return scan.Layout{}, fmt.Errorf("samples per trace must be positive, got %d", l.SamplesPerTrace)
	}

	return scan.Layout{
		Format:          format,
		SamplesPerTrace: l.SamplesPerTrace,
		SampleBytes:     l.SampleBytes,
		DataOffset:      l.DataOffset,
		TraceHeaderSize: l.TraceHeaderSize,
		CountOffset:     l.CountOffset,
	}, nil
}
