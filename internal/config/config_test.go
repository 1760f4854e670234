package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ostafen/seginfo/internal/sample"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	require.Equal(t, int64(3600), cfg.Layout.DataOffset)
	require.Equal(t, 240, cfg.Layout.TraceHeaderSize)
	require.Equal(t, -1, cfg.Layout.CountOffset)
	require.Equal(t, 1, cfg.Scan.Workers)
	require.Equal(t, "INFO", cfg.Logging.Level)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seginfo.yaml")
	content := `
layout:
  format: int16
  samples_per_trace: 1500
  count_offset: 114
scan:
  mmap: true
  workers: 4
logging:
  level: DEBUG
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "int16", cfg.Layout.Format)
	require.Equal(t, 1500, cfg.Layout.SamplesPerTrace)
	require.Equal(t, 114, cfg.Layout.CountOffset)
	require.Equal(t, int64(3600), cfg.Layout.DataOffset)
	require.Equal(t, 240, cfg.Layout.TraceHeaderSize)
	require.True(t, cfg.Scan.Mmap)
	require.Equal(t, 4, cfg.Scan.Workers)
	require.Equal(t, "DEBUG", cfg.Logging.Level)
	require.Equal(t, ".", cfg.Logging.Dir)

	layout, err := cfg.Layout.ScanLayout()
	require.NoError(t, err)
	require.Equal(t, sample.Int16, layout.Format)
	require.Equal(t, 1500, layout.SamplesPerTrace)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("layout: [1, 2"), 0644))
	_, err = Load(bad)
	require.Error(t, err)
}

func TestScanLayoutValidation(t *testing.T) {
	_, err := Layout{SamplesPerTrace: 10}.ScanLayout()
	require.Error(t, err)

	_, err = Layout{Format: "int64", SamplesPerTrace: 10}.ScanLayout()
	require.ErrorIs(t, err, sample.ErrUnknownFormat)

	_, err = Layout{Format: "ieee"}.ScanLayout()
	require.Error(t, err)
}
