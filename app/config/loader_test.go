package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "pipeline.yml"))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Fetch.LookbackDays != 8 {
		t.Errorf("Expected lookback 8, got %d", cfg.Fetch.LookbackDays)
	}
	if cfg.Fetch.GetTimeout() != 15*time.Second {
		t.Errorf("Expected timeout 15s, got %v", cfg.Fetch.GetTimeout())
	}
	if cfg.Load.BatchSize != 20 {
		t.Errorf("Expected batch size 20, got %d", cfg.Load.BatchSize)
	}
	if cfg.Load.GetBatchPause() != 500*time.Millisecond {
		t.Errorf("Expected pause 500ms, got %v", cfg.Load.GetBatchPause())
	}
	if cfg.Load.Table != "nasa_apod" {
		t.Errorf("Expected table 'nasa_apod', got '%s'", cfg.Load.Table)
	}
}

func TestLoadValidFile(t *testing.T) {
	tempDir := t.TempDir()

	content := `
fetch:
  lookback_days: 3
  timeout: 5

load:
  batch_size: 10
  batch_pause: 250ms
  table: apod_test

data_dir: /tmp/apod-data
`
	path := filepath.Join(tempDir, "pipeline.yml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Fetch.LookbackDays != 3 {
		t.Errorf("Expected lookback 3, got %d", cfg.Fetch.LookbackDays)
	}
	if cfg.Load.BatchSize != 10 {
		t.Errorf("Expected batch size 10, got %d", cfg.Load.BatchSize)
	}
	if cfg.Load.GetBatchPause() != 250*time.Millisecond {
		t.Errorf("Expected pause 250ms, got %v", cfg.Load.GetBatchPause())
	}
	if cfg.Load.Table != "apod_test" {
		t.Errorf("Expected table 'apod_test', got '%s'", cfg.Load.Table)
	}
	if cfg.DataDir != "/tmp/apod-data" {
		t.Errorf("Expected data dir '/tmp/apod-data', got '%s'", cfg.DataDir)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.yml")
	if err := os.WriteFile(path, []byte("load: [not a mapping"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Expected error for malformed yaml")
	}
}

func TestLoadRejectsNegativeLookback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.yml")
	if err := os.WriteFile(path, []byte("fetch:\n  lookback_days: -1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Expected error for negative lookback_days")
	}
}

func TestGetBatchPauseMalformedFallsBack(t *testing.T) {
	s := LoadSettings{BatchPause: "half a second"}
	if s.GetBatchPause() != 500*time.Millisecond {
		t.Errorf("Expected fallback 500ms, got %v", s.GetBatchPause())
	}
}
