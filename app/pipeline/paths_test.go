package pipeline

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPathsLayout(t *testing.T) {
	p := NewPaths("/var/lib/apod")

	if p.RawFile() != filepath.Join("/var/lib/apod", "raw", "nasa_data.json") {
		t.Errorf("Unexpected raw path: %s", p.RawFile())
	}
	if p.StagedFile() != filepath.Join("/var/lib/apod", "staged", "nasa_data_staged.csv") {
		t.Errorf("Unexpected staged path: %s", p.StagedFile())
	}
	if p.RunLogFile() != filepath.Join("/var/lib/apod", "runlog.db") {
		t.Errorf("Unexpected run log path: %s", p.RunLogFile())
	}
}

func TestEnsureDir(t *testing.T) {
	p := NewPaths(filepath.Join(t.TempDir(), "data"))

	if err := EnsureDir(p.RawFile()); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(filepath.Dir(p.RawFile()))
	if err != nil {
		t.Fatal(err)
	}
	if !info.IsDir() {
		t.Error("Expected raw directory to be created")
	}

	// Creating again is a no-op
	if err := EnsureDir(p.RawFile()); err != nil {
		t.Errorf("EnsureDir should be idempotent: %v", err)
	}
}
