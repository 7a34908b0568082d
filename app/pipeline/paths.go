package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	rawFileName    = "nasa_data.json"
	stagedFileName = "nasa_data_staged.csv"
)

// Paths describes the artifact layout under the pipeline data directory.
// Each stage reads the previous stage's artifact and owns its own output
// file exclusively, overwriting it wholesale on every run.
type Paths struct {
	DataDir string
}

func NewPaths(dataDir string) Paths {
	return Paths{DataDir: dataDir}
}

// RawFile is the fetch stage's output: a pretty-printed JSON array.
func (p Paths) RawFile() string {
	return filepath.Join(p.DataDir, "raw", rawFileName)
}

// StagedFile is the transform stage's output: a CSV with header row.
func (p Paths) StagedFile() string {
	return filepath.Join(p.DataDir, "staged", stagedFileName)
}

// RunLogFile is the sqlite run-history database shared by all stages.
func (p Paths) RunLogFile() string {
	return filepath.Join(p.DataDir, "runlog.db")
}

// EnsureDir creates the parent directory of the given artifact path.
func EnsureDir(artifactPath string) error {
	dir := filepath.Dir(artifactPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}
