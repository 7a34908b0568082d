// Package transform implements the second pipeline stage: project raw APOD
// entries into the five-column staged CSV.
package transform

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"

	"github.com/apodworks/apod-pipeline/app/apod"
	"github.com/apodworks/apod-pipeline/app/pipeline"
)

// Transformer reads the raw JSON artifact and writes the staged CSV.
type Transformer struct {
	paths pipeline.Paths
}

func NewTransformer(paths pipeline.Paths) *Transformer {
	return &Transformer{paths: paths}
}

// Run projects every raw entry into a staged row, preserving input order.
// Duplicate dates pass through untouched; the load stage's upsert resolves
// them last-write-wins. Returns the number of rows staged.
func (t *Transformer) Run() (int, error) {
	data, err := os.ReadFile(t.paths.RawFile())
	if err != nil {
		if os.IsNotExist(err) {
			return 0, fmt.Errorf("%w: %s does not exist, run the fetch stage first", pipeline.ErrMissingInput, t.paths.RawFile())
		}
		return 0, fmt.Errorf("failed to read raw artifact: %w", err)
	}

	entries, err := apod.DecodeEntries(data)
	if err != nil {
		return 0, fmt.Errorf("failed to parse raw artifact: %w", err)
	}

	if err := pipeline.EnsureDir(t.paths.StagedFile()); err != nil {
		return 0, err
	}

	out, err := os.Create(t.paths.StagedFile())
	if err != nil {
		return 0, fmt.Errorf("failed to create staged artifact: %w", err)
	}
	defer out.Close()

	w := csv.NewWriter(out)
	if err := w.Write(apod.Columns); err != nil {
		return 0, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, entry := range entries {
		if err := w.Write(entry.Project().Row()); err != nil {
			return 0, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return 0, fmt.Errorf("failed to flush staged artifact: %w", err)
	}

	slog.Info("Transform completed",
		"records", len(entries),
		"file", t.paths.StagedFile())

	return len(entries), nil
}
