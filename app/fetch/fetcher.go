// Package fetch implements the first pipeline stage: pull APOD metadata for
// a lookback window and write it as the raw JSON artifact.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/apodworks/apod-pipeline/app/apod"
	"github.com/apodworks/apod-pipeline/app/pipeline"
)

// Fetcher runs the fetch stage against a single client and artifact layout.
type Fetcher struct {
	client   *apod.Client
	paths    pipeline.Paths
	lookback int
}

func NewFetcher(client *apod.Client, paths pipeline.Paths, lookbackDays int) *Fetcher {
	return &Fetcher{
		client:   client,
		paths:    paths,
		lookback: lookbackDays,
	}
}

// Run fetches entries for [today - lookback, today] and overwrites the raw
// artifact with the full collection. Returns the number of entries fetched.
func (f *Fetcher) Run(ctx context.Context) (int, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -f.lookback)

	entries, err := f.client.FetchRange(ctx, start, end)
	if err != nil {
		return 0, err
	}

	if err := pipeline.EnsureDir(f.paths.RawFile()); err != nil {
		return 0, err
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("failed to encode raw artifact: %w", err)
	}

	if err := os.WriteFile(f.paths.RawFile(), data, 0o644); err != nil {
		return 0, fmt.Errorf("failed to write raw artifact: %w", err)
	}

	slog.Info("Fetch completed",
		"records", len(entries),
		"start", start.Format("2006-01-02"),
		"end", end.Format("2006-01-02"),
		"file", f.paths.RawFile())

	return len(entries), nil
}
