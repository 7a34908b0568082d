// Package load implements the third pipeline stage: read the staged CSV,
// batch the rows and upsert them into the nasa_apod table.
package load

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/time/rate"

	"github.com/apodworks/apod-pipeline/app/apod"
	"github.com/apodworks/apod-pipeline/app/pipeline"
)

// Store performs one bulk upsert per batch, keyed on date. Implementations
// must insert new rows and overwrite title, explanation, media_type and
// image_url on conflict.
type Store interface {
	UpsertBatch(ctx context.Context, rows []apod.Record) error
}

// Loader drives the load stage. Batches are processed strictly in order;
// batch N+1 does not start before batch N's upsert has returned. A failed
// batch stops the run immediately and earlier batches stay committed.
type Loader struct {
	store     Store
	paths     pipeline.Paths
	batchSize int
	limiter   *rate.Limiter
}

// NewLoader creates a loader with the given batch size and inter-batch
// pause. The pause is enforced with a token bucket, which is observably a
// fixed pacing delay since batches are sequential.
func NewLoader(store Store, paths pipeline.Paths, batchSize int, pause time.Duration) *Loader {
	return &Loader{
		store:     store,
		paths:     paths,
		batchSize: batchSize,
		limiter:   rate.NewLimiter(rate.Every(pause), 1),
	}
}

// Run reads the staged artifact and upserts its rows batch by batch.
// Returns the number of rows loaded and the number of batches issued.
func (l *Loader) Run(ctx context.Context) (int, int, error) {
	rows, err := l.readStaged()
	if err != nil {
		return 0, 0, err
	}

	batches := chunk(rows, l.batchSize)

	loaded := 0
	for i, batch := range batches {
		if err := l.limiter.Wait(ctx); err != nil {
			return loaded, i, err
		}

		if err := l.store.UpsertBatch(ctx, batch); err != nil {
			return loaded, i, err
		}

		loaded += len(batch)
		slog.Info("Batch loaded",
			"batch", i+1,
			"from", i*l.batchSize+1,
			"to", loaded)
	}

	slog.Info("Load completed", "records", loaded, "batches", len(batches))

	return loaded, len(batches), nil
}

// readStaged parses the staged CSV into records, canonicalizing the date
// column to a timestamp string.
func (l *Loader) readStaged() ([]apod.Record, error) {
	f, err := os.Open(l.paths.StagedFile())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s does not exist, run the transform stage first", pipeline.ErrMissingInput, l.paths.StagedFile())
		}
		return nil, fmt.Errorf("failed to open staged artifact: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	all, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse staged artifact: %w", err)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("staged artifact is empty, expected a header row")
	}

	rows := make([]apod.Record, 0, len(all)-1)
	for _, rec := range all[1:] { // skip header
		if len(rec) < 5 {
			return nil, fmt.Errorf("staged row has %d columns, expected 5", len(rec))
		}

		date, err := canonicalDate(rec[0])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", pipeline.ErrLoad, err)
		}

		rows = append(rows, apod.Record{
			Date:        date,
			Title:       rec[1],
			Explanation: rec[2],
			MediaType:   rec[3],
			ImageURL:    rec[4],
		})
	}

	return rows, nil
}

// dateFormats are the representations accepted in the staged date column.
// Bare ISO dates come from the API; the timestamp form makes re-loading an
// already-canonical file idempotent.
var dateFormats = []string{"2006-01-02", "2006-01-02 15:04:05", time.RFC3339}

// canonicalDate normalizes a staged date string to "2006-01-02 15:04:05".
// A row without a parseable date cannot be upserted: date is the unique key.
func canonicalDate(s string) (string, error) {
	if s == "" {
		return "", fmt.Errorf("staged row is missing the date key")
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02 15:04:05"), nil
		}
	}
	return "", fmt.Errorf("unrecognized date value %q", s)
}

// chunk splits rows into fixed-size batches; the last batch may be smaller.
func chunk(rows []apod.Record, size int) [][]apod.Record {
	if len(rows) == 0 || size <= 0 {
		return nil
	}

	batches := make([][]apod.Record, 0, (len(rows)+size-1)/size)
	for start := 0; start < len(rows); start += size {
		end := min(start+size, len(rows))
		batches = append(batches, rows[start:end])
	}
	return batches
}
