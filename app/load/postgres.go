package load

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/apodworks/apod-pipeline/app/apod"
	"github.com/apodworks/apod-pipeline/app/pipeline"
)

// PostgresStore upserts batches over a direct connection with parameterized
// values, giving identical upsert semantics to the RPC path without any
// string interpolation.
type PostgresStore struct {
	pool  *pgxpool.Pool
	table string
}

func NewPostgresStore(ctx context.Context, databaseURL, table string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &PostgresStore{pool: pool, table: table}, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) UpsertBatch(ctx context.Context, rows []apod.Record) error {
	query, args := s.upsertQuery(rows)

	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: batch upsert failed: %v", pipeline.ErrLoad, err)
	}

	return nil
}

// upsertQuery builds one multi-row insert-or-update statement with bound
// placeholders, five per row.
func (s *PostgresStore) upsertQuery(rows []apod.Record) (string, []any) {
	placeholders := make([]string, 0, len(rows))
	args := make([]any, 0, len(rows)*5)

	for i, r := range rows {
		n := i * 5
		placeholders = append(placeholders, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d)",
			n+1, n+2, n+3, n+4, n+5))
		args = append(args, r.Date, r.Title, r.Explanation, r.MediaType, r.ImageURL)
	}

	query := fmt.Sprintf(`INSERT INTO %s (date, title, explanation, media_type, image_url)
VALUES %s
ON CONFLICT (date) DO UPDATE SET
    title = EXCLUDED.title,
    explanation = EXCLUDED.explanation,
    media_type = EXCLUDED.media_type,
    image_url = EXCLUDED.image_url`, s.table, strings.Join(placeholders, ", "))

	return query, args
}
