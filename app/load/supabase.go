package load

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/apodworks/apod-pipeline/app/apod"
	"github.com/apodworks/apod-pipeline/app/pipeline"
)

// SupabaseStore upserts batches through the Supabase execute_sql RPC, which
// accepts raw statement text. Values are interpolated with single-quote
// doubling because the RPC offers no parameter binding; prefer PostgresStore
// when a direct connection is available.
type SupabaseStore struct {
	baseURL    string
	serviceKey string
	table      string
	httpClient *http.Client
}

func NewSupabaseStore(baseURL, serviceKey, table string) *SupabaseStore {
	return &SupabaseStore{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		serviceKey: serviceKey,
		table:      table,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (s *SupabaseStore) UpsertBatch(ctx context.Context, rows []apod.Record) error {
	payload, err := json.Marshal(map[string]string{"query": s.upsertSQL(rows)})
	if err != nil {
		return fmt.Errorf("failed to encode RPC payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+"/rest/v1/rpc/execute_sql", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create RPC request: %w", err)
	}

	req.Header.Set("apikey", s.serviceKey)
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: execute_sql request failed: %v", pipeline.ErrLoad, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: execute_sql failed: %d %s", pipeline.ErrLoad, resp.StatusCode, string(body))
	}

	return nil
}

// upsertSQL builds one bulk insert-or-update statement for the batch.
func (s *SupabaseStore) upsertSQL(rows []apod.Record) string {
	values := make([]string, 0, len(rows))
	for _, r := range rows {
		values = append(values, fmt.Sprintf("('%s', '%s', '%s', '%s', '%s')",
			escapeSQL(r.Date), escapeSQL(r.Title), escapeSQL(r.Explanation),
			escapeSQL(r.MediaType), escapeSQL(r.ImageURL)))
	}

	return fmt.Sprintf(`INSERT INTO %s (date, title, explanation, media_type, image_url)
VALUES %s
ON CONFLICT (date) DO UPDATE SET
    title = EXCLUDED.title,
    explanation = EXCLUDED.explanation,
    media_type = EXCLUDED.media_type,
    image_url = EXCLUDED.image_url;`, s.table, strings.Join(values, ", "))
}

// escapeSQL doubles single quotes per the target's quoting rules.
func escapeSQL(v string) string {
	return strings.ReplaceAll(v, "'", "''")
}
