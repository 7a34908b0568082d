package load

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/apodworks/apod-pipeline/app/apod"
	"github.com/apodworks/apod-pipeline/app/pipeline"
)

func TestUpsertSQL(t *testing.T) {
	store := NewSupabaseStore("https://x.supabase.co", "key", "nasa_apod")

	sql := store.upsertSQL([]apod.Record{
		{
			Date:        "2026-08-20 00:00:00",
			Title:       "O'Neill's Nebula",
			Explanation: "It's bright.",
			MediaType:   "image",
			ImageURL:    "https://x/n.jpg",
		},
		{
			Date:        "2026-08-21 00:00:00",
			Title:       "Plain",
			Explanation: "e",
			MediaType:   "video",
			ImageURL:    "",
		},
	})

	if !strings.Contains(sql, "INSERT INTO nasa_apod (date, title, explanation, media_type, image_url)") {
		t.Errorf("Missing insert clause: %s", sql)
	}
	if !strings.Contains(sql, "ON CONFLICT (date) DO UPDATE SET") {
		t.Errorf("Missing conflict clause: %s", sql)
	}
	if !strings.Contains(sql, "O''Neill''s Nebula") {
		t.Errorf("Single quotes not doubled: %s", sql)
	}
	if !strings.Contains(sql, "It''s bright.") {
		t.Errorf("Explanation quotes not doubled: %s", sql)
	}
	if !strings.Contains(sql, "('2026-08-21 00:00:00', 'Plain', 'e', 'video', '')") {
		t.Errorf("Second value tuple malformed: %s", sql)
	}
	if strings.Count(sql, "(") < 3 {
		t.Errorf("Expected one tuple per row: %s", sql)
	}
}

func TestUpsertBatchRequest(t *testing.T) {
	var gotPath, gotAPIKey, gotAuth string
	var gotBody map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAPIKey = r.Header.Get("apikey")
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	store := NewSupabaseStore(server.URL, "service-key", "nasa_apod")

	err := store.UpsertBatch(context.Background(), []apod.Record{
		{Date: "2026-08-20 00:00:00", Title: "A", Explanation: "e", MediaType: "image"},
	})
	if err != nil {
		t.Fatal(err)
	}

	if gotPath != "/rest/v1/rpc/execute_sql" {
		t.Errorf("Unexpected RPC path: %s", gotPath)
	}
	if gotAPIKey != "service-key" {
		t.Errorf("Expected apikey header, got '%s'", gotAPIKey)
	}
	if gotAuth != "Bearer service-key" {
		t.Errorf("Expected bearer auth, got '%s'", gotAuth)
	}
	if !strings.Contains(gotBody["query"], "INSERT INTO nasa_apod") {
		t.Errorf("Query not carried in payload: %v", gotBody)
	}
}

func TestUpsertBatchRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "permission denied"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	store := NewSupabaseStore(server.URL, "bad-key", "nasa_apod")

	err := store.UpsertBatch(context.Background(), []apod.Record{
		{Date: "2026-08-20 00:00:00", Title: "A"},
	})
	if err == nil {
		t.Fatal("Expected error for rejected upsert")
	}
	if !errors.Is(err, pipeline.ErrLoad) {
		t.Errorf("Expected load error, got %v", err)
	}
	if !strings.Contains(err.Error(), "permission denied") {
		t.Errorf("Store response body should be surfaced: %v", err)
	}
}

func TestPostgresUpsertQuery(t *testing.T) {
	store := &PostgresStore{table: "nasa_apod"}

	query, args := store.upsertQuery([]apod.Record{
		{Date: "2026-08-20 00:00:00", Title: "A", Explanation: "ea", MediaType: "image", ImageURL: "u1"},
		{Date: "2026-08-21 00:00:00", Title: "B", Explanation: "eb", MediaType: "video", ImageURL: "u2"},
	})

	if !strings.Contains(query, "($1, $2, $3, $4, $5), ($6, $7, $8, $9, $10)") {
		t.Errorf("Unexpected placeholders: %s", query)
	}
	if !strings.Contains(query, "ON CONFLICT (date) DO UPDATE SET") {
		t.Errorf("Missing conflict clause: %s", query)
	}
	if len(args) != 10 {
		t.Fatalf("Expected 10 bound args, got %d", len(args))
	}
	if args[0] != "2026-08-20 00:00:00" || args[6] != "B" {
		t.Errorf("Args out of order: %v", args)
	}

	// Values are bound, never interpolated.
	if strings.Contains(query, "2026-08-20") {
		t.Errorf("Query text must not contain row values: %s", query)
	}
}
