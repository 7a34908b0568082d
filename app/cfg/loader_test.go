package cfg

import (
	"errors"
	"testing"

	"github.com/apodworks/apod-pipeline/app/pipeline"
)

func TestValidateFetch(t *testing.T) {
	c := &Cfg{}
	err := c.ValidateFetch()
	if err == nil {
		t.Fatal("Expected error when API key is missing")
	}
	if !errors.Is(err, pipeline.ErrConfiguration) {
		t.Errorf("Expected configuration error, got %v", err)
	}

	c.APIKey = "DEMO_KEY"
	if err := c.ValidateFetch(); err != nil {
		t.Errorf("Unexpected error with API key set: %v", err)
	}
}

func TestValidateLoad(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Cfg
		wantErr bool
	}{
		{"nothing set", Cfg{}, true},
		{"supabase url only", Cfg{SupabaseURL: "https://x.supabase.co"}, true},
		{"supabase key only", Cfg{SupabaseKey: "service-key"}, true},
		{"supabase pair", Cfg{SupabaseURL: "https://x.supabase.co", SupabaseKey: "service-key"}, false},
		{"database url only", Cfg{DatabaseURL: "postgres://localhost/apod"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.ValidateLoad()
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error")
				}
				if !errors.Is(err, pipeline.ErrConfiguration) {
					t.Errorf("Expected configuration error, got %v", err)
				}
			} else if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}
