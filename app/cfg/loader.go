package cfg

import (
	"cmp"
	"fmt"

	"github.com/jessevdk/go-flags"

	"github.com/apodworks/apod-pipeline/app/pipeline"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// NASA APOD API. The lowercase env name matches the original deployment;
	// NASA_API_KEY is the documented fallback.
	APIKey     string `long:"api-key" env:"api_key" description:"NASA APOD API key"`
	NASAAPIKey string `long:"nasa-api-key" env:"NASA_API_KEY" description:"NASA APOD API key (fallback name)"`

	// Target store
	SupabaseURL string `long:"supabase-url" env:"supabase_url" description:"Supabase project URL"`
	SupabaseKey string `long:"supabase-key" env:"supabase_key" description:"Supabase service key"`
	DatabaseURL string `long:"database-url" env:"DATABASE_URL" description:"Postgres connection URL (preferred over the Supabase RPC when set)"`

	// Pipeline layout
	DataDir    string `long:"data-dir" env:"DATA_DIR" default:"./data" description:"Directory holding raw and staged artifacts"`
	ConfigFile string `long:"config" env:"PIPELINE_CONFIG" default:"./pipeline.yml" description:"Pipeline tuning file (optional)"`

	// Status server
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP status server port"`
	APIAccessKey string `long:"access-key" env:"API_ACCESS_KEY" description:"Access key for the status API (optional)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"apod-pipeline/1.0" description:"User agent string for HTTP requests"`
}

// Load parses configuration from command-line flags and environment
// variables. Returns (nil, nil) when help was requested.
func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		APIKey:       cmp.Or(raw.APIKey, raw.NASAAPIKey),
		SupabaseURL:  raw.SupabaseURL,
		SupabaseKey:  raw.SupabaseKey,
		DatabaseURL:  raw.DatabaseURL,
		DataDir:      raw.DataDir,
		ConfigFile:   raw.ConfigFile,
		Port:         raw.Port,
		APIAccessKey: raw.APIAccessKey,
		UserAgent:    raw.UserAgent,
		Version:      GetVersion(),
	}

	return cfg, nil
}

// ValidateFetch checks the settings the fetch stage needs.
func (c *Cfg) ValidateFetch() error {
	if c.APIKey == "" {
		return fmt.Errorf("%w: NASA API key is missing, set env var 'api_key' or 'NASA_API_KEY'", pipeline.ErrConfiguration)
	}
	return nil
}

// ValidateLoad checks the settings the load stage needs. Either a direct
// Postgres URL or the Supabase URL/key pair must be present.
func (c *Cfg) ValidateLoad() error {
	if c.DatabaseURL != "" {
		return nil
	}
	if c.SupabaseURL == "" || c.SupabaseKey == "" {
		return fmt.Errorf("%w: store credentials missing, set 'DATABASE_URL' or both 'supabase_url' and 'supabase_key'", pipeline.ErrConfiguration)
	}
	return nil
}
