package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads the pipeline tuning file at path. A missing file is not an
// error: the returned config carries pure defaults so every binary runs
// without any yaml present.
func Load(path string) (*Pipeline, error) {
	cfg := &Pipeline{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			setDefaults(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read pipeline config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse pipeline config %s: %w", path, err)
	}

	setDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid pipeline config %s: %w", path, err)
	}

	return cfg, nil
}

func setDefaults(cfg *Pipeline) {
	if cfg.Fetch.LookbackDays == 0 {
		cfg.Fetch.LookbackDays = 8
	}
	if cfg.Fetch.Timeout == 0 {
		cfg.Fetch.Timeout = 15 // seconds
	}
	if cfg.Load.BatchSize == 0 {
		cfg.Load.BatchSize = 20
	}
	if cfg.Load.BatchPause == "" {
		cfg.Load.BatchPause = "500ms"
	}
	if cfg.Load.Table == "" {
		cfg.Load.Table = "nasa_apod"
	}
}

func validate(cfg *Pipeline) error {
	if cfg.Fetch.LookbackDays < 0 {
		return fmt.Errorf("lookback_days must not be negative")
	}
	if cfg.Load.BatchSize < 1 {
		return fmt.Errorf("batch_size must be at least 1")
	}
	return nil
}
