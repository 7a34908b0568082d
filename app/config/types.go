package config

import "time"

// Pipeline holds tuning knobs for the three stages. All fields have working
// defaults; the yaml file is optional.
type Pipeline struct {
	Fetch FetchSettings `yaml:"fetch"`
	Load  LoadSettings  `yaml:"load"`

	// DataDir overrides the artifact directory when set.
	DataDir string `yaml:"data_dir"`
}

// FetchSettings controls the fetch window.
type FetchSettings struct {
	// LookbackDays is the inclusive number of days to fetch before today.
	// The default of 8 covers publishing lag around midnight ET.
	LookbackDays int `yaml:"lookback_days"`
	// Timeout is the HTTP request budget in seconds.
	Timeout int `yaml:"timeout"`
}

// LoadSettings controls batching and pacing of the load stage.
type LoadSettings struct {
	BatchSize  int    `yaml:"batch_size"`
	BatchPause string `yaml:"batch_pause"` // Go duration string, e.g. "500ms"
	Table      string `yaml:"table"`
}

// GetBatchPause parses the pause as a duration, falling back to the default
// when unset or malformed.
func (s LoadSettings) GetBatchPause() time.Duration {
	d, err := time.ParseDuration(s.BatchPause)
	if err != nil || d < 0 {
		return 500 * time.Millisecond
	}
	return d
}

// GetTimeout returns the fetch timeout as a duration.
func (s FetchSettings) GetTimeout() time.Duration {
	return time.Duration(s.Timeout) * time.Second
}
