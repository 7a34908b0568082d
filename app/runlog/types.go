package runlog

import "time"

// Stage names recorded in the run log.
const (
	StageFetch     = "fetch"
	StageTransform = "transform"
	StageLoad      = "load"
)

// Run is one stage invocation.
type Run struct {
	ID         string
	Stage      string
	Status     string // "running", "ok", "error"
	Records    int
	Batches    int
	Error      string
	StartedAt  time.Time
	FinishedAt *time.Time
}

// StageStats summarizes the run history for one stage.
type StageStats struct {
	Stage         string     `json:"stage"`
	TotalRuns     int        `json:"total_runs"`
	FailedRuns    int        `json:"failed_runs"`
	LastSuccessAt *time.Time `json:"last_success_at,omitempty"`
}
