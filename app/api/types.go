package api

// runInfo is the JSON shape of one run in the /api/runs response.
type runInfo struct {
	ID         string `json:"id"`
	Stage      string `json:"stage"`
	Status     string `json:"status"`
	Records    int    `json:"records"`
	Batches    int    `json:"batches"`
	Error      string `json:"error,omitempty"`
	StartedAt  string `json:"started_at"`
	FinishedAt string `json:"finished_at,omitempty"`
}
