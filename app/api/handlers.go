package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/apodworks/apod-pipeline/app/runlog"
)

const defaultRunLimit = 50

// Handler serves pipeline status from the run log.
type Handler struct {
	runs    *runlog.Recorder
	version string
}

func NewHandler(runs *runlog.Recorder, version string) *Handler {
	return &Handler{runs: runs, version: version}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   h.version,
	}

	if stats, err := h.runs.Stats(); err == nil {
		for _, s := range stats {
			if s.Stage == runlog.StageLoad && s.LastSuccessAt != nil {
				health["last_load_at"] = s.LastSuccessAt.Format(time.RFC3339)
			}
		}
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.runs.Stats()
	if err != nil {
		slog.Error("Run log error", "operation", "stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Run log unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"stages": stats})
}

func (h *Handler) ListRuns(c *gin.Context) {
	limit := defaultRunLimit
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	runs, err := h.runs.ListRuns(limit)
	if err != nil {
		slog.Error("Run log error", "operation", "list_runs", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Run log unavailable"})
		return
	}

	out := make([]runInfo, 0, len(runs))
	for _, r := range runs {
		info := runInfo{
			ID:        r.ID,
			Stage:     r.Stage,
			Status:    r.Status,
			Records:   r.Records,
			Batches:   r.Batches,
			Error:     r.Error,
			StartedAt: r.StartedAt.Format(time.RFC3339),
		}
		if r.FinishedAt != nil {
			info.FinishedAt = r.FinishedAt.Format(time.RFC3339)
		}
		out = append(out, info)
	}

	c.JSON(http.StatusOK, gin.H{"runs": out, "count": len(out)})
}
