package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

func NewHandler(runners map[string]RunnerInterface, version string) *Handler {
	return &Handler{
		runners: runners,
		version: version,
	}
}

// TriggerRun kicks off the pipeline for a region. When the last completed
// run is still inside the cooldown window the stored briefing comes back
// instead, flagged as cached. An optional cooldown_hours query parameter
// overrides the configured window for this request only.
func (h *Handler) TriggerRun(c *gin.Context) {
	runner, ok := h.runners[c.Param("region")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown region", "region": c.Param("region")})
		return
	}

	var override time.Duration
	if raw := c.Query("cooldown_hours"); raw != "" {
		hours, err := strconv.ParseFloat(raw, 64)
		if err != nil || hours < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cooldown_hours parameter", "value": raw})
			return
		}
		override = time.Duration(hours * float64(time.Hour))
	}

	result, err := runner.Run(c.Request.Context(), override)
	if err != nil {
		slog.Error("Pipeline run failed", "region", runner.Region().ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Pipeline run failed", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"region":   runner.Region().ID,
		"summary":  result.Summary,
		"cached":   result.Cached,
		"last_run": result.LastRun.Format(time.RFC3339),
	})
}

// GetSummary returns the last stored briefing without triggering any work.
func (h *Handler) GetSummary(c *gin.Context) {
	runner, ok := h.runners[c.Param("region")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown region", "region": c.Param("region")})
		return
	}

	result, err := runner.Last(c.Request.Context())
	if err != nil {
		slog.Error("Failed to read stored briefing", "region", runner.Region().ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read stored briefing", "details": err.Error()})
		return
	}

	if result.LastRun.IsZero() {
		c.JSON(http.StatusNotFound, gin.H{"error": "No briefing generated yet", "region": runner.Region().ID})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"region":   runner.Region().ID,
		"summary":  result.Summary,
		"last_run": result.LastRun.Format(time.RFC3339),
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	regions := make([]string, 0, len(h.runners))
	for id := range h.runners {
		regions = append(regions, id)
	}

	c.JSON(http.StatusOK, gin.H{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   h.version,
		"regions":   len(regions),
	})
}
