package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/caiqy/claude-usage-hub/internal/anthropic"
	"github.com/caiqy/claude-usage-hub/internal/report"
	"github.com/caiqy/claude-usage-hub/internal/store"
)

// Refresher triggers a usage fetch and returns the summary it persisted.
type Refresher interface {
	FetchDaily(ctx context.Context) (*report.DailySummary, error)
	FetchMonthly(ctx context.Context) (*report.MonthlySummary, error)
}

// SnapshotReader reads the last persisted snapshot at a storage path.
type SnapshotReader interface {
	Get(ctx context.Context, path string) (json.RawMessage, time.Time, error)
}

// UsageHandler serves the usage refresh and read endpoints.
type UsageHandler struct {
	fetcher   Refresher
	snapshots SnapshotReader
}

// NewUsageHandler constructs a UsageHandler.
func NewUsageHandler(fetcher Refresher, snapshots SnapshotReader) *UsageHandler {
	return &UsageHandler{fetcher: fetcher, snapshots: snapshots}
}

// Refresh fetches today's claude_code report, persists the reduced summary,
// and returns it.
func (h *UsageHandler) Refresh(c *gin.Context) {
	if h == nil || h.fetcher == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "usage handler unavailable"})
		return
	}
	summary, errFetch := h.fetcher.FetchDaily(c.Request.Context())
	if errFetch != nil {
		h.writeFetchError(c, errFetch)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": summary})
}

// RefreshMonthly fetches the month-to-date messages report, persists the
// reduced summary, and returns it.
func (h *UsageHandler) RefreshMonthly(c *gin.Context) {
	if h == nil || h.fetcher == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "usage handler unavailable"})
		return
	}
	summary, errFetch := h.fetcher.FetchMonthly(c.Request.Context())
	if errFetch != nil {
		h.writeFetchError(c, errFetch)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": summary})
}

// Usage returns the last persisted snapshot without contacting upstream.
func (h *UsageHandler) Usage(c *gin.Context) {
	if h == nil || h.snapshots == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "usage handler unavailable"})
		return
	}
	raw, updatedAt, errGet := h.snapshots.Get(c.Request.Context(), report.StatusPath)
	if errors.Is(errGet, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no usage snapshot yet"})
		return
	}
	if errGet != nil {
		log.WithError(errGet).Error("usage read failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "usage read failed"})
		return
	}
	c.Header("Last-Modified", updatedAt.UTC().Format(http.TimeFormat))
	c.Data(http.StatusOK, "application/json", raw)
}

func (h *UsageHandler) writeFetchError(c *gin.Context, errFetch error) {
	var statusErr *anthropic.StatusError
	switch {
	case errors.Is(errFetch, anthropic.ErrMissingAPIKey):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "admin API key not configured"})
	case errors.As(errFetch, &statusErr):
		log.WithError(errFetch).Warn("upstream usage report request failed")
		c.JSON(http.StatusBadGateway, gin.H{
			"error":           "upstream usage report request failed",
			"upstream_status": statusErr.StatusCode,
			"upstream_body":   bodyExcerpt(statusErr.Body),
		})
	default:
		log.WithError(errFetch).Error("usage refresh failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "usage refresh failed"})
	}
}

// maxUpstreamBodyBytes caps the upstream error excerpt relayed to callers.
const maxUpstreamBodyBytes = 256

func bodyExcerpt(body string) string {
	trimmed := strings.TrimSpace(body)
	if len(trimmed) > maxUpstreamBodyBytes {
		return trimmed[:maxUpstreamBodyBytes] + "...(truncated)"
	}
	return trimmed
}
