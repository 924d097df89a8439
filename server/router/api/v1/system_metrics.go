package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/schedtext/server/internal/observability"
)

// MetricsOverviewResponse represents the overview response of system metrics
type MetricsOverviewResponse struct {
	TotalRequests int64   `json:"total_requests"`
	SuccessRate   float64 `json:"success_rate"`
	FallbackRate  float64 `json:"fallback_rate"`
	P50LatencyMs  int64   `json:"p50_latency_ms"`
	P95LatencyMs  int64   `json:"p95_latency_ms"`
	ErrorCount    int64   `json:"error_count"`

	Operations map[string]*observability.OperationSnapshot `json:"operations"`
}

// GetMetricsOverview returns the system metrics overview
// GET /api/v1/system/metrics
func (s *APIV1Service) GetMetricsOverview(c echo.Context) error {
	snap := s.Metrics.Snapshot()

	resp := MetricsOverviewResponse{
		TotalRequests: snap.RequestTotal,
		P50LatencyMs:  snap.P50LatencyMs,
		P95LatencyMs:  snap.P95LatencyMs,
		ErrorCount:    snap.RequestFailed,
		Operations:    snap.Operations,
	}
	if snap.RequestTotal > 0 {
		total := float64(snap.RequestTotal)
		resp.SuccessRate = float64(snap.RequestTotal-snap.RequestFailed) / total
		resp.FallbackRate = float64(snap.RequestFallback) / total
	}
	return c.JSON(http.StatusOK, resp)
}
