package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/sysmonitor/web-monitor/api/v1"
)

// GetMetrics returns a live CPU/RAM utilization sample
// (GET /metrics)
func (h *Handler) GetMetrics(c *gin.Context) {
	metrics := h.metricsSrv.Read(c.Request.Context())
	c.JSON(http.StatusOK, v1.NewMetrics(metrics))
}
