// Package handlers implements the HTTP layer. Handlers read the
// published snapshot and live metrics from the services and never block
// on tool execution.
package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/sysmonitor/web-monitor/internal/models"
)

// MonitorService exposes the snapshot view and the refresh trigger of
// the hardware monitor.
type MonitorService interface {
	Snapshot() (*models.Snapshot, error)
	Refresh() (bool, error)
}

// MetricsService samples live CPU and memory utilization.
type MetricsService interface {
	Read(ctx context.Context) models.SystemMetrics
}

type Handler struct {
	monitorSrv MonitorService
	metricsSrv MetricsService
}

func New(monitorSrv MonitorService, metricsSrv MetricsService) *Handler {
	return &Handler{
		monitorSrv: monitorSrv,
		metricsSrv: metricsSrv,
	}
}

// RegisterRoutes attaches the JSON API to the versioned router group.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/health", h.GetHealth)
	router.GET("/inventory", h.GetInventory)
	router.GET("/inventory/devices", h.ListDevices)
	router.POST("/inventory/refresh", h.RefreshInventory)
	router.GET("/metrics", h.GetMetrics)
}

// GetHealth is the liveness probe.
// (GET /health)
func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(200, gin.H{"status": "ok"})
}
