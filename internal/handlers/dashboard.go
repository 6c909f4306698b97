package handlers

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sysmonitor/web-monitor/internal/models"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

var dashboardTmpl = template.Must(template.ParseFS(templateFS, "templates/dashboard.html"))

type dashboardData struct {
	Ready    bool
	Snapshot *models.Snapshot
	Counts   map[models.Category]int
	Metrics  models.SystemMetrics
}

// GetDashboard renders the HTML overview page
// (GET /)
func (h *Handler) GetDashboard(c *gin.Context) {
	data := dashboardData{
		Metrics: h.metricsSrv.Read(c.Request.Context()),
	}

	if snapshot, err := h.monitorSrv.Snapshot(); err == nil {
		data.Ready = true
		data.Snapshot = snapshot
		data.Counts = snapshot.CountByCategory()
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := dashboardTmpl.Execute(c.Writer, data); err != nil {
		zap.S().Named("dashboard_handler").Errorw("failed to render dashboard", "error", err)
	}
}
