package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	v1 "github.com/sysmonitor/web-monitor/api/v1"
	"github.com/sysmonitor/web-monitor/internal/models"
	srvErrors "github.com/sysmonitor/web-monitor/pkg/errors"
)

// GetInventory returns the current hardware snapshot
// (GET /inventory)
func (h *Handler) GetInventory(c *gin.Context) {
	snapshot, err := h.monitorSrv.Snapshot()
	if err != nil {
		if srvErrors.IsSnapshotNotReadyError(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		zap.S().Named("inventory_handler").Errorw("failed to get snapshot", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get inventory"})
		return
	}

	c.JSON(http.StatusOK, v1.NewSnapshot(snapshot))
}

// RefreshInventory triggers an immediate collection cycle
// (POST /inventory/refresh)
func (h *Handler) RefreshInventory(c *gin.Context) {
	queued, err := h.monitorSrv.Refresh()
	if err != nil {
		if srvErrors.IsMonitorStoppedError(err) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		zap.S().Named("inventory_handler").Errorw("failed to trigger refresh", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to trigger refresh"})
		return
	}

	// queued=false means the request coalesced into a cycle that is
	// already pending or in flight; either way a fresh snapshot is on
	// the way.
	c.JSON(http.StatusAccepted, v1.RefreshReply{Queued: queued})
}

type listDevicesParams struct {
	Category string `form:"category" binding:"omitempty,oneof=network storage display processor memory bridge bus multimedia other"`
	Vendor   string `form:"vendor"`
	Page     int    `form:"page,default=1" binding:"gte=1"`
	PageSize int    `form:"pageSize,default=20" binding:"gte=1,lte=100"`
}

// ListDevices returns a filtered, paginated view of the current snapshot
// (GET /inventory/devices)
func (h *Handler) ListDevices(c *gin.Context) {
	var params listDevicesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	snapshot, err := h.monitorSrv.Snapshot()
	if err != nil {
		if srvErrors.IsSnapshotNotReadyError(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		zap.S().Named("inventory_handler").Errorw("failed to get snapshot", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list devices"})
		return
	}

	filtered := filterDevices(snapshot.Devices, params)

	total := len(filtered)
	pageCount := (total + params.PageSize - 1) / params.PageSize
	if pageCount == 0 {
		pageCount = 1
	}

	start := (params.Page - 1) * params.PageSize
	if start > total {
		start = total
	}
	end := start + params.PageSize
	if end > total {
		end = total
	}

	reply := v1.DeviceList{
		Page:      params.Page,
		PageCount: pageCount,
		Total:     total,
		Devices:   make([]v1.Device, 0, end-start),
	}
	for _, d := range filtered[start:end] {
		reply.Devices = append(reply.Devices, v1.NewDevice(d))
	}

	c.JSON(http.StatusOK, reply)
}

func filterDevices(devices []models.DeviceRecord, params listDevicesParams) []models.DeviceRecord {
	out := make([]models.DeviceRecord, 0, len(devices))
	for _, d := range devices {
		if params.Category != "" && string(d.Category) != params.Category {
			continue
		}
		if params.Vendor != "" && !strings.Contains(strings.ToLower(d.Vendor), strings.ToLower(params.Vendor)) {
			continue
		}
		out = append(out, d)
	}
	return out
}
