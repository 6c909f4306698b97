package v1

import (
	"github.com/sysmonitor/web-monitor/internal/models"
)

func NewDevice(d models.DeviceRecord) Device {
	return Device{
		Address:    d.Address,
		Vendor:     d.Vendor,
		Model:      d.Model,
		Class:      d.Class,
		Category:   string(d.Category),
		Attributes: d.Attributes,
	}
}

func NewToolReport(r models.ToolReport) ToolReport {
	return ToolReport{
		State:        string(r.State),
		Error:        r.Error,
		DurationMs:   r.Duration.Milliseconds(),
		Records:      r.Records,
		SkippedLines: r.SkippedLines,
		Duplicates:   r.Duplicates,
		Truncated:    r.Truncated,
	}
}

// NewSnapshot converts a model snapshot to its API form.
func NewSnapshot(s *models.Snapshot) Snapshot {
	out := Snapshot{
		Id:         s.ID.String(),
		CapturedAt: s.CapturedAt,
		Degraded:   s.Degraded(),
		Devices:    make([]Device, 0, len(s.Devices)),
		Tools:      make(map[string]ToolReport, len(s.Tools)),
	}
	for _, d := range s.Devices {
		out.Devices = append(out.Devices, NewDevice(d))
	}
	for kind, report := range s.Tools {
		out.Tools[string(kind)] = NewToolReport(report)
	}
	return out
}

func NewMetrics(m models.SystemMetrics) Metrics {
	return Metrics{
		CPUModel:      m.CPUModel,
		CPUCores:      m.CPUCores,
		CPUThreads:    m.CPUThreads,
		CPUUsage:      m.CPUUsage,
		CPUFreqMHz:    m.CPUFreqMHz,
		RAMTotalBytes: m.RAMTotalBytes,
		RAMUsedBytes:  m.RAMUsedBytes,
		RAMPercent:    m.RAMPercent,
	}
}
