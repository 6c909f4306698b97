package services

import (
	"context"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"go.uber.org/zap"

	"github.com/sysmonitor/web-monitor/internal/models"
)

// cpuSampleInterval is how long Read blocks to measure CPU utilization.
const cpuSampleInterval = 100 * time.Millisecond

// MetricsService reads live CPU and memory utilization. Unlike the
// inventory it is sampled fresh per request; only the static CPU
// identity is cached after the first read.
type MetricsService struct {
	once       sync.Once
	cpuModel   string
	cpuFreqMHz float64
	cpuCores   int
	cpuThreads int

	log *zap.SugaredLogger
}

func NewMetricsService() *MetricsService {
	return &MetricsService{
		log: zap.S().Named("metrics"),
	}
}

// Read samples current utilization. Unavailable readings are zeroed
// rather than failing the whole sample; a container without /proc access
// still gets a response.
func (m *MetricsService) Read(ctx context.Context) models.SystemMetrics {
	m.once.Do(func() { m.initCPUInfo(ctx) })

	metrics := models.SystemMetrics{
		CPUModel:   m.cpuModel,
		CPUCores:   m.cpuCores,
		CPUThreads: m.cpuThreads,
		CPUFreqMHz: m.cpuFreqMHz,
	}

	if usage, err := cpu.PercentWithContext(ctx, cpuSampleInterval, false); err == nil && len(usage) > 0 {
		metrics.CPUUsage = usage[0]
	} else if err != nil {
		m.log.Debugw("cpu usage unavailable", "error", err)
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		metrics.RAMTotalBytes = vm.Total
		metrics.RAMUsedBytes = vm.Used
		metrics.RAMPercent = vm.UsedPercent
	} else {
		m.log.Debugw("memory stats unavailable", "error", err)
	}

	return metrics
}

func (m *MetricsService) initCPUInfo(ctx context.Context) {
	if info, err := cpu.InfoWithContext(ctx); err == nil && len(info) > 0 {
		m.cpuModel = info[0].ModelName
		m.cpuFreqMHz = info[0].Mhz
	} else if err != nil {
		m.log.Warnw("cpu info unavailable", "error", err)
	}

	if cores, err := cpu.CountsWithContext(ctx, false); err == nil {
		m.cpuCores = cores
	}
	if threads, err := cpu.CountsWithContext(ctx, true); err == nil {
		m.cpuThreads = threads
	}
}
