package models

// SystemMetrics is the live utilization sample served next to the
// inventory. Unlike snapshots it is read fresh on every request and never
// cached.
type SystemMetrics struct {
	CPUModel   string  `json:"cpuModel"`
	CPUCores   int     `json:"cpuCores"`
	CPUThreads int     `json:"cpuThreads"`
	CPUUsage   float64 `json:"cpuUsage"`
	CPUFreqMHz float64 `json:"cpuFreqMhz"`

	RAMTotalBytes uint64  `json:"ramTotalBytes"`
	RAMUsedBytes  uint64  `json:"ramUsedBytes"`
	RAMPercent    float64 `json:"ramPercent"`
}
