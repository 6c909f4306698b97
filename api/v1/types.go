// Package v1 defines the wire types of the HTTP API.
package v1

import "time"

type Device struct {
	Address    string            `json:"address,omitempty"`
	Vendor     string            `json:"vendor,omitempty"`
	Model      string            `json:"model,omitempty"`
	Class      string            `json:"class,omitempty"`
	Category   string            `json:"category"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

type ToolReport struct {
	State        string `json:"state"`
	Error        string `json:"error,omitempty"`
	DurationMs   int64  `json:"durationMs"`
	Records      int    `json:"records"`
	SkippedLines int    `json:"skippedLines,omitempty"`
	Duplicates   int    `json:"duplicates,omitempty"`
	Truncated    bool   `json:"truncated,omitempty"`
}

type Snapshot struct {
	Id         string                `json:"id"`
	CapturedAt time.Time             `json:"capturedAt"`
	Degraded   bool                  `json:"degraded"`
	Devices    []Device              `json:"devices"`
	Tools      map[string]ToolReport `json:"tools"`
}

type DeviceList struct {
	Page      int      `json:"page"`
	PageCount int      `json:"pageCount"`
	Total     int      `json:"total"`
	Devices   []Device `json:"devices"`
}

type RefreshReply struct {
	Queued bool `json:"queued"`
}

type Metrics struct {
	CPUModel   string  `json:"cpuModel"`
	CPUCores   int     `json:"cpuCores"`
	CPUThreads int     `json:"cpuThreads"`
	CPUUsage   float64 `json:"cpuUsage"`
	CPUFreqMHz float64 `json:"cpuFreqMhz"`

	RAMTotalBytes uint64  `json:"ramTotalBytes"`
	RAMUsedBytes  uint64  `json:"ramUsedBytes"`
	RAMPercent    float64 `json:"ramPercent"`
}
