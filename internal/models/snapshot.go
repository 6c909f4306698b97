package models

import (
	"time"

	"github.com/google/uuid"
)

// ToolKind identifies one of the external introspection tools.
type ToolKind string

const (
	ToolLspci     ToolKind = "lspci"
	ToolLshw      ToolKind = "lshw"
	ToolNvidiaSMI ToolKind = "nvidia-smi"
)

// ToolState classifies the outcome of one tool's collection within a
// cycle. There is no fatal state: every outcome is representable data.
type ToolState string

const (
	// ToolStateOK - the tool ran and its output parsed cleanly
	ToolStateOK ToolState = "ok"
	// ToolStatePartial - the tool ran but some output was skipped or truncated
	ToolStatePartial ToolState = "partial"
	// ToolStateEmpty - the tool ran and produced no records
	ToolStateEmpty ToolState = "empty"
	// ToolStateNotFound - the executable is not installed or not on PATH
	ToolStateNotFound ToolState = "not-found"
	// ToolStateTimeout - the invocation exceeded its deadline and was killed
	ToolStateTimeout ToolState = "timeout"
	// ToolStateFailed - the tool exited non-zero
	ToolStateFailed ToolState = "failed"
)

// ToolReport is the per-tool collection status embedded in a snapshot.
type ToolReport struct {
	State        ToolState     `json:"state"`
	Error        string        `json:"error,omitempty"`
	Duration     time.Duration `json:"duration"`
	Records      int           `json:"records"`
	SkippedLines int           `json:"skippedLines,omitempty"`
	Duplicates   int           `json:"duplicates,omitempty"`
	Truncated    bool          `json:"truncated,omitempty"`
}

// Failed reports whether the tool produced no usable output at all.
func (r ToolReport) Failed() bool {
	switch r.State {
	case ToolStateNotFound, ToolStateTimeout, ToolStateFailed:
		return true
	default:
		return false
	}
}

// Snapshot is one immutable point-in-time hardware inventory. A refresh
// cycle always builds a wholly new snapshot; nothing mutates a published
// one.
type Snapshot struct {
	ID         uuid.UUID               `json:"id"`
	CapturedAt time.Time               `json:"capturedAt"`
	Devices    []DeviceRecord          `json:"devices"`
	Tools      map[ToolKind]ToolReport `json:"tools"`
}

// Degraded reports whether every tool in the cycle failed.
func (s *Snapshot) Degraded() bool {
	if len(s.Tools) == 0 {
		return true
	}
	for _, report := range s.Tools {
		if !report.Failed() {
			return false
		}
	}
	return true
}

// CountByCategory tallies devices per category, for the dashboard.
func (s *Snapshot) CountByCategory() map[Category]int {
	out := make(map[Category]int)
	for _, d := range s.Devices {
		out[d.Category]++
	}
	return out
}
