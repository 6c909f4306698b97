package models

import (
	"time"

	"github.com/google/uuid"
)

// ToolCollection is one tool's contribution to a refresh cycle: whatever
// records its parser extracted plus the report describing how the
// collection went.
type ToolCollection struct {
	Kind    ToolKind
	Records []DeviceRecord
	Report  ToolReport
}

// toolPriority orders attribute authority when two tools report the same
// physical device. Bus-level detail from lspci is authoritative for PCI
// devices; nvidia-smi knows its GPUs better than the general listing.
var toolPriority = map[ToolKind]int{
	ToolLshw:      1,
	ToolNvidiaSMI: 2,
	ToolLspci:     3,
}

// Merge combines per-tool record lists into one snapshot. Records that
// represent the same physical device (matched by DeviceRecord.Key) are
// unified: attributes are unioned and the higher-priority source wins on
// conflicting keys. A snapshot is produced even when every tool failed;
// an empty inventory with failure reports is a valid published result.
func Merge(collections []ToolCollection, capturedAt time.Time) *Snapshot {
	snapshot := &Snapshot{
		ID:         uuid.New(),
		CapturedAt: capturedAt,
		Devices:    []DeviceRecord{},
		Tools:      make(map[ToolKind]ToolReport, len(collections)),
	}

	index := make(map[string]int)

	for _, c := range sortByPriority(collections) {
		snapshot.Tools[c.Kind] = c.Report

		for _, record := range c.Records {
			key := record.Key()
			at, seen := index[key]
			if !seen {
				index[key] = len(snapshot.Devices)
				snapshot.Devices = append(snapshot.Devices, record.Clone())
				continue
			}
			snapshot.Devices[at] = overlay(snapshot.Devices[at], record)
		}
	}

	return snapshot
}

// overlay merges an equal-or-higher-priority record on top of an existing
// one. Identity fields are replaced when the new source has them;
// attributes are unioned with the new source winning conflicts.
func overlay(base, top DeviceRecord) DeviceRecord {
	out := base
	if top.Address != "" {
		out.Address = top.Address
	}
	if top.Vendor != "" {
		out.Vendor = top.Vendor
	}
	if top.Model != "" {
		out.Model = top.Model
	}
	if top.Class != "" {
		out.Class = top.Class
	}
	if top.Category != "" && top.Category != CategoryOther {
		out.Category = top.Category
	}

	if len(top.Attributes) > 0 {
		merged := make(map[string]string, len(base.Attributes)+len(top.Attributes))
		for k, v := range base.Attributes {
			merged[k] = v
		}
		for k, v := range top.Attributes {
			merged[k] = v
		}
		out.Attributes = merged
	} else if base.Attributes != nil {
		out.Attributes = cloneAttributes(base.Attributes)
	}

	return out
}

func cloneAttributes(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// sortByPriority returns collections ordered lowest priority first so the
// most authoritative source is overlaid last. Unknown kinds sort first.
func sortByPriority(collections []ToolCollection) []ToolCollection {
	out := make([]ToolCollection, len(collections))
	copy(out, collections)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && toolPriority[out[j].Kind] < toolPriority[out[j-1].Kind]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
