package models

import (
	"maps"
	"strings"
)

// Category is the normalized device class a record belongs to.
type Category string

const (
	CategoryNetwork    Category = "network"
	CategoryStorage    Category = "storage"
	CategoryDisplay    Category = "display"
	CategoryProcessor  Category = "processor"
	CategoryMemory     Category = "memory"
	CategoryBridge     Category = "bridge"
	CategoryBus        Category = "bus"
	CategoryMultimedia Category = "multimedia"
	CategoryOther      Category = "other"
)

// DeviceRecord describes one hardware component discovered by a tool.
// Records are value types: collaborators receive copies and never mutate
// a record held by a snapshot.
type DeviceRecord struct {
	// Address is the PCI bus address ("00:02.0") when the device sits on
	// the PCI bus, otherwise a tool-specific hardware path.
	Address  string            `json:"address,omitempty"`
	Vendor   string            `json:"vendor,omitempty"`
	Model    string            `json:"model,omitempty"`
	Class    string            `json:"class,omitempty"`
	Category Category          `json:"category"`
	// Attributes carries the per-tool secondary details (driver, revision,
	// memory size). The key set varies by tool and device class.
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Key returns the identity used to correlate records reported by
// different tools: the bus address when present, otherwise a composite
// of vendor, model and category.
func (d DeviceRecord) Key() string {
	if d.Address != "" {
		return d.Address
	}
	return strings.ToLower(d.Vendor + "|" + d.Model + "|" + string(d.Category))
}

// Clone returns a deep copy. Merging works on clones so the inputs stay
// untouched.
func (d DeviceRecord) Clone() DeviceRecord {
	out := d
	if d.Attributes != nil {
		out.Attributes = maps.Clone(d.Attributes)
	}
	return out
}

// CategoryFromClass maps a free-form tool class string to a Category.
// Both lspci class names ("VGA compatible controller") and lshw node
// classes ("display") funnel through here.
func CategoryFromClass(class string) Category {
	c := strings.ToLower(class)
	switch {
	case strings.Contains(c, "ethernet"), strings.Contains(c, "network"), strings.Contains(c, "wireless"):
		return CategoryNetwork
	case strings.Contains(c, "sata"), strings.Contains(c, "nvme"), strings.Contains(c, "raid"),
		strings.Contains(c, "non-volatile"), strings.Contains(c, "storage"), strings.Contains(c, "disk"),
		strings.Contains(c, "ide controller"):
		return CategoryStorage
	case strings.Contains(c, "vga"), strings.Contains(c, "display"), strings.Contains(c, "3d controller"),
		strings.Contains(c, "graphics"):
		return CategoryDisplay
	case strings.Contains(c, "processor"), c == "cpu", strings.Contains(c, "co-processor"):
		return CategoryProcessor
	case strings.Contains(c, "memory"), c == "ram":
		return CategoryMemory
	case strings.Contains(c, "bridge"):
		return CategoryBridge
	case strings.Contains(c, "usb"), strings.Contains(c, "smbus"), strings.Contains(c, "serial bus"):
		return CategoryBus
	case strings.Contains(c, "audio"), strings.Contains(c, "multimedia"), strings.Contains(c, "sound"):
		return CategoryMultimedia
	default:
		return CategoryOther
	}
}
