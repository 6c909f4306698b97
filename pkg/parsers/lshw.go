package parsers

import (
	"bufio"
	"bytes"
	"regexp"
	"strings"

	"github.com/sysmonitor/web-monitor/internal/models"
)

// nodeMarker matches the start of one lshw tree node, e.g. "  *-display"
// or "     *-network:0 UNCLAIMED".
var nodeMarker = regexp.MustCompile(`^\s*\*-([a-z0-9]+)(?::(\d+))?\s*(UNCLAIMED|DISABLED)?\s*$`)

// nodeDetail matches an indented "key: value" line inside a node.
var nodeDetail = regexp.MustCompile(`^\s+([a-z][a-z0-9 ]*?):\s+(.+)$`)

// lshwKeptDetails lists the detail keys copied into record attributes;
// everything else lshw prints (capabilities, resources, widths) is noise
// for the inventory.
var lshwKeptDetails = map[string]string{
	"serial":        "serial",
	"size":          "size",
	"capacity":      "capacity",
	"clock":         "clock",
	"slot":          "slot",
	"version":       "revision",
	"logical name":  "logical name",
	"configuration": "configuration",
	"state":         "state",
}

// LshwParser handles lshw's nested tree listing. Each "*-class" node
// becomes one device record; the preamble before the first node (the
// machine itself) becomes a "system" record.
type LshwParser struct{}

func NewLshwParser() *LshwParser {
	return &LshwParser{}
}

func (p *LshwParser) Kind() models.ToolKind {
	return models.ToolLshw
}

type lshwNode struct {
	class   string
	details map[string]string
}

func (p *LshwParser) Parse(raw []byte) ([]models.DeviceRecord, Status) {
	var (
		nodes   []lshwNode
		current *lshwNode
		skipped int
	)

	scanner := bufio.NewScanner(bytes.NewReader(raw))
	scanner.Buffer(make([]byte, 0, 64<<10), 1<<20)

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		if m := nodeMarker.FindStringSubmatch(line); m != nil {
			nodes = append(nodes, lshwNode{class: m[1], details: make(map[string]string)})
			current = &nodes[len(nodes)-1]
			if m[3] != "" {
				current.details["state"] = strings.ToLower(m[3])
			}
			continue
		}

		if m := nodeDetail.FindStringSubmatch(line); m != nil {
			if current == nil {
				// Preamble details describe the machine itself.
				nodes = append(nodes, lshwNode{class: "system", details: make(map[string]string)})
				current = &nodes[len(nodes)-1]
			}
			current.details[strings.TrimSpace(m[1])] = strings.TrimSpace(m[2])
			continue
		}

		// The first line of the report is the bare hostname; treat it as
		// the system node rather than a grammar violation.
		if current == nil && !strings.HasPrefix(line, " ") {
			nodes = append(nodes, lshwNode{class: "system", details: make(map[string]string)})
			current = &nodes[len(nodes)-1]
			continue
		}

		skipped++
	}
	if err := scanner.Err(); err != nil {
		skipped++
	}

	records := make([]models.DeviceRecord, 0, len(nodes))
	for _, n := range nodes {
		records = append(records, n.toRecord())
	}

	records, duplicates := dedupe(records)
	return records, statusFor(len(records), skipped, duplicates)
}

func (n lshwNode) toRecord() models.DeviceRecord {
	record := models.DeviceRecord{
		Vendor:     n.details["vendor"],
		Model:      n.details["product"],
		Class:      n.details["description"],
		Attributes: make(map[string]string),
	}
	if record.Class == "" {
		record.Class = n.class
	}

	record.Category = models.CategoryFromClass(record.Class)
	if record.Category == models.CategoryOther {
		record.Category = models.CategoryFromClass(n.class)
	}

	if bus := n.details["bus info"]; bus != "" {
		record.Address = pciAddress(bus)
		if record.Address == "" {
			record.Attributes["bus info"] = bus
		}
	}

	for key, name := range lshwKeptDetails {
		if v := n.details[key]; v != "" {
			record.Attributes[name] = v
		}
	}

	// lshw folds the bound driver into the configuration line
	// ("configuration: driver=i915 latency=0").
	if driver := configurationValue(n.details["configuration"], "driver"); driver != "" {
		record.Attributes["driver"] = driver
	}

	return record
}

// pciAddress converts lshw's "pci@0000:00:02.0" bus info into the
// canonical lspci address form. Non-PCI bus info yields an empty address
// so the record falls back to the composite identity key.
func pciAddress(busInfo string) string {
	if !strings.HasPrefix(busInfo, "pci@") {
		return ""
	}
	address := strings.ToLower(strings.TrimPrefix(busInfo, "pci@"))
	address = strings.TrimPrefix(address, "0000:")
	return address
}

func configurationValue(configuration, key string) string {
	for _, pair := range strings.Fields(configuration) {
		if v, ok := strings.CutPrefix(pair, key+"="); ok {
			return v
		}
	}
	return ""
}
