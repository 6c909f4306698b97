package parsers

import (
	"bufio"
	"bytes"
	"regexp"
	"strings"

	"github.com/sysmonitor/web-monitor/internal/models"
)

// slotLine matches the header of one lspci device, with or without the
// PCI domain prefix: "00:02.0 VGA compatible controller: Intel ...".
var slotLine = regexp.MustCompile(`^(?:([0-9a-fA-F]{4}):)?([0-9a-fA-F]{2}:[0-9a-fA-F]{2}\.[0-9a-fA-F])\s+([^:]+):\s+(.+)$`)

// revSuffix matches the "(rev 07)" tail lspci appends to descriptions.
var revSuffix = regexp.MustCompile(`\s*\(rev\s+([0-9a-fA-F]+)\)\s*$`)

// vendorSuffixes are the corporate markers used to split an lspci device
// description into vendor and model.
var vendorSuffixes = []string{
	"Corporation", "Corp.", "Inc.", "Ltd.", "Co.", "Technologies",
	"Technology", "Systems", "Semiconductor", "Electronics", "Micro Devices",
}

// LspciParser handles the slot-prefixed line format of pciutils' lspci.
// Verbose mode detail lines (indented "Key: value") become record
// attributes; indented lines without the key-value shape are skipped and
// counted.
type LspciParser struct{}

func NewLspciParser() *LspciParser {
	return &LspciParser{}
}

func (p *LspciParser) Kind() models.ToolKind {
	return models.ToolLspci
}

func (p *LspciParser) Parse(raw []byte) ([]models.DeviceRecord, Status) {
	var (
		records []models.DeviceRecord
		current *models.DeviceRecord
		skipped int
	)

	scanner := bufio.NewScanner(bytes.NewReader(raw))
	scanner.Buffer(make([]byte, 0, 64<<10), 1<<20)

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			current = nil
			continue
		}

		if m := slotLine.FindStringSubmatch(line); m != nil {
			records = append(records, parseSlotHeader(m))
			current = &records[len(records)-1]
			continue
		}

		// Indented continuation lines belong to the last device.
		if current != nil && (strings.HasPrefix(line, "\t") || strings.HasPrefix(line, " ")) {
			if key, value, ok := splitDetail(line); ok {
				current.Attributes[key] = value
			} else {
				skipped++
			}
			continue
		}

		skipped++
	}
	if err := scanner.Err(); err != nil {
		// Oversized or broken input ends the parse early; whatever was
		// extracted so far is still returned.
		skipped++
	}

	records, duplicates := dedupe(records)
	return records, statusFor(len(records), skipped, duplicates)
}

func parseSlotHeader(m []string) models.DeviceRecord {
	address := strings.ToLower(m[2])
	if m[1] != "" && !strings.EqualFold(m[1], "0000") {
		address = strings.ToLower(m[1]) + ":" + address
	}

	class := strings.TrimSpace(m[3])
	description := strings.TrimSpace(m[4])

	attributes := make(map[string]string)
	if rev := revSuffix.FindStringSubmatch(description); rev != nil {
		attributes["revision"] = rev[1]
		description = revSuffix.ReplaceAllString(description, "")
	}

	vendor, model := splitVendorModel(description)

	return models.DeviceRecord{
		Address:    address,
		Vendor:     vendor,
		Model:      model,
		Class:      class,
		Category:   models.CategoryFromClass(class),
		Attributes: attributes,
	}
}

// splitVendorModel separates "Intel Corporation UHD Graphics 620" into
// vendor and model. Without a recognized corporate marker the first word
// is taken as the vendor.
func splitVendorModel(description string) (vendor, model string) {
	for _, suffix := range vendorSuffixes {
		marker := " " + suffix + " "
		if at := strings.Index(description, marker); at > 0 {
			return description[:at+len(marker)-1], strings.TrimSpace(description[at+len(marker):])
		}
	}

	parts := strings.SplitN(description, " ", 2)
	if len(parts) == 2 {
		return parts[0], strings.TrimSpace(parts[1])
	}
	return "", description
}

// splitDetail parses an indented verbose-mode line such as
// "	Kernel driver in use: i915". Well-known keys are renamed to the
// normalized attribute names shared with the other parsers.
func splitDetail(line string) (key, value string, ok bool) {
	trimmed := strings.TrimSpace(line)
	at := strings.Index(trimmed, ": ")
	if at <= 0 {
		return "", "", false
	}

	key = strings.TrimSpace(trimmed[:at])
	value = strings.TrimSpace(trimmed[at+2:])
	if key == "" || value == "" {
		return "", "", false
	}

	switch key {
	case "Kernel driver in use":
		key = "driver"
	case "Kernel modules":
		key = "modules"
	case "Subsystem":
		key = "subsystem"
	default:
		key = strings.ToLower(key)
	}
	return key, value, true
}
