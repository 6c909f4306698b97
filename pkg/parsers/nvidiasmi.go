package parsers

import (
	"bufio"
	"bytes"
	"strings"

	"github.com/sysmonitor/web-monitor/internal/models"
)

// NvidiaSMIQueryArgs is the fixed argument list matching the column
// layout NvidiaSMIParser expects.
var NvidiaSMIQueryArgs = []string{
	"--query-gpu=name,pci.bus_id,driver_version,memory.total,memory.used,temperature.gpu,utilization.gpu",
	"--format=csv,noheader,nounits",
}

// NvidiaSMIParser handles the comma-separated query output of
// nvidia-smi. Each line is one GPU.
type NvidiaSMIParser struct{}

func NewNvidiaSMIParser() *NvidiaSMIParser {
	return &NvidiaSMIParser{}
}

func (p *NvidiaSMIParser) Kind() models.ToolKind {
	return models.ToolNvidiaSMI
}

func (p *NvidiaSMIParser) Parse(raw []byte) ([]models.DeviceRecord, Status) {
	var (
		records []models.DeviceRecord
		skipped int
	)

	scanner := bufio.NewScanner(bytes.NewReader(raw))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Split(line, ", ")
		if len(fields) != 7 {
			skipped++
			continue
		}

		records = append(records, models.DeviceRecord{
			Address:  nvidiaAddress(fields[1]),
			Vendor:   "NVIDIA Corporation",
			Model:    fields[0],
			Class:    "3D controller",
			Category: models.CategoryDisplay,
			Attributes: map[string]string{
				"driver":           fields[2],
				"memory total mib": fields[3],
				"memory used mib":  fields[4],
				"temperature c":    fields[5],
				"utilization pct":  fields[6],
			},
		})
	}
	if err := scanner.Err(); err != nil {
		skipped++
	}

	records, duplicates := dedupe(records)
	return records, statusFor(len(records), skipped, duplicates)
}

// nvidiaAddress normalizes nvidia-smi's "00000000:01:00.0" bus id to the
// lspci address form so GPU records merge with the PCI listing.
func nvidiaAddress(busID string) string {
	address := strings.ToLower(strings.TrimSpace(busID))
	if at := strings.Index(address, ":"); at == 8 {
		if strings.TrimLeft(address[:8], "0") == "" {
			address = address[9:]
		}
	}
	return strings.TrimPrefix(address, "0000:")
}
