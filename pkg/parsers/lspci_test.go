package parsers_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sysmonitor/web-monitor/internal/models"
	"github.com/sysmonitor/web-monitor/pkg/parsers"
)

const lspciVerboseSample = `00:00.0 Host bridge: Intel Corporation Xeon E3-1200 v6/7th Gen Core Processor Host Bridge/DRAM Registers (rev 08)
	Subsystem: Dell Device 07a0
	Kernel driver in use: skl_uncore

00:02.0 VGA compatible controller: Intel Corporation UHD Graphics 620 (rev 07)
	Subsystem: Dell UHD Graphics 620
	Kernel driver in use: i915
	Kernel modules: i915

00:1f.6 Ethernet controller: Intel Corporation Ethernet Connection (4) I219-LM (rev 21)
	Kernel driver in use: e1000e

01:00.0 3D controller: NVIDIA Corporation GP108M [GeForce MX150] (rev a1)
	Kernel driver in use: nvidia
`

var _ = Describe("Lspci Parser", func() {
	var parser *parsers.LspciParser

	BeforeEach(func() {
		parser = parsers.NewLspciParser()
	})

	Context("Verbose output", func() {
		// Given a typical lspci -vk listing
		// When we parse it
		// Then each slot should become one record with its details
		It("should parse slot headers and detail lines", func() {
			// Act
			records, status := parser.Parse([]byte(lspciVerboseSample))

			// Assert
			Expect(status.State).To(Equal(parsers.StateOK))
			Expect(status.SkippedLines).To(BeZero())
			Expect(records).To(HaveLen(4))

			gpu := records[1]
			Expect(gpu.Address).To(Equal("00:02.0"))
			Expect(gpu.Vendor).To(Equal("Intel Corporation"))
			Expect(gpu.Model).To(Equal("UHD Graphics 620"))
			Expect(gpu.Class).To(Equal("VGA compatible controller"))
			Expect(gpu.Category).To(Equal(models.CategoryDisplay))
			Expect(gpu.Attributes).To(HaveKeyWithValue("driver", "i915"))
			Expect(gpu.Attributes).To(HaveKeyWithValue("modules", "i915"))
			Expect(gpu.Attributes).To(HaveKeyWithValue("subsystem", "Dell UHD Graphics 620"))
			Expect(gpu.Attributes).To(HaveKeyWithValue("revision", "07"))
		})

		// Given descriptions with a revision suffix
		// When we parse them
		// Then the revision should move into attributes
		It("should strip the revision suffix from the model", func() {
			// Act
			records, _ := parser.Parse([]byte(lspciVerboseSample))

			// Assert
			nic := records[2]
			Expect(nic.Model).To(Equal("Ethernet Connection (4) I219-LM"))
			Expect(nic.Attributes).To(HaveKeyWithValue("revision", "21"))
			Expect(nic.Category).To(Equal(models.CategoryNetwork))
		})

		// Given slot headers carrying an explicit PCI domain
		// When we parse them
		// Then the default domain should be dropped and others kept
		It("should normalize domain-prefixed addresses", func() {
			// Arrange
			input := "0000:00:02.0 VGA compatible controller: Intel Corporation HD Graphics 530\n" +
				"0001:03:00.0 Ethernet controller: Broadcom Inc. NetXtreme BCM5720\n"

			// Act
			records, _ := parser.Parse([]byte(input))

			// Assert
			Expect(records).To(HaveLen(2))
			Expect(records[0].Address).To(Equal("00:02.0"))
			Expect(records[1].Address).To(Equal("0001:03:00.0"))
		})
	})

	Context("Malformed input", func() {
		// Given output that contains no slot lines at all
		// When we parse it
		// Then no records should be produced and the parse reported empty
		It("should report empty for unrecognizable output", func() {
			// Act
			records, status := parser.Parse([]byte("pcilib: Cannot open /proc/bus/pci\nlspci: Cannot find any devices\n"))

			// Assert
			Expect(records).To(BeEmpty())
			Expect(status.State).To(Equal(parsers.StateEmpty))
			Expect(status.SkippedLines).To(Equal(2))
		})

		// Given empty input
		// When we parse it
		// Then the parse should be empty with nothing skipped
		It("should handle empty input", func() {
			// Act
			records, status := parser.Parse(nil)

			// Assert
			Expect(records).To(BeEmpty())
			Expect(status.State).To(Equal(parsers.StateEmpty))
			Expect(status.SkippedLines).To(BeZero())
		})

		// Given a listing with a garbage line between valid slots
		// When we parse it
		// Then the valid slots should survive and the parse be partial
		It("should skip garbage lines and keep valid records", func() {
			// Arrange
			input := "00:02.0 VGA compatible controller: Intel Corporation HD Graphics 530\n" +
				"### corrupted line ###\n" +
				"00:1f.6 Ethernet controller: Intel Corporation I219-LM\n"

			// Act
			records, status := parser.Parse([]byte(input))

			// Assert
			Expect(records).To(HaveLen(2))
			Expect(status.State).To(Equal(parsers.StatePartial))
			Expect(status.SkippedLines).To(Equal(1))
		})
	})

	Context("Duplicate slots", func() {
		// Given the same bus address reported twice
		// When we parse the listing
		// Then the later record should win and the duplicate be counted
		It("should keep the last record per address", func() {
			// Arrange
			input := "00:02.0 VGA compatible controller: Intel Corporation HD Graphics 530\n" +
				"\n" +
				"00:02.0 VGA compatible controller: Intel Corporation UHD Graphics 620\n"

			// Act
			records, status := parser.Parse([]byte(input))

			// Assert
			Expect(records).To(HaveLen(1))
			Expect(records[0].Model).To(Equal("UHD Graphics 620"))
			Expect(status.Duplicates).To(Equal(1))
			Expect(status.State).To(Equal(parsers.StatePartial))
		})
	})
})
