package parsers_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sysmonitor/web-monitor/internal/models"
	"github.com/sysmonitor/web-monitor/pkg/parsers"
)

const lshwTreeSample = `workstation
    description: Notebook
    product: Latitude 7490
    vendor: Dell Inc.
    serial: ABC1234
  *-cpu
       description: CPU
       product: Intel(R) Core(TM) i7-8650U CPU @ 1.90GHz
       vendor: Intel Corp.
       bus info: cpu@0
       version: 6.142.10
       size: 2GHz
       capacity: 4200MHz
  *-memory
       description: System memory
       size: 16GiB
  *-display
       description: VGA compatible controller
       product: UHD Graphics 620
       vendor: Intel Corporation
       bus info: pci@0000:00:02.0
       configuration: driver=i915 latency=0
  *-network:0 UNCLAIMED
       description: Ethernet interface
       product: I219-LM
       vendor: Intel Corporation
       bus info: pci@0000:00:1f.6
`

var _ = Describe("Lshw Parser", func() {
	var parser *parsers.LshwParser

	BeforeEach(func() {
		parser = parsers.NewLshwParser()
	})

	Context("Tree output", func() {
		// Given a typical lshw -quiet report
		// When we parse it
		// Then the preamble and every node should become records
		It("should parse the system preamble and all nodes", func() {
			// Act
			records, status := parser.Parse([]byte(lshwTreeSample))

			// Assert
			Expect(status.State).To(Equal(parsers.StateOK))
			Expect(records).To(HaveLen(5))

			system := records[0]
			Expect(system.Vendor).To(Equal("Dell Inc."))
			Expect(system.Model).To(Equal("Latitude 7490"))
			Expect(system.Attributes).To(HaveKeyWithValue("serial", "ABC1234"))

			cpu := records[1]
			Expect(cpu.Category).To(Equal(models.CategoryProcessor))
			Expect(cpu.Model).To(ContainSubstring("i7-8650U"))
			Expect(cpu.Attributes).To(HaveKeyWithValue("revision", "6.142.10"))
			Expect(cpu.Attributes).To(HaveKeyWithValue("capacity", "4200MHz"))
		})

		// Given a node with a PCI bus info line
		// When we parse it
		// Then the address should be normalized to the lspci form
		It("should normalize PCI bus info to a bus address", func() {
			// Act
			records, _ := parser.Parse([]byte(lshwTreeSample))

			// Assert
			display := records[3]
			Expect(display.Address).To(Equal("00:02.0"))
			Expect(display.Category).To(Equal(models.CategoryDisplay))
			Expect(display.Attributes).To(HaveKeyWithValue("driver", "i915"))
		})

		// Given a node on a non-PCI bus
		// When we parse it
		// Then the record should keep the raw bus info as an attribute
		It("should fall back to composite identity for non-PCI nodes", func() {
			// Act
			records, _ := parser.Parse([]byte(lshwTreeSample))

			// Assert
			cpu := records[1]
			Expect(cpu.Address).To(BeEmpty())
			Expect(cpu.Attributes).To(HaveKeyWithValue("bus info", "cpu@0"))
			Expect(cpu.Key()).To(ContainSubstring("intel"))
		})

		// Given an UNCLAIMED node marker
		// When we parse it
		// Then the record should carry the unclaimed state
		It("should record the unclaimed state", func() {
			// Act
			records, _ := parser.Parse([]byte(lshwTreeSample))

			// Assert
			nic := records[4]
			Expect(nic.Address).To(Equal("00:1f.6"))
			Expect(nic.Category).To(Equal(models.CategoryNetwork))
			Expect(nic.Attributes).To(HaveKeyWithValue("state", "unclaimed"))
		})
	})

	Context("Degenerate output", func() {
		// Given empty input
		// When we parse it
		// Then the parse should be empty
		It("should handle empty input", func() {
			// Act
			records, status := parser.Parse([]byte(""))

			// Assert
			Expect(records).To(BeEmpty())
			Expect(status.State).To(Equal(parsers.StateEmpty))
		})

		// Given only the hostname line
		// When we parse it
		// Then a single bare system record should be produced
		It("should produce a system record from a bare hostname", func() {
			// Act
			records, status := parser.Parse([]byte("workstation\n"))

			// Assert
			Expect(records).To(HaveLen(1))
			Expect(records[0].Class).To(Equal("system"))
			Expect(status.State).To(Equal(parsers.StateOK))
		})
	})
})
