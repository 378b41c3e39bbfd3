package decoder

import "firestige.xyz/udex/internal/core"

// ProcessorInfo lists the URLs a processor publishes for one raw package stream.
type ProcessorInfo struct {
	URLs          []string
	PackageFormat string
}

// Tables are the side-tables learned during description registration. The
// zero value is a valid empty set: every lookup misses.
//
// Tables are written on the registration path and only read while decoding;
// callers serialize registration against in-flight decodes.
type Tables struct {
	// Sizes maps a group fingerprint to its payload length.
	Sizes map[uint64]uint64
	// NextAddresses maps a group fingerprint to the virtual address of the
	// group that follows it in the same software package.
	NextAddresses map[uint64]uint64
	// Services maps an Ethernet service id to its wire framing.
	Services map[uint16]core.ServiceInfo
	// Processors maps a base package fingerprint to processor outputs.
	Processors map[uint64]ProcessorInfo
}

// NewTables returns an empty, writable set of tables.
func NewTables() *Tables {
	return &Tables{
		Sizes:         make(map[uint64]uint64),
		NextAddresses: make(map[uint64]uint64),
		Services:      make(map[uint16]core.ServiceInfo),
		Processors:    make(map[uint64]ProcessorInfo),
	}
}

// Reset drops every learned entry.
func (t *Tables) Reset() {
	clear(t.Sizes)
	clear(t.NextAddresses)
	clear(t.Services)
	clear(t.Processors)
}
