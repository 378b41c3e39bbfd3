// Package core defines the package identity model shared by decoders and the
// hash manager. It has zero external dependencies.
package core

import "fmt"

// Well-known data source ids of the measurement framework.
const (
	SourceIDSimVFB             uint16 = 87
	SourceIDReferenceGPS       uint16 = 575
	SourceIDVehicleBusCAN      uint16 = 783
	SourceIDVehicleBusEthernet uint16 = 1551
	SourceIDReferenceCamera    uint16 = 2063
)

// PackageIdentity is the universal identity tuple of a package or sub-payload.
// Ethernet sub-payloads use ServiceID/MethodID, everything else CycleID/VirtualAddress.
type PackageIdentity struct {
	SourceID       uint16
	InstanceNumber uint32
	CycleID        uint32
	VirtualAddress uint64
	ServiceID      uint16
	MethodID       uint32
}

func (id PackageIdentity) String() string {
	return fmt.Sprintf("src=%d inst=%d cycle=%d vaddr=0x%X svc=0x%X method=0x%X",
		id.SourceID, id.InstanceNumber, id.CycleID, id.VirtualAddress, id.ServiceID, id.MethodID)
}

// MetaType tells a consumer how the current sub-payload is addressed.
type MetaType uint8

const (
	// MetaTypeInfo addresses the sub-payload by the fingerprint of its identity.
	MetaTypeInfo MetaType = iota
	// MetaTypeName addresses the sub-payload by a processor-assigned URL.
	MetaTypeName
)

func (m MetaType) String() string {
	switch m {
	case MetaTypeInfo:
		return "info"
	case MetaTypeName:
		return "name"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(m))
	}
}

// Payload is one decoded sub-payload. Data aliases the raw package buffer.
type Payload struct {
	Offset uint64
	Size   uint64
	Data   []byte
}

// Empty reports whether the payload carries no bytes.
func (p Payload) Empty() bool {
	return p.Size == 0 || len(p.Data) == 0
}

// ServiceInfo describes how an Ethernet service is serialized on the wire.
type ServiceInfo struct {
	Technology       SerializationTechnology
	InterfaceVersion uint8
	ProtocolVersion  uint8
}

// SerializationTechnology selects the header that frames an Ethernet sub-payload.
type SerializationTechnology uint8

const (
	SerializationUnknown SerializationTechnology = iota
	SerializationSOMEIP
	SerializationAUTOSAR
)

// ParseSerializationTechnology maps a description attribute to a technology.
func ParseSerializationTechnology(name string) SerializationTechnology {
	switch name {
	case "SOMEIP", "SOME/IP", "someip", "some/ip":
		return SerializationSOMEIP
	case "AUTOSAR", "autosar", "SOAD", "soad":
		return SerializationAUTOSAR
	default:
		return SerializationUnknown
	}
}

func (s SerializationTechnology) String() string {
	switch s {
	case SerializationSOMEIP:
		return "SOMEIP"
	case SerializationAUTOSAR:
		return "AUTOSAR"
	default:
		return "UNKNOWN"
	}
}
