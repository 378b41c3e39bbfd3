package core

// Cycle state bits carried in a package header.
const (
	CycleStateNoCycle uint8 = 0x00
	CycleStateStart   uint8 = 0x01
	CycleStateEnd     uint8 = 0x02
	CycleStateBody    uint8 = 0x04
)

// RawPackage is one wire record as delivered by the replay layer. The buffer is
// borrowed for the duration of one decode pass and never modified.
type RawPackage struct {
	SourceID           uint16
	InstanceNumber     uint32
	CycleID            uint32
	CycleState         uint8
	ReferenceTimestamp uint64
	Size               uint64
	FormatType         string // package format tag, e.g. "mts.mta.sw"
	Data               []byte
}

// Body returns the declared package bytes, bounded by the buffer length.
func (p *RawPackage) Body() []byte {
	n := p.Size
	if n > uint64(len(p.Data)) {
		n = uint64(len(p.Data))
	}
	return p.Data[:n]
}

// HeaderIdentity is the identity carried directly in the package header.
func (p *RawPackage) HeaderIdentity() PackageIdentity {
	return PackageIdentity{
		SourceID:       p.SourceID,
		InstanceNumber: p.InstanceNumber,
		CycleID:        p.CycleID,
	}
}
