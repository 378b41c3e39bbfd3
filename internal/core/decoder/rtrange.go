package decoder

import (
	"encoding/binary"
	"fmt"

	"firestige.xyz/udex/internal/core"
)

// Virtual addresses of the RT-Range packet variants.
const (
	RTRangeAddressRCOM         uint64 = 0x52434F4D
	RTRangeAddressNCOMHunter   uint64 = 0x4E434F4D
	RTRangeAddressNCOMTarget01 uint64 = 0x4E434F31
	RTRangeAddressNCOMTarget02 uint64 = 0x4E434F32
	RTRangeAddressNCOMTarget03 uint64 = 0x4E434F33
	RTRangeAddressNCOMTarget04 uint64 = 0x4E434F34
)

// RT-Range package layout (little endian):
//
//	0  address  u32
//	4  reserved u32
//	8  packet   RCOM or NCOM struct
const (
	rtRangeHeaderLen = 8
	rcomPacketSize   = 64
	ncomPacketSize   = 72
)

var rtRangePacketSizes = map[uint64]uint64{
	RTRangeAddressRCOM:         rcomPacketSize,
	RTRangeAddressNCOMHunter:   ncomPacketSize,
	RTRangeAddressNCOMTarget01: ncomPacketSize,
	RTRangeAddressNCOMTarget02: ncomPacketSize,
	RTRangeAddressNCOMTarget03: ncomPacketSize,
	RTRangeAddressNCOMTarget04: ncomPacketSize,
}

// RTRangePacketSize returns the struct size of the variant at address, or 0
// for an unknown address.
func RTRangePacketSize(address uint64) uint64 {
	return rtRangePacketSizes[address]
}

// decodeRTRange selects the RCOM or NCOM variant from the packet address.
func decodeRTRange(raw *core.RawPackage) (core.PackageIdentity, core.Payload) {
	id := raw.HeaderIdentity()
	body := raw.Body()
	if len(body) < rtRangeHeaderLen {
		degrade(core.PackageFormatRTRange, raw, "short_header", core.ErrPackageTooShort)
		return id, core.Payload{}
	}

	address := uint64(binary.LittleEndian.Uint32(body[0:4]))
	id.VirtualAddress = address

	size := RTRangePacketSize(address)
	if size == 0 {
		degrade(core.PackageFormatRTRange, raw, "unknown_address",
			fmt.Errorf("%w: 0x%X", core.ErrUnknownAddress, address))
		return id, core.Payload{}
	}
	if uint64(len(body)-rtRangeHeaderLen) < size {
		degrade(core.PackageFormatRTRange, raw, "short_packet", core.ErrPackageTooShort)
		return id, core.Payload{}
	}
	data := body[rtRangeHeaderLen : rtRangeHeaderLen+int(size)]
	return id, core.Payload{Offset: rtRangeHeaderLen, Size: size, Data: data}
}
