package decoder

import (
	"encoding/binary"
	"fmt"

	"firestige.xyz/udex/internal/core"
)

// NMEA packet types carried by GPS packages.
const (
	NMEATypeGGA uint32 = iota
	NMEATypeGSA
	NMEATypeGSV
	NMEATypeRMC
	NMEATypeVTG
	NMEATypeGLL
)

// GPS package layout (little endian):
//
//	0  packet type  u32
//	4  service type u32
//	8  nmea sentence struct, size per packet type
const gpsHeaderLen = 8

var nmeaPacketSizes = map[uint32]uint64{
	NMEATypeGGA: 60,
	NMEATypeGSA: 40,
	NMEATypeGSV: 128,
	NMEATypeRMC: 62,
	NMEATypeVTG: 33,
	NMEATypeGLL: 31,
}

// NMEAVirtualAddress is the virtual address a GPS sentence type is published at.
func NMEAVirtualAddress(packetType uint32) uint64 {
	return (uint64(packetType) + 0x100) * 0x1000
}

func parseNMEA(body []byte) (uint32, []byte, error) {
	if len(body) < gpsHeaderLen {
		return 0, nil, core.ErrPackageTooShort
	}
	packetType := binary.LittleEndian.Uint32(body[0:4])
	size, ok := nmeaPacketSizes[packetType]
	if !ok {
		return 0, nil, fmt.Errorf("%w: %d", core.ErrNMEATypeUnknown, packetType)
	}
	if uint64(len(body)-gpsHeaderLen) < size {
		return 0, nil, fmt.Errorf("%w: nmea type %d needs %d bytes", core.ErrPackageTooShort, packetType, size)
	}
	return packetType, body[gpsHeaderLen : gpsHeaderLen+int(size)], nil
}

// decodeGPS publishes each NMEA sentence type at its own virtual address.
func decodeGPS(format core.PackageFormat, raw *core.RawPackage) (core.PackageIdentity, core.Payload) {
	id := raw.HeaderIdentity()

	packetType, data, err := parseNMEA(raw.Body())
	if err != nil {
		degrade(format, raw, "malformed_nmea", err)
		return id, core.Payload{}
	}
	id.VirtualAddress = NMEAVirtualAddress(packetType)
	return id, core.Payload{Offset: gpsHeaderLen, Size: uint64(len(data)), Data: data}
}
