package decoder

import (
	"encoding/binary"

	"firestige.xyz/udex/internal/core"
)

// Sub-frame headers inside an Ethernet transport payload (big endian).
//
// AUTOSAR socket adaptor header:
//
//	0  service id  u16
//	2  method id   u16
//	4  length      u32  bytes following the header
//
// SOME/IP header:
//
//	0  service id        u16
//	2  method id         u16
//	4  length            u32  bytes following this field
//	8  client id         u16
//	10 session id        u16
//	12 protocol version  u8
//	13 interface version u8
//	14 message type      u8
//	15 return code       u8
const (
	autosarHeaderLen = 8
	someIPHeaderLen  = 16
	// SOME/IP length counts the 8 header bytes after the length field.
	someIPLengthAdjust = 8
)

type subFrameHeader struct {
	serviceID uint16
	methodID  uint16
	length    uint32
}

func parseSubFrameHeader(b []byte) subFrameHeader {
	return subFrameHeader{
		serviceID: binary.BigEndian.Uint16(b[0:2]),
		methodID:  binary.BigEndian.Uint16(b[2:4]),
		length:    binary.BigEndian.Uint32(b[4:8]),
	}
}

// decodeEthernet walks the SOME/IP or AUTOSAR sub-frames of a transport
// payload. The walk stops at the first sub-frame it cannot frame: an unknown
// service, a version mismatch or a length past the end. The stream cannot be
// resynchronised without a valid header, so the rest is dropped.
func decodeEthernet(raw *core.RawPackage, payload []byte, tables *Tables) Cursor {
	var c Cursor
	base := raw.HeaderIdentity()
	base.CycleID = 0

	pos := 0
	for len(payload)-pos >= autosarHeaderLen {
		remaining := len(payload) - pos
		hdr := parseSubFrameHeader(payload[pos:])
		if uint64(hdr.length) > uint64(remaining) {
			degrade(core.PackageFormatEthernet, raw, "length_overrun", core.ErrPackageTooShort)
			break
		}

		info, ok := tables.Services[hdr.serviceID]
		if !ok {
			break
		}

		var headerLen int
		dataLen := uint64(hdr.length)
		switch info.Technology {
		case core.SerializationAUTOSAR:
			headerLen = autosarHeaderLen
		case core.SerializationSOMEIP:
			if remaining < someIPHeaderLen || dataLen < someIPLengthAdjust {
				degrade(core.PackageFormatEthernet, raw, "short_someip_header", core.ErrPackageTooShort)
				return c
			}
			protocolVersion := payload[pos+12]
			interfaceVersion := payload[pos+13]
			if protocolVersion != info.ProtocolVersion && interfaceVersion != info.InterfaceVersion {
				degrade(core.PackageFormatEthernet, raw, "version_mismatch", nil)
				return c
			}
			headerLen = someIPHeaderLen
			dataLen -= someIPLengthAdjust
		default:
			return c
		}

		start := uint64(pos + headerLen)
		if start+dataLen > uint64(len(payload)) {
			degrade(core.PackageFormatEthernet, raw, "length_overrun", core.ErrPackageTooShort)
			break
		}

		id := base
		id.ServiceID = hdr.serviceID
		id.MethodID = uint32(hdr.methodID)
		c.push(subPayload{
			payload:  core.Payload{Offset: start, Size: dataLen, Data: payload[start : start+dataLen]},
			identity: id,
			meta:     core.MetaTypeInfo,
		})
		pos = int(start + dataLen)
	}
	return c
}
