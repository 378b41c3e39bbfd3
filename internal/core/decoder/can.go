package decoder

import (
	"encoding/binary"
	"fmt"

	"firestige.xyz/udex/internal/core"
)

// CAN frame layout inside a package body (little endian):
//
//	0  id       u32
//	4  dlc      u8 (low nibble)
//	5  flags    u8 (ide, dir, srr, edl, brs, esi)
//	6  reserved u16
//	8  data     [dlcLength(dlc)]byte
const canHeaderLen = 8

var dlcLengths = [16]uint64{0, 1, 2, 3, 4, 5, 6, 7, 8, 12, 16, 20, 24, 32, 48, 64}

// DLCLength maps a CAN (FD) data length code to a byte count. Codes outside
// 0..15 map to 0.
func DLCLength(dlc uint8) uint64 {
	if int(dlc) >= len(dlcLengths) {
		return 0
	}
	return dlcLengths[dlc]
}

// canFrame is the parsed CAN frame header.
type canFrame struct {
	id   uint32
	dlc  uint8
	data []byte
}

func parseCANFrame(body []byte) (canFrame, error) {
	if len(body) < canHeaderLen {
		return canFrame{}, core.ErrPackageTooShort
	}
	f := canFrame{
		id:  binary.LittleEndian.Uint32(body[0:4]),
		dlc: body[4] & 0x0F,
	}
	n := DLCLength(f.dlc)
	if uint64(len(body)-canHeaderLen) < n {
		return canFrame{}, fmt.Errorf("%w: dlc %d needs %d bytes, have %d",
			core.ErrPackageTooShort, f.dlc, n, len(body)-canHeaderLen)
	}
	f.data = body[canHeaderLen : canHeaderLen+int(n)]
	return f, nil
}

// decodeCAN keys the frame by its CAN id. A frame that cannot be parsed keeps
// cycle id 0 and yields an empty payload.
func decodeCAN(raw *core.RawPackage) (core.PackageIdentity, core.Payload) {
	id := raw.HeaderIdentity()
	id.CycleID = 0

	frame, err := parseCANFrame(raw.Body())
	if err != nil {
		degrade(core.PackageFormatCAN, raw, "malformed_frame", err)
		return id, core.Payload{}
	}
	id.CycleID = frame.id
	return id, core.Payload{Offset: canHeaderLen, Size: uint64(len(frame.data)), Data: frame.data}
}
