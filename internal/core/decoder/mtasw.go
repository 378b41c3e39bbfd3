package decoder

import (
	"encoding/binary"

	"firestige.xyz/udex/internal/core"
	"firestige.xyz/udex/internal/core/hash"
)

// ECU software package layout (little endian):
//
//	0   address        u32  virtual address of the first group
//	4   control/length u32  bits 0-23 content length, bits 24-31 packet counter
//	8   task id        u16
//	10  task counter   u8
//	11  control flags  u8
//	12  extension      u32
//	16  content
const (
	softwareHeaderLen     = 12
	softwareExtensionLen  = 4
	softwarePayloadOffset = softwareHeaderLen + softwareExtensionLen
	softwareLengthMask    = 0x00FFFFFF
	softwareGroupAlign    = 8
)

type softwareHeader struct {
	address     uint32
	length      uint32
	taskID      uint16
	taskCounter uint8
	control     uint8
}

func parseSoftwareHeader(data []byte) (softwareHeader, error) {
	if len(data) < softwareHeaderLen {
		return softwareHeader{}, core.ErrPackageTooShort
	}
	return softwareHeader{
		address:     binary.LittleEndian.Uint32(data[0:4]),
		length:      binary.LittleEndian.Uint32(data[4:8]) & softwareLengthMask,
		taskID:      binary.LittleEndian.Uint16(data[8:10]),
		taskCounter: data[10],
		control:     data[11],
	}, nil
}

func alignUp(n, align uint64) uint64 {
	return (n + align - 1) / align * align
}

// decodeSoftware splits an ECU software package into its groups. The first
// group sits at the header address; following groups are found through the
// next-address chain learned from the description. Without a size entry the
// whole content is one group.
func decodeSoftware(raw *core.RawPackage, tables *Tables) Cursor {
	var c Cursor
	id := raw.HeaderIdentity()

	// The header is read from the buffer even when the declared size is zero
	// so the package keeps its address identity.
	hdr, err := parseSoftwareHeader(raw.Data)
	if err != nil {
		degrade(core.PackageFormatMTASW, raw, "short_header", err)
		c.push(subPayload{identity: id, meta: core.MetaTypeInfo})
		return c
	}
	id.VirtualAddress = uint64(hdr.address)

	var content []byte
	if body := raw.Body(); len(body) > softwarePayloadOffset {
		content = body[softwarePayloadOffset:]
	}
	total := uint64(hdr.length)
	if total > uint64(len(content)) {
		if raw.Size != 0 {
			degrade(core.PackageFormatMTASW, raw, "truncated_content", core.ErrPackageTooShort)
		}
		total = uint64(len(content))
	}
	content = content[:total]

	baseHash := hash.Hash(id)
	pushProcessorPayloads(&c, tables, baseHash, id, core.Payload{Size: total, Data: content})

	groupSize, ok := tables.Sizes[baseHash]
	if !ok || groupSize >= total {
		groupSize = total
	}
	groupSize = alignUp(groupSize, softwareGroupAlign)
	if groupSize >= total {
		c.push(subPayload{payload: core.Payload{Size: total, Data: content}, identity: id, meta: core.MetaTypeInfo})
		return c
	}

	c.push(subPayload{payload: core.Payload{Size: groupSize, Data: content[:groupSize]}, identity: id, meta: core.MetaTypeInfo})
	walkAddressChain(&c, tables, id, baseHash, content)
	return c
}

// walkAddressChain appends the groups that follow the base group. The walk
// ends when the chain has no successor, leaves the content or stops moving
// forward. A successor with no known size ends it too, and the last group
// then takes the remaining bytes.
func walkAddressChain(c *Cursor, tables *Tables, base core.PackageIdentity, baseHash uint64, content []byte) {
	total := uint64(len(content))
	current := baseHash

	for {
		next, ok := tables.NextAddresses[current]
		if !ok {
			return
		}

		last := c.last()
		offset := next - base.VirtualAddress
		if offset == 0 {
			// chain wrapped to the base group
			absorbRemaining(last, content)
			return
		}
		if offset >= total {
			if c.infoCount() == 1 {
				last.payload.Size = total
				last.payload.Data = content
			}
			return
		}
		if offset <= last.payload.Offset {
			return
		}

		id := base
		id.VirtualAddress = next
		h := hash.Hash(id)
		size, ok := tables.Sizes[h]
		if !ok {
			absorbRemaining(last, content)
			return
		}
		if offset < last.payload.Offset+last.payload.Size {
			// the previous group ends where this one starts
			last.payload.Size = offset - last.payload.Offset
			last.payload.Data = content[last.payload.Offset:offset]
		}
		if size > total-offset {
			size = total - offset
		}
		c.push(subPayload{
			payload:  core.Payload{Offset: offset, Size: size, Data: content[offset : offset+size]},
			identity: id,
			meta:     core.MetaTypeInfo,
		})
		current = h
	}
}

// absorbRemaining extends sp to the end of content.
func absorbRemaining(sp *subPayload, content []byte) {
	sp.payload.Size = uint64(len(content)) - sp.payload.Offset
	sp.payload.Data = content[sp.payload.Offset:]
}
