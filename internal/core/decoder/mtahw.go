package decoder

import (
	"firestige.xyz/udex/internal/core"
	"firestige.xyz/udex/internal/core/hash"
)

// decodeHardware publishes an ECU hardware package as one group at virtual
// address 0. Hardware packages share the software header shape but are not
// split along the address chain.
func decodeHardware(raw *core.RawPackage, tables *Tables) Cursor {
	var c Cursor
	id := raw.HeaderIdentity()
	body := raw.Body()
	payload := core.Payload{Size: uint64(len(body)), Data: body}

	if pushProcessorPayloads(&c, tables, hash.Hash(id), id, payload) {
		return c
	}
	c.push(subPayload{payload: payload, identity: id, meta: core.MetaTypeInfo})
	return c
}
