package decoder

import (
	"firestige.xyz/udex/internal/core"
)

// pushProcessorPayloads emits one name-addressed sub-payload per URL of the
// processor that claims baseHash. Every entry shares the same bytes; the
// processor derives its values downstream. It reports whether a processor
// matched.
func pushProcessorPayloads(c *Cursor, tables *Tables, baseHash uint64, id core.PackageIdentity, payload core.Payload) bool {
	info, ok := tables.Processors[baseHash]
	if !ok || len(info.URLs) == 0 {
		return false
	}
	for _, url := range info.URLs {
		c.push(subPayload{
			payload:  payload,
			identity: id,
			name:     url,
			meta:     core.MetaTypeName,
		})
	}
	return true
}
