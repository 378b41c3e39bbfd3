package decoder

import "firestige.xyz/udex/internal/core"

// subPayload is one entry of a decoded package.
type subPayload struct {
	payload  core.Payload
	identity core.PackageIdentity
	name     string // processor URL, set for core.MetaTypeName
	meta     core.MetaType
}

// Cursor walks the sub-payloads of one package. It is owned by a single
// Package and never shared.
type Cursor struct {
	position    int
	subpayloads []subPayload
}

func (c *Cursor) push(sp subPayload) {
	c.subpayloads = append(c.subpayloads, sp)
}

// Available reports whether a sub-payload remains.
func (c *Cursor) Available() bool {
	return c.position < len(c.subpayloads)
}

// Len is the number of sub-payloads in the package.
func (c *Cursor) Len() int {
	return len(c.subpayloads)
}

// Position is the index of the next sub-payload.
func (c *Cursor) Position() int {
	return c.position
}

// peek returns the current sub-payload, the first one once exhausted, or the
// zero value for an empty cursor.
func (c *Cursor) peek() subPayload {
	if c.Available() {
		return c.subpayloads[c.position]
	}
	if len(c.subpayloads) > 0 {
		return c.subpayloads[0]
	}
	return subPayload{}
}

// next returns the current sub-payload and advances. Past the end it returns
// false and leaves the cursor exhausted.
func (c *Cursor) next() (subPayload, bool) {
	if !c.Available() {
		return subPayload{}, false
	}
	sp := c.subpayloads[c.position]
	c.position++
	return sp, true
}

// Reset rewinds to the first sub-payload without decoding again.
func (c *Cursor) Reset() {
	c.position = 0
}

// last returns the most recently pushed sub-payload.
func (c *Cursor) last() *subPayload {
	if len(c.subpayloads) == 0 {
		return nil
	}
	return &c.subpayloads[len(c.subpayloads)-1]
}

// infoCount is the number of sub-payloads addressed by fingerprint.
func (c *Cursor) infoCount() int {
	n := 0
	for _, sp := range c.subpayloads {
		if sp.meta == core.MetaTypeInfo {
			n++
		}
	}
	return n
}
