// Package decoder splits raw measurement packages into addressable
// sub-payloads.
//
// Every package format is decoded up front into a Cursor; a Package then only
// walks that cursor. Single-shot formats (CAN, GPS, RT-Range, reference
// camera and opaque formats) yield exactly one sub-payload, ECU software,
// ECU hardware and Ethernet packages may yield several.
package decoder

import (
	"firestige.xyz/udex/internal/core"
	"firestige.xyz/udex/internal/core/hash"
	"firestige.xyz/udex/internal/log"
	"firestige.xyz/udex/internal/metrics"
)

// Package is the decode state of one raw package. It borrows the raw buffer
// for its lifetime and is not safe for concurrent use.
type Package struct {
	raw    *core.RawPackage
	format core.PackageFormat
	valid  bool
	cursor Cursor
}

// NewPackage decodes raw with the side-tables learned at registration. A nil
// tables value behaves like an empty set.
func NewPackage(raw *core.RawPackage, tables *Tables) *Package {
	if tables == nil {
		tables = &Tables{}
	}
	p := &Package{
		raw:    raw,
		format: core.ParsePackageFormat(raw.FormatType),
		valid:  true,
	}
	metrics.DecodedPackagesTotal.WithLabelValues(p.format.String()).Inc()

	switch p.format {
	case core.PackageFormatMTASW:
		p.cursor = decodeSoftware(raw, tables)
	case core.PackageFormatMTAHW:
		p.cursor = decodeHardware(raw, tables)
	case core.PackageFormatEthernet:
		payload, err := transportPayload(raw.Body())
		if err != nil {
			// not measurement traffic
			p.valid = false
			log.GetLogger().WithField("source_id", raw.SourceID).WithError(err).Trace("ethernet package without transport payload")
			return p
		}
		p.cursor = decodeEthernet(raw, payload, tables)
	default:
		if p.format == core.PackageFormatUnknown {
			log.GetLogger().WithField("format", raw.FormatType).Debug("unknown package format, passing through")
		}
		p.cursor = decodeSingle(p.format, raw)
	}
	return p
}

// Valid is false for packages the caller must discard without further calls.
func (p *Package) Valid() bool {
	return p.valid
}

// Format is the decoded package format.
func (p *Package) Format() core.PackageFormat {
	return p.format
}

// PayloadAvailable reports whether GetPayload will return another sub-payload.
func (p *Package) PayloadAvailable() bool {
	return p.valid && p.cursor.Available()
}

// GetPayload returns the current sub-payload and advances. Once exhausted it
// returns an empty payload.
func (p *Package) GetPayload() core.Payload {
	sp, ok := p.cursor.next()
	if !ok {
		return core.Payload{}
	}
	metrics.SubPayloadsTotal.WithLabelValues(p.format.String(), sp.meta.String()).Inc()
	return sp.payload
}

// GetMetaInfo returns the identity of the current sub-payload, or of the
// first one once the package is exhausted.
func (p *Package) GetMetaInfo() core.PackageIdentity {
	return p.cursor.peek().identity
}

// GetMetaType tells whether the current sub-payload is addressed by name or
// by fingerprint.
func (p *Package) GetMetaType() core.MetaType {
	if !p.cursor.Available() {
		return core.MetaTypeInfo
	}
	return p.cursor.peek().meta
}

// GetPackageName is the processor URL of the current sub-payload. It is empty
// unless GetMetaType returns core.MetaTypeName.
func (p *Package) GetPackageName() string {
	if !p.cursor.Available() {
		return ""
	}
	return p.cursor.peek().name
}

// GetSize is the byte length of the current sub-payload, or of the first one
// once exhausted.
func (p *Package) GetSize() uint64 {
	return p.cursor.peek().payload.Size
}

// Hash is the fingerprint of the current sub-payload identity.
func (p *Package) Hash() uint64 {
	return hash.Hash(p.GetMetaInfo())
}

// ResetPayloads rewinds to the first sub-payload.
func (p *Package) ResetPayloads() bool {
	if !p.valid {
		return false
	}
	p.cursor.Reset()
	return true
}

// Len is the number of sub-payloads the package decoded into.
func (p *Package) Len() int {
	return p.cursor.Len()
}
