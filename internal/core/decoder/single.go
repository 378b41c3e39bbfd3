package decoder

import (
	"firestige.xyz/udex/internal/core"
	"firestige.xyz/udex/internal/log"
	"firestige.xyz/udex/internal/metrics"
)

// decodeSingle handles every format that carries exactly one payload per
// package. Formats without a dedicated layout, and unknown tags, are passed
// through opaquely with the header identity.
func decodeSingle(format core.PackageFormat, raw *core.RawPackage) Cursor {
	var (
		id      core.PackageIdentity
		payload core.Payload
	)
	switch format {
	case core.PackageFormatCAN:
		id, payload = decodeCAN(raw)
	case core.PackageFormatGPSGeneric, core.PackageFormatGPSNMEA:
		id, payload = decodeGPS(format, raw)
	case core.PackageFormatRTRange:
		id, payload = decodeRTRange(raw)
	default:
		id, payload = decodeOpaque(raw)
	}

	var c Cursor
	c.push(subPayload{payload: payload, identity: id, meta: core.MetaTypeInfo})
	return c
}

// decodeOpaque is used for reference camera packages and any format without
// multiplexing: header identity, whole body.
func decodeOpaque(raw *core.RawPackage) (core.PackageIdentity, core.Payload) {
	body := raw.Body()
	return raw.HeaderIdentity(), core.Payload{Size: uint64(len(body)), Data: body}
}

// degrade records a package that decoded to an empty or partial payload.
func degrade(format core.PackageFormat, raw *core.RawPackage, reason string, err error) {
	metrics.DegradedPackagesTotal.WithLabelValues(format.String(), reason).Inc()
	logger := log.GetLogger()
	if !logger.IsDebugEnabled() {
		return
	}
	logger.WithFields(map[string]interface{}{
		"format":    raw.FormatType,
		"source_id": raw.SourceID,
		"instance":  raw.InstanceNumber,
		"cycle_id":  raw.CycleID,
		"size":      raw.Size,
		"reason":    reason,
	}).WithError(err).Debug("package degraded")
}
