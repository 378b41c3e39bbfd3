// Package core defines sentinel errors.
package core

import "errors"

// Sentinel errors shared by the decode and registration paths.
var (
	// Package decoding errors
	ErrPackageTooShort  = errors.New("udex: package too short")
	ErrUnknownFormat    = errors.New("udex: unknown package format")
	ErrUnknownAddress   = errors.New("udex: unknown virtual address")
	ErrDLCOutOfRange    = errors.New("udex: dlc out of range")
	ErrNMEATypeUnknown  = errors.New("udex: unknown nmea packet type")
	ErrNoTransportLayer = errors.New("udex: no transport payload")

	// Description registration errors
	ErrUnknownDescriptionFormat = errors.New("udex: unknown description format")
	ErrEmptyDescription         = errors.New("udex: empty description")
	ErrSourceNotFound           = errors.New("udex: data source not found")
	ErrNodeNotFound             = errors.New("udex: node not found")
	ErrSchemaValidation         = errors.New("udex: schema validation failed")

	// Lifecycle errors
	ErrNotInitialized = errors.New("udex: hash manager not initialized")

	// Configuration errors
	ErrConfigInvalid = errors.New("udex: invalid configuration")
)
