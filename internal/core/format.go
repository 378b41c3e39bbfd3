package core

import (
	"fmt"
	"strings"
)

// PackageFormat is the closed set of package formats understood by the decoders.
type PackageFormat uint8

const (
	PackageFormatUnknown PackageFormat = iota
	PackageFormatTimebase
	PackageFormatGPSGeneric
	PackageFormatGPSNMEA
	PackageFormatCAN
	PackageFormatFlexray
	PackageFormatRefcam
	PackageFormatEthernet
	PackageFormatIbeo
	PackageFormatCT4
	PackageFormatXCP
	PackageFormatRTRange
	PackageFormatMTA
	PackageFormatMTASW
	PackageFormatMTAHW
)

var packageFormatTags = map[string]PackageFormat{
	"mts.timebase":    PackageFormatTimebase,
	"mts.gps.generic": PackageFormatGPSGeneric,
	"mts.gps.nmea":    PackageFormatGPSNMEA,
	"mts.can":         PackageFormatCAN,
	"mts.flexray":     PackageFormatFlexray,
	"mts.refcam":      PackageFormatRefcam,
	"mts.eth":         PackageFormatEthernet,
	"mts.ibeo":        PackageFormatIbeo,
	"mts.ct4":         PackageFormatCT4,
	"mts.xcp":         PackageFormatXCP,
	"mts.rtrange":     PackageFormatRTRange,
	"mts.eth.rtrange": PackageFormatRTRange,
	"mts.mta":         PackageFormatMTA,
	"mts.mta.sw":      PackageFormatMTASW,
	"mts.mta.hw":      PackageFormatMTAHW,
}

var packageFormatNames = map[PackageFormat]string{
	PackageFormatUnknown:    "unknown",
	PackageFormatTimebase:   "mts.timebase",
	PackageFormatGPSGeneric: "mts.gps.generic",
	PackageFormatGPSNMEA:    "mts.gps.nmea",
	PackageFormatCAN:        "mts.can",
	PackageFormatFlexray:    "mts.flexray",
	PackageFormatRefcam:     "mts.refcam",
	PackageFormatEthernet:   "mts.eth",
	PackageFormatIbeo:       "mts.ibeo",
	PackageFormatCT4:        "mts.ct4",
	PackageFormatXCP:        "mts.xcp",
	PackageFormatRTRange:    "mts.rtrange",
	PackageFormatMTA:        "mts.mta",
	PackageFormatMTASW:      "mts.mta.sw",
	PackageFormatMTAHW:      "mts.mta.hw",
}

// ParsePackageFormat maps a package format tag to its enum value.
// Unrecognised tags map to PackageFormatUnknown.
func ParsePackageFormat(tag string) PackageFormat {
	if f, ok := packageFormatTags[tag]; ok {
		return f
	}
	return PackageFormatUnknown
}

func (f PackageFormat) String() string {
	if name, ok := packageFormatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", uint8(f))
}

// IsMTA reports whether the format carries ECU telemetry groups addressed by
// virtual address.
func (f PackageFormat) IsMTA() bool {
	return f == PackageFormatMTA || f == PackageFormatMTASW || f == PackageFormatMTAHW
}

// IsEthernet reports whether a format identifier names Ethernet traffic.
func IsEthernet(formatIdentifier string) bool {
	return strings.Contains(formatIdentifier, "eth")
}

// DescriptionFormat identifies the type of a data description file.
type DescriptionFormat uint8

const (
	DescriptionFormatSDL DescriptionFormat = iota
	DescriptionFormatCDL
	DescriptionFormatDBC
	DescriptionFormatSWC
	DescriptionFormatFIBEX
	DescriptionFormatGPSSDL
	DescriptionFormatSWContainer
	DescriptionFormatReferenceCameraSDL
	DescriptionFormatHWData
	DescriptionFormatARXML
)

var descriptionFormatNames = []string{
	DescriptionFormatSDL:                "sdl",
	DescriptionFormatCDL:                "cdl",
	DescriptionFormatDBC:                "dbc",
	DescriptionFormatSWC:                "swc",
	DescriptionFormatFIBEX:              "fibex",
	DescriptionFormatGPSSDL:             "gps-sdl",
	DescriptionFormatSWContainer:        "sw_container",
	DescriptionFormatReferenceCameraSDL: "reference-camera-sdl",
	DescriptionFormatHWData:             "hw_data",
	DescriptionFormatARXML:              "arxml",
}

// ParseDescriptionFormat maps a description format name (case-insensitive)
// to its enum value.
func ParseDescriptionFormat(name string) (DescriptionFormat, error) {
	lower := strings.ToLower(strings.TrimSpace(name))
	for i, n := range descriptionFormatNames {
		if n == lower {
			return DescriptionFormat(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDescriptionFormat, name)
}

func (f DescriptionFormat) String() string {
	if int(f) < len(descriptionFormatNames) {
		return descriptionFormatNames[f]
	}
	return fmt.Sprintf("unknown(%d)", uint8(f))
}

// IsSDLFamily reports whether the description uses the SDL XML layout.
func (f DescriptionFormat) IsSDLFamily() bool {
	switch f {
	case DescriptionFormatSDL, DescriptionFormatCDL, DescriptionFormatSWC,
		DescriptionFormatGPSSDL, DescriptionFormatSWContainer,
		DescriptionFormatReferenceCameraSDL, DescriptionFormatHWData:
		return true
	}
	return false
}

// EthernetFileType selects how message ids of an Ethernet description are split.
type EthernetFileType uint8

const (
	EthernetFileNone EthernetFileType = iota
	EthernetFileFIBEX
	EthernetFileARXML
)

func (t EthernetFileType) String() string {
	switch t {
	case EthernetFileFIBEX:
		return "fibex"
	case EthernetFileARXML:
		return "arxml"
	default:
		return "none"
	}
}
