// Package extractor stores parsed data descriptions as a tree of views,
// groups and signals and answers the structural queries the hash manager
// and the schema tooling need.
package extractor

import (
	"fmt"

	"firestige.xyz/udex/internal/core"
)

// NodeID identifies a node inside one extractor. Zero is never assigned.
type NodeID uint64

// NodeType is the level of a node in a description tree.
type NodeType uint8

const (
	NodeTypeView NodeType = iota + 1
	NodeTypeGroup
	NodeTypeSignal
)

func (t NodeType) String() string {
	switch t {
	case NodeTypeView:
		return "view"
	case NodeTypeGroup:
		return "group"
	case NodeTypeSignal:
		return "signal"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

// Serialization is the wire framing declared for an Ethernet service or PDU.
type Serialization struct {
	Technology core.SerializationTechnology
	Version    uint8
}

// ViewInfo is set on view nodes.
type ViewInfo struct {
	CycleID          uint32
	ServiceID        uint16
	InterfaceVersion uint8
	FileType         core.EthernetFileType
	Serialization    Serialization
}

// GroupInfo is set on group nodes.
type GroupInfo struct {
	Address          uint64
	CycleID          uint32
	Size             uint64
	ArrayLength      uint64
	MessageID        uint32
	InterfaceVersion uint8
	Serialization    Serialization
}

// SignalInfo is set on signal nodes. A signal with children is a nested
// structure. Offset and Size are in bytes; bus signals also carry their bit
// position.
type SignalInfo struct {
	Offset      uint64
	Size        uint64
	BitOffset   uint32
	BitLength   uint32
	Type        string
	ByteOrder   string
	ArrayLength uint64
}

// Node is one element of a registered description. Path is the dotted name
// below the data source, e.g. "AlgoVehCycle.VehDyn".
type Node struct {
	ID            NodeID
	Name          string
	Path          string
	Type          NodeType
	ChildrenCount int

	View   ViewInfo
	Group  GroupInfo
	Signal SignalInfo
}

// Description is a data description handed to the extractor together with
// the data source it describes.
type Description struct {
	SourceName       string
	SourceID         uint16
	Instance         uint32
	FormatIdentifier string
	FileName         string
	Format           core.DescriptionFormat
	Data             []byte
}

// SchemaOptions control TypeSchema output.
type SchemaOptions struct {
	// IgnoreErrors emits a schema even when members overlap the struct
	// bounds or use unknown types.
	IgnoreErrors bool
	// Annotate adds measurement information (url, address, cycle) to the
	// top level struct.
	Annotate bool
	// PrettyPrint indents the JSON document.
	PrettyPrint bool
}

// draft is a node under construction, before ids and paths are assigned.
type draft struct {
	node     Node
	children []*draft
}

func (d *draft) add(child *draft) *draft {
	d.children = append(d.children, child)
	return child
}
