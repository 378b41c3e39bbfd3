package extractor

// Extractor answers structural queries over registered data descriptions.
// Implementations must be safe for concurrent readers.
type Extractor interface {
	// RootNodes returns the view nodes of a data source in registration
	// order.
	RootNodes(sourceName string) ([]Node, error)
	// NodeChildren returns the direct children of a node.
	NodeChildren(id NodeID) ([]Node, error)
	// NodeAncestors returns the node followed by its ancestors, the root
	// view last.
	NodeAncestors(id NodeID) ([]Node, error)
	// RegisterSourceWithDataDescription parses the description and attaches
	// its views to the data source. It returns the signatures of the
	// descriptions now registered for that source; an empty description
	// registers the source with no signature.
	RegisterSourceWithDataDescription(desc Description) ([]string, error)
	// TypeSchema renders the type schema of the group or structure at url.
	TypeSchema(url string, opts SchemaOptions) (string, error)
	// UnregisterSources drops every registered source and node.
	UnregisterSources()
}

// ProcessorFormat is one package stream a processor consumes.
type ProcessorFormat struct {
	SourceID         uint16
	FormatIdentifier string
	CycleID          uint32
	VirtualAddress   uint64
}

// ProcessorPort is one signal a processor publishes and the input it is
// derived from.
type ProcessorPort struct {
	Name                string
	InputCycleID        uint32
	InputVirtualAddress uint64
}

// DataProcessor produces virtual signals from raw package streams.
type DataProcessor interface {
	Name() string
	SupportedFormats() []ProcessorFormat
	SupportedPorts() []ProcessorPort
}
