package hashmanager

import (
	"fmt"
	"os"
	"slices"
	"sync"

	"firestige.xyz/udex/internal/config"
	"firestige.xyz/udex/internal/core"
	"firestige.xyz/udex/internal/core/decoder"
	"firestige.xyz/udex/internal/extractor"
	"firestige.xyz/udex/internal/log"
)

// Data source used until SetDataSourceInfo is called.
const (
	DefaultDataSourceName   = "SIM VFB"
	DefaultSourceID         = core.SourceIDSimVFB
	DefaultInstanceNumber   = 37
	DefaultFormatIdentifier = "mts.mta"

	canFormatIdentifier      = "mts.can"
	ethernetFormatIdentifier = "mts.eth"
)

// DefaultDataSource is the simulation data source.
var DefaultDataSource = DataSource{
	Name:             DefaultDataSourceName,
	SourceID:         DefaultSourceID,
	Instance:         DefaultInstanceNumber,
	FormatIdentifier: DefaultFormatIdentifier,
}

// CoreLib registers data descriptions for one data source at a time and
// keeps the hash tables and decoder side-tables built from them.
type CoreLib struct {
	mu         sync.Mutex
	defaults   DataSource
	source     DataSource
	extractor  extractor.Extractor
	processors []extractor.DataProcessor
	manager    *HashManager
	tables     *decoder.Tables
	// registered lists every source a description was registered for, in
	// registration order; signatures holds the last signatures per source.
	registered []DataSource
	signatures map[string][]string
}

// NewCoreLib returns an uninitialized CoreLib. A zero defaults value selects
// DefaultDataSource.
func NewCoreLib(defaults DataSource, processors []extractor.DataProcessor) *CoreLib {
	if defaults.Name == "" {
		defaults = DefaultDataSource
	}
	return &CoreLib{
		defaults:   defaults,
		source:     defaults,
		processors: processors,
		manager:    NewHashManager(),
		tables:     decoder.NewTables(),
		signatures: make(map[string][]string),
	}
}

// NewCoreLibFromConfig builds a CoreLib for the configured data source and
// static processors.
func NewCoreLibFromConfig(cfg *config.GlobalConfig) (*CoreLib, error) {
	registry, err := extractor.NewProcessorRegistryFromConfig(cfg.Processors)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrConfigInvalid, err)
	}
	ds := DataSource{
		Name:             cfg.DataSource.Name,
		SourceID:         cfg.DataSource.SourceID,
		Instance:         cfg.DataSource.Instance,
		FormatIdentifier: cfg.DataSource.FormatIdentifier,
	}
	return NewCoreLib(ds, registry.List()), nil
}

// Initialize restores the default data source and creates the in-memory
// extractor on first use.
func (c *CoreLib) Initialize() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.source = c.defaults
	if c.extractor == nil {
		c.extractor = extractor.NewMemory()
		c.manager.Initialize(c.extractor, c.processors)
	}
}

// Terminate drops every registration. Initialize must be called again
// before the next registration.
func (c *CoreLib) Terminate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.manager.Terminate()
	c.source = c.defaults
	c.tables.Reset()
	c.registered = nil
	clear(c.signatures)
	if c.extractor != nil {
		c.extractor.UnregisterSources()
		c.extractor = nil
	}
}

// SetDataSourceInfo selects the data source later registrations apply to.
func (c *CoreLib) SetDataSourceInfo(name string, sourceID uint16, instance uint32, formatIdentifier string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.source = DataSource{Name: name, SourceID: sourceID, Instance: instance, FormatIdentifier: formatIdentifier}
}

// DataSource returns the currently selected data source.
func (c *CoreLib) DataSource() DataSource {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.source
}

// RegisterDataSources registers the description stored in fileName.
func (c *CoreLib) RegisterDataSources(fileName, format string) error {
	data, err := os.ReadFile(fileName)
	if err != nil {
		log.GetLogger().WithError(err).WithField("file", fileName).Warn("can not open description, unable to register data source")
		return fmt.Errorf("read description: %w", err)
	}
	if len(data) == 0 {
		log.GetLogger().WithField("file", fileName).Error("failed to read content of description")
		return fmt.Errorf("%w: %s", core.ErrEmptyDescription, fileName)
	}
	return c.RegisterDataSourcesBinary(fileName, data, format)
}

// RegisterDataSourcesBinary registers an in-memory description. DBC
// descriptions always describe the CAN bus, FIBEX and ARXML descriptions the
// Ethernet bus; every other format uses the selected data source.
func (c *CoreLib) RegisterDataSourcesBinary(fileName string, data []byte, format string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.extractor == nil {
		return core.ErrNotInitialized
	}
	descFormat, err := core.ParseDescriptionFormat(format)
	if err != nil {
		return err
	}

	src := c.source
	switch descFormat {
	case core.DescriptionFormatDBC:
		src.SourceID = core.SourceIDVehicleBusCAN
		src.FormatIdentifier = canFormatIdentifier
	case core.DescriptionFormatFIBEX, core.DescriptionFormatARXML:
		src.SourceID = core.SourceIDVehicleBusEthernet
		src.FormatIdentifier = ethernetFormatIdentifier
	}

	logger := log.GetLogger().WithFields(map[string]interface{}{
		"source":    src.Name,
		"source_id": src.SourceID,
		"format":    descFormat.String(),
		"file":      fileName,
	})

	signatures, err := c.extractor.RegisterSourceWithDataDescription(extractor.Description{
		SourceName:       src.Name,
		SourceID:         src.SourceID,
		Instance:         src.Instance,
		FormatIdentifier: src.FormatIdentifier,
		FileName:         fileName,
		Format:           descFormat,
		Data:             data,
	})
	if err != nil {
		logger.WithError(err).Warn("failed to register source")
		return fmt.Errorf("register %s: %w", fileName, err)
	}
	if len(signatures) == 0 {
		return fmt.Errorf("%w: %s", core.ErrEmptyDescription, fileName)
	}

	replaced := slices.ContainsFunc(c.signatures[src.Name], func(sig string) bool {
		return !slices.Contains(signatures, sig)
	})
	c.signatures[src.Name] = signatures
	if !slices.Contains(c.registered, src) {
		c.registered = append(c.registered, src)
	}

	if replaced {
		// a previous description of the source is gone, rebuild everything
		logger.Info("description replaced, rebuilding topic and decoder tables")
		c.rebuild()
	} else {
		c.manager.GenerateHashesAndUrls(src)
		if err := UpdateTables(c.tables, c.extractor, src, c.processors); err != nil {
			logger.WithError(err).Warn("failed to build decoder tables")
		}
	}
	logger.WithField("signatures", len(signatures)).Info("registered data description")
	return nil
}

// rebuild recomputes the topic and decoder tables of every registered
// source. Callers hold c.mu.
func (c *CoreLib) rebuild() {
	c.manager.Rebuild(c.registered)
	c.tables.Reset()
	for _, src := range c.registered {
		if err := UpdateTables(c.tables, c.extractor, src, c.processors); err != nil {
			log.GetLogger().WithError(err).WithField("source", src.Name).WithField("source_id", src.SourceID).
				Warn("failed to build decoder tables")
		}
	}
}

// RegisterPort registers a manually declared port of the selected data
// source and returns its fingerprint.
func (c *CoreLib) RegisterPort(portName string, portSize uint64) uint64 {
	c.mu.Lock()
	src := c.source
	c.mu.Unlock()
	return c.manager.GenerateHashesAndUrlsForPort(portName, portSize, src)
}

// GetTopicHash returns the fingerprint registered for a virtual address.
func (c *CoreLib) GetTopicHash(vaddr uint64) uint64 {
	return c.manager.GetHashByVaddr(vaddr)
}

// GetTopicHashByName returns the fingerprint of a topic of the selected data
// source.
func (c *CoreLib) GetTopicHashByName(portName string, appendDevice bool) uint64 {
	return c.manager.GetHashByPortname(c.DataSource().Name, portName, appendDevice)
}

// GetAppendedName returns the full topic URL of a port.
func (c *CoreLib) GetAppendedName(portName string) string {
	return c.DataSource().Name + "." + portName
}

func (c *CoreLib) GetSchema(url string, sourceID uint16) (string, bool) {
	return c.manager.GetSchema(url, sourceID)
}

func (c *CoreLib) GetTopicsAndHashes() map[string]uint64 {
	return c.manager.GetTopicsAndHashes()
}

func (c *CoreLib) GetNewRegisteredTopics() map[string]TopicInfo {
	return c.manager.GetNewRegisteredTopics()
}

func (c *CoreLib) ClearNewRegisteredTopics() {
	c.manager.ClearNewRegisteredTopics()
}

// IsProcessor reports whether path is a processor port.
func (c *CoreLib) IsProcessor(path string) bool {
	return c.manager.IsProcessor(path)
}

// DecodeTables returns the decoder side-tables. Registration writes them;
// callers serialize registration against decoding.
func (c *CoreLib) DecodeTables() *decoder.Tables {
	return c.tables
}
