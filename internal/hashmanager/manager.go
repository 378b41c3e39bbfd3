// Package hashmanager turns registered data descriptions into topic URLs and
// the fingerprints that route decoded sub-payloads to them.
package hashmanager

import (
	"maps"
	"strings"
	"sync"

	"firestige.xyz/udex/internal/core"
	"firestige.xyz/udex/internal/core/hash"
	"firestige.xyz/udex/internal/extractor"
	"firestige.xyz/udex/internal/log"
	"firestige.xyz/udex/internal/metrics"
)

// DataSource identifies the device a description is registered for.
type DataSource struct {
	Name             string
	SourceID         uint16
	Instance         uint32
	FormatIdentifier string
}

// TopicInfo describes one registered topic.
type TopicInfo struct {
	Hash             uint64
	DataSourceName   string
	FormatIdentifier string
	CycleID          uint32
	SourceID         uint16
	InstanceNumber   uint32
	VirtualAddress   uint64
}

// walkContext is what a view hands down to its children.
type walkContext interface {
	isWalkContext()
}

// cycleContext addresses groups by cycle id and virtual address.
type cycleContext struct {
	cycleID uint32
}

// ethernetContext addresses groups by service and method id.
type ethernetContext struct {
	serviceID uint16
	fileType  core.EthernetFileType
}

func (cycleContext) isWalkContext()    {}
func (ethernetContext) isWalkContext() {}

// HashManager owns the topic tables of one registration context. It is safe
// for concurrent use.
type HashManager struct {
	mu         sync.RWMutex
	extractor  extractor.Extractor
	processors []extractor.DataProcessor

	vaddrToHash map[uint64]uint64
	urlToHash   map[string]uint64
	urlToInfo   map[string]TopicInfo
	hashToURL   map[uint64]string
	newTopics   map[string]TopicInfo
	// ports holds the manually declared ports; they survive a Rebuild.
	ports map[string]uint64
	// collisions holds the fingerprints already reported as shared by
	// two URLs.
	collisions map[uint64]struct{}
}

func NewHashManager() *HashManager {
	m := &HashManager{}
	m.resetTables()
	return m
}

func (m *HashManager) resetTables() {
	m.vaddrToHash = make(map[uint64]uint64)
	m.urlToHash = make(map[string]uint64)
	m.urlToInfo = make(map[string]TopicInfo)
	m.hashToURL = make(map[uint64]string)
	m.newTopics = make(map[string]TopicInfo)
	m.ports = make(map[string]uint64)
	m.collisions = make(map[uint64]struct{})
}

// Initialize attaches the extractor the description trees are read from and
// the processors whose ports get name-extended fingerprints.
func (m *HashManager) Initialize(ext extractor.Extractor, processors []extractor.DataProcessor) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.extractor = ext
	m.processors = processors
}

// Terminate drops every table and detaches the extractor.
func (m *HashManager) Terminate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetTables()
	m.extractor = nil
}

// GenerateHashesAndUrls walks every view of src and registers a topic per
// group. Extractor failures are logged and leave the tables unchanged.
func (m *HashManager) GenerateHashesAndUrls(src DataSource) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.generate(src)
}

// Rebuild replaces the description topics with a fresh walk of sources.
// Manual ports are kept. Pending new topics follow the rebuilt tables and
// topics that no longer exist are dropped from them.
func (m *HashManager) Rebuild(sources []DataSource) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.vaddrToHash = make(map[uint64]uint64)
	m.urlToHash = make(map[string]uint64)
	m.urlToInfo = make(map[string]TopicInfo)
	m.hashToURL = make(map[uint64]string)
	m.collisions = make(map[uint64]struct{})
	for name, h := range m.ports {
		m.urlToHash[name] = h
	}
	for _, src := range sources {
		m.generate(src)
	}

	for url := range m.newTopics {
		if _, port := m.ports[url]; port {
			continue
		}
		if info, ok := m.urlToInfo[url]; ok {
			m.newTopics[url] = info
		} else {
			delete(m.newTopics, url)
		}
	}
}

func (m *HashManager) generate(src DataSource) {
	if m.extractor == nil {
		return
	}
	views, err := m.extractor.RootNodes(src.Name)
	if err != nil {
		log.GetLogger().WithError(err).WithField("source", src.Name).WithField("source_id", src.SourceID).
			Warn("generating hashes and urls failed")
		return
	}
	for i := range views {
		m.walk(&views[i], src.Name, nil, src)
	}
}

func (m *HashManager) walk(node *extractor.Node, url string, ctx walkContext, src DataSource) {
	url += "." + node.Name

	switch node.Type {
	case extractor.NodeTypeView:
		children, err := m.extractor.NodeChildren(node.ID)
		if err != nil {
			log.GetLogger().WithError(err).WithField("url", url).WithField("source_id", src.SourceID).
				Warn("reading view children failed")
			return
		}
		var childCtx walkContext = cycleContext{cycleID: node.View.CycleID}
		if core.ParsePackageFormat(src.FormatIdentifier) == core.PackageFormatEthernet {
			childCtx = ethernetContext{serviceID: node.View.ServiceID, fileType: node.View.FileType}
		}
		for i := range children {
			m.walk(&children[i], url, childCtx, src)
		}

	case extractor.NodeTypeGroup:
		id := core.PackageIdentity{SourceID: src.SourceID, InstanceNumber: src.Instance}
		switch c := ctx.(type) {
		case cycleContext:
			id.CycleID = c.cycleID
			id.VirtualAddress = node.Group.Address
			if id.CycleID == 0 && id.VirtualAddress == 0 {
				id.CycleID = node.Group.CycleID
			}
		case ethernetContext:
			switch c.fileType {
			case core.EthernetFileFIBEX:
				id.ServiceID = c.serviceID
				id.MethodID = node.Group.MessageID
			case core.EthernetFileARXML:
				id.ServiceID = uint16(node.Group.MessageID >> 16)
				id.MethodID = node.Group.MessageID & 0xFFFF
			default:
				return
			}
		default:
			// a group outside of any view
			return
		}
		m.register(url, node.Path, id, src)
	}
}

// register adds one group topic. Callers hold the write lock.
func (m *HashManager) register(url, path string, id core.PackageIdentity, src DataSource) {
	var h uint64
	if m.isProcessor(path) {
		h = hash.HashWithName(id, path)
	} else {
		h = hash.Hash(id)
	}

	if first, ok := m.hashToURL[h]; !ok {
		m.hashToURL[h] = url
	} else if first != url {
		if _, known := m.collisions[h]; !known {
			m.collisions[h] = struct{}{}
			metrics.HashCollisionsTotal.Inc()
			prev := m.urlToInfo[first]
			log.GetLogger().WithFields(map[string]interface{}{
				"hash":            h,
				"url":             url,
				"first_url":       first,
				"source_id":       src.SourceID,
				"instance":        src.Instance,
				"first_source_id": prev.SourceID,
				"first_instance":  prev.InstanceNumber,
				"cycle_id":        id.CycleID,
				"vaddr":           id.VirtualAddress,
			}).Warn("same hash for two urls, expected only for processor packages")
		}
	}

	if _, ok := m.vaddrToHash[id.VirtualAddress]; !ok {
		m.vaddrToHash[id.VirtualAddress] = h
	}
	info := TopicInfo{
		Hash:             h,
		DataSourceName:   src.Name,
		FormatIdentifier: src.FormatIdentifier,
		CycleID:          id.CycleID,
		SourceID:         src.SourceID,
		InstanceNumber:   src.Instance,
		VirtualAddress:   id.VirtualAddress,
	}
	if _, ok := m.urlToHash[url]; !ok {
		m.urlToHash[url] = h
		m.urlToInfo[url] = info
		metrics.RegisteredTopicsTotal.WithLabelValues(src.FormatIdentifier).Inc()
	}
	if _, ok := m.newTopics[url]; !ok {
		m.newTopics[url] = info
	}
}

// GenerateHashesAndUrlsForPort registers a manually declared port. The port
// name is the full topic URL; its fingerprint uses the hash of name and size
// as virtual address.
func (m *HashManager) GenerateHashesAndUrlsForPort(portName string, portSize uint64, src DataSource) uint64 {
	portHash := hash.HashManualPort(portName, portSize)
	h := hash.Hash(core.PackageIdentity{
		SourceID:       src.SourceID,
		InstanceNumber: src.Instance,
		VirtualAddress: portHash,
	})

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.urlToHash[portName]; !ok {
		metrics.RegisteredTopicsTotal.WithLabelValues(src.FormatIdentifier).Inc()
	}
	m.urlToHash[portName] = h
	m.ports[portName] = h
	if _, ok := m.newTopics[portName]; !ok {
		m.newTopics[portName] = TopicInfo{
			Hash:             h,
			DataSourceName:   src.Name,
			FormatIdentifier: src.FormatIdentifier,
			SourceID:         src.SourceID,
			InstanceNumber:   src.Instance,
			VirtualAddress:   portHash,
		}
	}
	return h
}

// GetHashByVaddr returns the fingerprint of the first group registered at
// vaddr, or 0.
func (m *HashManager) GetHashByVaddr(vaddr uint64) uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.vaddrToHash[vaddr]
}

// GetHashByPortname returns the fingerprint of a topic, or 0. With
// appendDevice the port is taken relative to the data source.
func (m *HashManager) GetHashByPortname(dataSourceName, portName string, appendDevice bool) uint64 {
	url := portName
	if appendDevice {
		url = dataSourceName + "." + portName
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.urlToHash[url]
}

// GetTopicsAndHashes returns a copy of the url to fingerprint table.
func (m *HashManager) GetTopicsAndHashes() map[string]uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.urlToHash)
}

// GetNewRegisteredTopics returns the topics registered since the last
// ClearNewRegisteredTopics.
func (m *HashManager) GetNewRegisteredTopics() map[string]TopicInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.newTopics)
}

func (m *HashManager) ClearNewRegisteredTopics() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.newTopics)
}

// IsProcessor reports whether path is a port published by a processor.
func (m *HashManager) IsProcessor(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.isProcessor(path)
}

func (m *HashManager) isProcessor(path string) bool {
	for _, p := range m.processors {
		for _, port := range p.SupportedPorts() {
			if port.Name == path {
				return true
			}
		}
	}
	return false
}

// GetSchema returns the type schema of url without spaces. A schema that
// fails validation is still returned, built with errors ignored.
func (m *HashManager) GetSchema(url string, sourceID uint16) (string, bool) {
	m.mu.RLock()
	ext := m.extractor
	m.mu.RUnlock()
	if ext == nil {
		return "", false
	}

	logger := log.GetLogger().WithField("url", url).WithField("source_id", sourceID)
	opts := extractor.SchemaOptions{Annotate: isSensor(sourceID)}

	schema, err := ext.TypeSchema(url, opts)
	if err != nil {
		opts.IgnoreErrors = true
		var fallbackErr error
		schema, fallbackErr = ext.TypeSchema(url, opts)
		if fallbackErr != nil {
			logger.WithError(fallbackErr).Debug("failed to get schema")
			return "", false
		}
		logger.WithError(err).Debug("schema failed validation, using non-validated schema")
	}
	if schema == "" {
		logger.Debug("empty schema")
		return "", false
	}
	return strings.ReplaceAll(schema, " ", ""), true
}

// isSensor reports whether a source is an ECU whose schemas carry
// measurement annotations. Bus and reference sources do not.
func isSensor(sourceID uint16) bool {
	switch sourceID {
	case core.SourceIDVehicleBusCAN, core.SourceIDVehicleBusEthernet,
		core.SourceIDReferenceGPS, core.SourceIDReferenceCamera:
		return false
	}
	return true
}
