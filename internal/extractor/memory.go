package extractor

import (
	"encoding/hex"
	"fmt"
	"slices"
	"sync"

	"github.com/zeebo/blake3"

	"firestige.xyz/udex/internal/core"
	"firestige.xyz/udex/internal/log"
)

type registeredDescription struct {
	signature string
	views     []string
	roots     []NodeID
}

type registeredSource struct {
	name         string
	sourceID     uint16
	instance     uint32
	descriptions []*registeredDescription
}

func (s *registeredSource) signatures() []string {
	out := make([]string, 0, len(s.descriptions))
	for _, d := range s.descriptions {
		out = append(out, d.signature)
	}
	return out
}

func (s *registeredSource) roots() []NodeID {
	var out []NodeID
	for _, d := range s.descriptions {
		out = append(out, d.roots...)
	}
	return out
}

// Memory is an in-process Extractor. Registered trees live until
// UnregisterSources.
type Memory struct {
	mu       sync.RWMutex
	lastID   NodeID
	nodes    map[NodeID]*Node
	children map[NodeID][]NodeID
	parents  map[NodeID]NodeID
	urls     map[string]NodeID
	sources  map[string]*registeredSource
}

var _ Extractor = (*Memory)(nil)

func NewMemory() *Memory {
	m := &Memory{}
	m.reset()
	return m
}

func (m *Memory) reset() {
	m.lastID = 0
	m.nodes = make(map[NodeID]*Node)
	m.children = make(map[NodeID][]NodeID)
	m.parents = make(map[NodeID]NodeID)
	m.urls = make(map[string]NodeID)
	m.sources = make(map[string]*registeredSource)
}

// Signature is the hex blake3 digest that identifies a description.
func Signature(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func (m *Memory) RegisterSourceWithDataDescription(desc Description) ([]string, error) {
	logger := log.GetLogger().WithFields(map[string]interface{}{
		"source":    desc.SourceName,
		"source_id": desc.SourceID,
		"format":    desc.Format.String(),
	})

	if len(desc.Data) == 0 {
		m.mu.Lock()
		src := m.source(desc)
		sigs := src.signatures()
		m.mu.Unlock()
		logger.Debug("registered source without description")
		return sigs, nil
	}

	data, err := decompress(desc.Data)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s", core.ErrEmptyDescription, desc.FileName)
	}

	views, err := parseDescription(desc.Format, data)
	if err != nil {
		return nil, err
	}
	signature := Signature(data)

	m.mu.Lock()
	defer m.mu.Unlock()

	src := m.source(desc)
	if slices.Contains(src.signatures(), signature) {
		logger.WithField("signature", signature).Debug("description already registered")
		return src.signatures(), nil
	}

	reg := &registeredDescription{signature: signature}
	for _, v := range views {
		reg.views = append(reg.views, v.node.Name)
	}
	// a description that declares a registered view again replaces the one
	// that declared it first
	kept := src.descriptions[:0]
	for _, d := range src.descriptions {
		if !slices.ContainsFunc(d.views, func(name string) bool { return slices.Contains(reg.views, name) }) {
			kept = append(kept, d)
			continue
		}
		m.remove(d.roots, desc.SourceName)
		logger.WithField("signature", d.signature).WithField("replaced_by", signature).Info("replaced registered description")
	}
	clear(src.descriptions[len(kept):])
	src.descriptions = kept

	for _, v := range views {
		reg.roots = append(reg.roots, m.insert(v, 0, desc.SourceName, ""))
	}
	src.descriptions = append(src.descriptions, reg)
	logger.WithField("views", len(views)).WithField("signature", signature).Debug("registered description")
	return src.signatures(), nil
}

// remove drops ids and their subtrees. Callers hold the write lock.
func (m *Memory) remove(ids []NodeID, sourceName string) {
	for _, id := range ids {
		n, ok := m.nodes[id]
		if !ok {
			continue
		}
		m.remove(m.children[id], sourceName)
		if url := sourceName + "." + n.Path; m.urls[url] == id {
			delete(m.urls, url)
		}
		delete(m.nodes, id)
		delete(m.children, id)
		delete(m.parents, id)
	}
}

func parseDescription(format core.DescriptionFormat, data []byte) ([]*draft, error) {
	switch {
	case format.IsSDLFamily():
		return parseSDL(data)
	case format == core.DescriptionFormatDBC:
		return parseDBC(data)
	case format == core.DescriptionFormatFIBEX:
		return parseTree(data, core.EthernetFileFIBEX)
	case format == core.DescriptionFormatARXML:
		return parseTree(data, core.EthernetFileARXML)
	default:
		return nil, fmt.Errorf("%w: %s", core.ErrUnknownDescriptionFormat, format)
	}
}

// source returns the entry for desc.SourceName, creating it on first use.
// Callers hold the write lock.
func (m *Memory) source(desc Description) *registeredSource {
	src, ok := m.sources[desc.SourceName]
	if !ok {
		src = &registeredSource{name: desc.SourceName, sourceID: desc.SourceID, instance: desc.Instance}
		m.sources[desc.SourceName] = src
	}
	return src
}

// insert assigns ids and paths to d and its subtree. Callers hold the write
// lock.
func (m *Memory) insert(d *draft, parent NodeID, sourceName, parentPath string) NodeID {
	m.lastID++
	n := d.node
	n.ID = m.lastID
	n.Path = n.Name
	if parentPath != "" {
		n.Path = parentPath + "." + n.Name
	}
	n.ChildrenCount = len(d.children)

	m.nodes[n.ID] = &n
	if parent != 0 {
		m.parents[n.ID] = parent
	}
	url := sourceName + "." + n.Path
	if _, dup := m.urls[url]; !dup {
		m.urls[url] = n.ID
	}

	ids := make([]NodeID, 0, len(d.children))
	for _, c := range d.children {
		ids = append(ids, m.insert(c, n.ID, sourceName, n.Path))
	}
	m.children[n.ID] = ids
	return n.ID
}

func (m *Memory) RootNodes(sourceName string) ([]Node, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	src, ok := m.sources[sourceName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", core.ErrSourceNotFound, sourceName)
	}
	return m.collect(src.roots()), nil
}

func (m *Memory) NodeChildren(id NodeID) ([]Node, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.nodes[id]; !ok {
		return nil, fmt.Errorf("%w: %d", core.ErrNodeNotFound, id)
	}
	return m.collect(m.children[id]), nil
}

func (m *Memory) NodeAncestors(id NodeID) ([]Node, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.nodes[id]; !ok {
		return nil, fmt.Errorf("%w: %d", core.ErrNodeNotFound, id)
	}
	var chain []NodeID
	for cur := id; cur != 0; cur = m.parents[cur] {
		chain = append(chain, cur)
	}
	return m.collect(chain), nil
}

func (m *Memory) collect(ids []NodeID) []Node {
	out := make([]Node, 0, len(ids))
	for _, id := range ids {
		out = append(out, *m.nodes[id])
	}
	return out
}

// lookup resolves a full URL ("<source>.<path>") to its node.
func (m *Memory) lookup(url string) (*Node, bool) {
	id, ok := m.urls[url]
	if !ok {
		return nil, false
	}
	return m.nodes[id], true
}

func (m *Memory) UnregisterSources() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reset()
}
