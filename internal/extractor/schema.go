package extractor

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"firestige.xyz/udex/internal/core"
)

const schemaVersion = "1.0"

// primitiveTypes maps description type names to schema types and widths.
var primitiveTypes = map[string]struct {
	name  string
	width uint64
}{
	"bool":      {"bool", 1},
	"uchar":     {"uint8", 1},
	"uint8":     {"uint8", 1},
	"schar":     {"int8", 1},
	"char":      {"int8", 1},
	"int8":      {"int8", 1},
	"ushort":    {"uint16", 2},
	"uint16":    {"uint16", 2},
	"sshort":    {"int16", 2},
	"short":     {"int16", 2},
	"int16":     {"int16", 2},
	"ulong":     {"uint32", 4},
	"uint32":    {"uint32", 4},
	"slong":     {"int32", 4},
	"long":      {"int32", 4},
	"int32":     {"int32", 4},
	"ulonglong": {"uint64", 8},
	"uint64":    {"uint64", 8},
	"slonglong": {"int64", 8},
	"longlong":  {"int64", 8},
	"int64":     {"int64", 8},
	"float":     {"float32", 4},
	"float32":   {"float32", 4},
	"double":    {"float64", 8},
	"float64":   {"float64", 8},
}

type schemaDocument struct {
	Version string      `json:"version"`
	Types   schemaTypes `json:"types"`
}

type schemaTypes struct {
	Structs []schemaStruct `json:"structs"`
}

type schemaStruct struct {
	Name    string         `json:"name"`
	Size    uint64         `json:"size"`
	URL     string         `json:"url,omitempty"`
	Address string         `json:"address,omitempty"`
	CycleID uint32         `json:"cycleId,omitempty"`
	Members []schemaMember `json:"members"`
}

type schemaMember struct {
	Name            string   `json:"name"`
	Offset          uint64   `json:"offset"`
	ByteOrder       string   `json:"byteOrder"`
	Type            string   `json:"type"`
	ArrayDimensions []uint64 `json:"arrayDimensions,omitempty"`
}

func (m *Memory) TypeSchema(url string, opts SchemaOptions) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	node, ok := m.lookup(url)
	if !ok {
		return "", fmt.Errorf("%w: %q", core.ErrNodeNotFound, url)
	}
	if node.Type == NodeTypeView || (node.Type == NodeTypeSignal && node.ChildrenCount == 0) {
		return "", fmt.Errorf("%w: %q is a %s, not a structure", core.ErrSchemaValidation, url, node.Type)
	}

	b := schemaBuilder{m: m}
	b.build(node)
	if len(b.errs) > 0 && !opts.IgnoreErrors {
		return "", fmt.Errorf("%w: %q: %w", core.ErrSchemaValidation, url, errors.Join(b.errs...))
	}

	if opts.Annotate {
		top := &b.structs[0]
		top.URL = url
		if node.Type == NodeTypeGroup {
			if node.Group.Address != 0 {
				top.Address = fmt.Sprintf("0x%X", node.Group.Address)
			}
			top.CycleID = node.Group.CycleID
			if parent, ok := m.nodes[m.parents[node.ID]]; ok && top.CycleID == 0 {
				top.CycleID = parent.View.CycleID
			}
		}
	}

	doc := schemaDocument{Version: schemaVersion, Types: schemaTypes{Structs: b.structs}}
	var (
		out []byte
		err error
	)
	if opts.PrettyPrint {
		out, err = json.MarshalIndent(doc, "", "  ")
	} else {
		out, err = json.Marshal(doc)
	}
	if err != nil {
		return "", err
	}
	return string(out), nil
}

type schemaBuilder struct {
	m       *Memory
	structs []schemaStruct
	errs    []error
}

// build appends the struct for n, then the structs of its nested members.
func (b *schemaBuilder) build(n *Node) string {
	size := n.Group.Size
	if n.Type == NodeTypeSignal {
		size = n.Signal.Size
	}
	idx := len(b.structs)
	b.structs = append(b.structs, schemaStruct{Name: n.Path, Size: size, Members: []schemaMember{}})

	for _, id := range b.m.children[n.ID] {
		child := b.m.nodes[id]
		sig := child.Signal
		member := schemaMember{Name: child.Name, Offset: sig.Offset, ByteOrder: sig.ByteOrder}
		if sig.ArrayLength > 1 {
			member.ArrayDimensions = []uint64{sig.ArrayLength}
		}

		width := sig.Size
		if child.ChildrenCount > 0 {
			member.Type = b.build(child)
		} else if p, ok := primitiveTypes[strings.ToLower(sig.Type)]; ok {
			member.Type = p.name
			if width == 0 {
				width = p.width
			}
		} else {
			member.Type = sig.Type
			b.errs = append(b.errs, fmt.Errorf("%s: unknown type %q", child.Path, sig.Type))
		}
		if end := sig.Offset + width*max(sig.ArrayLength, 1); size != 0 && end > size {
			b.errs = append(b.errs, fmt.Errorf("%s: ends at %d beyond struct size %d", child.Path, end, size))
		}
		b.structs[idx].Members = append(b.structs[idx].Members, member)
	}
	return n.Path
}
