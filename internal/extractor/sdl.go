package extractor

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

// SDL layout:
//
//	<SdlFile>
//	  <View Name CycleID>
//	    <Group Name Address Size ArrayLen [CycleID]>
//	      <Signal Name Offset Size Type ByteOrder ArrayLen/>
//	      <SubGroup Name Offset Size ArrayLen> ... </SubGroup>
//
// Address and Offset are hexadecimal without prefix, every other number is
// decimal.
type sdlElement struct {
	XMLName  xml.Name
	Attrs    []xml.Attr   `xml:",any,attr"`
	Children []sdlElement `xml:",any"`
}

func (e *sdlElement) attr(name string) string {
	for _, a := range e.Attrs {
		if a.Name.Local == name {
			return strings.TrimSpace(a.Value)
		}
	}
	return ""
}

func (e *sdlElement) dec(name string) (uint64, error) {
	v := e.attr(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s %q of %s %q: %w", name, v, e.XMLName.Local, e.attr("Name"), err)
	}
	return n, nil
}

func (e *sdlElement) hex(name string) (uint64, error) {
	v := strings.TrimPrefix(strings.ToLower(e.attr(name)), "0x")
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(v, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("%s %q of %s %q: %w", name, v, e.XMLName.Local, e.attr("Name"), err)
	}
	return n, nil
}

func parseSDL(data []byte) ([]*draft, error) {
	var root sdlElement
	dec := xml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("parse sdl: %w", err)
	}
	if root.XMLName.Local != "SdlFile" {
		return nil, fmt.Errorf("parse sdl: unexpected root element %q", root.XMLName.Local)
	}

	var views []*draft
	for i := range root.Children {
		el := &root.Children[i]
		if el.XMLName.Local != "View" {
			continue
		}
		view, err := sdlView(el)
		if err != nil {
			return nil, fmt.Errorf("parse sdl: %w", err)
		}
		views = append(views, view)
	}
	return views, nil
}

func sdlView(el *sdlElement) (*draft, error) {
	name := el.attr("Name")
	if name == "" {
		return nil, fmt.Errorf("view without name")
	}
	cycle, err := el.dec("CycleID")
	if err != nil {
		return nil, err
	}
	view := &draft{node: Node{Name: name, Type: NodeTypeView, View: ViewInfo{CycleID: uint32(cycle)}}}

	for i := range el.Children {
		child := &el.Children[i]
		if child.XMLName.Local != "Group" {
			continue
		}
		group, err := sdlGroup(child)
		if err != nil {
			return nil, fmt.Errorf("view %q: %w", name, err)
		}
		view.add(group)
	}
	return view, nil
}

func sdlGroup(el *sdlElement) (*draft, error) {
	name := el.attr("Name")
	if name == "" {
		return nil, fmt.Errorf("group without name")
	}
	address, err := el.hex("Address")
	if err != nil {
		return nil, err
	}
	size, err := el.dec("Size")
	if err != nil {
		return nil, err
	}
	arrayLen, err := el.dec("ArrayLen")
	if err != nil {
		return nil, err
	}
	cycle, err := el.dec("CycleID")
	if err != nil {
		return nil, err
	}

	group := &draft{node: Node{Name: name, Type: NodeTypeGroup, Group: GroupInfo{
		Address:     address,
		CycleID:     uint32(cycle),
		Size:        size,
		ArrayLength: max(arrayLen, 1),
	}}}
	if err := sdlMembers(group, el); err != nil {
		return nil, fmt.Errorf("group %q: %w", name, err)
	}
	return group, nil
}

// sdlMembers appends the Signal and SubGroup children of el in document order.
func sdlMembers(parent *draft, el *sdlElement) error {
	for i := range el.Children {
		child := &el.Children[i]
		kind := child.XMLName.Local
		if kind != "Signal" && kind != "SubGroup" {
			continue
		}
		name := child.attr("Name")
		if name == "" {
			return fmt.Errorf("%s without name", strings.ToLower(kind))
		}
		offset, err := child.hex("Offset")
		if err != nil {
			return err
		}
		size, err := child.dec("Size")
		if err != nil {
			return err
		}
		arrayLen, err := child.dec("ArrayLen")
		if err != nil {
			return err
		}

		member := parent.add(&draft{node: Node{Name: name, Type: NodeTypeSignal, Signal: SignalInfo{
			Offset:      offset,
			Size:        size,
			Type:        child.attr("Type"),
			ByteOrder:   normalizeByteOrder(child.attr("ByteOrder")),
			ArrayLength: max(arrayLen, 1),
		}}})
		if kind == "SubGroup" {
			if err := sdlMembers(member, child); err != nil {
				return fmt.Errorf("subgroup %q: %w", name, err)
			}
		}
	}
	return nil
}

func normalizeByteOrder(s string) string {
	switch strings.ToLower(s) {
	case "big-endian", "big_endian", "big", "motorola":
		return "big"
	case "little-endian", "little_endian", "little", "intel", "":
		return "little"
	default:
		return strings.ToLower(s)
	}
}
