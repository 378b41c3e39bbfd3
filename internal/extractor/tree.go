package extractor

import (
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"firestige.xyz/udex/internal/core"
)

// Ethernet descriptions (FIBEX, ARXML) are registered as tree exports in
// YAML or CBOR:
//
//	views:
//	  - name: RadarService
//	    service_id: 0x39FE          # FIBEX: the service of the view
//	    interface_version: 1
//	    serialization: {technology: SOMEIP, version: 1}
//	    groups:
//	      - name: Objects
//	        message_id: 0x8001      # FIBEX: method id, ARXML: service<<16 | method
//	        size: 64
//	        signals:
//	          - {name: count, offset: 0, size: 4, type: uint32, byte_order: big}
type treeExport struct {
	Views []treeView `mapstructure:"views"`
}

type treeView struct {
	Name             string            `mapstructure:"name"`
	CycleID          uint32            `mapstructure:"cycle_id"`
	ServiceID        uint16            `mapstructure:"service_id"`
	InterfaceVersion uint8             `mapstructure:"interface_version"`
	Serialization    treeSerialization `mapstructure:"serialization"`
	Groups           []treeGroup       `mapstructure:"groups"`
}

type treeGroup struct {
	Name             string            `mapstructure:"name"`
	MessageID        uint32            `mapstructure:"message_id"`
	Size             uint64            `mapstructure:"size"`
	ArrayLength      uint64            `mapstructure:"array_length"`
	InterfaceVersion uint8             `mapstructure:"interface_version"`
	Serialization    treeSerialization `mapstructure:"serialization"`
	Signals          []treeSignal      `mapstructure:"signals"`
}

type treeSignal struct {
	Name        string       `mapstructure:"name"`
	Offset      uint64       `mapstructure:"offset"`
	Size        uint64       `mapstructure:"size"`
	Type        string       `mapstructure:"type"`
	ByteOrder   string       `mapstructure:"byte_order"`
	ArrayLength uint64       `mapstructure:"array_length"`
	Signals     []treeSignal `mapstructure:"signals"`
}

type treeSerialization struct {
	Technology string `mapstructure:"technology"`
	Version    uint8  `mapstructure:"version"`
}

func (s treeSerialization) toSerialization() Serialization {
	return Serialization{
		Technology: core.ParseSerializationTechnology(s.Technology),
		Version:    s.Version,
	}
}

var treeDecMode cbor.DecMode

func init() {
	var err error
	treeDecMode, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("extractor: CBOR decoder initialization failed: " + err.Error())
	}
}

// isCBORMap reports whether data starts with a CBOR map header (major type 5).
func isCBORMap(data []byte) bool {
	return len(data) > 0 && data[0]>>5 == 5
}

func parseTree(data []byte, fileType core.EthernetFileType) ([]*draft, error) {
	var generic any
	if isCBORMap(data) {
		if err := treeDecMode.Unmarshal(data, &generic); err != nil {
			return nil, fmt.Errorf("parse %s cbor: %w", fileType, err)
		}
	} else {
		var m map[string]any
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("parse %s yaml: %w", fileType, err)
		}
		generic = m
	}

	var export treeExport
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &export,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(generic); err != nil {
		return nil, fmt.Errorf("parse %s tree: %w", fileType, err)
	}

	views := make([]*draft, 0, len(export.Views))
	for _, v := range export.Views {
		if v.Name == "" {
			return nil, fmt.Errorf("parse %s tree: view without name", fileType)
		}
		view := &draft{node: Node{Name: v.Name, Type: NodeTypeView, View: ViewInfo{
			CycleID:          v.CycleID,
			ServiceID:        v.ServiceID,
			InterfaceVersion: v.InterfaceVersion,
			FileType:         fileType,
			Serialization:    v.Serialization.toSerialization(),
		}}}
		for _, g := range v.Groups {
			if g.Name == "" {
				return nil, fmt.Errorf("parse %s tree: view %q: group without name", fileType, v.Name)
			}
			group := view.add(&draft{node: Node{Name: g.Name, Type: NodeTypeGroup, Group: GroupInfo{
				Size:             g.Size,
				ArrayLength:      max(g.ArrayLength, 1),
				MessageID:        g.MessageID,
				InterfaceVersion: g.InterfaceVersion,
				Serialization:    g.Serialization.toSerialization(),
			}}})
			treeSignals(group, g.Signals)
		}
		views = append(views, view)
	}
	return views, nil
}

func treeSignals(parent *draft, signals []treeSignal) {
	for _, s := range signals {
		member := parent.add(&draft{node: Node{Name: s.Name, Type: NodeTypeSignal, Signal: SignalInfo{
			Offset:      s.Offset,
			Size:        s.Size,
			Type:        s.Type,
			ByteOrder:   normalizeByteOrder(s.ByteOrder),
			ArrayLength: max(s.ArrayLength, 1),
		}}})
		treeSignals(member, s.Signals)
	}
}
