package hashmanager

import (
	"math"
	"math/bits"

	"firestige.xyz/udex/internal/core"
	"firestige.xyz/udex/internal/core/decoder"
	"firestige.xyz/udex/internal/core/hash"
	"firestige.xyz/udex/internal/extractor"
	"firestige.xyz/udex/internal/log"
)

// UpdateTables adds the decoder side-tables learned from one registered
// source into tables, which must come from decoder.NewTables. Existing
// entries are kept.
func UpdateTables(tables *decoder.Tables, ext extractor.Extractor, src DataSource, processors []extractor.DataProcessor) error {
	addProcessorInfo(tables, src, processors)

	format := core.ParsePackageFormat(src.FormatIdentifier)
	if !format.IsMTA() && format != core.PackageFormatEthernet {
		return nil
	}

	views, err := ext.RootNodes(src.Name)
	if err != nil {
		return err
	}
	for i := range views {
		if format == core.PackageFormatEthernet {
			err = addServiceInfo(tables, ext, &views[i])
		} else {
			err = addGroupChain(tables, ext, src, &views[i])
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// addProcessorInfo maps the base fingerprint of every stream a processor
// consumes from src to the URLs of the ports derived from it.
func addProcessorInfo(tables *decoder.Tables, src DataSource, processors []extractor.DataProcessor) {
	for _, p := range processors {
		for _, f := range p.SupportedFormats() {
			if f.SourceID != src.SourceID {
				continue
			}
			key := hash.Hash(core.PackageIdentity{
				SourceID:       src.SourceID,
				InstanceNumber: src.Instance,
				CycleID:        f.CycleID,
				VirtualAddress: f.VirtualAddress,
			})

			var urls []string
			for _, port := range p.SupportedPorts() {
				if port.InputCycleID == f.CycleID && port.InputVirtualAddress == f.VirtualAddress {
					urls = append(urls, src.Name+"."+port.Name)
				}
			}
			log.GetLogger().WithFields(map[string]interface{}{
				"processor": p.Name(),
				"source_id": src.SourceID,
				"instance":  src.Instance,
				"cycle_id":  f.CycleID,
				"vaddr":     f.VirtualAddress,
				"ports":     len(urls),
			}).Debug("adding processor")
			tables.Processors[key] = decoder.ProcessorInfo{URLs: urls, PackageFormat: f.FormatIdentifier}
		}
	}
}

// addGroupChain records the size of every addressed group of a view and
// links each group to the one declared after it.
func addGroupChain(tables *decoder.Tables, ext extractor.Extractor, src DataSource, view *extractor.Node) error {
	groups, err := ext.NodeChildren(view.ID)
	if err != nil {
		return err
	}

	var prev uint64
	for _, g := range groups {
		if g.Type != extractor.NodeTypeGroup {
			continue
		}
		h := hash.Hash(core.PackageIdentity{
			SourceID:       src.SourceID,
			InstanceNumber: src.Instance,
			CycleID:        view.View.CycleID,
			VirtualAddress: g.Group.Address,
		})
		if g.Group.Address != 0 {
			if _, ok := tables.Sizes[h]; !ok {
				tables.Sizes[h] = groupExtent(g.Group)
			}
			if _, ok := tables.NextAddresses[prev]; !ok {
				tables.NextAddresses[prev] = g.Group.Address
			}
		}
		prev = h
	}
	return nil
}

// groupExtent is the byte size of every element of a group, saturated at
// the largest uint64.
func groupExtent(g extractor.GroupInfo) uint64 {
	hi, lo := bits.Mul64(g.Size, max(g.ArrayLength, 1))
	if hi != 0 {
		return math.MaxUint64
	}
	return lo
}

// addServiceInfo records the wire framing of the Ethernet services a view
// declares. FIBEX views are services; ARXML groups carry their service in
// the upper half of the message id.
func addServiceInfo(tables *decoder.Tables, ext extractor.Extractor, view *extractor.Node) error {
	children, err := ext.NodeChildren(view.ID)
	if err != nil {
		return err
	}

	switch view.View.FileType {
	case core.EthernetFileFIBEX:
		putService(tables, view.View.ServiceID, core.ServiceInfo{
			Technology:       view.View.Serialization.Technology,
			InterfaceVersion: view.View.InterfaceVersion,
			ProtocolVersion:  view.View.Serialization.Version,
		})
	case core.EthernetFileARXML:
		for _, g := range children {
			if g.Type != extractor.NodeTypeGroup {
				continue
			}
			putService(tables, uint16(g.Group.MessageID>>16), core.ServiceInfo{
				Technology:       g.Group.Serialization.Technology,
				InterfaceVersion: g.Group.InterfaceVersion,
				ProtocolVersion:  g.Group.Serialization.Version,
			})
		}
	default:
		return nil
	}

	for i := range children {
		if children[i].Type == extractor.NodeTypeView {
			if err := addServiceInfo(tables, ext, &children[i]); err != nil {
				return err
			}
		}
	}
	return nil
}

func putService(tables *decoder.Tables, serviceID uint16, info core.ServiceInfo) {
	prev, ok := tables.Services[serviceID]
	if !ok {
		tables.Services[serviceID] = info
		return
	}
	if prev != info {
		log.GetLogger().WithField("service_id", serviceID).
			Debug("service repeated with different serialization, keeping the first")
	}
}
