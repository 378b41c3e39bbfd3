package decoder

import (
	"encoding/binary"
	"net"
	"testing"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/stretchr/testify/require"

	"firestige.xyz/udex/internal/core"
	"firestige.xyz/udex/internal/core/hash"
)

// drained collects everything a Package yields.
type drained struct {
	ids      []core.PackageIdentity
	hashes   []uint64
	payloads []core.Payload
	metas    []core.MetaType
	names    []string
}

func drain(p *Package) drained {
	var d drained
	for p.PayloadAvailable() {
		id := p.GetMetaInfo()
		d.ids = append(d.ids, id)
		d.hashes = append(d.hashes, hash.Hash(id))
		d.metas = append(d.metas, p.GetMetaType())
		d.names = append(d.names, p.GetPackageName())
		d.payloads = append(d.payloads, p.GetPayload())
	}
	return d
}

func (d drained) offsets() []uint64 {
	out := make([]uint64, len(d.payloads))
	for i, p := range d.payloads {
		out[i] = p.Offset
	}
	return out
}

func (d drained) sizes() []uint64 {
	out := make([]uint64, len(d.payloads))
	for i, p := range d.payloads {
		out[i] = p.Size
	}
	return out
}

// softwarePackage builds an ECU software package whose content bytes count
// up from 0 so slices can be checked by value.
func softwarePackage(source uint16, instance, cycle, address uint32, contentLen int) *core.RawPackage {
	data := make([]byte, softwarePayloadOffset+contentLen)
	binary.LittleEndian.PutUint32(data[0:4], address)
	binary.LittleEndian.PutUint32(data[4:8], uint32(contentLen))
	binary.LittleEndian.PutUint16(data[8:10], 3)
	data[10] = 1
	for i := 0; i < contentLen; i++ {
		data[softwarePayloadOffset+i] = byte(i)
	}
	return &core.RawPackage{
		SourceID:       source,
		InstanceNumber: instance,
		CycleID:        cycle,
		CycleState:     core.CycleStateBody,
		Size:           uint64(len(data)),
		FormatType:     "mts.mta.sw",
		Data:           data,
	}
}

func canPackage(instance, frameID uint32, dlc uint8, dataLen int) *core.RawPackage {
	data := make([]byte, canHeaderLen+dataLen)
	binary.LittleEndian.PutUint32(data[0:4], frameID)
	data[4] = dlc
	return &core.RawPackage{
		SourceID:       core.SourceIDVehicleBusCAN,
		InstanceNumber: instance,
		CycleID:        frameID,
		Size:           uint64(len(data)),
		FormatType:     "mts.can",
		Data:           data,
	}
}

func gpsPackage(cycle, packetType uint32, dataLen int) *core.RawPackage {
	data := make([]byte, gpsHeaderLen+dataLen)
	binary.LittleEndian.PutUint32(data[0:4], packetType)
	return &core.RawPackage{
		SourceID:   core.SourceIDReferenceGPS,
		CycleID:    cycle,
		Size:       uint64(len(data)),
		FormatType: "mts.gps.generic",
		Data:       data,
	}
}

func rtRangePackage(address uint32, dataLen int) *core.RawPackage {
	data := make([]byte, rtRangeHeaderLen+dataLen)
	binary.LittleEndian.PutUint32(data[0:4], address)
	return &core.RawPackage{
		SourceID:   core.SourceIDVehicleBusEthernet,
		Size:       uint64(len(data)),
		FormatType: "mts.eth.rtrange",
		Data:       data,
	}
}

func someIPFrame(service, method uint16, dataLen int, protocolVersion, interfaceVersion uint8) []byte {
	b := make([]byte, someIPHeaderLen+dataLen)
	binary.BigEndian.PutUint16(b[0:2], service)
	binary.BigEndian.PutUint16(b[2:4], method)
	binary.BigEndian.PutUint32(b[4:8], uint32(dataLen+someIPLengthAdjust))
	binary.BigEndian.PutUint16(b[8:10], 0x0001)
	binary.BigEndian.PutUint16(b[10:12], 0x0001)
	b[12] = protocolVersion
	b[13] = interfaceVersion
	b[14] = 0x02
	for i := 0; i < dataLen; i++ {
		b[someIPHeaderLen+i] = byte(i)
	}
	return b
}

func autosarFrame(service, method uint16, dataLen int) []byte {
	b := make([]byte, autosarHeaderLen+dataLen)
	binary.BigEndian.PutUint16(b[0:2], service)
	binary.BigEndian.PutUint16(b[2:4], method)
	binary.BigEndian.PutUint32(b[4:8], uint32(dataLen))
	return b
}

func ethernetLayer() *layers.Ethernet {
	return &layers.Ethernet{
		SrcMAC: net.HardwareAddr{0x02, 0x00, 0x00, 0x00, 0x00, 0x01},
		DstMAC: net.HardwareAddr{0x01, 0x00, 0x5E, 0x00, 0x00, 0x01},
	}
}

// udpFrame wraps payload in Ethernet/IPv4/UDP.
func udpFrame(t testing.TB, payload []byte) []byte {
	t.Helper()
	eth := ethernetLayer()
	eth.EthernetType = layers.EthernetTypeIPv4
	ip := &layers.IPv4{
		Version:  4,
		IHL:      5,
		TTL:      64,
		Protocol: layers.IPProtocolUDP,
		SrcIP:    net.IP{160, 48, 199, 16},
		DstIP:    net.IP{160, 48, 199, 34},
	}
	udp := &layers.UDP{SrcPort: 30501, DstPort: 30502}
	require.NoError(t, udp.SetNetworkLayerForChecksum(ip))

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
	require.NoError(t, gopacket.SerializeLayers(buf, opts, eth, ip, udp, gopacket.Payload(payload)))
	return buf.Bytes()
}

// tcpFrame wraps payload in Ethernet/IPv4/TCP.
func tcpFrame(t testing.TB, payload []byte) []byte {
	t.Helper()
	eth := ethernetLayer()
	eth.EthernetType = layers.EthernetTypeIPv4
	ip := &layers.IPv4{
		Version:  4,
		IHL:      5,
		TTL:      64,
		Protocol: layers.IPProtocolTCP,
		SrcIP:    net.IP{160, 48, 199, 16},
		DstIP:    net.IP{160, 48, 199, 34},
	}
	tcp := &layers.TCP{SrcPort: 30501, DstPort: 30502, Seq: 1, PSH: true, ACK: true, Window: 1024}
	require.NoError(t, tcp.SetNetworkLayerForChecksum(ip))

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
	require.NoError(t, gopacket.SerializeLayers(buf, opts, eth, ip, tcp, gopacket.Payload(payload)))
	return buf.Bytes()
}

// arpFrame is Ethernet traffic without a transport layer.
func arpFrame(t testing.TB) []byte {
	t.Helper()
	eth := ethernetLayer()
	eth.EthernetType = layers.EthernetTypeARP
	arp := &layers.ARP{
		AddrType:          layers.LinkTypeEthernet,
		Protocol:          layers.EthernetTypeIPv4,
		HwAddressSize:     6,
		ProtAddressSize:   4,
		Operation:         layers.ARPRequest,
		SourceHwAddress:   []byte{0x02, 0, 0, 0, 0, 1},
		SourceProtAddress: []byte{160, 48, 199, 16},
		DstHwAddress:      []byte{0, 0, 0, 0, 0, 0},
		DstProtAddress:    []byte{160, 48, 199, 34},
	}
	buf := gopacket.NewSerializeBuffer()
	require.NoError(t, gopacket.SerializeLayers(buf, gopacket.SerializeOptions{FixLengths: true}, eth, arp))
	return buf.Bytes()
}

func ethernetPackage(frame []byte) *core.RawPackage {
	return &core.RawPackage{
		SourceID:       core.SourceIDVehicleBusEthernet,
		InstanceNumber: 1,
		Size:           uint64(len(frame)),
		FormatType:     "mts.eth",
		Data:           frame,
	}
}
