package decoder

import (
	"sync"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"firestige.xyz/udex/internal/core"
)

// frameParser extracts the transport payload of an Ethernet frame. Parsers
// keep decoded layer state and are pooled.
type frameParser struct {
	parser *gopacket.DecodingLayerParser

	eth     layers.Ethernet
	dot1q   layers.Dot1Q
	ip4     layers.IPv4
	ip6     layers.IPv6
	tcp     layers.TCP
	udp     layers.UDP
	payload gopacket.Payload

	decoded []gopacket.LayerType
}

func newFrameParser() *frameParser {
	p := &frameParser{decoded: make([]gopacket.LayerType, 0, 8)}
	p.parser = gopacket.NewDecodingLayerParser(
		layers.LayerTypeEthernet,
		&p.eth,
		&p.dot1q,
		&p.ip4,
		&p.ip6,
		&p.tcp,
		&p.udp,
		&p.payload,
	)
	p.parser.IgnoreUnsupported = true
	return p
}

var frameParsers = sync.Pool{
	New: func() any { return newFrameParser() },
}

// transportPayload returns the UDP or TCP payload of frame. The returned slice
// aliases frame.
func transportPayload(frame []byte) ([]byte, error) {
	if len(frame) == 0 {
		return nil, core.ErrNoTransportLayer
	}

	p := frameParsers.Get().(*frameParser)
	defer frameParsers.Put(p)

	p.decoded = p.decoded[:0]
	if err := p.parser.DecodeLayers(frame, &p.decoded); err != nil {
		return nil, err
	}

	for _, layerType := range p.decoded {
		switch layerType {
		case layers.LayerTypeUDP:
			if len(p.udp.Payload) > 0 {
				return p.udp.Payload, nil
			}
		case layers.LayerTypeTCP:
			if len(p.tcp.Payload) > 0 {
				return p.tcp.Payload, nil
			}
		}
	}
	return nil, core.ErrNoTransportLayer
}

// HasPayload reports whether frame carries measurement traffic, i.e. a
// non-empty UDP or TCP payload.
func HasPayload(frame []byte) bool {
	payload, err := transportPayload(frame)
	return err == nil && len(payload) > 0
}
