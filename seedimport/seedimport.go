// Package seedimport turns an offline packet capture into the reassembled
// command-connection byte stream that a protocol binding's
// bf.CaptureParser consumes (spec §6). It is grounded on the
// ethernet/IP/TCP layer-walking style of the netcap decoders
// (DynamEq6388-netcap/decoder/gopacketDecoder.go), adapted from their
// fork of gopacket to github.com/google/gopacket.
package seedimport

import (
	"bytes"
	"os"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"github.com/pkg/errors"

	"github.com/nathaniel-bennett/butterfly/pkg/log"
)

type fourTuple struct {
	srcIP, dstIP     string
	srcPort, dstPort layers.TCPPort
}

func (t fourTuple) reversed() fourTuple {
	return fourTuple{srcIP: t.dstIP, dstIP: t.srcIP, srcPort: t.dstPort, dstPort: t.srcPort}
}

// ReassembleClientStream opens a libpcap offline capture, finds the first
// client→server TCP flow (the first SYN seen without ACK set), and
// returns the concatenation of that flow's client-to-server payload
// bytes in sequence order, stopping at the first FIN or RST on that flow.
// Frames that fail to parse as Ethernet/IPv4/TCP are silently skipped, per
// spec §6.
func ReassembleClientStream(pcapPath string) ([]byte, error) {
	f, err := os.Open(pcapPath)
	if err != nil {
		return nil, errors.Wrap(err, "opening pcap")
	}
	defer f.Close()

	reader, err := pcapgo.NewReader(f)
	if err != nil {
		return nil, errors.Wrap(err, "reading pcap header")
	}

	source := gopacket.NewPacketSource(reader, layers.LayerTypeEthernet)

	var (
		flow     fourTuple
		haveFlow bool
		stream   bytes.Buffer
		nextSeq  uint32
		haveSeq  bool
		pending  = map[uint32][]byte{}
	)

	for packet := range source.Packets() {
		tcp, ip, ok := tcpLayer(packet)
		if !ok {
			continue
		}

		this := fourTuple{
			srcIP:   ip.SrcIP.String(),
			dstIP:   ip.DstIP.String(),
			srcPort: tcp.SrcPort,
			dstPort: tcp.DstPort,
		}

		if !haveFlow {
			if tcp.SYN && !tcp.ACK {
				flow = this
				haveFlow = true
				nextSeq = tcp.Seq + 1
				haveSeq = true
				log.Logf(2, "seedimport: tracking flow %v", flow)
			}
			continue
		}

		switch {
		case this == flow:
			if tcp.FIN || tcp.RST {
				return stream.Bytes(), nil
			}
			appendOrdered(&stream, &nextSeq, &haveSeq, pending, tcp.Seq, tcp.Payload)
		case this == flow.reversed():
			if tcp.FIN || tcp.RST {
				return stream.Bytes(), nil
			}
			// Server→client traffic on the same connection; not part of
			// the client command stream.
		default:
			continue
		}
	}

	return stream.Bytes(), nil
}

// appendOrdered buffers out-of-order TCP segments and flushes whatever
// prefix is now contiguous, so retransmissions or reordered captures
// don't corrupt the reassembled stream.
func appendOrdered(stream *bytes.Buffer, nextSeq *uint32, haveSeq *bool, pending map[uint32][]byte, seq uint32, payload []byte) {
	if len(payload) == 0 {
		return
	}
	if !*haveSeq {
		*nextSeq = seq
		*haveSeq = true
	}
	pending[seq] = payload

	for {
		chunk, ok := pending[*nextSeq]
		if !ok {
			return
		}
		stream.Write(chunk)
		delete(pending, *nextSeq)
		*nextSeq += uint32(len(chunk))
	}
}

func tcpLayer(packet gopacket.Packet) (*layers.TCP, *layers.IPv4, bool) {
	ipLayer := packet.Layer(layers.LayerTypeIPv4)
	tcpLayerRaw := packet.Layer(layers.LayerTypeTCP)
	if ipLayer == nil || tcpLayerRaw == nil {
		return nil, nil, false
	}
	ip, ok := ipLayer.(*layers.IPv4)
	if !ok {
		return nil, nil, false
	}
	tcp, ok := tcpLayerRaw.(*layers.TCP)
	if !ok {
		return nil, nil, false
	}
	return tcp, ip, true
}

// SplitCRLFCommands splits a reassembled client byte stream into
// CRLF-terminated commands, matching the "each payload with a CRLF
// terminator is one command" rule from spec §4.1/§6. A trailing command
// without a terminator is dropped, mirroring "malformed bytes are
// silently skipped".
func SplitCRLFCommands(stream []byte) [][]byte {
	var commands [][]byte
	for {
		idx := bytes.Index(stream, []byte("\r\n"))
		if idx < 0 {
			return commands
		}
		commands = append(commands, stream[:idx])
		stream = stream[idx+2:]
	}
}
