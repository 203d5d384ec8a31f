package butterfly

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	"github.com/nathaniel-bennett/butterfly/pkg/errs"
	"github.com/nathaniel-bennett/butterfly/pkg/hash"
)

// Packets is the input container (component B): an ordered sequence of
// packets representing one session. Order is semantically meaningful —
// protocols are stateful — so every mutator here either preserves order
// or changes it deliberately (Reorder).
type Packets[P Packet[P]] struct {
	pkts []P
}

// NewPackets wraps an existing packet slice. Ownership of pkts transfers
// to the returned Packets.
func NewPackets[P Packet[P]](pkts []P) *Packets[P] {
	return &Packets[P]{pkts: pkts}
}

// ImportSeed builds a Packets from an offline capture's reassembled
// byte stream, delegating to the protocol's CaptureParser (component A's
// from_capture hook).
func ImportSeed[P Packet[P]](r io.Reader, parse CaptureParser[P]) (*Packets[P], error) {
	pkts, err := parse(r)
	if err != nil {
		return nil, errors.Wrap(err, "importing seed capture")
	}
	return &Packets[P]{pkts: pkts}, nil
}

// Len returns the number of packets.
func (p *Packets[P]) Len() int {
	return len(p.pkts)
}

// Packets returns read-only access to the packet slice.
func (p *Packets[P]) Packets() []P {
	return p.pkts
}

// At returns a pointer to the packet at index i, allowing in-place
// mutation without a defensive copy.
func (p *Packets[P]) At(i int) *P {
	return &p.pkts[i]
}

// Swap exchanges the packets at indices i and j.
func (p *Packets[P]) Swap(i, j int) {
	p.pkts[i], p.pkts[j] = p.pkts[j], p.pkts[i]
}

// RemoveAt deletes and returns the packet at index i.
func (p *Packets[P]) RemoveAt(i int) P {
	removed := p.pkts[i]
	p.pkts = append(p.pkts[:i], p.pkts[i+1:]...)
	return removed
}

// InsertAt inserts pkt before index i. i == Len() appends.
func (p *Packets[P]) InsertAt(i int, pkt P) {
	p.pkts = append(p.pkts, pkt)
	copy(p.pkts[i+1:], p.pkts[i:])
	p.pkts[i] = pkt
}

// Serialize renders the input to its wire form (spec §3):
//
//	u32_be N            -- packet count
//	repeat N times:
//	    u32_be L         -- length of this packet's bytes
//	    L bytes          -- protocol-specific encoding
func (p *Packets[P]) Serialize() []byte {
	var buf bytes.Buffer
	var hdr [4]byte

	binary.BigEndian.PutUint32(hdr[:], uint32(len(p.pkts)))
	buf.Write(hdr[:])

	for _, pkt := range p.pkts {
		var pktBuf bytes.Buffer
		pkt.Write(&pktBuf)

		binary.BigEndian.PutUint32(hdr[:], uint32(pktBuf.Len()))
		buf.Write(hdr[:])
		buf.Write(pktBuf.Bytes())
	}

	return buf.Bytes()
}

// Name computes the stable corpus filename for this input: the 16
// lowercase hex digits of the hash of its serialized bytes.
func (p *Packets[P]) Name() string {
	return hash.Hash(p.Serialize()).String()
}

// PacketParser parses one packet's raw wire bytes back into a P, for
// protocols that can invert their own encoding. Not every protocol binding
// can do this (e.g. a command-line protocol whose encoder never recorded
// a matching decoder); those bindings should not call Deserialize.
type PacketParser[P Packet[P]] func(raw []byte) (P, error)

// Deserialize parses the wire form written by Serialize back into a
// Packets, using parse to decode each packet's raw bytes. Any framing
// error (truncation, bad length prefix, trailing bytes) is reported as
// errs.ErrInvalidCorpusEntry.
func Deserialize[P Packet[P]](data []byte, parse PacketParser[P]) (*Packets[P], error) {
	if len(data) < 4 {
		return nil, errors.Wrap(errs.ErrInvalidCorpusEntry, "truncated packet count")
	}

	count := binary.BigEndian.Uint32(data[:4])
	idx := 4

	pkts := make([]P, 0, count)
	for i := uint32(0); i < count; i++ {
		if len(data)-idx < 4 {
			return nil, errors.Wrap(errs.ErrInvalidCorpusEntry, "truncated length prefix")
		}
		length := binary.BigEndian.Uint32(data[idx : idx+4])
		idx += 4

		if uint32(len(data)-idx) < length {
			return nil, errors.Wrap(errs.ErrInvalidCorpusEntry, "truncated packet body")
		}
		raw := data[idx : idx+int(length)]
		idx += int(length)

		pkt, err := parse(raw)
		if err != nil {
			return nil, errors.Wrap(errs.ErrInvalidCorpusEntry, err.Error())
		}
		pkts = append(pkts, pkt)
	}

	if idx != len(data) {
		return nil, errors.Wrap(errs.ErrInvalidCorpusEntry, "excess bytes at end of corpus entry")
	}

	return &Packets[P]{pkts: pkts}, nil
}
