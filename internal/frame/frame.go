// Package frame implements the 8-byte-header wire frame and its
// preceding sync preamble, ported from original_source's
// crates/frame/src/frame.rs — the exact format this modem's wire
// protocol requires, distinct from the CRC32-based framing of
// internal/protocol/frame.go.
package frame

import (
	"encoding/binary"

	"github.com/sandi2382/openham-modes/internal/core"
)

// HeaderSize is the fixed size of a serialized FrameHeader.
const HeaderSize = 8

// Frame type constants. Data and Control are the two the wire format
// names explicitly; the rest of the 8-bit space is reserved (carried
// here, unvalidated, for forward compatibility) per the header
// table's "others reserved" language.
const (
	TypeData      uint8 = 0x01
	TypeControl   uint8 = 0x02
	TypeKeepalive uint8 = 0x03
	TypeAck       uint8 = 0x04
	TypeNack      uint8 = 0x05
)

// Frame flag bits. Encrypted is deliberately not defined: amateur
// radio licensing prohibits obscured transmissions, matching the
// original's own comment on the equivalent Rust constant.
const (
	FlagNone          uint8 = 0x00
	FlagMoreFragments uint8 = 0x01
	FlagPriority      uint8 = 0x02
	FlagCompressed    uint8 = 0x08
)

// Header is the fixed 8-byte, big-endian frame header.
type Header struct {
	FrameType     uint8
	Sequence      uint16
	PayloadLength uint16
	Flags         uint8
	Checksum      uint16
}

// NewHeader computes the checksum and returns a valid header.
func NewHeader(frameType uint8, sequence uint16, payloadLength uint16, flags uint8) Header {
	h := Header{FrameType: frameType, Sequence: sequence, PayloadLength: payloadLength, Flags: flags}
	h.Checksum = h.calculateChecksum()
	return h
}

// calculateChecksum is the ones-complement of the 16-bit wrapping sum
// of the first four fields, frame_type widened to u16.
func (h Header) calculateChecksum() uint16 {
	sum := uint16(h.FrameType) + h.Sequence + h.PayloadLength + uint16(h.Flags)
	return ^sum
}

// ValidateChecksum reports whether the stored checksum matches the
// one computed from the other fields.
func (h Header) ValidateChecksum() bool {
	return h.Checksum == h.calculateChecksum()
}

// ToBytes serializes the header in the fixed big-endian layout.
func (h Header) ToBytes() []byte {
	b := make([]byte, HeaderSize)
	b[0] = h.FrameType
	binary.BigEndian.PutUint16(b[1:3], h.Sequence)
	binary.BigEndian.PutUint16(b[3:5], h.PayloadLength)
	b[5] = h.Flags
	binary.BigEndian.PutUint16(b[6:8], h.Checksum)
	return b
}

// HeaderFromBytes parses a header and validates its checksum.
func HeaderFromBytes(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, core.NewError(core.KindInvalidFormat, "HeaderFromBytes", nil)
	}
	h := Header{
		FrameType:     b[0],
		Sequence:      binary.BigEndian.Uint16(b[1:3]),
		PayloadLength: binary.BigEndian.Uint16(b[3:5]),
		Flags:         b[5],
		Checksum:      binary.BigEndian.Uint16(b[6:8]),
	}
	if !h.ValidateChecksum() {
		return Header{}, core.NewError(core.KindInvalidFormat, "HeaderFromBytes", nil)
	}
	return h, nil
}

// Frame is a header plus a payload whose length matches
// header.PayloadLength. Frames are value objects: once built, a Frame
// is never mutated.
type Frame struct {
	Header  Header
	Payload []byte
}

// New builds a Frame, computing the header's checksum and payload
// length from the given payload.
func New(frameType uint8, sequence uint16, flags uint8, payload []byte) *Frame {
	return &Frame{
		Header:  NewHeader(frameType, sequence, uint16(len(payload)), flags),
		Payload: payload,
	}
}

// TotalSize is the serialized size: header plus payload.
func (f *Frame) TotalSize() int { return HeaderSize + len(f.Payload) }

// ToBytes concatenates the header and payload.
func (f *Frame) ToBytes() []byte {
	out := make([]byte, 0, f.TotalSize())
	out = append(out, f.Header.ToBytes()...)
	out = append(out, f.Payload...)
	return out
}

// FromBytes parses a header, then reads header.PayloadLength bytes of
// payload. Trailing bytes beyond the declared payload are ignored.
func FromBytes(b []byte) (*Frame, error) {
	h, err := HeaderFromBytes(b)
	if err != nil {
		return nil, err
	}
	need := int(h.PayloadLength)
	if len(b)-HeaderSize < need {
		return nil, core.NewError(core.KindSizeMismatch, "FromBytes", nil)
	}
	payload := make([]byte, need)
	copy(payload, b[HeaderSize:HeaderSize+need])
	return &Frame{Header: h, Payload: payload}, nil
}

// Builder is a fluent constructor: set a frame type, optionally a
// sequence and flags, then Build(payload) finalizes the header.
type Builder struct {
	frameType uint8
	sequence  uint16
	flags     uint8
}

func NewBuilder(frameType uint8) *Builder {
	return &Builder{frameType: frameType}
}

func (b *Builder) Sequence(seq uint16) *Builder {
	b.sequence = seq
	return b
}

func (b *Builder) Flags(flags uint8) *Builder {
	b.flags = flags
	return b
}

func (b *Builder) Build(payload []byte) *Frame {
	return New(b.frameType, b.sequence, b.flags, payload)
}
