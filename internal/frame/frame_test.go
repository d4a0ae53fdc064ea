package frame_test

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/sandi2382/openham-modes/internal/core"
	"github.com/sandi2382/openham-modes/internal/frame"
)

// TestFrameRoundTrip checks that for every
// (frame_type, sequence, flags, payload), FromBytes(New(...).ToBytes())
// yields an identical frame.
func TestFrameRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		frameType := uint8(rapid.IntRange(0, 255).Draw(t, "frameType"))
		sequence := uint16(rapid.IntRange(0, 65535).Draw(t, "sequence"))
		flags := uint8(rapid.IntRange(0, 255).Draw(t, "flags"))
		payload := rapid.SliceOfN(rapid.Byte(), 0, 512).Draw(t, "payload")

		f := frame.New(frameType, sequence, flags, payload)
		decoded, err := frame.FromBytes(f.ToBytes())
		if err != nil {
			t.Fatalf("FromBytes: %v", err)
		}

		if decoded.Header.FrameType != frameType {
			t.Fatalf("frameType: got %d, want %d", decoded.Header.FrameType, frameType)
		}
		if decoded.Header.Sequence != sequence {
			t.Fatalf("sequence: got %d, want %d", decoded.Header.Sequence, sequence)
		}
		if decoded.Header.Flags != flags {
			t.Fatalf("flags: got %d, want %d", decoded.Header.Flags, flags)
		}
		if len(decoded.Payload) != len(payload) {
			t.Fatalf("payload length: got %d, want %d", len(decoded.Payload), len(payload))
		}
		for i := range payload {
			if decoded.Payload[i] != payload[i] {
				t.Fatalf("payload byte %d: got %d, want %d", i, decoded.Payload[i], payload[i])
			}
		}
	})
}

// TestFrameChecksumRejectsCorruption checks that flipping any single
// bit within the first 6 header bytes makes FromBytes fail.
func TestFrameChecksumRejectsCorruption(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		frameType := uint8(rapid.IntRange(0, 255).Draw(t, "frameType"))
		sequence := uint16(rapid.IntRange(0, 65535).Draw(t, "sequence"))
		flags := uint8(rapid.IntRange(0, 255).Draw(t, "flags"))
		payload := rapid.SliceOfN(rapid.Byte(), 0, 64).Draw(t, "payload")
		byteIdx := rapid.IntRange(0, 5).Draw(t, "byteIdx")
		bitIdx := rapid.IntRange(0, 7).Draw(t, "bitIdx")

		f := frame.New(frameType, sequence, flags, payload)
		wire := f.ToBytes()
		wire[byteIdx] ^= 1 << uint(bitIdx)

		if _, err := frame.FromBytes(wire); err == nil {
			t.Fatalf("expected corruption at byte %d bit %d to be rejected", byteIdx, bitIdx)
		} else if !core.IsKind(err, core.KindInvalidFormat) {
			t.Fatalf("expected KindInvalidFormat, got %v", err)
		}
	})
}

func TestWithPreambleAndSearch(t *testing.T) {
	f := frame.New(frame.TypeData, 42, frame.FlagNone, []byte("Hello, World!"))
	wire := frame.WithPreamble(f.ToBytes())

	post, ok := frame.Search(wire)
	if !ok {
		t.Fatalf("expected to find the preamble")
	}

	decoded, err := frame.FromBytes(post)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	if string(decoded.Payload) != "Hello, World!" {
		t.Fatalf("payload: got %q", decoded.Payload)
	}
	if decoded.Header.Sequence != 42 {
		t.Fatalf("sequence: got %d, want 42", decoded.Header.Sequence)
	}
}
