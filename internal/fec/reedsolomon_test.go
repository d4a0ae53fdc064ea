package fec_test

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/sandi2382/openham-modes/internal/fec"
)

// TestReedSolomonRecoversErasures checks that zeroing out up to
// parityShards shards before decode still recovers the original
// payload exactly.
func TestReedSolomonRecoversErasures(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		const dataShards = 4
		const parityShards = 2

		rs, err := fec.NewRSEncoderCustom(dataShards, parityShards)
		if err != nil {
			t.Fatalf("NewRSEncoderCustom: %v", err)
		}

		payloadLen := rapid.IntRange(0, 256).Draw(t, "payloadLen")
		payload := rapid.SliceOfN(rapid.Byte(), payloadLen, payloadLen).Draw(t, "payload")

		encoded, err := rs.EncodePayload(payload)
		if err != nil {
			t.Fatalf("EncodePayload: %v", err)
		}

		totalShards := dataShards + parityShards
		numErasures := rapid.IntRange(0, parityShards).Draw(t, "numErasures")
		start := rapid.IntRange(0, totalShards-numErasures).Draw(t, "start")
		erased := make([]int, numErasures)
		for i := range erased {
			erased[i] = start + i
		}

		recovered, err := rs.ReconstructWithErasures(encoded, erased)
		if err != nil {
			t.Fatalf("ReconstructWithErasures: %v", err)
		}
		if len(recovered) != len(payload) {
			t.Fatalf("length: got %d, want %d", len(recovered), len(payload))
		}
		for i := range payload {
			if recovered[i] != payload[i] {
				t.Fatalf("byte %d: got %d, want %d", i, recovered[i], payload[i])
			}
		}
	})
}

func TestReedSolomonEncodeDecodeRoundTrip(t *testing.T) {
	rs, err := fec.NewRSEncoder()
	if err != nil {
		t.Fatalf("NewRSEncoder: %v", err)
	}

	payload := []byte("the quick brown fox jumps over the lazy dog")
	encoded, err := rs.EncodePayload(payload)
	if err != nil {
		t.Fatalf("EncodePayload: %v", err)
	}
	decoded, err := rs.DecodePayload(encoded)
	if err != nil {
		t.Fatalf("DecodePayload: %v", err)
	}
	if string(decoded) != string(payload) {
		t.Fatalf("got %q, want %q", decoded, payload)
	}
}
