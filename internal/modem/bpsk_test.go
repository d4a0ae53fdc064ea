package modem_test

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/sandi2382/openham-modes/internal/frame"
	"github.com/sandi2382/openham-modes/internal/modem"
)

// TestBPSKEndToEnd checks that any payload up to 128 bytes survives
// BPSK modulation and demodulation at high SNR (no noise added) with
// the sync preamble and frame recoverable.
func TestBPSKEndToEnd(t *testing.T) {
	cfg, err := modem.NewConfig(48000, 125, 1500)
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}

	rapid.Check(t, func(t *rapid.T) {
		payloadLen := rapid.IntRange(0, 128).Draw(t, "payloadLen")
		payload := rapid.SliceOfN(rapid.Byte(), payloadLen, payloadLen).Draw(t, "payload")

		f := frame.New(frame.TypeData, 1, frame.FlagNone, payload)
		wire := frame.WithPreamble(f.ToBytes())

		mod, err := modem.NewBpskModulator(cfg)
		if err != nil {
			t.Fatalf("NewBpskModulator: %v", err)
		}
		samples, err := mod.Modulate(wire)
		if err != nil {
			t.Fatalf("Modulate: %v", err)
		}

		demod, err := modem.NewBpskDemodulator(cfg)
		if err != nil {
			t.Fatalf("NewBpskDemodulator: %v", err)
		}
		recovered, err := demod.Demodulate(samples)
		if err != nil {
			t.Fatalf("Demodulate: %v", err)
		}

		post, ok := frame.Search(recovered)
		if !ok {
			t.Fatalf("sync preamble not found in recovered stream")
		}
		decoded, err := frame.FromBytes(post)
		if err != nil {
			t.Fatalf("FromBytes: %v", err)
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
