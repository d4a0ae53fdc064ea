package tx_test

import (
	"math"
	"testing"

	"pgregory.net/rapid"

	"github.com/sandi2382/openham-modes/internal/modem"
	"github.com/sandi2382/openham-modes/internal/tx"
)

// TestPowerScalingIsLinear checks that for any TX result S and scalar
// k in [0,1], the coordinator with power=k produces a waveform equal
// to k*S sample-wise.
func TestPowerScalingIsLinear(t *testing.T) {
	cfg, err := modem.NewConfig(48000, 125, 1500)
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}

	rapid.Check(t, func(t *rapid.T) {
		// Power=0 is reserved by the coordinator to mean "unset,
		// default to unity" (see Options.Power), so this property is
		// checked over the half-open interval (0, 1] instead.
		k := rapid.Float64Range(1e-6, 1).Draw(t, "k")

		unityMod, err := modem.NewBpskModulator(cfg)
		if err != nil {
			t.Fatalf("NewBpskModulator: %v", err)
		}
		coord := tx.NewCoordinator(nil)
		unity, err := coord.Run("scale me", tx.Options{
			Modulator:  unityMod,
			SampleRate: 48000,
			Power:      1.0,
		})
		if err != nil {
			t.Fatalf("Run(power=1): %v", err)
		}

		scaledMod, err := modem.NewBpskModulator(cfg)
		if err != nil {
			t.Fatalf("NewBpskModulator: %v", err)
		}
		scaled, err := coord.Run("scale me", tx.Options{
			Modulator:  scaledMod,
			SampleRate: 48000,
			Power:      k,
		})
		if err != nil {
			t.Fatalf("Run(power=%v): %v", k, err)
		}

		if len(unity.Samples) != len(scaled.Samples) {
			t.Fatalf("sample count mismatch: %d vs %d", len(unity.Samples), len(scaled.Samples))
		}
		const tolerance = 1e-9
		for i := range unity.Samples {
			want := unity.Samples[i].Real * k
			got := scaled.Samples[i].Real
			if math.Abs(want-got) > tolerance {
				t.Fatalf("sample %d: got %v, want %v (k=%v)", i, got, want, k)
			}
		}
	})
}
