package modem

import "testing"

// TestOFDM_CPSyncCorrelationExceedsThreshold checks that on a clean
// signal, CP correlation at the correct symbol boundary exceeds 0.5.
func TestOFDM_CPSyncCorrelationExceedsThreshold(t *testing.T) {
	config := AmateurRadio64()
	modulator, err := NewOfdmModulator(config)
	if err != nil {
		t.Fatalf("NewOfdmModulator: %v", err)
	}
	demodulator, err := NewOfdmDemodulator(config)
	if err != nil {
		t.Fatalf("NewOfdmDemodulator: %v", err)
	}

	bits := []byte("TESTTESTTESTTESTTEST")
	samples, err := modulator.Modulate(bits)
	if err != nil {
		t.Fatalf("Modulate: %v", err)
	}

	offset, found := demodulator.findCPSync(samples)
	if !found {
		t.Fatalf("expected CP sync to be found on a clean signal")
	}
	if offset != 0 {
		t.Fatalf("expected the correct symbol boundary at offset 0, got %d", offset)
	}
}
