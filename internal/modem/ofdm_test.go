package modem

import (
	"testing"
)

func TestOFDM_ModDemod_Loopback(t *testing.T) {
	config := AmateurRadio64()

	modulator, err := NewOfdmModulator(config)
	if err != nil {
		t.Fatalf("NewOfdmModulator: %v", err)
	}
	demodulator, err := NewOfdmDemodulator(config)
	if err != nil {
		t.Fatalf("NewOfdmDemodulator: %v", err)
	}

	bits := make([]byte, 8)
	for i := range bits {
		bits[i] = byte(i%251 + 1)
	}

	samples, err := modulator.Modulate(bits)
	if err != nil {
		t.Fatalf("Modulate: %v", err)
	}

	recovered, err := demodulator.Demodulate(samples)
	if err != nil {
		t.Fatalf("Demodulate: %v", err)
	}
	if !demodulator.IsSynchronized() {
		t.Fatal("demodulator did not synchronize on its own modulated signal")
	}

	if len(recovered) < len(bits) {
		t.Fatalf("recovered %d bytes, want at least %d", len(recovered), len(bits))
	}
	for i := range bits {
		if bits[i] != recovered[i] {
			t.Errorf("byte %d: got 0x%02x, want 0x%02x", i, recovered[i], bits[i])
		}
	}
}

func TestOFDM_MultiSymbol(t *testing.T) {
	config := AmateurRadio64()
	modulator, err := NewOfdmModulator(config)
	if err != nil {
		t.Fatalf("NewOfdmModulator: %v", err)
	}

	bitsPerSym := config.BitsPerSymbol()
	numBytes := (bitsPerSym * 3) / 8
	bits := make([]byte, numBytes)
	for i := range bits {
		bits[i] = byte((i * 7) % 256)
	}

	samples, err := modulator.Modulate(bits)
	if err != nil {
		t.Fatalf("Modulate: %v", err)
	}

	if len(samples)%config.SymbolLength() != 0 {
		t.Errorf("sample count %d is not a multiple of symbol length %d", len(samples), config.SymbolLength())
	}
}

func TestBytesToBits_BitsToBytes(t *testing.T) {
	data := []byte{0xAB, 0xCD, 0xEF}
	bits := bytesToBits(data)

	if len(bits) != 24 {
		t.Fatalf("Expected 24 bits, got %d", len(bits))
	}

	recovered := bitsToBytes(bits)
	for i := range data {
		if data[i] != recovered[i] {
			t.Errorf("byte %d: 0x%02x != 0x%02x", i, data[i], recovered[i])
		}
	}
}

func TestOfdmConfig_AmateurRadio64_Invariants(t *testing.T) {
	config := AmateurRadio64()

	seen := make(map[int]bool)
	for _, c := range config.DataCarriers {
		if seen[c] {
			t.Fatalf("carrier %d assigned twice", c)
		}
		seen[c] = true
	}
	for _, c := range config.PilotCarriers {
		if seen[c] {
			t.Fatalf("pilot carrier %d collides with a data carrier", c)
		}
		seen[c] = true
	}

	if config.SymbolLength() != config.FFTSize+config.CPLength {
		t.Errorf("SymbolLength() = %d, want %d", config.SymbolLength(), config.FFTSize+config.CPLength)
	}
}

func TestApplyDCRemoval(t *testing.T) {
	samples := make([]float64, 1000)
	for i := range samples {
		samples[i] = 0.5 + 0.1*float64(i%2)
	}

	filtered := ApplyDCRemoval(samples)

	var dcSum float64
	for i := len(filtered) - 100; i < len(filtered); i++ {
		dcSum += filtered[i]
	}
	dcAvg := dcSum / 100.0

	if dcAvg > 0.1 {
		t.Errorf("DC not sufficiently removed: avg = %v", dcAvg)
	}
}

func TestMapDemapQPSKGray(t *testing.T) {
	cases := [][2]byte{{0, 0}, {0, 1}, {1, 0}, {1, 1}}
	for _, bits := range cases {
		sym := mapQPSKGray(bits[0], bits[1])
		b0, b1 := demapQPSKGray(sym)
		if b0 != bits[0] || b1 != bits[1] {
			t.Errorf("mapQPSKGray(%d,%d) roundtrip got (%d,%d)", bits[0], bits[1], b0, b1)
		}
	}
}
