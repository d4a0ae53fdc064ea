package modem

import (
	"testing"
)

const (
	testFFTSize  = 512
	testCPLen    = 64
	testStartIdx = 12
	testEndIdx   = 232
)

func TestPreambleGeneration(t *testing.T) {
	pg, err := NewPreambleGenerator(testFFTSize, testCPLen, testStartIdx, testEndIdx)
	if err != nil {
		t.Fatalf("NewPreambleGenerator: %v", err)
	}
	sym1, sym2, err := pg.GenerateSchmidlCox()
	if err != nil {
		t.Fatalf("GenerateSchmidlCox: %v", err)
	}

	expectedLen := testFFTSize + testCPLen
	if len(sym1) != expectedLen {
		t.Errorf("Symbol 1 length: %d, expected %d", len(sym1), expectedLen)
	}
	if len(sym2) != expectedLen {
		t.Errorf("Symbol 2 length: %d, expected %d", len(sym2), expectedLen)
	}

	for i, s := range sym1 {
		if s > 1.0 || s < -1.0 {
			t.Errorf("Symbol 1 sample %d out of range: %v", i, s)
			break
		}
	}
}

func TestPreambleDetection(t *testing.T) {
	pg, err := NewPreambleGenerator(testFFTSize, testCPLen, testStartIdx, testEndIdx)
	if err != nil {
		t.Fatalf("NewPreambleGenerator: %v", err)
	}
	sym1, sym2, err := pg.GenerateSchmidlCox()
	if err != nil {
		t.Fatalf("GenerateSchmidlCox: %v", err)
	}

	silence := make([]float64, 1000)
	var signal []float64
	signal = append(signal, silence...)
	signal = append(signal, sym1...)
	signal = append(signal, sym2...)
	dummy := make([]float64, 2000)
	signal = append(signal, dummy...)

	detector := NewPreambleDetector(testFFTSize, testCPLen)
	idx := detector.Detect(signal)

	if idx < 0 {
		t.Fatal("Preamble not detected")
	}

	preambleStart := 1000
	preambleEnd := preambleStart + 2*(testFFTSize+testCPLen)
	if idx < preambleStart || idx > preambleEnd {
		t.Errorf("Preamble detected at %d, expected within [%d, %d]", idx, preambleStart, preambleEnd)
	}
}

func TestChannelEstimation(t *testing.T) {
	pg, err := NewPreambleGenerator(testFFTSize, testCPLen, testStartIdx, testEndIdx)
	if err != nil {
		t.Fatalf("NewPreambleGenerator: %v", err)
	}
	samples, known, err := pg.GenerateChannelEstimation()
	if err != nil {
		t.Fatalf("GenerateChannelEstimation: %v", err)
	}

	if len(samples) != testFFTSize+testCPLen {
		t.Errorf("Channel estimation symbol length: %d, expected %d", len(samples), testFFTSize+testCPLen)
	}

	nonZero := 0
	for k := testStartIdx; k <= testEndIdx; k++ {
		if known[k] != 0 {
			nonZero++
		}
	}

	if nonZero == 0 {
		t.Error("No non-zero known symbols in channel estimation")
	}
}

// TestOFDM_PreambleCoarseSync exercises the production wiring: with
// UsePreamble set, OfdmModulator prepends a Schmidl-Cox preamble and
// OfdmDemodulator locates it before running its per-symbol CP search.
func TestOFDM_PreambleCoarseSync(t *testing.T) {
	config := AmateurRadio64()
	config.UsePreamble = true

	modulator, err := NewOfdmModulator(config)
	if err != nil {
		t.Fatalf("NewOfdmModulator: %v", err)
	}
	demodulator, err := NewOfdmDemodulator(config)
	if err != nil {
		t.Fatalf("NewOfdmDemodulator: %v", err)
	}

	bits := []byte("HELLO")
	samples, err := modulator.Modulate(bits)
	if err != nil {
		t.Fatalf("Modulate: %v", err)
	}

	recovered, err := demodulator.Demodulate(samples)
	if err != nil {
		t.Fatalf("Demodulate: %v", err)
	}
	if !demodulator.IsSynchronized() {
		t.Fatal("demodulator did not synchronize past the preamble")
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
