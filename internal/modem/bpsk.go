package modem

import (
	"math"

	"github.com/sandi2382/openham-modes/internal/core"
	"github.com/sandi2382/openham-modes/internal/frame"
)

// BpskModulator carries a persistent phase/sample counter so the
// carrier stays continuous across bits and calls. Ported from
// original_source's crates/modem/src/bpsk.rs.
type BpskModulator struct {
	config        Config
	pulseShaper   *core.PulseShaper
	sampleCounter float64
}

func NewBpskModulator(config Config) (*BpskModulator, error) {
	ps, err := core.NewRootRaisedCosine(float64(config.SamplesPerSymbol()), config.RolloffFactor, config.FilterLength)
	if err != nil {
		return nil, err
	}
	return &BpskModulator{config: config, pulseShaper: ps}, nil
}

func (m *BpskModulator) generateCarrier(symbol float64) core.Complex {
	omega := 2.0 * math.Pi * m.config.CarrierFrequency / m.config.SampleRate
	phase := omega * m.sampleCounter
	m.sampleCounter++
	return core.Complex{Real: symbol * math.Cos(phase), Imag: symbol * math.Sin(phase)}
}

func (m *BpskModulator) Modulate(bits []byte) ([]core.Complex, error) {
	sps := m.config.SamplesPerSymbol()
	out := make([]core.Complex, 0, len(bits)*8*sps)

	for _, b := range bits {
		for bitPos := 7; bitPos >= 0; bitPos-- {
			bit := (b >> uint(bitPos)) & 1
			symbol := -1.0
			if bit != 0 {
				symbol = 1.0
			}
			for i := 0; i < sps; i++ {
				out = append(out, m.generateCarrier(symbol))
			}
		}
	}
	return out, nil
}

func (m *BpskModulator) SamplesPerSymbol() int { return m.config.SamplesPerSymbol() }
func (m *BpskModulator) SymbolRate() float64   { return m.config.SymbolRate }
func (m *BpskModulator) Reset() {
	m.pulseShaper.Reset()
	m.sampleCounter = 0
}

// BpskDemodulator recovers bytes by trying every symbol-phase offset,
// integrating the downmixed real part over each candidate window, and
// preferring the offset whose output contains the earliest sync
// pattern — falling back to the strongest-integrated-magnitude offset
// otherwise. is_sync ends up true in both cases: this is a documented
// open question (see DESIGN.md), preserved for compatibility.
type BpskDemodulator struct {
	config        Config
	pulseShaper   *core.PulseShaper
	isSync        bool
	signalQuality SignalQuality
}

func NewBpskDemodulator(config Config) (*BpskDemodulator, error) {
	ps, err := core.NewRootRaisedCosine(float64(config.SamplesPerSymbol()), config.RolloffFactor, config.FilterLength)
	if err != nil {
		return nil, err
	}
	return &BpskDemodulator{config: config, pulseShaper: ps}, nil
}

func (d *BpskDemodulator) Name() string { return "bpsk" }

func (d *BpskDemodulator) Demodulate(samples []core.Complex) ([]byte, error) {
	sps := d.config.SamplesPerSymbol()
	if sps == 0 {
		return nil, nil
	}

	omega := 2.0 * math.Pi * d.config.CarrierFrequency / d.config.SampleRate
	bbReal := make([]float64, len(samples))
	for i, s := range samples {
		phase := omega * float64(i)
		bbReal[i] = s.Real*math.Cos(phase) + s.Imag*math.Sin(phase)
	}

	var candidateStreams [][]byte
	var candidateStrengths []float64
	bestOffset := -1
	bestPos := -1

	for offset := 0; offset < sps; offset++ {
		var tmpBits []byte
		var tmpBytes []byte
		strengthAcc := 0.0

		i := offset
		for i+sps <= len(bbReal) {
			acc := 0.0
			for j := i; j < i+sps; j++ {
				acc += bbReal[j]
			}
			strengthAcc += math.Abs(acc)
			bit := byte(0)
			if acc > 0.0 {
				bit = 1
			}
			tmpBits = append(tmpBits, bit)
			if len(tmpBits) == 8 {
				tmpBytes = append(tmpBytes, packBitsMSB(tmpBits))
				tmpBits = tmpBits[:0]
			}
			i += sps
		}
		if len(tmpBits) > 0 {
			tmpBytes = append(tmpBytes, packBitsMSB(tmpBits))
		}

		searchStart := 0
		for searchStart < len(tmpBytes) && (tmpBytes[searchStart] == 0x00 || tmpBytes[searchStart] == 0xFF) {
			searchStart++
		}

		pos, found := findSyncFrom(tmpBytes, searchStart)
		if found {
			if bestOffset == -1 || pos < bestPos {
				bestOffset = offset
				bestPos = pos
			}
		}

		candidateStrengths = append(candidateStrengths, strengthAcc)
		candidateStreams = append(candidateStreams, tmpBytes)
	}

	if bestOffset != -1 {
		d.isSync = true
		return candidateStreams[bestOffset], nil
	}

	if len(candidateStreams) > 0 {
		bestO := 0
		bestS := candidateStrengths[0]
		for o := 1; o < len(candidateStrengths); o++ {
			if candidateStrengths[o] > bestS {
				bestS = candidateStrengths[o]
				bestO = o
			}
		}
		d.isSync = true
		return candidateStreams[bestO], nil
	}

	return nil, nil
}

func (d *BpskDemodulator) IsSynchronized() bool        { return d.isSync }
func (d *BpskDemodulator) SignalQuality() SignalQuality { return d.signalQuality }
func (d *BpskDemodulator) Reset() {
	d.pulseShaper.Reset()
	d.isSync = false
	d.signalQuality = SignalQuality{}
}

func packBitsMSB(bits []byte) byte {
	var b byte
	for k, bit := range bits {
		if bit != 0 {
			b |= 1 << uint(7-k)
		}
	}
	return b
}

// findSyncFrom searches tmpBytes[searchStart:] for the sync pattern.
func findSyncFrom(tmpBytes []byte, searchStart int) (int, bool) {
	if len(tmpBytes) < len(frame.Preamble) || searchStart > len(tmpBytes)-len(frame.Preamble) {
		return 0, false
	}
	for pos := searchStart; pos <= len(tmpBytes)-len(frame.Preamble); pos++ {
		if bytesEqual(tmpBytes[pos:pos+len(frame.Preamble)], frame.Preamble) {
			return pos, true
		}
	}
	return 0, false
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
