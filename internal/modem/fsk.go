package modem

import (
	"math"

	"github.com/sandi2382/openham-modes/internal/core"
)

const fskShiftHz = 250.0

// FskModulator emits a two-tone signal: mark (carrier+250Hz) for a 1
// bit, space (carrier-250Hz) for a 0 bit. No working reference exists
// for FSK anywhere in the retrieved corpus (the original source's
// fsk.rs is an unimplemented placeholder), so this is written
// directly from the two-tone FSK design prose, in BPSK's structuring
// idiom.
type FskModulator struct {
	config        Config
	phaseAcc      float64
}

func NewFskModulator(config Config) (*FskModulator, error) {
	return &FskModulator{config: config}, nil
}

func (m *FskModulator) Modulate(bits []byte) ([]core.Complex, error) {
	sps := m.config.SamplesPerSymbol()
	out := make([]core.Complex, 0, len(bits)*8*sps)

	fMark := m.config.CarrierFrequency + fskShiftHz
	fSpace := m.config.CarrierFrequency - fskShiftHz

	for _, b := range bits {
		for bitPos := 7; bitPos >= 0; bitPos-- {
			bit := (b >> uint(bitPos)) & 1
			f := fSpace
			if bit != 0 {
				f = fMark
			}
			for i := 0; i < sps; i++ {
				phase := 2.0 * math.Pi * f * m.phaseAcc / m.config.SampleRate
				out = append(out, core.Complex{Real: math.Cos(phase), Imag: math.Sin(phase)})
				m.phaseAcc = math.Mod(m.phaseAcc+1, m.config.SampleRate)
			}
		}
	}
	return out, nil
}

func (m *FskModulator) SamplesPerSymbol() int { return m.config.SamplesPerSymbol() }
func (m *FskModulator) SymbolRate() float64   { return m.config.SymbolRate }
func (m *FskModulator) Reset()                { m.phaseAcc = 0 }

// FskDemodulator computes non-coherent mark/space energy per symbol
// window across every candidate offset, picks a bit by the larger
// energy, then runs the same sync-search/fallback pattern as BPSK.
type FskDemodulator struct {
	config        Config
	isSync        bool
	signalQuality SignalQuality
}

func NewFskDemodulator(config Config) (*FskDemodulator, error) {
	return &FskDemodulator{config: config}, nil
}

func (d *FskDemodulator) Name() string { return "fsk" }

func (d *FskDemodulator) Demodulate(samples []core.Complex) ([]byte, error) {
	sps := d.config.SamplesPerSymbol()
	if sps == 0 {
		return nil, nil
	}

	fMark := d.config.CarrierFrequency + fskShiftHz
	fSpace := d.config.CarrierFrequency - fskShiftHz

	var candidateStreams [][]byte
	bestOffset := -1
	bestPos := -1

	for offset := 0; offset < sps; offset++ {
		var tmpBits []byte
		var tmpBytes []byte

		i := offset
		for i+sps <= len(samples) {
			markEnergy := goertzelEnergy(samples[i:i+sps], fMark, d.config.SampleRate)
			spaceEnergy := goertzelEnergy(samples[i:i+sps], fSpace, d.config.SampleRate)
			bit := byte(0)
			if markEnergy > spaceEnergy {
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

		pos, found := findSyncOrInverse(tmpBytes)
		if found {
			if bestOffset == -1 || pos < bestPos {
				bestOffset = offset
				bestPos = pos
			}
		}
		candidateStreams = append(candidateStreams, tmpBytes)
	}

	if bestOffset != -1 {
		d.isSync = true
		return candidateStreams[bestOffset], nil
	}

	if len(candidateStreams) > 0 {
		longest := 0
		for i, c := range candidateStreams {
			if len(c) > len(candidateStreams[longest]) {
				longest = i
			}
		}
		d.isSync = true
		return candidateStreams[longest], nil
	}

	return nil, nil
}

// goertzelEnergy computes the non-coherent energy at frequency f over
// one symbol window by accumulating in-phase/quadrature projections,
// squaring and summing (a single-bin Goertzel detector).
func goertzelEnergy(window []core.Complex, f, sampleRate float64) float64 {
	var i, q float64
	omega := 2.0 * math.Pi * f / sampleRate
	for n, s := range window {
		phase := omega * float64(n)
		i += s.Real * math.Cos(phase)
		q += s.Real * math.Sin(phase)
	}
	return i*i + q*q
}

func findSyncOrInverse(tmpBytes []byte) (int, bool) {
	if pos, ok := findSyncFrom(tmpBytes, 0); ok {
		return pos, true
	}
	inverted := make([]byte, len(tmpBytes))
	for i, b := range tmpBytes {
		inverted[i] = ^b
	}
	return findSyncFrom(inverted, 0)
}

func (d *FskDemodulator) IsSynchronized() bool        { return d.isSync }
func (d *FskDemodulator) SignalQuality() SignalQuality { return d.signalQuality }
func (d *FskDemodulator) Reset() {
	d.isSync = false
	d.signalQuality = SignalQuality{}
}
