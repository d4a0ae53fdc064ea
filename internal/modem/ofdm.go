package modem

import (
	"math"
	"math/cmplx"

	"github.com/sandi2382/openham-modes/internal/core"
)

// pilotPhaseStep is the per-OFDM-symbol phase advance applied to
// every pilot carrier (pi/4 radians per symbol). It is a single
// shared helper between OfdmModulator and OfdmDemodulator so the two
// sides of a link can never drift out of step by computing the
// rotation two different ways.
const pilotPhaseStep = math.Pi / 4

func stepPilotPhase(phase float64) float64 {
	next := phase + pilotPhaseStep
	if next > 2*math.Pi {
		next -= 2 * math.Pi
	}
	return next
}

func rotatePilot(base complex128, phase float64) complex128 {
	return base * cmplx.Exp(complex(0, phase))
}

// OfdmModulator produces a Hermitian-symmetric, real-valued time
// domain signal: QPSK data on the configured positive-frequency data
// carriers, phase-advancing pilots on the pilot carriers, mirrored
// onto the negative-frequency bins, IFFT'd, and given a cyclic
// prefix. Grounded on the pilot insertion and cyclic-prefix handling
// of internal/modem/ofdm.go, generalized from a fixed 512-point
// layout to any OfdmConfig.
type OfdmModulator struct {
	config      OfdmConfig
	fft         core.FFT
	pilotPhase  float64
	preambleGen *PreambleGenerator
}

func NewOfdmModulator(config OfdmConfig) (*OfdmModulator, error) {
	fft, err := core.NewFFT(config.FFTSize)
	if err != nil {
		return nil, err
	}
	m := &OfdmModulator{config: config, fft: fft}
	if config.UsePreamble {
		pg, err := NewPreambleGenerator(config.FFTSize, config.CPLength, 1, config.FFTSize/2-1)
		if err != nil {
			return nil, err
		}
		m.preambleGen = pg
	}
	return m, nil
}

func (m *OfdmModulator) Modulate(bits []byte) ([]core.Complex, error) {
	bitStream := bytesToBits(bits)
	bitsPerSym := m.config.BitsPerSymbol()
	if bitsPerSym == 0 {
		return nil, core.NewError(core.KindModulationFailed, "OfdmModulator.Modulate", nil)
	}

	numSymbols := (len(bitStream) + bitsPerSym - 1) / bitsPerSym
	out := make([]core.Complex, 0, numSymbols*m.config.SymbolLength())

	if m.preambleGen != nil {
		sym1, sym2, err := m.preambleGen.GenerateSchmidlCox()
		if err != nil {
			return nil, err
		}
		out = append(out, realToComplex(sym1)...)
		out = append(out, realToComplex(sym2)...)
	}

	for s := 0; s < numSymbols; s++ {
		dataSymbols := make([]complex128, len(m.config.DataCarriers))
		for i := range dataSymbols {
			bitIdx := s*bitsPerSym + i*2
			var b0, b1 byte
			if bitIdx < len(bitStream) {
				b0 = bitStream[bitIdx]
			}
			if bitIdx+1 < len(bitStream) {
				b1 = bitStream[bitIdx+1]
			}
			dataSymbols[i] = mapQPSKGray(b0, b1)
		}

		pilotSymbols := make([]complex128, len(m.config.PilotCarriers))
		for i, ps := range m.config.PilotSymbols {
			pilotSymbols[i] = rotatePilot(core.ToComplex128(ps), m.pilotPhase)
		}
		m.pilotPhase = stepPilotPhase(m.pilotPhase)

		spectrum128 := InsertPilots(m.config.FFTSize, m.config.DataCarriers, m.config.PilotCarriers, dataSymbols, pilotSymbols)
		mirrorHermitian(spectrum128, m.config.FFTSize)

		timeDomain, err := m.fft.Inverse(core.FromComplex128Slice(spectrum128))
		if err != nil {
			return nil, err
		}

		cp := timeDomain[m.config.FFTSize-m.config.CPLength:]
		out = append(out, cp...)
		out = append(out, timeDomain...)
	}

	return out, nil
}

func (m *OfdmModulator) SamplesPerSymbol() int { return m.config.SymbolLength() }
func (m *OfdmModulator) SymbolRate() float64   { return 0 }
func (m *OfdmModulator) Reset()                { m.pilotPhase = 0 }

// mirrorHermitian fills bins [fftSize/2+1, fftSize) with the complex
// conjugate of their positive-frequency counterpart, guaranteeing a
// real-valued IFFT output. Bin 0 and fftSize/2 are left at zero (DC
// and Nyquist nulls).
func mirrorHermitian(spectrum []complex128, fftSize int) {
	for k := 1; k < fftSize/2; k++ {
		spectrum[fftSize-k] = cmplx.Conj(spectrum[k])
	}
}

func realToComplex(samples []float64) []core.Complex {
	out := make([]core.Complex, len(samples))
	for i, s := range samples {
		out[i] = core.Complex{Real: s}
	}
	return out
}

func realParts(samples []core.Complex) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s.Real
	}
	return out
}

func bytesToBits(data []byte) []byte {
	bits := make([]byte, 0, len(data)*8)
	for _, b := range data {
		for pos := 7; pos >= 0; pos-- {
			bits = append(bits, (b>>uint(pos))&1)
		}
	}
	return bits
}

func bitsToBytes(bits []byte) []byte {
	out := make([]byte, 0, (len(bits)+7)/8)
	for i := 0; i < len(bits); i += 8 {
		var b byte
		for j := 0; j < 8 && i+j < len(bits); j++ {
			if bits[i+j] != 0 {
				b |= 1 << uint(7-j)
			}
		}
		out = append(out, b)
	}
	return out
}

// cpCorrelationThreshold is the minimum normalized correlation between
// a candidate cyclic prefix and the tail of its own symbol before a
// demodulator offset is accepted as synchronized.
const cpCorrelationThreshold = 0.5

// OfdmDemodulator locates the cyclic prefix via autocorrelation,
// estimates the channel from the pilot carriers (linear
// interpolation fills the data-carrier gaps), zero-forces the
// equalization, then hard-decides each data carrier back to two bits.
type OfdmDemodulator struct {
	config        OfdmConfig
	fft           core.FFT
	pilotPhase    float64
	isSync        bool
	signalQuality SignalQuality
	preambleDet   *PreambleDetector
}

func NewOfdmDemodulator(config OfdmConfig) (*OfdmDemodulator, error) {
	fft, err := core.NewFFT(config.FFTSize)
	if err != nil {
		return nil, err
	}
	d := &OfdmDemodulator{config: config, fft: fft}
	if config.UsePreamble {
		d.preambleDet = NewPreambleDetector(config.FFTSize, config.CPLength)
	}
	return d, nil
}

func (d *OfdmDemodulator) Name() string { return "ofdm" }

func (d *OfdmDemodulator) Demodulate(samples []core.Complex) ([]byte, error) {
	symLen := d.config.SymbolLength()
	if symLen == 0 || len(samples) < symLen {
		return nil, nil
	}

	offset, found := d.findCPSync(samples)
	if !found {
		return nil, nil
	}

	if d.preambleDet != nil {
		if pIdx := d.preambleDet.Detect(realParts(samples)); pIdx >= 0 {
			d.signalQuality.TimingOffset = pIdx
			d.signalQuality.FrequencyOffsetHz = EstimateFrequencyOffset(realParts(samples), pIdx, d.config.FFTSize)
			// findCPSync's exhaustive search locks onto the first
			// CP-valid boundary in the buffer, which is the Schmidl-Cox
			// preamble's own symbol1 (its cyclic prefix is just as
			// valid as a data symbol's). Confirmed a Schmidl-Cox
			// preamble really starts there, skip the two preamble
			// symbols so the decode loop below starts on real data.
			offset += 2 * symLen
		}
	}
	d.isSync = true

	var bits []byte
	eq := NewEqualizer(d.config.FFTSize, 1, d.config.FFTSize/2-1)

	for offset+symLen <= len(samples) {
		body := samples[offset+d.config.CPLength : offset+symLen]
		spectrum, err := d.fft.Forward(body)
		if err != nil {
			return nil, err
		}
		spectrum128 := core.ToComplex128Slice(spectrum)

		known := make([]complex128, d.config.FFTSize)
		for i, idx := range d.config.PilotCarriers {
			known[idx] = rotatePilot(core.ToComplex128(d.config.PilotSymbols[i]), d.pilotPhase)
		}
		eq.EstimateChannel(spectrum128, known)

		var equalized []complex128
		if d.config.NoisePower > 0 {
			equalized = eq.EqualizeMMSE(spectrum128, d.config.NoisePower)
		} else {
			equalized = eq.Equalize(spectrum128)
		}
		d.updateSignalQuality(eq, spectrum128, known)

		for _, idx := range d.config.DataCarriers {
			b0, b1 := demapQPSKGray(equalized[idx])
			bits = append(bits, b0, b1)
		}

		d.pilotPhase = stepPilotPhase(d.pilotPhase)
		offset += symLen
	}

	return bitsToBytes(bits), nil
}

// updateSignalQuality reports the current symbol's pilot SNR and
// average data-carrier phase error, both best-effort diagnostics
// derived from the equalizer's channel estimate; later symbols
// overwrite earlier ones, so the reported value always reflects the
// most recently decoded symbol.
func (d *OfdmDemodulator) updateSignalQuality(eq *Equalizer, spectrum128, known []complex128) {
	if len(d.config.PilotCarriers) > 0 {
		receivedPilots := make([]complex128, len(d.config.PilotCarriers))
		expectedPilots := make([]complex128, len(d.config.PilotCarriers))
		for i, idx := range d.config.PilotCarriers {
			receivedPilots[i] = spectrum128[idx]
			expectedPilots[i] = known[idx]
		}
		if snrs := eq.GetSNREstimate(receivedPilots, expectedPilots); len(snrs) > 0 {
			var sum float64
			for _, s := range snrs {
				sum += s
			}
			d.signalQuality.SNRdB = sum / float64(len(snrs))
		}
	}

	if len(d.config.DataCarriers) > 0 {
		resp := eq.GetChannelResponse()
		var sumPhase float64
		for _, idx := range d.config.DataCarriers {
			sumPhase += cmplx.Phase(resp[idx]) * 180 / math.Pi
		}
		d.signalQuality.PhaseErrorDeg = sumPhase / float64(len(d.config.DataCarriers))
	}
}

// findCPSync scans candidate symbol boundaries and returns the offset
// whose cyclic prefix best correlates with the tail of its own
// symbol, rejecting the result if the best normalized correlation
// falls below cpCorrelationThreshold.
func (d *OfdmDemodulator) findCPSync(samples []core.Complex) (int, bool) {
	symLen := d.config.SymbolLength()
	cpLen := d.config.CPLength
	if cpLen == 0 {
		return 0, true
	}

	bestOffset := -1
	bestScore := -1.0
	for offset := 0; offset+symLen <= len(samples); offset++ {
		var num, denomA, denomB float64
		for i := 0; i < cpLen; i++ {
			a := samples[offset+i]
			b := samples[offset+d.config.FFTSize+i]
			num += a.Real*b.Real + a.Imag*b.Imag
			denomA += a.Abs2()
			denomB += b.Abs2()
		}
		denom := math.Sqrt(denomA * denomB)
		score := 0.0
		if denom > 1e-12 {
			score = num / denom
		}
		if score > bestScore {
			bestScore = score
			bestOffset = offset
		}
	}

	if bestOffset == -1 || bestScore < cpCorrelationThreshold {
		return 0, false
	}
	return bestOffset, true
}

func (d *OfdmDemodulator) IsSynchronized() bool        { return d.isSync }
func (d *OfdmDemodulator) SignalQuality() SignalQuality { return d.signalQuality }
func (d *OfdmDemodulator) Reset() {
	d.pilotPhase = 0
	d.isSync = false
	d.signalQuality = SignalQuality{}
}

// ApplyDCRemoval removes DC offset from a real-valued sample stream
// using a single-pole high-pass filter (alpha close to 1 so only slow
// drift, not the signal itself, is tracked and subtracted).
func ApplyDCRemoval(samples []float64) []float64 {
	if len(samples) == 0 {
		return samples
	}
	const alpha = 0.999
	out := make([]float64, len(samples))
	dc := samples[0]
	for i, s := range samples {
		dc = alpha*dc + (1-alpha)*s
		out[i] = s - dc
	}
	return out
}

// ApplyAGC normalizes a real-valued sample stream to a target RMS
// level with a single whole-buffer gain (no attack/decay tracking),
// so a capture's overall level stops mattering to the demodulators'
// fixed thresholds (cpCorrelationThreshold, DetectionThreshold).
func ApplyAGC(samples []float64, targetRMS float64) []float64 {
	if len(samples) == 0 {
		return samples
	}
	var sumSq float64
	for _, s := range samples {
		sumSq += s * s
	}
	rms := math.Sqrt(sumSq / float64(len(samples)))
	if rms < 1e-10 {
		return samples
	}
	gain := targetRMS / rms
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s * gain
	}
	return out
}

// targetRMSDefault is FrontEndCondition's default AGC target, chosen
// to sit well under the +-1.0 clipping rails used throughout this
// package's modulators.
const targetRMSDefault = 0.3

// FrontEndCondition runs a captured signal through DC removal and AGC
// before any demodulator sees it, so a capture with DC bias or an
// arbitrary recording level doesn't throw off the fixed correlation
// thresholds the OFDM sync stages compare against. Imaginary
// components (always zero for a WAV-sourced capture) pass through
// unchanged.
func FrontEndCondition(samples []core.Complex) []core.Complex {
	real := ApplyAGC(ApplyDCRemoval(realParts(samples)), targetRMSDefault)
	out := make([]core.Complex, len(samples))
	for i, r := range real {
		out[i] = core.Complex{Real: r, Imag: samples[i].Imag}
	}
	return out
}
