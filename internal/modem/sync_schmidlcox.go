package modem

import (
	"math"
	"math/cmplx"
	"math/rand"

	"github.com/sandi2382/openham-modes/internal/core"
)

// Schmidl-Cox preamble generation and detection, adapted from
// internal/modem/sync.go. OfdmModulator prepends the two-symbol
// preamble ahead of the data symbols whenever its OfdmConfig sets
// UsePreamble; OfdmDemodulator first locates a symbol boundary with
// its cyclic-prefix correlation (findCPSync), then runs
// PreambleDetector.Detect and, when the preamble is found, skips the
// two preamble symbols before decoding data.

const (
	// DetectionThreshold is the Schmidl-Cox metric (0 to 1) above
	// which a candidate position is accepted.
	DetectionThreshold = 0.7
)

// PreambleGenerator generates Schmidl-Cox preambles for a given FFT
// size, cyclic prefix length and positive-frequency subcarrier range.
type PreambleGenerator struct {
	fftSize  int
	cpLen    int
	startIdx int
	endIdx   int
	fft      core.FFT
}

func NewPreambleGenerator(fftSize, cpLen, startIdx, endIdx int) (*PreambleGenerator, error) {
	fft, err := core.NewFFT(fftSize)
	if err != nil {
		return nil, err
	}
	return &PreambleGenerator{fftSize: fftSize, cpLen: cpLen, startIdx: startIdx, endIdx: endIdx, fft: fft}, nil
}

// GenerateSchmidlCox generates a two-symbol preamble: the first has
// energy only on even subcarriers (giving its time domain two
// identical halves, the basis of the Schmidl-Cox timing metric); the
// second has energy on every subcarrier in range for fine frequency
// offset estimation.
func (pg *PreambleGenerator) GenerateSchmidlCox() (symbol1, symbol2 []float64, err error) {
	spec1 := make([]complex128, pg.fftSize)
	rng1 := rand.New(rand.NewSource(42))
	for k := pg.startIdx; k <= pg.endIdx; k += 2 {
		spec1[k] = bpskSign(rng1)
	}
	mirrorHermitianReal(spec1)
	td1, err := pg.realIFFT(spec1)
	if err != nil {
		return nil, nil, err
	}
	symbol1 = addCyclicPrefix(td1, pg.cpLen)
	normalizeAmplitude(symbol1)

	spec2 := make([]complex128, pg.fftSize)
	rng2 := rand.New(rand.NewSource(43))
	for k := pg.startIdx; k <= pg.endIdx; k++ {
		spec2[k] = bpskSign(rng2)
	}
	mirrorHermitianReal(spec2)
	td2, err := pg.realIFFT(spec2)
	if err != nil {
		return nil, nil, err
	}
	symbol2 = addCyclicPrefix(td2, pg.cpLen)
	normalizeAmplitude(symbol2)

	return symbol1, symbol2, nil
}

// GenerateChannelEstimation produces a known-symbol training sequence
// and the frequency-domain values a receiver should expect, for use
// ahead of the Schmidl-Cox preamble in link startup.
func (pg *PreambleGenerator) GenerateChannelEstimation() ([]float64, []complex128, error) {
	spec := make([]complex128, pg.fftSize)
	knownSymbols := make([]complex128, pg.fftSize)

	rng := rand.New(rand.NewSource(44))
	for k := pg.startIdx; k <= pg.endIdx; k++ {
		spec[k] = bpskSign(rng)
		knownSymbols[k] = spec[k]
	}
	mirrorHermitianReal(spec)

	td, err := pg.realIFFT(spec)
	if err != nil {
		return nil, nil, err
	}
	samples := addCyclicPrefix(td, pg.cpLen)
	normalizeAmplitude(samples)

	return samples, knownSymbols, nil
}

// realIFFT runs the configured IFFT over a Hermitian-symmetric
// spectrum and returns its (real, up to floating point error)
// time-domain samples.
func (pg *PreambleGenerator) realIFFT(spec []complex128) ([]float64, error) {
	out, err := pg.fft.Inverse(core.FromComplex128Slice(spec))
	if err != nil {
		return nil, err
	}
	real := make([]float64, len(out))
	for i, s := range out {
		real[i] = s.Real
	}
	return real, nil
}

func bpskSign(rng *rand.Rand) complex128 {
	if rng.Intn(2) == 0 {
		return complex(1, 0)
	}
	return complex(-1, 0)
}

func mirrorHermitianReal(spec []complex128) {
	n := len(spec)
	for k := 1; k < n/2; k++ {
		spec[n-k] = cmplx.Conj(spec[k])
	}
	spec[0] = 0
	spec[n/2] = 0
}

// PreambleDetector finds a Schmidl-Cox preamble in a received
// real-valued sample stream via the sliding-window timing metric.
type PreambleDetector struct {
	fftSize   int
	cpLen     int
	threshold float64
}

func NewPreambleDetector(fftSize, cpLen int) *PreambleDetector {
	return &PreambleDetector{fftSize: fftSize, cpLen: cpLen, threshold: DetectionThreshold}
}

// Detect returns the sample index of the preamble start, or -1 if the
// best metric in the stream falls below the detection threshold.
func (pd *PreambleDetector) Detect(signal []float64) int {
	halfLen := pd.fftSize / 2
	symbolLen := pd.fftSize + pd.cpLen

	if len(signal) < symbolLen+halfLen {
		return -1
	}

	bestMetric := 0.0
	bestIdx := -1

	for d := 0; d < len(signal)-symbolLen; d++ {
		var pReal, rr float64
		for m := 0; m < halfLen; m++ {
			if d+m+halfLen >= len(signal) {
				break
			}
			a := signal[d+m]
			b := signal[d+m+halfLen]
			pReal += a * b
			rr += b * b
		}

		pMag := pReal * pReal
		if rr > 0 {
			metric := pMag / (rr * rr)
			if metric > bestMetric {
				bestMetric = metric
				bestIdx = d
			}
		}
	}

	if bestMetric > pd.threshold {
		return bestIdx
	}
	return -1
}

// EstimateFrequencyOffset returns the phase of the correlation between
// the two repeated halves of a detected preamble, divided by pi. The
// signal is real-valued, so the correlation has no imaginary part and
// the result is only ever 0 (non-negative correlation) or 1 (negative
// correlation); fractional offsets are not resolved.
func EstimateFrequencyOffset(signal []float64, startIdx, fftSize int) float64 {
	halfLen := fftSize / 2
	if startIdx+fftSize+halfLen > len(signal) {
		return 0
	}

	var pReal float64
	for m := 0; m < halfLen; m++ {
		a := signal[startIdx+m]
		b := signal[startIdx+m+halfLen]
		pReal += a * b
	}

	angle := math.Atan2(0, pReal)
	return angle / math.Pi
}

func addCyclicPrefix(samples []float64, cpLen int) []float64 {
	n := len(samples)
	result := make([]float64, cpLen+n)
	copy(result, samples[n-cpLen:])
	copy(result[cpLen:], samples)
	return result
}

func normalizeAmplitude(samples []float64) {
	maxAbs := 0.0
	for _, s := range samples {
		if a := math.Abs(s); a > maxAbs {
			maxAbs = a
		}
	}
	if maxAbs > 0 {
		scale := 0.8 / maxAbs
		for i := range samples {
			samples[i] *= scale
		}
	}
}
