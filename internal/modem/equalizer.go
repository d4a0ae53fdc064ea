package modem

import (
	"math"
	"math/cmplx"
)

// Equalizer holds one OFDM symbol's per-subcarrier channel estimate
// (derived from the pilot carriers, gaps filled by linear
// interpolation) and applies it to recover transmitted symbols from a
// received spectrum, either by zero-forcing division or, when a
// nonzero noise power is supplied, MMSE combining.
type Equalizer struct {
	fftSize     int
	channelResp []complex128 // H(k), indexed by subcarrier
	startIdx    int
	endIdx      int
}

// NewEqualizer allocates an equalizer covering subcarriers
// [startIdx, endIdx] of an fftSize-point spectrum.
func NewEqualizer(fftSize, startIdx, endIdx int) *Equalizer {
	return &Equalizer{
		fftSize:     fftSize,
		channelResp: make([]complex128, fftSize),
		startIdx:    startIdx,
		endIdx:      endIdx,
	}
}

// EstimateChannel divides the received pilot/training values by their
// known transmitted values to get H(k) at those positions, then fills
// every other covered subcarrier by interpolateChannel.
func (eq *Equalizer) EstimateChannel(received, known []complex128) {
	eq.channelResp = make([]complex128, eq.fftSize)

	for k := eq.startIdx; k <= eq.endIdx; k++ {
		if k >= len(received) || k >= len(known) {
			continue
		}
		if known[k] != 0 {
			eq.channelResp[k] = received[k] / known[k]
		}
	}

	eq.interpolateChannel()
}

// interpolateChannel linearly interpolates the channel estimate
// between consecutive known (pilot) positions, covering the data
// carriers that sit between them.
func (eq *Equalizer) interpolateChannel() {
	type point struct {
		idx int
		val complex128
	}
	var points []point
	for k := eq.startIdx; k <= eq.endIdx; k++ {
		if eq.channelResp[k] != 0 {
			points = append(points, point{k, eq.channelResp[k]})
		}
	}

	if len(points) < 2 {
		return
	}

	for i := 0; i < len(points)-1; i++ {
		k1, k2 := points[i].idx, points[i+1].idx
		v1, v2 := points[i].val, points[i+1].val

		for k := k1 + 1; k < k2; k++ {
			if eq.channelResp[k] == 0 {
				t := float64(k-k1) / float64(k2-k1)
				realPart := real(v1)*(1-t) + real(v2)*t
				imagPart := imag(v1)*(1-t) + imag(v2)*t
				eq.channelResp[k] = complex(realPart, imagPart)
			}
		}
	}
}

// Equalize divides each covered subcarrier by its channel estimate
// (zero-forcing); subcarriers with a near-zero estimate are passed
// through unchanged rather than blown up by division.
func (eq *Equalizer) Equalize(receivedSpectrum []complex128) []complex128 {
	equalized := make([]complex128, len(receivedSpectrum))
	copy(equalized, receivedSpectrum)

	for k := eq.startIdx; k <= eq.endIdx; k++ {
		if k >= len(equalized) {
			break
		}
		h := eq.channelResp[k]
		if cmplx.Abs(h) > 1e-10 {
			equalized[k] = receivedSpectrum[k] / h
		}
	}

	return equalized
}

// EqualizeMMSE applies the MMSE combining weight H*(k) / (|H(k)|^2 +
// noisePower) instead of plain zero-forcing division, trading a small
// bias for resistance to noise amplification on deep fades. Used in
// place of Equalize whenever the demodulator is configured with a
// nonzero noise power estimate.
func (eq *Equalizer) EqualizeMMSE(receivedSpectrum []complex128, noisePower float64) []complex128 {
	equalized := make([]complex128, len(receivedSpectrum))
	copy(equalized, receivedSpectrum)

	for k := eq.startIdx; k <= eq.endIdx; k++ {
		if k >= len(equalized) {
			break
		}
		h := eq.channelResp[k]
		hConj := cmplx.Conj(h)
		hPow := real(h)*real(h) + imag(h)*imag(h)

		if hPow+noisePower > 1e-10 {
			w := hConj / complex(hPow+noisePower, 0)
			equalized[k] = receivedSpectrum[k] * w
		}
	}

	return equalized
}

// GetChannelResponse returns a copy of the most recent channel
// estimate, for demodulators that want to surface phase/amplitude
// drift in a SignalQuality report.
func (eq *Equalizer) GetChannelResponse() []complex128 {
	out := make([]complex128, len(eq.channelResp))
	copy(out, eq.channelResp)
	return out
}

// GetSNREstimate compares each received pilot against its known
// transmitted value and returns a per-pilot SNR in dB, capped at 60dB
// when the residual noise is too small to measure usefully.
func (eq *Equalizer) GetSNREstimate(receivedPilots, expectedPilots []complex128) []float64 {
	snr := make([]float64, len(receivedPilots))
	for i := range receivedPilots {
		if i >= len(expectedPilots) {
			break
		}
		signal := cmplx.Abs(expectedPilots[i])
		noise := cmplx.Abs(receivedPilots[i] - expectedPilots[i])
		if noise > 1e-10 {
			snr[i] = 20 * logBase10(signal/noise)
		} else {
			snr[i] = 60
		}
	}
	return snr
}

func logBase10(x float64) float64 {
	if x <= 0 {
		return -100
	}
	return math.Log10(x)
}
