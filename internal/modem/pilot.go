package modem

// Pilot subcarrier management for OFDM, adapted from
// internal/modem/pilot.go, which hardcodes a fixed 16-pilot pattern
// across 200+ subcarriers. Here every function instead takes the
// pilot/data carrier lists from an OfdmConfig, so a 64-point FFT
// with four pilots has exactly one shape, not that wider layout.

// PilotValue is the known pilot symbol (BPSK +1) before per-symbol
// phase rotation is applied.
var PilotValue = complex(1, 0)

// InsertPilots places dataSymbols into dataCarriers and
// pilotSymbols (already phase-rotated by the caller) into
// pilotCarriers, returning a full fftSize spectrum.
func InsertPilots(fftSize int, dataCarriers, pilotCarriers []int, dataSymbols, pilotSymbols []complex128) []complex128 {
	spectrum := make([]complex128, fftSize)
	for i, idx := range dataCarriers {
		if i < len(dataSymbols) && idx < fftSize {
			spectrum[idx] = dataSymbols[i]
		}
	}
	for i, idx := range pilotCarriers {
		if i < len(pilotSymbols) && idx < fftSize {
			spectrum[idx] = pilotSymbols[i]
		}
	}
	return spectrum
}

// ExtractPilots reads the pilot carrier values out of a received
// spectrum, in pilotCarriers order.
func ExtractPilots(spectrum []complex128, pilotCarriers []int) []complex128 {
	pilots := make([]complex128, len(pilotCarriers))
	for i, idx := range pilotCarriers {
		if idx < len(spectrum) {
			pilots[i] = spectrum[idx]
		}
	}
	return pilots
}

// ExtractData reads the data carrier values out of a received
// spectrum, in dataCarriers order.
func ExtractData(spectrum []complex128, dataCarriers []int) []complex128 {
	data := make([]complex128, len(dataCarriers))
	for i, idx := range dataCarriers {
		if idx < len(spectrum) {
			data[i] = spectrum[idx]
		}
	}
	return data
}

// EstimatePhaseOffset estimates the common phase error from pilot
// symbols, using the small-angle approximation Im(p)/Re(p) ~= angle.
func EstimatePhaseOffset(receivedPilots []complex128) float64 {
	var sumAngle float64
	count := 0
	for _, p := range receivedPilots {
		if p != 0 {
			angle := imag(p)
			if real(p) != 0 {
				angle = imag(p) / real(p)
			}
			sumAngle += angle
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sumAngle / float64(count)
}

// CorrectPhase applies common phase error correction to data symbols.
func CorrectPhase(symbols []complex128, phaseOffset float64) []complex128 {
	corrected := make([]complex128, len(symbols))
	correction := complex(1, -phaseOffset)
	normFactor := 1.0 / abs128(correction)
	correction *= complex(normFactor, 0)
	for i, s := range symbols {
		corrected[i] = s * correction
	}
	return corrected
}

func abs128(c complex128) float64 {
	r, im := real(c), imag(c)
	return r*r + im*im
}
