package modem

import (
	"github.com/sandi2382/openham-modes/internal/core"
)

// OfdmConfig parameterizes the OFDM modulator/demodulator: FFT size,
// cyclic prefix length, and the positive-frequency bin assignment.
// Negative-frequency bins are derived automatically by Hermitian
// mirroring and are not listed explicitly; bin 0 (DC) and
// fft_size/2 (Nyquist) are always implicitly null.
type OfdmConfig struct {
	FFTSize       int
	CPLength      int
	DataCarriers  []int
	PilotCarriers []int
	PilotSymbols  []core.Complex
	NullCarriers  []int

	// UsePreamble prepends a two-symbol Schmidl-Cox preamble ahead of
	// the data symbols and has the demodulator, after CP correlation
	// has found a symbol boundary, search for the preamble and skip it.
	// Off by default: a link with no leading silence/noise to locate
	// has no need for the extra two symbols of airtime.
	UsePreamble bool

	// NoisePower, when greater than zero, switches the demodulator
	// from zero-forcing to MMSE equalization using this noise power
	// estimate. Zero (the default) keeps the plain zero-forcing path.
	NoisePower float64
}

// NewOfdmConfig validates: fft_size is a power of 2; cp_length <
// fft_size; data, pilot and null carrier sets (restricted to the
// positive half [1, fft_size/2-1]) are pairwise disjoint and, together
// with the implicit DC/Nyquist nulls, cover every bin in that range.
func NewOfdmConfig(fftSize, cpLength int, dataCarriers, pilotCarriers []int, pilotSymbols []core.Complex, nullCarriers []int) (OfdmConfig, error) {
	if fftSize <= 0 || fftSize&(fftSize-1) != 0 {
		return OfdmConfig{}, core.NewError(core.KindInvalidParameters, "NewOfdmConfig", nil)
	}
	if cpLength < 0 || cpLength >= fftSize {
		return OfdmConfig{}, core.NewError(core.KindInvalidParameters, "NewOfdmConfig", nil)
	}
	if len(pilotCarriers) != len(pilotSymbols) {
		return OfdmConfig{}, core.NewError(core.KindInvalidParameters, "NewOfdmConfig", nil)
	}

	seen := make(map[int]int, fftSize)
	half := fftSize / 2
	mark := func(idx int, tag int) error {
		if idx <= 0 || idx >= half {
			return core.NewError(core.KindInvalidParameters, "NewOfdmConfig", nil)
		}
		if existing, ok := seen[idx]; ok && existing != tag {
			return core.NewError(core.KindInvalidParameters, "NewOfdmConfig", nil)
		}
		seen[idx] = tag
		return nil
	}
	for _, c := range dataCarriers {
		if err := mark(c, 1); err != nil {
			return OfdmConfig{}, err
		}
	}
	for _, c := range pilotCarriers {
		if err := mark(c, 2); err != nil {
			return OfdmConfig{}, err
		}
	}
	for _, c := range nullCarriers {
		if err := mark(c, 3); err != nil {
			return OfdmConfig{}, err
		}
	}
	if len(seen) != half-1 {
		return OfdmConfig{}, core.NewError(core.KindInvalidParameters, "NewOfdmConfig", nil)
	}

	return OfdmConfig{
		FFTSize:       fftSize,
		CPLength:      cpLength,
		DataCarriers:  dataCarriers,
		PilotCarriers: pilotCarriers,
		PilotSymbols:  pilotSymbols,
		NullCarriers:  nullCarriers,
	}, nil
}

// AmateurRadio64 is a 64-point, 16-sample-CP preset used by the test
// suite's OFDM scenarios: four evenly spaced pilots at a fixed +1
// BPSK value, the remaining positive bins (excluding DC and Nyquist)
// carry data.
func AmateurRadio64() OfdmConfig {
	const fftSize = 64
	pilots := []int{4, 12, 20, 28}
	pilotSet := make(map[int]bool, len(pilots))
	for _, p := range pilots {
		pilotSet[p] = true
	}
	var data []int
	for i := 1; i < fftSize/2; i++ {
		if !pilotSet[i] {
			data = append(data, i)
		}
	}
	pilotSymbols := make([]core.Complex, len(pilots))
	for i := range pilotSymbols {
		pilotSymbols[i] = core.Complex{Real: 1, Imag: 0}
	}
	cfg, err := NewOfdmConfig(fftSize, 16, data, pilots, pilotSymbols, nil)
	if err != nil {
		panic(err)
	}
	return cfg
}

// SymbolLength is fft_size + cp_length, the number of time-domain
// samples emitted per OFDM symbol.
func (c OfdmConfig) SymbolLength() int { return c.FFTSize + c.CPLength }

// BitsPerSymbol is twice the number of data carriers (QPSK, 2
// bits/symbol).
func (c OfdmConfig) BitsPerSymbol() int { return 2 * len(c.DataCarriers) }
