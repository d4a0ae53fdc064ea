// Package modem implements the BPSK, FSK and OFDM modulation engines:
// one modulator that turns bits into complex baseband samples, and
// one demodulator that recovers bits from samples via carrier
// downmix, symbol integration, timing search and sync-aided
// alignment.
package modem

import (
	"math"

	"github.com/sandi2382/openham-modes/internal/core"
)

// Modulator is the shared capability set every modulator exposes.
// Modeled as a small interface with a fixed number of concrete
// variants (BPSK, FSK, OFDM) rather than an open-ended class
// hierarchy.
type Modulator interface {
	Modulate(bits []byte) ([]core.Complex, error)
	SamplesPerSymbol() int
	SymbolRate() float64
	Reset()
}

// Demodulator is the analogous capability set for recovery.
type Demodulator interface {
	Demodulate(samples []core.Complex) ([]byte, error)
	IsSynchronized() bool
	SignalQuality() SignalQuality
	Reset()
	Name() string
}

// SignalQuality reports best-effort link-quality metrics; fields that
// a given demodulator cannot estimate are left at their zero value.
type SignalQuality struct {
	SNRdB             float64
	EVMPercent        float64
	FrequencyOffsetHz float64
	TimingOffset      int
	PhaseErrorDeg     float64
}

// Config is the shared modulation configuration used by BPSK, FSK
// and (for carrier/sample-rate purposes) OFDM.
type Config struct {
	SampleRate       float64
	SymbolRate       float64
	CarrierFrequency float64
	RolloffFactor    float64
	FilterLength     int
}

// NewConfig validates the invariants: sample_rate > 0, 0 < symbol_rate
// <= sample_rate/2, rolloff in [0,1], filter_length odd and positive.
// Rolloff defaults to 0.35 and filter length to 101 when left zero.
func NewConfig(sampleRate, symbolRate, carrierFrequency float64) (Config, error) {
	c := Config{
		SampleRate:       sampleRate,
		SymbolRate:       symbolRate,
		CarrierFrequency: carrierFrequency,
		RolloffFactor:    0.35,
		FilterLength:     101,
	}
	if sampleRate <= 0 {
		return Config{}, core.NewError(core.KindInvalidParameters, "NewConfig", nil)
	}
	if symbolRate <= 0 || symbolRate > sampleRate/2 {
		return Config{}, core.NewError(core.KindInvalidParameters, "NewConfig", nil)
	}
	return c, nil
}

// WithRolloff validates rolloff is in [0,1].
func (c Config) WithRolloff(rolloff float64) (Config, error) {
	if rolloff < 0 || rolloff > 1 {
		return Config{}, core.NewError(core.KindInvalidParameters, "WithRolloff", nil)
	}
	c.RolloffFactor = rolloff
	return c, nil
}

// WithFilterLength validates length is odd and positive.
func (c Config) WithFilterLength(length int) (Config, error) {
	if length <= 0 || length%2 == 0 {
		return Config{}, core.NewError(core.KindInvalidParameters, "WithFilterLength", nil)
	}
	c.FilterLength = length
	return c, nil
}

// SamplesPerSymbol is sample_rate / symbol_rate, rounded to the
// nearest integer for per-symbol loop counts.
func (c Config) SamplesPerSymbol() int {
	return int(math.Round(c.SampleRate / c.SymbolRate))
}
