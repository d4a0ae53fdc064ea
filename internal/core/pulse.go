package core

import "math"

// PulseShaper designs root-raised-cosine taps and applies them via a
// circular delay line, one sample at a time. Ported from
// original_source's crates/modem/src/common.rs (root_raised_cosine,
// rrc_impulse_response, PulseShaper::filter).
type PulseShaper struct {
	taps      []float64
	delayLine []Complex
	index     int
}

// NewRootRaisedCosine builds a shaper with the given samples-per-symbol,
// rolloff in [0,1] and odd, positive tap length.
func NewRootRaisedCosine(samplesPerSymbol float64, rolloff float64, length int) (*PulseShaper, error) {
	if length <= 0 || length%2 == 0 {
		return nil, NewError(KindInvalidFilterParameters, "NewRootRaisedCosine", nil)
	}
	if rolloff < 0 || rolloff > 1 {
		return nil, NewError(KindInvalidFilterParameters, "NewRootRaisedCosine", nil)
	}

	taps := make([]float64, length)
	center := float64(length-1) / 2.0
	sum := 0.0
	for i := 0; i < length; i++ {
		t := (float64(i) - center) / samplesPerSymbol
		taps[i] = rrcImpulseResponse(t, rolloff)
		sum += taps[i]
	}
	if sum != 0 {
		for i := range taps {
			taps[i] /= sum
		}
	}

	return &PulseShaper{
		taps:      taps,
		delayLine: make([]Complex, length),
		index:     0,
	}, nil
}

func rrcImpulseResponse(t, rolloff float64) float64 {
	if t == 0.0 {
		return 1.0 - rolloff + 4.0*rolloff/math.Pi
	}
	absT := math.Abs(t)
	if math.Abs(4.0*rolloff*absT-1.0) < 1e-10 {
		return rolloff / math.Sqrt2 * ((1+2/math.Pi)*math.Sin(math.Pi/(4*rolloff)) + (1-2/math.Pi)*math.Cos(math.Pi/(4*rolloff)))
	}
	num := math.Sin(math.Pi*absT*(1-rolloff)) + 4*rolloff*absT*math.Cos(math.Pi*absT*(1+rolloff))
	den := math.Pi * absT * (1 - math.Pow(4*rolloff*absT, 2))
	return num / den
}

// Filter pushes one sample through the delay line and returns the
// filtered output.
func (p *PulseShaper) Filter(in Complex) Complex {
	n := len(p.taps)
	p.delayLine[p.index] = in

	var acc Complex
	for i := 0; i < n; i++ {
		delayIndex := (p.index + n - i) % n
		acc = acc.Add(p.delayLine[delayIndex].Scale(p.taps[i]))
	}
	p.index = (p.index + 1) % n
	return acc
}

// Reset clears the delay line and the write index, returning the
// shaper to its just-constructed state.
func (p *PulseShaper) Reset() {
	for i := range p.delayLine {
		p.delayLine[i] = Complex{}
	}
	p.index = 0
}

func (p *PulseShaper) Taps() []float64 { return p.taps }
