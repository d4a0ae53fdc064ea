package core

// Complex is a 64-bit-per-component complex sample. Magnitude may grow
// unboundedly during intermediate math; it is clamped only at the
// audio sink boundary (see internal/audio).
type Complex struct {
	Real float64
	Imag float64
}

func NewComplex(real, imag float64) Complex { return Complex{Real: real, Imag: imag} }

func (c Complex) Add(o Complex) Complex { return Complex{c.Real + o.Real, c.Imag + o.Imag} }
func (c Complex) Sub(o Complex) Complex { return Complex{c.Real - o.Real, c.Imag - o.Imag} }

func (c Complex) Mul(o Complex) Complex {
	return Complex{
		Real: c.Real*o.Real - c.Imag*o.Imag,
		Imag: c.Real*o.Imag + c.Imag*o.Real,
	}
}

func (c Complex) Scale(k float64) Complex { return Complex{c.Real * k, c.Imag * k} }
func (c Complex) Conj() Complex           { return Complex{c.Real, -c.Imag} }

func (c Complex) Abs2() float64 { return c.Real*c.Real + c.Imag*c.Imag }

func ToComplex128(c Complex) complex128     { return complex(c.Real, c.Imag) }
func FromComplex128(c complex128) Complex   { return Complex{real(c), imag(c)} }

// SampleBuffer is an owned, ordered sequence of complex samples with
// an associated positive sample rate in hertz.
type SampleBuffer struct {
	Samples    []Complex
	SampleRate float64
}

// NewSampleBuffer fails with KindInvalidSampleRate if rate is not
// strictly positive.
func NewSampleBuffer(samples []Complex, sampleRate float64) (*SampleBuffer, error) {
	if sampleRate <= 0 {
		return nil, NewError(KindInvalidSampleRate, "NewSampleBuffer", nil)
	}
	return &SampleBuffer{Samples: samples, SampleRate: sampleRate}, nil
}

func (b *SampleBuffer) Len() int { return len(b.Samples) }

// ScaleInPlace multiplies every sample by k, used for TX power
// scaling; scaling is linear and exact per-sample.
func (b *SampleBuffer) ScaleInPlace(k float64) {
	for i := range b.Samples {
		b.Samples[i] = b.Samples[i].Scale(k)
	}
}

// ToComplex128Slice is a convenience conversion for FFT backends that
// operate on the standard library's complex128.
func ToComplex128Slice(samples []Complex) []complex128 {
	out := make([]complex128, len(samples))
	for i, s := range samples {
		out[i] = ToComplex128(s)
	}
	return out
}

func FromComplex128Slice(samples []complex128) []Complex {
	out := make([]Complex, len(samples))
	for i, s := range samples {
		out[i] = FromComplex128(s)
	}
	return out
}
