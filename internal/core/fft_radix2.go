package core

import (
	"math"
	"math/cmplx"
)

// radix2FFT is a hand-rolled Cooley-Tukey transform, kept as a
// from-scratch reference implementation of the FFT interface rather
// than deleted outright: fft_crosscheck_test.go exercises it against
// the gonum-backed production path so it keeps doing real work
// instead of sitting unused.
type radix2FFT struct {
	size int
}

// NewRadix2FFT constructs the reference radix-2 implementation.
func NewRadix2FFT(size int) (FFT, error) {
	if size <= 0 || size&(size-1) != 0 {
		return nil, NewError(KindFftError, "NewRadix2FFT", nil)
	}
	return &radix2FFT{size: size}, nil
}

func (r *radix2FFT) Size() int { return r.size }

func (r *radix2FFT) Forward(x []Complex) ([]Complex, error) {
	if len(x) != r.size {
		return nil, NewError(KindBufferSizeMismatch, "radix2FFT.Forward", nil)
	}
	out := ToComplex128Slice(x)
	bitReverse(out)
	fftIterative(out, false)
	return FromComplex128Slice(out), nil
}

func (r *radix2FFT) Inverse(x []Complex) ([]Complex, error) {
	if len(x) != r.size {
		return nil, NewError(KindBufferSizeMismatch, "radix2FFT.Inverse", nil)
	}
	out := ToComplex128Slice(x)
	bitReverse(out)
	fftIterative(out, true)
	scale := 1.0 / float64(r.size)
	for i := range out {
		out[i] *= complex(scale, 0)
	}
	return FromComplex128Slice(out), nil
}

func fftIterative(x []complex128, inverse bool) {
	n := len(x)
	for size := 2; size <= n; size <<= 1 {
		halfSize := size >> 1
		sign := -1.0
		if inverse {
			sign = 1.0
		}
		wn := cmplx.Exp(complex(0, sign*2*math.Pi/float64(size)))
		for start := 0; start < n; start += size {
			w := complex(1, 0)
			for j := 0; j < halfSize; j++ {
				u := x[start+j]
				v := w * x[start+j+halfSize]
				x[start+j] = u + v
				x[start+j+halfSize] = u - v
				w *= wn
			}
		}
	}
}

func bitReverse(x []complex128) {
	n := len(x)
	bits := 0
	for tmp := n; tmp > 1; tmp >>= 1 {
		bits++
	}
	for i := 0; i < n; i++ {
		j := reverseBits(i, bits)
		if i < j {
			x[i], x[j] = x[j], x[i]
		}
	}
}

func reverseBits(x, bits int) int {
	result := 0
	for i := 0; i < bits; i++ {
		result = (result << 1) | (x & 1)
		x >>= 1
	}
	return result
}
