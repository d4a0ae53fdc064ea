package core

import (
	"gonum.org/v1/gonum/dsp/fourier"
)

// FFT is the size-checked forward/inverse transform contract every
// modulator/demodulator depends on as a black-box collaborator.
type FFT interface {
	// Forward computes the DFT of x. len(x) must equal Size(); a
	// mismatch fails with KindBufferSizeMismatch.
	Forward(x []Complex) ([]Complex, error)
	// Inverse computes the scaled IDFT of x (forward then inverse is
	// the identity up to floating point error).
	Inverse(x []Complex) ([]Complex, error)
	Size() int
}

// gonumFFT backs the production signal path with
// gonum.org/v1/gonum/dsp/fourier, matching how the ausocean-av
// repository in the reference pack depends on gonum for its own
// transforms.
type gonumFFT struct {
	size int
	plan *fourier.CmplxFFT
}

// NewFFT builds an FFT for a given size. size must be a power of two,
// otherwise KindFftError is returned (gonum's CmplxFFT itself accepts
// arbitrary sizes via Bluestein's algorithm, but this modem's wire
// formats all assume power-of-two transforms, so the constraint is
// enforced here).
func NewFFT(size int) (FFT, error) {
	if size <= 0 || size&(size-1) != 0 {
		return nil, NewError(KindFftError, "NewFFT", nil)
	}
	return &gonumFFT{size: size, plan: fourier.NewCmplxFFT(size)}, nil
}

func (g *gonumFFT) Size() int { return g.size }

func (g *gonumFFT) Forward(x []Complex) ([]Complex, error) {
	if len(x) != g.size {
		return nil, NewError(KindBufferSizeMismatch, "FFT.Forward", nil)
	}
	out := g.plan.Coefficients(nil, ToComplex128Slice(x))
	return FromComplex128Slice(out), nil
}

func (g *gonumFFT) Inverse(x []Complex) ([]Complex, error) {
	if len(x) != g.size {
		return nil, NewError(KindBufferSizeMismatch, "FFT.Inverse", nil)
	}
	out := g.plan.Sequence(nil, ToComplex128Slice(x))
	scale := 1.0 / float64(g.size)
	result := FromComplex128Slice(out)
	for i := range result {
		result[i] = result[i].Scale(scale)
	}
	return result, nil
}
