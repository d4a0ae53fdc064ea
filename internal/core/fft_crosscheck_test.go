package core

import (
	"math"
	"math/rand"
	"testing"
)

func TestFFTCrosscheckAgainstRadix2(t *testing.T) {
	sizes := []int{2, 4, 8, 16, 64, 256}
	rng := rand.New(rand.NewSource(7))

	for _, size := range sizes {
		gonum, err := NewFFT(size)
		if err != nil {
			t.Fatalf("NewFFT(%d): %v", size, err)
		}
		radix2, err := NewRadix2FFT(size)
		if err != nil {
			t.Fatalf("NewRadix2FFT(%d): %v", size, err)
		}

		x := make([]Complex, size)
		for i := range x {
			x[i] = Complex{Real: rng.Float64()*2 - 1, Imag: rng.Float64()*2 - 1}
		}

		gotForward, err := gonum.Forward(append([]Complex(nil), x...))
		if err != nil {
			t.Fatalf("gonum.Forward: %v", err)
		}
		wantForward, err := radix2.Forward(append([]Complex(nil), x...))
		if err != nil {
			t.Fatalf("radix2.Forward: %v", err)
		}
		assertCloseSlices(t, size, gotForward, wantForward)

		gotInverse, err := gonum.Inverse(append([]Complex(nil), x...))
		if err != nil {
			t.Fatalf("gonum.Inverse: %v", err)
		}
		wantInverse, err := radix2.Inverse(append([]Complex(nil), x...))
		if err != nil {
			t.Fatalf("radix2.Inverse: %v", err)
		}
		assertCloseSlices(t, size, gotInverse, wantInverse)
	}
}

func assertCloseSlices(t *testing.T, size int, a, b []Complex) {
	t.Helper()
	const tolerance = 1e-9
	for i := range a {
		if math.Abs(a[i].Real-b[i].Real) > tolerance || math.Abs(a[i].Imag-b[i].Imag) > tolerance {
			t.Fatalf("size %d index %d: gonum=%v radix2=%v", size, i, a[i], b[i])
		}
	}
}
