// Package noise generates the pink-noise squelch trigger burst the
// TX coordinator can prepend ahead of a CW preamble, using the named
// "Paul Kellett filter" algorithm, written in the small-stateful-
// struct idiom shared with internal/core.PulseShaper.
package noise

// lcgA, lcgC and lcgM are the multiplier, increment and modulus of
// the classic C-library rand() linear-congruential generator, used
// only to drive the Kellett filter bank with white noise; no cryptographic or
// statistical quality is required here.
const (
	lcgA = 1103515245
	lcgC = 12345
	lcgM = 1 << 31
)

// Generator produces pink-spectrum samples by running white noise
// from an instance-owned PRNG through Paul Kellett's seven-tap IIR
// filter bank. Two generators never share PRNG state.
type Generator struct {
	seed uint64
	b0, b1, b2, b3, b4, b5, b6 float64
}

// NewGenerator seeds the PRNG. Different seeds produce different
// (but equally pink) noise sequences; the same seed always
// reproduces the same sequence.
func NewGenerator(seed uint64) *Generator {
	if seed == 0 {
		seed = 1
	}
	return &Generator{seed: seed}
}

func (g *Generator) nextWhite() float64 {
	g.seed = (lcgA*g.seed + lcgC) % lcgM
	// Map to [-1, 1).
	return float64(g.seed)/float64(lcgM/2) - 1.0
}

// Next returns one pink-spectrum sample in roughly [-1, 1].
func (g *Generator) Next() float64 {
	white := g.nextWhite()

	g.b0 = 0.99886*g.b0 + white*0.0555179
	g.b1 = 0.99332*g.b1 + white*0.0750759
	g.b2 = 0.96900*g.b2 + white*0.1538520
	g.b3 = 0.86650*g.b3 + white*0.3104856
	g.b4 = 0.55000*g.b4 + white*0.5329522
	g.b5 = -0.7616*g.b5 - white*0.0168980

	pink := g.b0 + g.b1 + g.b2 + g.b3 + g.b4 + g.b5 + g.b6 + white*0.5362
	g.b6 = white * 0.115926

	return pink * 0.11
}

// Burst generates n samples of pink noise at the given amplitude
// scale.
func (g *Generator) Burst(n int, amplitude float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = g.Next() * amplitude
	}
	return out
}

// Reset restores the PRNG and filter state to just-constructed,
// re-seeding with seed (0 is treated as 1, as in NewGenerator).
func (g *Generator) Reset(seed uint64) {
	if seed == 0 {
		seed = 1
	}
	g.seed = seed
	g.b0, g.b1, g.b2, g.b3, g.b4, g.b5, g.b6 = 0, 0, 0, 0, 0, 0, 0
}
