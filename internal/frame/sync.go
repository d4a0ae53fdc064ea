package frame

// Preamble is the fixed 8-byte pattern that precedes every
// transmitted frame: alternating-bit tuning bytes for timing
// recovery, an inverted pair for coarse polarity detection, and a
// frame-start flag pair.
var Preamble = []byte{0x55, 0x55, 0x55, 0x55, 0xAA, 0xAA, 0x7E, 0x7E}

var invertedPreamble = []byte{0xAA, 0xAA, 0xAA, 0xAA, 0x55, 0x55, 0x81, 0x81}

var flagOnly = []byte{0x7E, 0x7E}
var flagOnlyInverted = []byte{0x81, 0x81}

// WithPreamble prepends the sync preamble to a serialized frame byte
// stream, producing the exact bytes handed to a modulator.
func WithPreamble(frameBytes []byte) []byte {
	out := make([]byte, 0, len(Preamble)+len(frameBytes))
	out = append(out, Preamble...)
	out = append(out, frameBytes...)
	return out
}

// Search recovers the frame bytes from a byte stream of uncertain bit
// alignment and possibly inverted polarity. It enumerates all 8 bit
// shifts and both bit orders (MSB-first and LSB-first repacking),
// searching each for the primary sync pattern, its bitwise inverse,
// or the shorter flag-only patterns. The earliest match across all
// alignments wins (on equal positions MSB-first is preferred, then the
// smaller shift); its successor bytes are returned. ok is false if no
// match is found anywhere.
func Search(stream []byte) (post []byte, ok bool) {
	type candidate struct {
		shift   int
		lsb     bool
		pos     int
		post    []byte
		matched bool
	}

	var best *candidate

	for _, lsb := range []bool{false, true} {
		for shift := 0; shift < 8; shift++ {
			repacked := repack(stream, shift, lsb)
			pos, length, found := findSync(repacked)
			if !found {
				continue
			}
			c := candidate{shift: shift, lsb: lsb, pos: pos, matched: true}
			c.post = append([]byte(nil), repacked[pos+length:]...)
			if best == nil || betterCandidate(c.lsb, c.shift, c.pos, best.lsb, best.shift, best.pos) {
				bc := c
				best = &bc
			}
		}
	}

	if best == nil {
		return nil, false
	}
	return best.post, true
}

// betterCandidate prefers the smaller position, then MSB-first
// (lsb=false) over LSB-first, then the smaller shift.
func betterCandidate(lsb bool, shift, pos int, bestLsb bool, bestShift, bestPos int) bool {
	if pos != bestPos {
		return pos < bestPos
	}
	if lsb != bestLsb {
		return !lsb // MSB-first (false) wins
	}
	return shift < bestShift
}

// findSync looks for the primary pattern, its inverse, or the
// flag-only patterns, returning the earliest match's position and the
// matched pattern's length.
func findSync(b []byte) (pos int, length int, found bool) {
	patterns := [][]byte{Preamble, invertedPreamble, flagOnly, flagOnlyInverted}
	bestPos := -1
	bestLen := 0
	for _, p := range patterns {
		if len(b) < len(p) {
			continue
		}
		for i := 0; i+len(p) <= len(b); i++ {
			if bytesEqual(b[i:i+len(p)], p) {
				if bestPos == -1 || i < bestPos {
					bestPos = i
					bestLen = len(p)
				}
				break
			}
		}
	}
	if bestPos == -1 {
		return 0, 0, false
	}
	return bestPos, bestLen, true
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// repack reinterprets stream as a bit sequence, reading each byte
// MSB-first (lsb=false) or LSB-first (lsb=true), drops the first shift
// bits (0-7), and packs the rest into bytes MSB-first. With lsb=true
// this undoes a per-byte bit-order reversal.
func repack(stream []byte, shift int, lsb bool) []byte {
	bits := make([]byte, 0, len(stream)*8)
	for _, b := range stream {
		if lsb {
			for i := 0; i < 8; i++ {
				bits = append(bits, (b>>i)&1)
			}
		} else {
			for i := 7; i >= 0; i-- {
				bits = append(bits, (b>>i)&1)
			}
		}
	}
	if shift > 0 && shift < len(bits) {
		bits = bits[shift:]
	}

	out := make([]byte, 0, len(bits)/8)
	for i := 0; i+8 <= len(bits); i += 8 {
		var by byte
		for j := 0; j < 8; j++ {
			if bits[i+j] != 0 {
				by |= 1 << (7 - j)
			}
		}
		out = append(out, by)
	}
	return out
}
