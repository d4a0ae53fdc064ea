package modem

import (
	"math"
)

// qpskSqrt2 is 1/sqrt(2), the per-axis scale giving unit-magnitude
// QPSK symbols.
var qpskSqrt2 = 1 / math.Sqrt2

// mapQPSKGray is the bit-to-symbol mapping OFDM's data carriers use:
// 00 -> (+,+), 01 -> (+,-), 10 -> (-,+), 11 -> (-,-).
func mapQPSKGray(b0, b1 byte) complex128 {
	re := qpskSqrt2
	im := qpskSqrt2
	if b0 != 0 {
		re = -re
	}
	if b1 != 0 {
		im = -im
	}
	return complex(re, im)
}

// demapQPSKGray inverts mapQPSKGray by hard-deciding the sign of each
// axis.
func demapQPSKGray(c complex128) (byte, byte) {
	var b0, b1 byte
	if real(c) < 0 {
		b0 = 1
	}
	if imag(c) < 0 {
		b1 = 1
	}
	return b0, b1
}
