// Package math32 provides bit-level float32 helpers shared by the label
// codecs. This is an internal package - external users should use the label
// package.
package math32

import "math"

const (
	// qNaNBits is the canonical quiet NaN bit pattern used as the
	// unknown-label sentinel.
	qNaNBits = 0x7fc00000

	// expMask covers everything but the sign bit; infBits is the exact
	// exponent/mantissa boundary of ±Inf.
	expMask = 0x7fffffff
	infBits = 0x7f800000
)

// NaNPattern reports whether v's bit pattern encodes a NaN, quiet or
// signaling. It masks off the sign bit and compares the remaining bits
// against the infinity boundary instead of using float comparisons, which
// are unreliable for NaN detection.
func NaNPattern(v float32) bool {
	return math.Float32bits(v)&expMask > infBits
}

// QNaN returns the canonical quiet NaN sentinel.
func QNaN() float32 {
	return math.Float32frombits(qNaNBits)
}

// Finite reports whether v is neither NaN nor ±Inf.
func Finite(v float32) bool {
	return math.Float32bits(v)&expMask < infBits
}
