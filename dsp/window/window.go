package window

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Hann evaluates the periodic Hann window at phase in [0, 1).
//
// This is the point-evaluation form used for grain envelopes, where the
// phase comes from a per-voice ramp rather than a precomputed table.
// Hann(0) == 0 and the peak value 1 is reached at phase 0.5.
func Hann(phase float64) float64 {
	return (1 - math.Cos(2*math.Pi*phase)) * 0.5
}

// Table returns an n-point symmetric Hann window.
func Table(n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{1}
	}

	out := make([]float64, n)
	for i := range out {
		out[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n-1))
	}

	return out
}

// Apply multiplies buf in place by a symmetric Hann window of the same length.
func Apply(buf []float64) {
	if len(buf) == 0 {
		return
	}

	vecmath.MulBlockInPlace(buf, Table(len(buf)))
}

// ApplyTable multiplies buf in place by precomputed coefficients.
// Lengths must match; mismatched input is left untouched.
func ApplyTable(buf, coeffs []float64) {
	if len(buf) == 0 || len(buf) != len(coeffs) {
		return
	}

	vecmath.MulBlockInPlace(buf, coeffs)
}
