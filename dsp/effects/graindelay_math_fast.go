//go:build fastmath

package effects

import (
	"github.com/cwbudde/algo-approx"
)

// mathSqrt computes sqrt(x) using fast approximation.
func mathSqrt(x float64) float64 {
	return approx.FastSqrt(x)
}
