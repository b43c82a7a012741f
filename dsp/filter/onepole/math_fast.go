//go:build fastmath

package onepole

import (
	"github.com/cwbudde/algo-approx"
)

// mathExp computes e^x using fast approximation.
func mathExp(x float64) float64 {
	return approx.FastExp(x)
}
