package core

import "math"

const defaultEpsilon = 1e-12

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// Wrap folds value into the half-open range [lo, hi).
// Values any number of spans outside are brought back in, which makes
// it suitable for circular phases and normalized buffer positions.
func Wrap(value, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}

	span := hi - lo

	wrapped := math.Mod(value-lo, span)
	if wrapped < 0 {
		wrapped += span
	}

	return lo + wrapped
}

// Lerp linearly interpolates from a to b by t. t is not clamped;
// t=0 returns a exactly.
func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// NearlyEqual reports whether a and b are equal within eps.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}

	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}

	largest := math.Max(math.Abs(a), math.Abs(b))
	if largest == 0 {
		return diff <= eps
	}

	return diff/largest <= eps
}

// FlushDenormals converts tiny denormal-like values to exact zero.
// This can reduce denormal-related CPU slowdowns in hot DSP loops.
func FlushDenormals(x float64) float64 {
	const epsilon = 1e-30
	if x > -epsilon && x < epsilon {
		return 0
	}

	return x
}
