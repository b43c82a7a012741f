// Package onepole implements single-sample-memory one-pole filters in
// the two forms a feedback delay path needs: a coefficient-driven
// smoother for damping and a cutoff-driven exponential pole with a
// derived highpass for DC blocking.
package onepole

import (
	"math"

	"github.com/cwbudde/algo-graindelay/dsp/core"
)

// Smoother is a coefficient-driven one-pole lowpass.
//
// The coefficient is the pole position itself: 0 passes the input
// through unfiltered, 1 holds the previous state indefinitely. This is
// distinct from Filter, whose response is set by a cutoff frequency.
type Smoother struct {
	state float64
}

// Lowpass filters one sample with the given coefficient in [0, 1].
// Out-of-range coefficients are clamped.
func (s *Smoother) Lowpass(input, coeff float64) float64 {
	coeff = core.Clamp(coeff, 0, 1)
	s.state = input*(1-coeff) + s.state*coeff
	return s.state
}

// State returns the filter memory.
func (s *Smoother) State() float64 {
	return s.state
}

// Reset clears the filter memory.
func (s *Smoother) Reset() {
	s.state = 0
}

// Filter is a cutoff-driven one-pole filter.
//
// The pole is derived from the cutoff as b = exp(-2π·cutoff/sampleRate),
// so the same instance can be retuned per sample without recomputing
// any cached state.
type Filter struct {
	state float64
}

// Lowpass filters one sample at the given cutoff frequency.
// The normalized slope is clamped to the Nyquist range before the
// exponential mapping.
func (f *Filter) Lowpass(input, cutoffHz, sampleRate float64) float64 {
	slope := math.Abs(core.Clamp(cutoffHz/sampleRate, -0.5, 0.5))
	coeff := mathExp(-2 * math.Pi * slope)

	f.state = input*(1-coeff) + f.state*coeff

	return f.state
}

// Highpass filters one sample as input minus its own lowpass response.
func (f *Filter) Highpass(input, cutoffHz, sampleRate float64) float64 {
	return input - f.Lowpass(input, cutoffHz, sampleRate)
}

// State returns the filter memory.
func (f *Filter) State() float64 {
	return f.state
}

// Reset clears the filter memory.
func (f *Filter) Reset() {
	f.state = 0
}
