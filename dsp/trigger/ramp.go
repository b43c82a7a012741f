package trigger

import "math"

// RampToTrig detects the wrap of a unit phase ramp.
//
// Instead of comparing against a threshold, it uses a ratio test on
// consecutive phase values: a wrap makes the sample-to-sample delta
// large relative to the sum, which stays robust when the slope itself
// changes between periods. The detector fires exactly once on the
// sample immediately following a wrap.
type RampToTrig struct {
	lastPhase float64
	lastWrap  bool
}

// Process inspects the current ramp phase and reports a trigger edge.
func (r *RampToTrig) Process(phase float64) bool {
	delta := phase - r.lastPhase
	sum := phase + r.lastPhase
	wrap := sum != 0 && math.Abs(delta/sum) > 0.5

	// Rising edge only; a wrap condition that persists does not retrigger.
	trig := wrap && !r.lastWrap

	r.lastPhase = phase
	r.lastWrap = wrap

	return trig
}

// Reset clears detector state.
func (r *RampToTrig) Reset() {
	r.lastPhase = 0
	r.lastWrap = false
}
