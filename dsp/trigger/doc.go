// Package trigger converts a trigger-rate parameter into sample-accurate
// grain events on a fixed set of voices.
//
// A single phase ramp acts as the trigger clock. A ratio-test edge
// detector (RampToTrig) spots the ramp wrap, and the Scheduler allocates
// each wrap to the first free voice, tracking that voice's envelope
// phase from 0 to 1 with sub-sample timing correction. All state lives
// in fixed-size per-voice slices allocated at construction; Process
// performs no allocation and is safe for real-time use.
package trigger
