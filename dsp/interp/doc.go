// Package interp provides fractional-sample interpolation primitives
// used by delay-line and grain playback code.
package interp
