// Package effects provides real-time audio effect processors.
//
// Processors are mono, sample-oriented and allocation-free in their
// process paths. They are not safe for concurrent use; each instance
// owns its state exclusively.
package effects
