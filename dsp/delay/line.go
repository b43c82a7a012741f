package delay

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-graindelay/dsp/core"
	"github.com/cwbudde/algo-graindelay/dsp/interp"
)

// Line is a circular delay line.
//
// Samples are written at an advancing write pointer and read either
// relative to it (Read) or at an absolute fractional buffer position
// (PeekCubic). All indexing wraps, so every access stays in range by
// construction.
type Line struct {
	buffer   []float64
	writePos int
}

// New returns a delay line of fixed size.
func New(size int) (*Line, error) {
	if size <= 0 {
		return nil, fmt.Errorf("delay size must be > 0: %d", size)
	}
	return &Line{buffer: make([]float64, size)}, nil
}

// Len returns internal buffer size.
func (d *Line) Len() int {
	return len(d.buffer)
}

// Pos returns the current write pointer in [0, Len).
func (d *Line) Pos() int {
	return d.writePos
}

// Write stores one sample at the write pointer and advances it.
func (d *Line) Write(sample float64) {
	d.buffer[d.writePos] = sample
	d.writePos++
	if d.writePos >= len(d.buffer) {
		d.writePos = 0
	}
}

// Read reads an integer delay in samples relative to the write pointer.
func (d *Line) Read(delay int) float64 {
	size := len(d.buffer)
	readPos := ((d.writePos-delay)%size + size) % size
	return d.buffer[readPos]
}

// At returns the sample at an absolute integer index, wrapped into range.
func (d *Line) At(index int) float64 {
	return d.buffer[wrapIndex(index, len(d.buffer))]
}

// PeekCubic reads the absolute fractional buffer position pos with
// 4-point cubic interpolation. Each of the four tap indices is wrapped
// into [0, Len) independently, so pos may lie any number of buffer
// lengths outside the valid range.
func (d *Line) PeekCubic(pos float64) float64 {
	size := len(d.buffer)

	idx := int(math.Floor(pos))
	frac := pos - float64(idx)

	xm1 := d.buffer[wrapIndex(idx-1, size)]
	x0 := d.buffer[wrapIndex(idx, size)]
	x1 := d.buffer[wrapIndex(idx+1, size)]
	x2 := d.buffer[wrapIndex(idx+2, size)]

	return interp.Hermite4(frac, xm1, x0, x1, x2)
}

// Rewind moves the write pointer back to 0 without touching contents.
func (d *Line) Rewind() {
	d.writePos = 0
}

// Clear zeroes the buffer contents without moving the write pointer.
func (d *Line) Clear() {
	core.Zero(d.buffer)
}

// Reset clears contents and rewinds the write pointer.
func (d *Line) Reset() {
	d.Clear()
	d.Rewind()
}

func wrapIndex(i, size int) int {
	i %= size
	if i < 0 {
		i += size
	}
	return i
}
