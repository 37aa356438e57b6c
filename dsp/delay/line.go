package delay

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-lofi/dsp/interp"
)

// Line is a circular delay line. Read(0) returns the most recent Write.
//
// Line is a value type so modules can keep one per channel in a flat slice;
// the zero value reads as silence and ignores writes until Resize.
type Line struct {
	buffer   []float64
	writePos int
}

// New returns a delay line holding size samples.
func New(size int) (*Line, error) {
	d := &Line{}
	if err := d.Resize(size); err != nil {
		return nil, err
	}
	return d, nil
}

// Resize reallocates the line to hold size samples and clears it.
// Call outside the audio path.
func (d *Line) Resize(size int) error {
	if size <= 0 {
		return fmt.Errorf("delay size must be > 0: %d", size)
	}
	d.buffer = make([]float64, size)
	d.writePos = 0
	return nil
}

// Len returns the capacity in samples.
func (d *Line) Len() int {
	return len(d.buffer)
}

// Write pushes one sample.
func (d *Line) Write(sample float64) {
	if len(d.buffer) == 0 {
		return
	}
	d.buffer[d.writePos] = sample
	d.writePos++
	if d.writePos == len(d.buffer) {
		d.writePos = 0
	}
}

// Read returns the sample written delay writes ago. delay is clamped to
// [0, Len()-1].
func (d *Line) Read(delay int) float64 {
	size := len(d.buffer)
	if size == 0 {
		return 0
	}
	if delay < 0 {
		delay = 0
	} else if delay >= size {
		delay = size - 1
	}
	pos := d.writePos - 1 - delay
	if pos < 0 {
		pos += size
	}
	return d.buffer[pos]
}

// ReadLinear reads a fractional delay with linear interpolation.
func (d *Line) ReadLinear(delay float64) float64 {
	size := len(d.buffer)
	if size == 0 {
		return 0
	}
	delay = clampDelay(delay, float64(size-2))

	p := int(delay)
	return interp.Linear(delay-float64(p), d.Read(p), d.Read(p+1))
}

// ReadHermite reads a fractional delay with 4-point Hermite interpolation.
func (d *Line) ReadHermite(delay float64) float64 {
	size := len(d.buffer)
	if size < 4 {
		return d.ReadLinear(delay)
	}
	delay = clampDelay(delay, float64(size-3))

	p := int(delay)
	xm1 := d.Read(max(0, p-1))
	return interp.Hermite4(delay-float64(p), xm1, d.Read(p), d.Read(p+1), d.Read(p+2))
}

// Reset clears the stored samples.
func (d *Line) Reset() {
	clear(d.buffer)
	d.writePos = 0
}

func clampDelay(delay, maxDelay float64) float64 {
	if !(delay > 0) || math.IsInf(delay, 0) {
		return 0
	}
	if maxDelay < 0 {
		maxDelay = 0
	}
	if delay > maxDelay {
		return maxDelay
	}
	return delay
}
