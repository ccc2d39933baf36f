// Package history keeps the strip-chart samples of a running simulation.
//
// A [Buffer] is a fixed-capacity ring of (time, value) samples sized from a
// display window and the fixed timestep. Once full it either freezes or, in
// tracking mode, drops the oldest sample and slides the window forward by
// one step.
package history

import (
	"math"

	"github.com/san-kum/pidsim/internal/dynamo"
)

// Window is the displayed time range [Left, Right).
type Window struct {
	Left  float64
	Right float64
}

func (w Window) Width() float64 { return w.Right - w.Left }

type Buffer struct {
	data    []dynamo.Sample
	head    int
	size    int
	width   float64
	dt      float64
	evicted int
}

// New sizes a buffer for a window of the given width at timestep dt. The
// buffer counts as full as soon as one more sample would reach width/dt.
func New(width, dt float64) *Buffer {
	return &Buffer{
		data:  make([]dynamo.Sample, capacityFor(width, dt)),
		width: width,
		dt:    dt,
	}
}

func capacityFor(width, dt float64) int {
	if dt <= 0 || width <= 0 {
		return 1
	}
	n := int(math.Floor(width / dt))
	if n < 1 {
		n = 1
	}
	return n
}

func (b *Buffer) Capacity() int { return len(b.data) }
func (b *Buffer) Len() int      { return b.size }
func (b *Buffer) Full() bool    { return b.size >= len(b.data) }

// At returns the i-th sample, oldest first.
func (b *Buffer) At(i int) dynamo.Sample {
	return b.data[(b.head+i)%len(b.data)]
}

// Last returns the newest sample.
func (b *Buffer) Last() (dynamo.Sample, bool) {
	if b.size == 0 {
		return dynamo.Sample{}, false
	}
	return b.At(b.size - 1), true
}

// Push appends s. A full buffer rejects the sample unless tracking, in which
// case the oldest sample is evicted and the window slides by one step.
func (b *Buffer) Push(s dynamo.Sample, tracking bool) bool {
	if b.Full() {
		if !tracking {
			return false
		}
		b.head = (b.head + 1) % len(b.data)
		b.size--
		b.evicted++
	}
	b.data[(b.head+b.size)%len(b.data)] = s
	b.size++
	return true
}

func (b *Buffer) Window() Window {
	left := float64(b.evicted) * b.dt
	return Window{Left: left, Right: left + b.width}
}

func (b *Buffer) Reset() {
	b.head = 0
	b.size = 0
	b.evicted = 0
}

// Samples returns a copy of the buffer contents in insertion order.
func (b *Buffer) Samples() []dynamo.Sample {
	out := make([]dynamo.Sample, b.size)
	for i := range out {
		out[i] = b.At(i)
	}
	return out
}

// Values returns the sampled values in insertion order.
func (b *Buffer) Values() []float64 {
	out := make([]float64, b.size)
	for i := range out {
		out[i] = b.At(i).Y
	}
	return out
}
