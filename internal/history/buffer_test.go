package history

import (
	"math"
	"testing"

	"github.com/san-kum/pidsim/internal/dynamo"
)

func fill(b *Buffer, n int, dt float64, tracking bool) {
	for i := 1; i <= n; i++ {
		b.Push(dynamo.Sample{T: float64(i) * dt, Y: float64(i)}, tracking)
	}
}

func TestCapacity(t *testing.T) {
	tests := []struct {
		width, dt float64
		want      int
	}{
		{1, 0.004, 250},
		{3, 0.004, 750},
		{1, 0.3, 3},
		{0.001, 0.004, 1},
	}

	for _, tt := range tests {
		b := New(tt.width, tt.dt)
		if b.Capacity() != tt.want {
			t.Errorf("New(%v, %v).Capacity() = %d, want %d", tt.width, tt.dt, b.Capacity(), tt.want)
		}
		bound := int(math.Ceil(tt.width/tt.dt)) + 1
		if b.Capacity() > bound {
			t.Errorf("capacity %d exceeds bound %d", b.Capacity(), bound)
		}
	}
}

func TestFreezesWhenNotTracking(t *testing.T) {
	dt := 0.004
	b := New(1, dt)
	fill(b, 1000, dt, false)

	if b.Len() != b.Capacity() {
		t.Fatalf("expected %d samples, got %d", b.Capacity(), b.Len())
	}
	if b.At(0).Y != 1 {
		t.Errorf("oldest sample should be the first push, got %v", b.At(0))
	}
	if b.Push(dynamo.Sample{T: 99, Y: 99}, false) {
		t.Error("full buffer accepted a sample without tracking")
	}
	w := b.Window()
	if w.Left != 0 || w.Right != 1 {
		t.Errorf("window moved without tracking: %+v", w)
	}
}

func TestTrackingEvictsOldest(t *testing.T) {
	dt := 0.004
	b := New(1, dt)
	fill(b, 260, dt, true)

	if b.Len() != 250 {
		t.Fatalf("expected 250 samples, got %d", b.Len())
	}
	if b.At(0).Y != 11 {
		t.Errorf("oldest sample = %v, want 11", b.At(0).Y)
	}
	last, ok := b.Last()
	if !ok || last.Y != 260 {
		t.Errorf("newest sample = %v, want 260", last.Y)
	}
	w := b.Window()
	if math.Abs(w.Left-10*dt) > 1e-12 {
		t.Errorf("window left = %v, want %v", w.Left, 10*dt)
	}
}

func TestTrackingWindowWidthInvariant(t *testing.T) {
	dt := 0.004
	b := New(3, dt)

	for i := 1; i <= 20000; i++ {
		b.Push(dynamo.Sample{T: float64(i) * dt, Y: 0}, true)
		if w := b.Window(); math.Abs(w.Width()-3) > 1e-9 {
			t.Fatalf("push %d: window width %v", i, w.Width())
		}
		if b.Len() > int(math.Ceil(3/dt))+1 {
			t.Fatalf("push %d: length %d over bound", i, b.Len())
		}
	}
}

func TestSamplesInsertionOrder(t *testing.T) {
	dt := 0.1
	b := New(0.5, dt)
	fill(b, 12, dt, true)

	s := b.Samples()
	for i := 1; i < len(s); i++ {
		if s[i].T <= s[i-1].T {
			t.Fatalf("samples out of order at %d: %v", i, s)
		}
	}
	v := b.Values()
	if len(v) != len(s) || v[len(v)-1] != 12 {
		t.Errorf("unexpected values %v", v)
	}
}

func TestReset(t *testing.T) {
	dt := 0.004
	b := New(1, dt)
	fill(b, 600, dt, true)
	b.Reset()

	if b.Len() != 0 {
		t.Errorf("expected empty buffer, got %d", b.Len())
	}
	if _, ok := b.Last(); ok {
		t.Error("Last on empty buffer reported a sample")
	}
	if w := b.Window(); w.Left != 0 || w.Right != 1 {
		t.Errorf("window not reset: %+v", w)
	}
}
