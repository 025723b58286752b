package cpu

import (
	"testing"

	"github.com/born-ml/vision/internal/tensor"
)

func TestCPUBackend_Narrow(t *testing.T) {
	backend := New()
	// 4x4 grid, values 0..15 row by row.
	data := make([]float32, 16)
	for i := range data {
		data[i] = float32(i)
	}
	x := rawFloat32(t, data, tensor.Shape{1, 1, 4, 4})

	// Center 2x2 block: rows 1-2, cols 1-2.
	got := backend.Narrow(backend.Narrow(x, 2, 1, 2), 3, 1, 2)
	if !got.Shape().Equal(tensor.Shape{1, 1, 2, 2}) {
		t.Fatalf("Narrow shape = %v, want [1 1 2 2]", got.Shape())
	}
	want := []float32{5, 6, 9, 10}
	if !float32SliceEqual(got.AsFloat32(), want) {
		t.Errorf("Narrow = %v, want %v", got.AsFloat32(), want)
	}
}

func TestCPUBackend_NarrowNegativeDim(t *testing.T) {
	backend := New()
	x := rawFloat32(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})

	got := backend.Narrow(x, -1, 1, 1)
	if !got.Shape().Equal(tensor.Shape{2, 1}) {
		t.Fatalf("Narrow shape = %v, want [2 1]", got.Shape())
	}
	if !float32SliceEqual(got.AsFloat32(), []float32{2, 4}) {
		t.Errorf("Narrow = %v, want [2 4]", got.AsFloat32())
	}
}

func TestCPUBackend_NarrowOutOfBoundsPanics(t *testing.T) {
	backend := New()
	x := rawFloat32(t, []float32{1, 2, 3, 4}, tensor.Shape{4})

	defer func() {
		if recover() == nil {
			t.Error("expected panic for out-of-bounds narrow")
		}
	}()
	backend.Narrow(x, 0, 2, 5)
}

func TestCPUBackend_NarrowBackward(t *testing.T) {
	backend := New()
	grad := rawFloat32(t, []float32{1, 2, 3, 4}, tensor.Shape{1, 1, 2, 2})

	got := backend.NarrowBackward(grad, 2, 1, tensor.Shape{1, 1, 4, 2})
	if !got.Shape().Equal(tensor.Shape{1, 1, 4, 2}) {
		t.Fatalf("NarrowBackward shape = %v, want [1 1 4 2]", got.Shape())
	}
	want := []float32{0, 0, 1, 2, 3, 4, 0, 0}
	if !float32SliceEqual(got.AsFloat32(), want) {
		t.Errorf("NarrowBackward = %v, want %v", got.AsFloat32(), want)
	}
}

func TestNarrowRoundTrip(t *testing.T) {
	backend := New()
	data := []float32{1, 2, 3, 4, 5, 6}
	x := rawFloat32(t, data, tensor.Shape{2, 3})

	narrowed := backend.Narrow(x, 1, 0, 3)
	if !float32SliceEqual(narrowed.AsFloat32(), data) {
		t.Error("full-range narrow must be the identity")
	}
}
