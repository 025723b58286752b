package cpu

import (
	"testing"

	"github.com/born-ml/vision/internal/tensor"
)

func TestCPUBackend_MatMul(t *testing.T) {
	backend := New()
	a := rawFloat32(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	b := rawFloat32(t, []float32{7, 8, 9, 10, 11, 12}, tensor.Shape{3, 2})

	got := backend.MatMul(a, b)
	if !got.Shape().Equal(tensor.Shape{2, 2}) {
		t.Fatalf("MatMul shape = %v, want [2 2]", got.Shape())
	}
	want := []float32{58, 64, 139, 154}
	if !float32SliceEqual(got.AsFloat32(), want) {
		t.Errorf("MatMul = %v, want %v", got.AsFloat32(), want)
	}
}

func TestCPUBackend_MatMulIdentity(t *testing.T) {
	backend := New()
	a := rawFloat32(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	eye := rawFloat32(t, []float32{1, 0, 0, 1}, tensor.Shape{2, 2})

	got := backend.MatMul(a, eye)
	if !float32SliceEqual(got.AsFloat32(), a.AsFloat32()) {
		t.Errorf("A·I = %v, want %v", got.AsFloat32(), a.AsFloat32())
	}
}

func TestCPUBackend_MatMulShapeMismatchPanics(t *testing.T) {
	backend := New()
	a := rawFloat32(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	b := rawFloat32(t, []float32{1, 2, 3}, tensor.Shape{3, 1})

	defer func() {
		if recover() == nil {
			t.Error("expected panic for inner dimension mismatch")
		}
	}()
	backend.MatMul(a, b)
}

func TestCPUBackend_BatchMatMul(t *testing.T) {
	backend := New()
	// Two independent 2x2 multiplications.
	a := rawFloat32(t, []float32{
		1, 0, 0, 1, // identity
		2, 0, 0, 2, // 2·identity
	}, tensor.Shape{2, 2, 2})
	b := rawFloat32(t, []float32{
		1, 2, 3, 4,
		1, 2, 3, 4,
	}, tensor.Shape{2, 2, 2})

	got := backend.BatchMatMul(a, b)
	if !got.Shape().Equal(tensor.Shape{2, 2, 2}) {
		t.Fatalf("BatchMatMul shape = %v, want [2 2 2]", got.Shape())
	}
	want := []float32{1, 2, 3, 4, 2, 4, 6, 8}
	if !float32SliceEqual(got.AsFloat32(), want) {
		t.Errorf("BatchMatMul = %v, want %v", got.AsFloat32(), want)
	}
}

func TestCPUBackend_Sum(t *testing.T) {
	backend := New()
	x := rawFloat32(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})

	got := backend.Sum(x)
	if got.NumElements() != 1 {
		t.Fatalf("Sum must produce a scalar, got shape %v", got.Shape())
	}
	if got.AsFloat32()[0] != 10 {
		t.Errorf("Sum = %v, want 10", got.AsFloat32()[0])
	}
}
