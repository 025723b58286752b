package geometry

import (
	"math"
	"testing"

	"github.com/born-ml/vision/internal/backend/cpu"
	"github.com/born-ml/vision/internal/tensor"
)

func corners(t *testing.T, backend *cpu.CPUBackend, pts [4][2]float64) *tensor.Tensor[float64, *cpu.CPUBackend] {
	t.Helper()
	data := make([]float64, 8)
	for i, p := range pts {
		data[i*2] = p[0]
		data[i*2+1] = p[1]
	}
	ts, err := tensor.FromSlice(data, tensor.Shape{1, 4, 2}, backend)
	if err != nil {
		t.Fatalf("FromSlice: %v", err)
	}
	return ts
}

func matrixNear(t *testing.T, got *tensor.Tensor[float64, *cpu.CPUBackend], want [9]float64, tol float64) {
	t.Helper()
	data := got.Data()
	for i := range want {
		if math.Abs(data[i]-want[i]) > tol {
			t.Fatalf("matrix = %v, want %v", data, want)
		}
	}
}

func TestPerspectiveTransform_Translation(t *testing.T) {
	backend := cpu.New()
	// Center 2x2 crop of a 4x4 image: pure translation by (-1, -1).
	src := corners(t, backend, [4][2]float64{{1, 1}, {2, 1}, {2, 2}, {1, 2}})
	dst := corners(t, backend, [4][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}})

	m, err := PerspectiveTransform(src, dst)
	if err != nil {
		t.Fatalf("PerspectiveTransform: %v", err)
	}
	if !m.Shape().Equal(tensor.Shape{1, 3, 3}) {
		t.Fatalf("shape = %v, want [1 3 3]", m.Shape())
	}
	matrixNear(t, m, [9]float64{
		1, 0, -1,
		0, 1, -1,
		0, 0, 1,
	}, 1e-12)
}

func TestPerspectiveTransform_Scale(t *testing.T) {
	backend := cpu.New()
	// Map an 8x8 extent onto a 4x4 extent: scale by 3/7 around the origin.
	src := corners(t, backend, [4][2]float64{{0, 0}, {7, 0}, {7, 7}, {0, 7}})
	dst := corners(t, backend, [4][2]float64{{0, 0}, {3, 0}, {3, 3}, {0, 3}})

	m, err := PerspectiveTransform(src, dst)
	if err != nil {
		t.Fatalf("PerspectiveTransform: %v", err)
	}
	s := 3.0 / 7.0
	matrixNear(t, m, [9]float64{
		s, 0, 0,
		0, s, 0,
		0, 0, 1,
	}, 1e-12)
}

func TestPerspectiveTransform_MapsCorners(t *testing.T) {
	backend := cpu.New()
	// A genuine perspective quad, not a parallelogram.
	srcPts := [4][2]float64{{0, 0}, {10, 1}, {11, 12}, {-1, 9}}
	dstPts := [4][2]float64{{0, 0}, {4, 0}, {4, 4}, {0, 4}}
	src := corners(t, backend, srcPts)
	dst := corners(t, backend, dstPts)

	m, err := PerspectiveTransform(src, dst)
	if err != nil {
		t.Fatalf("PerspectiveTransform: %v", err)
	}

	h := hostMatrixAt(m, 0)
	for i := range srcPts {
		x, y := h.apply(srcPts[i][0], srcPts[i][1])
		if math.Abs(x-dstPts[i][0]) > 1e-9 || math.Abs(y-dstPts[i][1]) > 1e-9 {
			t.Errorf("corner %d maps to (%v, %v), want (%v, %v)", i, x, y, dstPts[i][0], dstPts[i][1])
		}
	}
}

func TestPerspectiveTransform_ShapeErrors(t *testing.T) {
	backend := cpu.New()
	bad, _ := tensor.FromSlice([]float64{1, 2, 3, 4}, tensor.Shape{1, 2, 2}, backend)
	good := corners(t, backend, [4][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}})

	if _, err := PerspectiveTransform(bad, good); err == nil {
		t.Error("accepted malformed src shape")
	}
	if _, err := PerspectiveTransform(good, bad); err == nil {
		t.Error("accepted malformed dst shape")
	}
}

func TestPerspectiveTransform_DegenerateCorners(t *testing.T) {
	backend := cpu.New()
	// All src corners collapse to a point: no invertible mapping exists.
	src := corners(t, backend, [4][2]float64{{1, 1}, {1, 1}, {1, 1}, {1, 1}})
	dst := corners(t, backend, [4][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}})

	if _, err := PerspectiveTransform(src, dst); err == nil {
		t.Error("accepted degenerate corner configuration")
	}
}

func TestInvert_RoundTrip(t *testing.T) {
	backend := cpu.New()
	m, _ := tensor.FromSlice([]float64{
		2, 0, 3,
		0, 4, -1,
		0, 0, 1,
	}, tensor.Shape{1, 3, 3}, backend)

	inv, err := Invert(m)
	if err != nil {
		t.Fatalf("Invert: %v", err)
	}

	fwd := hostMatrixAt(m, 0)
	back := hostMatrixAt(inv, 0)
	for _, p := range [][2]float64{{0, 0}, {1, 2}, {-3, 5}} {
		x, y := fwd.apply(p[0], p[1])
		x, y = back.apply(x, y)
		if math.Abs(x-p[0]) > 1e-9 || math.Abs(y-p[1]) > 1e-9 {
			t.Errorf("round trip of (%v, %v) gave (%v, %v)", p[0], p[1], x, y)
		}
	}
}

func TestInvert_Singular(t *testing.T) {
	backend := cpu.New()
	m, _ := tensor.FromSlice([]float64{
		1, 2, 3,
		2, 4, 6,
		0, 0, 1,
	}, tensor.Shape{1, 3, 3}, backend)

	if _, err := Invert(m); err == nil {
		t.Error("Invert accepted a singular matrix")
	}
}

func TestInvert_ShapeError(t *testing.T) {
	backend := cpu.New()
	m, _ := tensor.FromSlice([]float64{1, 2, 3, 4}, tensor.Shape{2, 2}, backend)

	if _, err := Invert(m); err == nil {
		t.Error("Invert accepted a non-[N,3,3] tensor")
	}
}
