package geometry

import (
	"math"
	"testing"

	"github.com/born-ml/vision/internal/backend/cpu"
	"github.com/born-ml/vision/internal/tensor"
)

func ramp(t *testing.T, backend *cpu.CPUBackend, n, c, h, w int) *tensor.Tensor[float64, *cpu.CPUBackend] {
	t.Helper()
	data := make([]float64, n*c*h*w)
	for i := range data {
		data[i] = float64(i)
	}
	ts, err := tensor.FromSlice(data, tensor.Shape{n, c, h, w}, backend)
	if err != nil {
		t.Fatalf("FromSlice: %v", err)
	}
	return ts
}

func identity3x3(t *testing.T, backend *cpu.CPUBackend) *tensor.Tensor[float64, *cpu.CPUBackend] {
	t.Helper()
	m, err := tensor.FromSlice([]float64{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}, tensor.Shape{1, 3, 3}, backend)
	if err != nil {
		t.Fatalf("FromSlice: %v", err)
	}
	return m
}

func float64SliceNear(a, b []float64, tol float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}

func TestWarpPerspective_Identity(t *testing.T) {
	backend := cpu.New()
	x := ramp(t, backend, 1, 1, 4, 4)
	m := identity3x3(t, backend)

	for _, align := range []bool{true, false} {
		got, err := WarpPerspective(x, m, 4, 4, tensor.InterpBilinear, tensor.PadZeros, align)
		if err != nil {
			t.Fatalf("WarpPerspective: %v", err)
		}
		if !float64SliceNear(got.Data(), x.Data(), 1e-9) {
			t.Errorf("align_corners=%v: identity warp = %v, want input", align, got.Data())
		}
	}
}

func TestWarpPerspective_Translation(t *testing.T) {
	backend := cpu.New()
	x := ramp(t, backend, 1, 1, 4, 4)
	// Maps source (1,1) to output (0,0): the center 2x2 crop.
	m, _ := tensor.FromSlice([]float64{
		1, 0, -1,
		0, 1, -1,
		0, 0, 1,
	}, tensor.Shape{1, 3, 3}, backend)

	for _, align := range []bool{true, false} {
		got, err := WarpPerspective(x, m, 2, 2, tensor.InterpBilinear, tensor.PadZeros, align)
		if err != nil {
			t.Fatalf("WarpPerspective: %v", err)
		}
		want := []float64{5, 6, 9, 10}
		if !float64SliceNear(got.Data(), want, 1e-9) {
			t.Errorf("align_corners=%v: warp = %v, want %v", align, got.Data(), want)
		}
	}
}

func TestWarpPerspective_Batched(t *testing.T) {
	backend := cpu.New()
	x := ramp(t, backend, 2, 1, 2, 2)
	m, _ := tensor.FromSlice([]float64{
		1, 0, 0, 0, 1, 0, 0, 0, 1, // identity
		1, 0, -1, 0, 1, 0, 0, 0, 1, // shift left by 1
	}, tensor.Shape{2, 3, 3}, backend)

	got, err := WarpPerspective(x, m, 2, 1, tensor.InterpBilinear, tensor.PadZeros, true)
	if err != nil {
		t.Fatalf("WarpPerspective: %v", err)
	}
	// Batch 0 samples column 0, batch 1 samples column 1.
	want := []float64{0, 2, 5, 7}
	if !float64SliceNear(got.Data(), want, 1e-9) {
		t.Errorf("batched warp = %v, want %v", got.Data(), want)
	}
}

func TestWarpPerspective_Errors(t *testing.T) {
	backend := cpu.New()
	x := ramp(t, backend, 1, 1, 4, 4)
	m := identity3x3(t, backend)

	bad3d, _ := tensor.FromSlice([]float64{1, 2, 3, 4}, tensor.Shape{1, 2, 2}, backend)
	if _, err := WarpPerspective(bad3d, m, 2, 2, tensor.InterpBilinear, tensor.PadZeros, true); err == nil {
		t.Error("accepted non-4D input")
	}
	if _, err := WarpPerspective(x, bad3d, 2, 2, tensor.InterpBilinear, tensor.PadZeros, true); err == nil {
		t.Error("accepted malformed transform")
	}
	if _, err := WarpPerspective(x, m, 0, 2, tensor.InterpBilinear, tensor.PadZeros, true); err == nil {
		t.Error("accepted zero output size")
	}

	m2, _ := tensor.FromSlice(make([]float64, 18), tensor.Shape{2, 3, 3}, backend)
	if _, err := WarpPerspective(x, m2, 2, 2, tensor.InterpBilinear, tensor.PadZeros, true); err == nil {
		t.Error("accepted batch mismatch")
	}
}

func TestCropByIndices(t *testing.T) {
	backend := cpu.New()
	x := ramp(t, backend, 1, 1, 4, 4)

	got, err := CropByIndices(x, 1, 3, 1, 3)
	if err != nil {
		t.Fatalf("CropByIndices: %v", err)
	}
	if !got.Shape().Equal(tensor.Shape{1, 1, 2, 2}) {
		t.Fatalf("shape = %v, want [1 1 2 2]", got.Shape())
	}
	want := []float64{5, 6, 9, 10}
	if !float64SliceNear(got.Data(), want, 0) {
		t.Errorf("crop = %v, want %v", got.Data(), want)
	}
}

func TestCropByIndices_Bounds(t *testing.T) {
	backend := cpu.New()
	x := ramp(t, backend, 1, 1, 4, 4)

	cases := [][4]int{
		{-1, 2, 0, 2}, // negative row start
		{0, 5, 0, 2},  // row end past height
		{2, 2, 0, 2},  // empty row range
		{0, 2, 3, 2},  // inverted column range
	}
	for _, c := range cases {
		if _, err := CropByIndices(x, c[0], c[1], c[2], c[3]); err == nil {
			t.Errorf("CropByIndices(%v) accepted invalid bounds", c)
		}
	}
}

func TestCropByTransform_MatchesSlice(t *testing.T) {
	backend := cpu.New()
	x := ramp(t, backend, 1, 1, 5, 5)

	src := corners(t, backend, [4][2]float64{{1, 1}, {3, 1}, {3, 3}, {1, 3}})
	dst := corners(t, backend, [4][2]float64{{0, 0}, {2, 0}, {2, 2}, {0, 2}})
	m, err := PerspectiveTransform(src, dst)
	if err != nil {
		t.Fatalf("PerspectiveTransform: %v", err)
	}

	warped, err := CropByTransform(x, m, 3, 3, tensor.InterpBilinear, tensor.PadZeros, true)
	if err != nil {
		t.Fatalf("CropByTransform: %v", err)
	}
	sliced, err := CropByIndices(x, 1, 4, 1, 4)
	if err != nil {
		t.Fatalf("CropByIndices: %v", err)
	}
	if !float64SliceNear(warped.Data(), sliced.Data(), 1e-9) {
		t.Errorf("transform crop %v != slice crop %v", warped.Data(), sliced.Data())
	}
}
