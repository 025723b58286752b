package cpu

import (
	"testing"

	"github.com/born-ml/vision/internal/tensor"
)

// identityGrid builds a [1,h,w,2] grid sampling every pixel at its own
// position.
func identityGrid(t *testing.T, h, w int) *tensor.RawTensor {
	t.Helper()
	data := make([]float32, h*w*2)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			data[(y*w+x)*2] = float32(x)
			data[(y*w+x)*2+1] = float32(y)
		}
	}
	return rawFloat32(t, data, tensor.Shape{1, h, w, 2})
}

// ramp4x4 builds a [1,1,4,4] input with values 0..15.
func ramp4x4(t *testing.T) *tensor.RawTensor {
	t.Helper()
	data := make([]float32, 16)
	for i := range data {
		data[i] = float32(i)
	}
	return rawFloat32(t, data, tensor.Shape{1, 1, 4, 4})
}

func TestGridSample_Identity(t *testing.T) {
	backend := New()
	input := ramp4x4(t)
	grid := identityGrid(t, 4, 4)

	for _, mode := range []tensor.InterpMode{tensor.InterpNearest, tensor.InterpBilinear} {
		got := backend.GridSample(input, grid, mode, tensor.PadZeros)
		if !got.Shape().Equal(tensor.Shape{1, 1, 4, 4}) {
			t.Fatalf("%s: shape = %v, want [1 1 4 4]", mode, got.Shape())
		}
		if !float32SliceEqual(got.AsFloat32(), input.AsFloat32()) {
			t.Errorf("%s: identity grid = %v, want input", mode, got.AsFloat32())
		}
	}
}

func TestGridSample_Translation(t *testing.T) {
	backend := New()
	input := ramp4x4(t)

	// Sample the 2x2 block starting at (1, 1).
	data := []float32{
		1, 1, 2, 1,
		1, 2, 2, 2,
	}
	grid := rawFloat32(t, data, tensor.Shape{1, 2, 2, 2})

	got := backend.GridSample(input, grid, tensor.InterpBilinear, tensor.PadZeros)
	want := []float32{5, 6, 9, 10}
	if !float32SliceEqual(got.AsFloat32(), want) {
		t.Errorf("translation sample = %v, want %v", got.AsFloat32(), want)
	}
}

func TestGridSample_BilinearMidpoint(t *testing.T) {
	backend := New()
	input := rawFloat32(t, []float32{0, 2, 4, 6}, tensor.Shape{1, 1, 2, 2})

	grid := rawFloat32(t, []float32{0.5, 0.5}, tensor.Shape{1, 1, 1, 2})
	got := backend.GridSample(input, grid, tensor.InterpBilinear, tensor.PadZeros)
	// Average of all four corners: (0+2+4+6)/4.
	if got.AsFloat32()[0] != 3 {
		t.Errorf("midpoint sample = %v, want 3", got.AsFloat32()[0])
	}
}

func TestGridSample_NearestRounds(t *testing.T) {
	backend := New()
	input := rawFloat32(t, []float32{0, 1, 2, 3}, tensor.Shape{1, 1, 2, 2})

	grid := rawFloat32(t, []float32{0.4, 0.6}, tensor.Shape{1, 1, 1, 2})
	got := backend.GridSample(input, grid, tensor.InterpNearest, tensor.PadZeros)
	// Rounds to (0, 1): value 2.
	if got.AsFloat32()[0] != 2 {
		t.Errorf("nearest sample = %v, want 2", got.AsFloat32()[0])
	}
}

func TestGridSample_PaddingModes(t *testing.T) {
	backend := New()
	input := ramp4x4(t)

	// One in-bounds tap, one outside on each side.
	grid := rawFloat32(t, []float32{
		-1, 0, // left of row 0
		4, 0, // right of row 0
		0, -1, // above column 0
	}, tensor.Shape{1, 1, 3, 2})

	zeros := backend.GridSample(input, grid, tensor.InterpBilinear, tensor.PadZeros)
	for i, v := range zeros.AsFloat32() {
		if v != 0 {
			t.Errorf("zeros padding tap %d = %v, want 0", i, v)
		}
	}

	border := backend.GridSample(input, grid, tensor.InterpBilinear, tensor.PadBorder)
	wantBorder := []float32{0, 3, 0} // clamped to (0,0), (3,0), (0,0)
	if !float32SliceEqual(border.AsFloat32(), wantBorder) {
		t.Errorf("border padding = %v, want %v", border.AsFloat32(), wantBorder)
	}

	reflect := backend.GridSample(input, grid, tensor.InterpBilinear, tensor.PadReflection)
	wantReflect := []float32{1, 2, 4} // -1 -> 1, 4 -> 2, row -1 -> row 1
	if !float32SliceEqual(reflect.AsFloat32(), wantReflect) {
		t.Errorf("reflection padding = %v, want %v", reflect.AsFloat32(), wantReflect)
	}
}

func TestGridSample_BatchMismatchPanics(t *testing.T) {
	backend := New()
	input := ramp4x4(t)
	grid, _ := tensor.NewRaw(tensor.Shape{2, 1, 1, 2}, tensor.Float32, tensor.CPU)

	defer func() {
		if recover() == nil {
			t.Error("expected panic for batch mismatch")
		}
	}()
	backend.GridSample(input, grid, tensor.InterpBilinear, tensor.PadZeros)
}

func TestGridSampleInputBackward_Scatter(t *testing.T) {
	backend := New()
	input := ramp4x4(t)

	// A single integer tap at (1, 2) receives the whole gradient.
	grid := rawFloat32(t, []float32{1, 2}, tensor.Shape{1, 1, 1, 2})
	grad := rawFloat32(t, []float32{5}, tensor.Shape{1, 1, 1, 1})

	got := backend.GridSampleInputBackward(input, grid, grad, tensor.InterpBilinear, tensor.PadZeros)
	for i, v := range got.AsFloat32() {
		want := float32(0)
		if i == 2*4+1 {
			want = 5
		}
		if v != want {
			t.Errorf("input grad[%d] = %v, want %v", i, v, want)
		}
	}
}

func TestGridSampleInputBackward_BilinearWeights(t *testing.T) {
	backend := New()
	input := ramp4x4(t)

	// Sampling at (0.25, 0) splits the gradient between (0,0) and (1,0).
	grid := rawFloat32(t, []float32{0.25, 0}, tensor.Shape{1, 1, 1, 2})
	grad := rawFloat32(t, []float32{4}, tensor.Shape{1, 1, 1, 1})

	got := backend.GridSampleInputBackward(input, grid, grad, tensor.InterpBilinear, tensor.PadZeros)
	g := got.AsFloat32()
	if g[0] != 3 || g[1] != 1 {
		t.Errorf("bilinear scatter = [%v %v], want [3 1]", g[0], g[1])
	}
}

func TestGridSampleGridBackward_Ramp(t *testing.T) {
	backend := New()
	// Horizontal ramp: value equals x. d/dx = 1, d/dy = 0 everywhere inside.
	input := rawFloat32(t, []float32{0, 1, 2, 3, 0, 1, 2, 3}, tensor.Shape{1, 1, 2, 4})

	grid := rawFloat32(t, []float32{1.5, 0.5}, tensor.Shape{1, 1, 1, 2})
	grad := rawFloat32(t, []float32{1}, tensor.Shape{1, 1, 1, 1})

	got := backend.GridSampleGridBackward(input, grid, grad, tensor.InterpBilinear, tensor.PadZeros)
	g := got.AsFloat32()
	if !float32SliceEqual(g, []float32{1, 0}) {
		t.Errorf("grid grad = %v, want [1 0]", g)
	}
}

func TestGridSampleGridBackward_NearestIsZero(t *testing.T) {
	backend := New()
	input := ramp4x4(t)
	grid := rawFloat32(t, []float32{1.5, 1.5}, tensor.Shape{1, 1, 1, 2})
	grad := rawFloat32(t, []float32{1}, tensor.Shape{1, 1, 1, 1})

	got := backend.GridSampleGridBackward(input, grid, grad, tensor.InterpNearest, tensor.PadZeros)
	for i, v := range got.AsFloat32() {
		if v != 0 {
			t.Errorf("nearest grid grad[%d] = %v, want 0", i, v)
		}
	}
}
