package autodiff_test

import (
	"math"
	"testing"

	"github.com/born-ml/vision/internal/autodiff"
	"github.com/born-ml/vision/internal/backend/cpu"
	"github.com/born-ml/vision/internal/tensor"
)

// sumGridSample runs a plain (untaped) forward pass and sums the output,
// matching the implicit all-ones seed gradient used by Backward.
func sumGridSample(inputData, gridData []float64, inShape, gridShape tensor.Shape, padding tensor.PaddingMode) float64 {
	backend := cpu.New()
	input, _ := tensor.FromSlice(inputData, inShape, backend)
	grid, _ := tensor.FromSlice(gridData, gridShape, backend)
	out := backend.GridSample(input.Raw(), grid.Raw(), tensor.InterpBilinear, padding)

	var sum float64
	for _, v := range out.AsFloat64() {
		sum += v
	}
	return sum
}

func gridSampleCase() (inputData, gridData []float64, inShape, gridShape tensor.Shape) {
	inputData = []float64{
		0.5, -1.2, 2.0, 0.3,
		1.1, 0.7, -0.4, 2.2,
		-0.9, 1.5, 0.6, -1.7,
		2.4, -0.2, 1.9, 0.8,
	}
	// Fractional positions, one of them near the border.
	gridData = []float64{
		0.3, 0.7,
		1.6, 2.2,
		2.9, 0.1,
		0.05, 2.85,
	}
	return inputData, gridData, tensor.Shape{1, 1, 4, 4}, tensor.Shape{1, 2, 2, 2}
}

func TestGridSampleInputGradient_Numerical(t *testing.T) {
	inputData, gridData, inShape, gridShape := gridSampleCase()

	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()
	input, _ := tensor.FromSlice(inputData, inShape, backend)
	grid, _ := tensor.FromSlice(gridData, gridShape, backend)
	out := input.GridSample(grid, tensor.InterpBilinear, tensor.PadZeros)
	grads := autodiff.Backward(out, backend)

	got := grads[input.Raw()].AsFloat64()
	const eps = 1e-6
	for i := range inputData {
		plus := append([]float64(nil), inputData...)
		minus := append([]float64(nil), inputData...)
		plus[i] += eps
		minus[i] -= eps
		want := (sumGridSample(plus, gridData, inShape, gridShape, tensor.PadZeros) -
			sumGridSample(minus, gridData, inShape, gridShape, tensor.PadZeros)) / (2 * eps)
		if math.Abs(got[i]-want) > 1e-4 {
			t.Errorf("input grad[%d] = %v, numerical %v", i, got[i], want)
		}
	}
}

func TestGridSampleGridGradient_Numerical(t *testing.T) {
	inputData, gridData, inShape, gridShape := gridSampleCase()

	for _, padding := range []tensor.PaddingMode{tensor.PadZeros, tensor.PadBorder} {
		backend := autodiff.New(cpu.New())
		backend.Tape().StartRecording()
		input, _ := tensor.FromSlice(inputData, inShape, backend)
		grid, _ := tensor.FromSlice(gridData, gridShape, backend)
		out := input.GridSample(grid, tensor.InterpBilinear, padding)
		grads := autodiff.Backward(out, backend)

		got := grads[grid.Raw()].AsFloat64()
		const eps = 1e-6
		for i := range gridData {
			plus := append([]float64(nil), gridData...)
			minus := append([]float64(nil), gridData...)
			plus[i] += eps
			minus[i] -= eps
			want := (sumGridSample(inputData, plus, inShape, gridShape, padding) -
				sumGridSample(inputData, minus, inShape, gridShape, padding)) / (2 * eps)
			if math.Abs(got[i]-want) > 1e-4 {
				t.Errorf("%s: grid grad[%d] = %v, numerical %v", padding, i, got[i], want)
			}
		}
	}
}

func TestNarrowGradient_Numerical(t *testing.T) {
	data := []float64{0.5, -1.2, 2.0, 0.3, 1.1, 0.7}

	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()
	x, _ := tensor.FromSlice(data, tensor.Shape{6}, backend)
	y := x.Narrow(0, 1, 3).MulScalar(2)
	grads := autodiff.Backward(y, backend)

	got := grads[x.Raw()].AsFloat64()
	want := []float64{0, 2, 2, 2, 0, 0}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("grad[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
