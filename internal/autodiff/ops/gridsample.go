package ops

import "github.com/born-ml/vision/internal/tensor"

// GridSampleOp records a differentiable resampling operation.
//
// Forward: output = GridSample(input, grid, mode, padding)
//
// Backward (delegated to backend kernels):
//   - d_input: output gradients scattered to the sampled taps, weighted by
//     the interpolation coefficients
//   - d_grid: derivative of the interpolation weights w.r.t. the sampling
//     coordinates (zero for nearest mode)
type GridSampleOp struct {
	input   *tensor.RawTensor
	grid    *tensor.RawTensor
	output  *tensor.RawTensor
	mode    tensor.InterpMode
	padding tensor.PaddingMode
}

// NewGridSampleOp creates a new GridSample operation.
func NewGridSampleOp(input, grid, output *tensor.RawTensor, mode tensor.InterpMode, padding tensor.PaddingMode) *GridSampleOp {
	return &GridSampleOp{
		input:   input,
		grid:    grid,
		output:  output,
		mode:    mode,
		padding: padding,
	}
}

// Backward computes gradients for GridSample.
func (op *GridSampleOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	inputGrad := backend.GridSampleInputBackward(op.input, op.grid, outputGrad, op.mode, op.padding)
	gridGrad := backend.GridSampleGridBackward(op.input, op.grid, outputGrad, op.mode, op.padding)

	return []*tensor.RawTensor{inputGrad, gridGrad}
}

// Inputs returns the input tensors [input, grid].
func (op *GridSampleOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input, op.grid}
}

// Output returns the output tensor.
func (op *GridSampleOp) Output() *tensor.RawTensor { return op.output }
