package ops

import "github.com/born-ml/vision/internal/tensor"

// NarrowOp records an index-range extraction along one dimension.
//
// Forward: output = Narrow(input, dim, start, length)
//
// Backward: the output gradient is scattered back into a zero tensor of the
// original shape at [start, start+length); positions outside the extracted
// range receive no gradient.
type NarrowOp struct {
	input     *tensor.RawTensor
	output    *tensor.RawTensor
	dim       int
	start     int
	origShape tensor.Shape
}

// NewNarrowOp creates a new Narrow operation.
func NewNarrowOp(input, output *tensor.RawTensor, dim, start int) *NarrowOp {
	return &NarrowOp{
		input:     input,
		output:    output,
		dim:       dim,
		start:     start,
		origShape: input.Shape(),
	}
}

// Backward computes gradients for Narrow by delegating the zero-padded
// scatter to the backend.
func (op *NarrowOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.NarrowBackward(outputGrad, op.dim, op.start, op.origShape)}
}

// Inputs returns the input tensors.
func (op *NarrowOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns the output tensor.
func (op *NarrowOp) Output() *tensor.RawTensor { return op.output }
