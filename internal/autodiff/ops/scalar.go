package ops

import "github.com/born-ml/vision/internal/tensor"

// ScalarOp records an element-wise operation with a constant scalar.
// The scalar is not a graph input, so only the tensor gets a gradient.
type ScalarOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
	scalar any
	kind   scalarKind
}

type scalarKind int

const (
	scalarMul scalarKind = iota
	scalarAdd
	scalarSub
	scalarDiv
)

// NewMulScalarOp records output = input * scalar.
func NewMulScalarOp(input, output *tensor.RawTensor, scalar any) *ScalarOp {
	return &ScalarOp{input: input, output: output, scalar: scalar, kind: scalarMul}
}

// NewAddScalarOp records output = input + scalar.
func NewAddScalarOp(input, output *tensor.RawTensor, scalar any) *ScalarOp {
	return &ScalarOp{input: input, output: output, scalar: scalar, kind: scalarAdd}
}

// NewSubScalarOp records output = input - scalar.
func NewSubScalarOp(input, output *tensor.RawTensor, scalar any) *ScalarOp {
	return &ScalarOp{input: input, output: output, scalar: scalar, kind: scalarSub}
}

// NewDivScalarOp records output = input / scalar.
func NewDivScalarOp(input, output *tensor.RawTensor, scalar any) *ScalarOp {
	return &ScalarOp{input: input, output: output, scalar: scalar, kind: scalarDiv}
}

// Backward computes the input gradient.
// Add/Sub pass the gradient through; Mul scales it; Div divides it.
func (op *ScalarOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	switch op.kind {
	case scalarMul:
		return []*tensor.RawTensor{backend.MulScalar(outputGrad, op.scalar)}
	case scalarDiv:
		return []*tensor.RawTensor{backend.DivScalar(outputGrad, op.scalar)}
	default: // scalarAdd, scalarSub
		return []*tensor.RawTensor{outputGrad}
	}
}

// Inputs returns the input tensor.
func (op *ScalarOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns the output tensor.
func (op *ScalarOp) Output() *tensor.RawTensor { return op.output }
