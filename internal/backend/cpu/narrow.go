package cpu

import (
	"fmt"

	"github.com/born-ml/vision/internal/tensor"
)

// Narrow extracts the contiguous range [start, start+length) along dim.
// The result is a copy, not a view.
//
// Example:
//
//	x: [2, 3, 8, 8]
//	Narrow(x, 2, 2, 4) -> [2, 3, 4, 8]
func (cpu *CPUBackend) Narrow(x *tensor.RawTensor, dim, start, length int) *tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)

	if dim < 0 {
		dim = ndim + dim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("narrow: dimension %d out of range for %dD tensor", dim, ndim))
	}
	if length <= 0 {
		panic(fmt.Sprintf("narrow: invalid length %d", length))
	}
	if start < 0 || start+length > shape[dim] {
		panic(fmt.Sprintf("narrow: range [%d, %d) out of bounds for dimension %d (size %d)",
			start, start+length, dim, shape[dim]))
	}

	outShape := shape.Clone()
	outShape[dim] = length
	result, err := tensor.NewRaw(outShape, x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("narrow: failed to create result tensor: %v", err))
	}

	elem := x.DType().Size()
	inner := 1
	for d := dim + 1; d < ndim; d++ {
		inner *= shape[d]
	}
	outer := 1
	for d := 0; d < dim; d++ {
		outer *= shape[d]
	}

	src, dst := x.Data(), result.Data()
	srcBlock := shape[dim] * inner * elem
	dstBlock := length * inner * elem
	skip := start * inner * elem

	for o := 0; o < outer; o++ {
		copy(dst[o*dstBlock:(o+1)*dstBlock], src[o*srcBlock+skip:o*srcBlock+skip+dstBlock])
	}

	return result
}

// NarrowBackward scatters a narrowed gradient back into a zero tensor of the
// original shape: the inverse of Narrow for autodiff.
func (cpu *CPUBackend) NarrowBackward(grad *tensor.RawTensor, dim, start int, origShape tensor.Shape) *tensor.RawTensor {
	shape := grad.Shape()
	ndim := len(shape)

	if dim < 0 {
		dim = ndim + dim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("narrowBackward: dimension %d out of range for %dD tensor", dim, ndim))
	}
	if len(origShape) != ndim {
		panic(fmt.Sprintf("narrowBackward: original shape %v rank mismatch with gradient %v", origShape, shape))
	}
	length := shape[dim]
	if start < 0 || start+length > origShape[dim] {
		panic(fmt.Sprintf("narrowBackward: range [%d, %d) out of bounds for dimension %d (size %d)",
			start, start+length, dim, origShape[dim]))
	}

	result, err := tensor.NewRaw(origShape, grad.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("narrowBackward: failed to create result tensor: %v", err))
	}

	elem := grad.DType().Size()
	inner := 1
	for d := dim + 1; d < ndim; d++ {
		inner *= origShape[d]
	}
	outer := 1
	for d := 0; d < dim; d++ {
		outer *= origShape[d]
	}

	src, dst := grad.Data(), result.Data()
	dstBlock := origShape[dim] * inner * elem
	srcBlock := length * inner * elem
	skip := start * inner * elem

	for o := 0; o < outer; o++ {
		copy(dst[o*dstBlock+skip:o*dstBlock+skip+srcBlock], src[o*srcBlock:(o+1)*srcBlock])
	}

	return result
}
