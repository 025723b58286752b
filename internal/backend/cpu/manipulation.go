package cpu

import (
	"fmt"

	"github.com/born-ml/vision/internal/tensor"
)

// Reshape returns a tensor with the same data and a different shape.
// The new shape must have the same number of elements.
func (cpu *CPUBackend) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	if t.NumElements() != newShape.NumElements() {
		panic(fmt.Sprintf("reshape: cannot reshape %v (%d elements) to %v (%d elements)",
			t.Shape(), t.NumElements(), newShape, newShape.NumElements()))
	}

	result, err := tensor.NewRaw(newShape, t.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("reshape: failed to create result tensor: %v", err))
	}
	copy(result.Data(), t.Data())
	return result
}

// Transpose permutes the tensor's dimensions.
// If axes is empty, all dimensions are reversed.
func (cpu *CPUBackend) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	shape := t.Shape()
	ndim := len(shape)

	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}
	if len(axes) != ndim {
		panic(fmt.Sprintf("transpose: expected %d axes, got %d", ndim, len(axes)))
	}

	seen := make([]bool, ndim)
	outShape := make(tensor.Shape, ndim)
	for i, ax := range axes {
		if ax < 0 || ax >= ndim || seen[ax] {
			panic(fmt.Sprintf("transpose: invalid axes permutation %v for %dD tensor", axes, ndim))
		}
		seen[ax] = true
		outShape[i] = shape[ax]
	}

	result, err := tensor.NewRaw(outShape, t.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("transpose: failed to create result tensor: %v", err))
	}

	elem := t.DType().Size()
	src, dst := t.Data(), result.Data()
	srcStrides := shape.ComputeStrides()
	outStrides := outShape.ComputeStrides()
	n := t.NumElements()

	for i := 0; i < n; i++ {
		srcIdx := 0
		remaining := i
		for d := 0; d < ndim; d++ {
			pos := remaining / outStrides[d]
			remaining %= outStrides[d]
			srcIdx += pos * srcStrides[axes[d]]
		}
		copy(dst[i*elem:(i+1)*elem], src[srcIdx*elem:(srcIdx+1)*elem])
	}

	return result
}

// Expand broadcasts the tensor to the given shape.
// Size-1 dimensions are repeated; other dimensions must match.
func (cpu *CPUBackend) Expand(x *tensor.RawTensor, shape tensor.Shape) *tensor.RawTensor {
	if len(shape) < len(x.Shape()) {
		panic(fmt.Sprintf("expand: target shape %v has fewer dimensions than %v", shape, x.Shape()))
	}
	offset := len(shape) - len(x.Shape())
	for d, dim := range x.Shape() {
		if dim != 1 && dim != shape[d+offset] {
			panic(fmt.Sprintf("expand: cannot expand %v to %v at dimension %d", x.Shape(), shape, d))
		}
	}

	result, err := tensor.NewRaw(shape, x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("expand: failed to create result tensor: %v", err))
	}

	elem := x.DType().Size()
	src, dst := x.Data(), result.Data()
	srcStrides := broadcastStrides(x.Shape(), shape)
	outStrides := shape.ComputeStrides()
	n := shape.NumElements()

	for i := 0; i < n; i++ {
		srcIdx := 0
		remaining := i
		for d := range shape {
			pos := remaining / outStrides[d]
			remaining %= outStrides[d]
			srcIdx += pos * srcStrides[d]
		}
		copy(dst[i*elem:(i+1)*elem], src[srcIdx*elem:(srcIdx+1)*elem])
	}

	return result
}

// Cat concatenates tensors along the specified dimension.
// All tensors must have the same shape except along the concatenation
// dimension. Supports negative dim indexing (-1 = last dimension).
func (cpu *CPUBackend) Cat(tensors []*tensor.RawTensor, dim int) *tensor.RawTensor {
	if len(tensors) == 0 {
		panic("cat: at least one tensor required")
	}

	shape := tensors[0].Shape()
	ndim := len(shape)
	dtype := tensors[0].DType()

	if dim < 0 {
		dim = ndim + dim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("cat: dimension %d out of range for %dD tensor", dim, ndim))
	}

	totalDim := 0
	for i, t := range tensors {
		tShape := t.Shape()
		if len(tShape) != ndim {
			panic(fmt.Sprintf("cat: tensor %d has %d dimensions, expected %d", i, len(tShape), ndim))
		}
		if t.DType() != dtype {
			panic(fmt.Sprintf("cat: tensor %d has dtype %s, expected %s", i, t.DType(), dtype))
		}
		for d := 0; d < ndim; d++ {
			if d == dim {
				totalDim += tShape[d]
			} else if tShape[d] != shape[d] {
				panic(fmt.Sprintf("cat: tensor %d dimension %d is %d, expected %d", i, d, tShape[d], shape[d]))
			}
		}
	}

	outShape := shape.Clone()
	outShape[dim] = totalDim
	result, err := tensor.NewRaw(outShape, dtype, cpu.device)
	if err != nil {
		panic(fmt.Sprintf("cat: failed to create result tensor: %v", err))
	}

	// Row-major layout: concatenation interleaves per outer slice.
	elem := dtype.Size()
	inner := 1
	for d := dim + 1; d < ndim; d++ {
		inner *= shape[d]
	}
	outer := 1
	for d := 0; d < dim; d++ {
		outer *= shape[d]
	}

	dst := result.Data()
	dstOffset := 0
	for o := 0; o < outer; o++ {
		for _, t := range tensors {
			block := t.Shape()[dim] * inner * elem
			src := t.Data()[o*block : (o+1)*block]
			copy(dst[dstOffset:dstOffset+block], src)
			dstOffset += block
		}
	}

	return result
}

// Unsqueeze adds a dimension of size 1 at the specified position.
// Supports negative dim indexing.
func (cpu *CPUBackend) Unsqueeze(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	ndim := len(x.Shape())
	if dim < 0 {
		dim = ndim + 1 + dim
	}
	if dim < 0 || dim > ndim {
		panic(fmt.Sprintf("unsqueeze: dimension %d out of range for %dD tensor", dim, ndim))
	}

	newShape := make(tensor.Shape, 0, ndim+1)
	newShape = append(newShape, x.Shape()[:dim]...)
	newShape = append(newShape, 1)
	newShape = append(newShape, x.Shape()[dim:]...)

	return cpu.Reshape(x, newShape)
}

// Squeeze removes a dimension of size 1 at the specified position.
// Panics if the dimension size is not 1. Supports negative dim indexing.
func (cpu *CPUBackend) Squeeze(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	ndim := len(x.Shape())
	if dim < 0 {
		dim = ndim + dim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("squeeze: dimension %d out of range for %dD tensor", dim, ndim))
	}
	if x.Shape()[dim] != 1 {
		panic(fmt.Sprintf("squeeze: dimension %d has size %d, expected 1", dim, x.Shape()[dim]))
	}

	newShape := make(tensor.Shape, 0, ndim-1)
	newShape = append(newShape, x.Shape()[:dim]...)
	newShape = append(newShape, x.Shape()[dim+1:]...)

	return cpu.Reshape(x, newShape)
}
