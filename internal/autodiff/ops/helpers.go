package ops

import (
	"fmt"

	"github.com/born-ml/vision/internal/tensor"
)

// reduceBroadcast sums a gradient along dimensions that were broadcast
// during the forward pass so that it matches the original input shape.
func reduceBroadcast(grad *tensor.RawTensor, target tensor.Shape, backend tensor.Backend) *tensor.RawTensor {
	if grad.Shape().Equal(target) {
		return grad
	}

	result := grad
	// Collapse extra leading dimensions.
	for len(result.Shape()) > len(target) {
		result = backend.SumDim(result, 0, false)
	}
	// Collapse dimensions that were expanded from size 1.
	for d := 0; d < len(target); d++ {
		if target[d] == 1 && result.Shape()[d] != 1 {
			result = backend.SumDim(result, d, true)
		}
	}

	if !result.Shape().Equal(target) {
		panic(fmt.Sprintf("reduceBroadcast: cannot reduce %v to %v", grad.Shape(), target))
	}
	return result
}

// negate multiplies a tensor by -1, dispatching the scalar type on dtype.
func negate(x *tensor.RawTensor, backend tensor.Backend) *tensor.RawTensor {
	switch x.DType() {
	case tensor.Float32:
		return backend.MulScalar(x, float32(-1))
	case tensor.Float64:
		return backend.MulScalar(x, float64(-1))
	default:
		panic(fmt.Sprintf("negate: unsupported dtype %s", x.DType()))
	}
}
