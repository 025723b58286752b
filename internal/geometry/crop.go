package geometry

import (
	"fmt"

	"github.com/born-ml/vision/internal/tensor"
)

// CropByIndices extracts the axis-aligned region rows [y0, y1) and columns
// [x0, x1) from input [N,C,H,W] using tensor narrowing. No interpolation
// happens; gradients scatter back into the cropped source region.
func CropByIndices[T Float, B tensor.Backend](input *tensor.Tensor[T, B], y0, y1, x0, x1 int) (*tensor.Tensor[T, B], error) {
	shape := input.Shape()
	if len(shape) != 4 {
		return nil, fmt.Errorf("expected [N,C,H,W] input, got %v", shape)
	}
	h, w := shape[2], shape[3]
	if y0 < 0 || y1 > h || y0 >= y1 {
		return nil, fmt.Errorf("row range [%d, %d) out of bounds for height %d", y0, y1, h)
	}
	if x0 < 0 || x1 > w || x0 >= x1 {
		return nil, fmt.Errorf("column range [%d, %d) out of bounds for width %d", x0, x1, w)
	}
	return input.Narrow(2, y0, y1-y0).Narrow(3, x0, x1-x0), nil
}

// CropByTransform warps input [N,C,H,W] into a (cropH, cropW) output using
// the batched crop transforms m [N,3,3], interpolating at the mapped
// positions.
func CropByTransform[T Float, B tensor.Backend](
	input, m *tensor.Tensor[T, B],
	cropH, cropW int,
	mode tensor.InterpMode,
	padding tensor.PaddingMode,
	alignCorners bool,
) (*tensor.Tensor[T, B], error) {
	return WarpPerspective(input, m, cropH, cropW, mode, padding, alignCorners)
}
