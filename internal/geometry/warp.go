package geometry

import (
	"fmt"

	"github.com/born-ml/vision/internal/tensor"
)

// WarpPerspective warps input [N,C,H,W] with the batched transforms
// m [N,3,3], producing [N,C,outH,outW].
//
// m maps source coordinates to destination coordinates; each output pixel
// is sampled at the inverse-mapped source position. alignCorners selects
// the pixel-as-point (true) or pixel-as-area (false) coordinate convention.
//
// The sampling grid is built on the host, but the resampling itself runs
// through the backend so gradients flow into the input image.
func WarpPerspective[T Float, B tensor.Backend](
	input, m *tensor.Tensor[T, B],
	outH, outW int,
	mode tensor.InterpMode,
	padding tensor.PaddingMode,
	alignCorners bool,
) (*tensor.Tensor[T, B], error) {
	inShape := input.Shape()
	if len(inShape) != 4 {
		return nil, fmt.Errorf("expected [N,C,H,W] input, got %v", inShape)
	}
	mShape := m.Shape()
	if len(mShape) != 3 || mShape[1] != 3 || mShape[2] != 3 {
		return nil, fmt.Errorf("expected [N,3,3] transform tensor, got %v", mShape)
	}
	if inShape[0] != mShape[0] {
		return nil, fmt.Errorf("batch mismatch: input %v, transform %v", inShape, mShape)
	}
	if outH <= 0 || outW <= 0 {
		return nil, fmt.Errorf("output size must be positive, got %dx%d", outH, outW)
	}

	inv, err := Invert(m)
	if err != nil {
		return nil, err
	}

	n := inShape[0]
	gridData := make([]T, n*outH*outW*2)
	for b := 0; b < n; b++ {
		h := hostMatrixAt(inv, b)
		base := b * outH * outW * 2
		for y := 0; y < outH; y++ {
			for x := 0; x < outW; x++ {
				var sx, sy float64
				if alignCorners {
					sx, sy = h.apply(float64(x), float64(y))
				} else {
					sx, sy = h.apply(float64(x)+0.5, float64(y)+0.5)
					sx -= 0.5
					sy -= 0.5
				}
				i := base + (y*outW+x)*2
				gridData[i] = T(sx)
				gridData[i+1] = T(sy)
			}
		}
	}

	grid, err := tensor.FromSlice(gridData, tensor.Shape{n, outH, outW, 2}, input.Backend())
	if err != nil {
		return nil, fmt.Errorf("failed to build sampling grid: %w", err)
	}
	return input.GridSample(grid, mode, padding), nil
}
