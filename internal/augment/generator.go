package augment

import (
	"github.com/born-ml/vision/internal/geometry"
	"github.com/born-ml/vision/internal/tensor"
)

// centerCropParams computes center-aligned corner coordinates for cropping
// (cropH, cropW) out of (inH, inW) inputs. The crop is deterministic, so
// every batch element shares the same corners. Oversized crop sizes are not
// validated here; they surface as out-of-range failures in the apply step.
func centerCropParams[T geometry.Float, B tensor.Backend](
	backend B,
	n, inH, inW, cropH, cropW int,
) (Params[T, B], error) {
	x1 := (inW - cropW) / 2
	y1 := (inH - cropH) / 2
	x2 := x1 + cropW - 1
	y2 := y1 + cropH - 1

	// Top-left, top-right, bottom-right, bottom-left.
	srcCorners := [4][2]int{{x1, y1}, {x2, y1}, {x2, y2}, {x1, y2}}
	dstCorners := [4][2]int{{0, 0}, {cropW - 1, 0}, {cropW - 1, cropH - 1}, {0, cropH - 1}}

	srcData := make([]T, n*8)
	dstData := make([]T, n*8)
	sizeData := make([]T, n*2)
	for b := 0; b < n; b++ {
		for i := 0; i < 4; i++ {
			srcData[b*8+i*2] = T(srcCorners[i][0])
			srcData[b*8+i*2+1] = T(srcCorners[i][1])
			dstData[b*8+i*2] = T(dstCorners[i][0])
			dstData[b*8+i*2+1] = T(dstCorners[i][1])
		}
		sizeData[b*2] = T(inH)
		sizeData[b*2+1] = T(inW)
	}

	src, err := tensor.FromSlice(srcData, tensor.Shape{n, 4, 2}, backend)
	if err != nil {
		return Params[T, B]{}, err
	}
	dst, err := tensor.FromSlice(dstData, tensor.Shape{n, 4, 2}, backend)
	if err != nil {
		return Params[T, B]{}, err
	}
	inputSize, err := tensor.FromSlice(sizeData, tensor.Shape{n, 2}, backend)
	if err != nil {
		return Params[T, B]{}, err
	}

	return NewParams(map[string]*tensor.Tensor[T, B]{
		ParamSrc:       src,
		ParamDst:       dst,
		ParamInputSize: inputSize,
	}), nil
}
