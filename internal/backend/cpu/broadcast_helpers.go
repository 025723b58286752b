package cpu

import (
	"github.com/born-ml/vision/internal/tensor"
)

// broadcastStrides returns strides for indexing src as if it had outShape:
// missing leading dimensions and size-1 dimensions get stride 0.
func broadcastStrides(src tensor.Shape, outShape tensor.Shape) []int {
	srcStrides := src.ComputeStrides()
	strides := make([]int, len(outShape))
	offset := len(outShape) - len(src)
	for d := range outShape {
		if d < offset {
			strides[d] = 0
			continue
		}
		if src[d-offset] == 1 {
			strides[d] = 0
		} else {
			strides[d] = srcStrides[d-offset]
		}
	}
	return strides
}

func ewBroadcastFloat32(result, a, b *tensor.RawTensor, outShape tensor.Shape, op func(x, y float64) float64) {
	dst := result.AsFloat32()
	ax, bx := a.AsFloat32(), b.AsFloat32()
	aStrides := broadcastStrides(a.Shape(), outShape)
	bStrides := broadcastStrides(b.Shape(), outShape)
	outStrides := outShape.ComputeStrides()

	for i := range dst {
		aIdx, bIdx := 0, 0
		remaining := i
		for d := range outShape {
			pos := remaining / outStrides[d]
			remaining %= outStrides[d]
			aIdx += pos * aStrides[d]
			bIdx += pos * bStrides[d]
		}
		dst[i] = float32(op(float64(ax[aIdx]), float64(bx[bIdx])))
	}
}

func ewBroadcastFloat64(result, a, b *tensor.RawTensor, outShape tensor.Shape, op func(x, y float64) float64) {
	dst := result.AsFloat64()
	ax, bx := a.AsFloat64(), b.AsFloat64()
	aStrides := broadcastStrides(a.Shape(), outShape)
	bStrides := broadcastStrides(b.Shape(), outShape)
	outStrides := outShape.ComputeStrides()

	for i := range dst {
		aIdx, bIdx := 0, 0
		remaining := i
		for d := range outShape {
			pos := remaining / outStrides[d]
			remaining %= outStrides[d]
			aIdx += pos * aStrides[d]
			bIdx += pos * bStrides[d]
		}
		dst[i] = op(ax[aIdx], bx[bIdx])
	}
}
