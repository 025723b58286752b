package cpu

import (
	"fmt"

	"github.com/born-ml/vision/internal/parallel"
	"github.com/born-ml/vision/internal/tensor"
)

// BatchMatMul performs batched matrix multiplication for 3D tensors:
// [B, M, K] @ [B, K, N] -> [B, M, N].
func (cpu *CPUBackend) BatchMatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	aShape, bShape := a.Shape(), b.Shape()
	if len(aShape) != 3 || len(bShape) != 3 {
		panic(fmt.Sprintf("batchmatmul: expected 3D tensors, got %v @ %v", aShape, bShape))
	}
	if aShape[0] != bShape[0] {
		panic(fmt.Sprintf("batchmatmul: batch dimensions don't match: %v @ %v", aShape, bShape))
	}
	if aShape[2] != bShape[1] {
		panic(fmt.Sprintf("batchmatmul: inner dimensions don't match: %v @ %v", aShape, bShape))
	}
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("batchmatmul: dtype mismatch %s vs %s", a.DType(), b.DType()))
	}

	batch, m, k, n := aShape[0], aShape[1], aShape[2], bShape[2]
	result, err := tensor.NewRaw(tensor.Shape{batch, m, n}, a.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("batchmatmul: failed to create result tensor: %v", err))
	}

	switch a.DType() {
	case tensor.Float32:
		dst, as, bs := result.AsFloat32(), a.AsFloat32(), b.AsFloat32()
		parallel.For(batch, func(i int) {
			matmulFloat32(dst[i*m*n:(i+1)*m*n], as[i*m*k:(i+1)*m*k], bs[i*k*n:(i+1)*k*n], m, k, n)
		}, parallel.Config{Enabled: batch > 1, NumWorkers: batch, MinChunkSize: 1})
	case tensor.Float64:
		dst, as, bs := result.AsFloat64(), a.AsFloat64(), b.AsFloat64()
		parallel.For(batch, func(i int) {
			matmulFloat64(dst[i*m*n:(i+1)*m*n], as[i*m*k:(i+1)*m*k], bs[i*k*n:(i+1)*k*n], m, k, n)
		}, parallel.Config{Enabled: batch > 1, NumWorkers: batch, MinChunkSize: 1})
	default:
		panic(fmt.Sprintf("batchmatmul: unsupported dtype %s", a.DType()))
	}

	return result
}
