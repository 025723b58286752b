package cpu

import (
	"fmt"

	"github.com/born-ml/vision/internal/tensor"
)

// Cast converts the tensor to a different data type.
// Float-to-int conversions truncate toward zero.
func (cpu *CPUBackend) Cast(x *tensor.RawTensor, dtype tensor.DataType) *tensor.RawTensor {
	if x.DType() == dtype {
		return x.Clone()
	}

	result, err := tensor.NewRaw(x.Shape(), dtype, cpu.device)
	if err != nil {
		panic(fmt.Sprintf("cast: failed to create result tensor: %v", err))
	}

	// Read through float64 as the common intermediate.
	n := x.NumElements()
	read := func(i int) float64 {
		switch x.DType() {
		case tensor.Float32:
			return float64(x.AsFloat32()[i])
		case tensor.Float64:
			return x.AsFloat64()[i]
		case tensor.Int32:
			return float64(x.AsInt32()[i])
		case tensor.Int64:
			return float64(x.AsInt64()[i])
		case tensor.Uint8:
			return float64(x.AsUint8()[i])
		default:
			panic(fmt.Sprintf("cast: unsupported source dtype %s", x.DType()))
		}
	}

	switch dtype {
	case tensor.Float32:
		dst := result.AsFloat32()
		for i := 0; i < n; i++ {
			dst[i] = float32(read(i))
		}
	case tensor.Float64:
		dst := result.AsFloat64()
		for i := 0; i < n; i++ {
			dst[i] = read(i)
		}
	case tensor.Int32:
		dst := result.AsInt32()
		for i := 0; i < n; i++ {
			dst[i] = int32(read(i))
		}
	case tensor.Int64:
		dst := result.AsInt64()
		for i := 0; i < n; i++ {
			dst[i] = int64(read(i))
		}
	case tensor.Uint8:
		dst := result.AsUint8()
		for i := 0; i < n; i++ {
			dst[i] = uint8(read(i))
		}
	default:
		panic(fmt.Sprintf("cast: unsupported target dtype %s", dtype))
	}

	return result
}
