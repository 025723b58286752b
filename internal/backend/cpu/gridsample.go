package cpu

import (
	"fmt"
	"math"

	"github.com/born-ml/vision/internal/parallel"
	"github.com/born-ml/vision/internal/tensor"
)

// float is the element constraint for sampling kernels.
type float interface {
	~float32 | ~float64
}

// GridSample resamples input [B, C, H, W] at the pixel-space coordinates in
// grid [B, Ho, Wo, 2] (x, y order), producing [B, C, Ho, Wo].
//
// Coordinates are plain pixel positions rather than normalized [-1, 1]
// values: the caller resolves the align-corners convention when building
// the grid.
func (cpu *CPUBackend) GridSample(input, grid *tensor.RawTensor, mode tensor.InterpMode, padding tensor.PaddingMode) *tensor.RawTensor {
	b, c, h, w, ho, wo := gridSampleDims(input, grid)

	result, err := tensor.NewRaw(tensor.Shape{b, c, ho, wo}, input.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("gridsample: failed to create result tensor: %v", err))
	}

	switch input.DType() {
	case tensor.Float32:
		gridSampleForward(result.AsFloat32(), input.AsFloat32(), grid.AsFloat32(), b, c, h, w, ho, wo, mode, padding)
	case tensor.Float64:
		gridSampleForward(result.AsFloat64(), input.AsFloat64(), grid.AsFloat64(), b, c, h, w, ho, wo, mode, padding)
	default:
		panic(fmt.Sprintf("gridsample: unsupported dtype %s", input.DType()))
	}

	return result
}

// GridSampleInputBackward scatters output gradients back to the sampled
// input positions, weighted by the interpolation coefficients.
func (cpu *CPUBackend) GridSampleInputBackward(input, grid, grad *tensor.RawTensor, mode tensor.InterpMode, padding tensor.PaddingMode) *tensor.RawTensor {
	b, c, h, w, ho, wo := gridSampleDims(input, grid)

	result, err := tensor.NewRaw(input.Shape(), input.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("gridsample: failed to create input gradient: %v", err))
	}

	switch input.DType() {
	case tensor.Float32:
		gridSampleInputBackward(result.AsFloat32(), grad.AsFloat32(), grid.AsFloat32(), b, c, h, w, ho, wo, mode, padding)
	case tensor.Float64:
		gridSampleInputBackward(result.AsFloat64(), grad.AsFloat64(), grid.AsFloat64(), b, c, h, w, ho, wo, mode, padding)
	default:
		panic(fmt.Sprintf("gridsample: unsupported dtype %s", input.DType()))
	}

	return result
}

// GridSampleGridBackward differentiates the interpolation weights with
// respect to the sampling coordinates. Nearest mode has zero grid gradient.
func (cpu *CPUBackend) GridSampleGridBackward(input, grid, grad *tensor.RawTensor, mode tensor.InterpMode, padding tensor.PaddingMode) *tensor.RawTensor {
	b, c, h, w, ho, wo := gridSampleDims(input, grid)

	result, err := tensor.NewRaw(grid.Shape(), grid.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("gridsample: failed to create grid gradient: %v", err))
	}
	if mode == tensor.InterpNearest {
		return result // Piecewise constant in the coordinates.
	}

	switch input.DType() {
	case tensor.Float32:
		gridSampleGridBackward(result.AsFloat32(), input.AsFloat32(), grad.AsFloat32(), grid.AsFloat32(), b, c, h, w, ho, wo, padding)
	case tensor.Float64:
		gridSampleGridBackward(result.AsFloat64(), input.AsFloat64(), grad.AsFloat64(), grid.AsFloat64(), b, c, h, w, ho, wo, padding)
	default:
		panic(fmt.Sprintf("gridsample: unsupported dtype %s", input.DType()))
	}

	return result
}

func gridSampleDims(input, grid *tensor.RawTensor) (b, c, h, w, ho, wo int) {
	inShape, gridShape := input.Shape(), grid.Shape()
	if len(inShape) != 4 {
		panic(fmt.Sprintf("gridsample: expected 4D input [B,C,H,W], got %v", inShape))
	}
	if len(gridShape) != 4 || gridShape[3] != 2 {
		panic(fmt.Sprintf("gridsample: expected grid [B,Ho,Wo,2], got %v", gridShape))
	}
	if inShape[0] != gridShape[0] {
		panic(fmt.Sprintf("gridsample: batch mismatch: input %v, grid %v", inShape, gridShape))
	}
	if input.DType() != grid.DType() {
		panic(fmt.Sprintf("gridsample: dtype mismatch %s vs %s", input.DType(), grid.DType()))
	}
	return inShape[0], inShape[1], inShape[2], inShape[3], gridShape[1], gridShape[2]
}

// resolveIndex maps a tap index onto [0, n) per the padding policy.
// The bool result reports whether the tap contributes at all.
func resolveIndex(idx, n int, padding tensor.PaddingMode) (int, bool) {
	if idx >= 0 && idx < n {
		return idx, true
	}
	switch padding {
	case tensor.PadZeros:
		return 0, false
	case tensor.PadBorder:
		if idx < 0 {
			return 0, true
		}
		return n - 1, true
	case tensor.PadReflection:
		if n == 1 {
			return 0, true
		}
		// Reflect about the border pixel centers.
		period := 2 * (n - 1)
		m := idx % period
		if m < 0 {
			m += period
		}
		if m > n-1 {
			m = period - m
		}
		return m, true
	default:
		panic(fmt.Sprintf("gridsample: unsupported padding mode %s", padding))
	}
}

// tap fetches plane[y*w+x] under the padding policy, 0 for void taps.
func tap[T float](plane []T, x, y, w, h int, padding tensor.PaddingMode) T {
	xi, okX := resolveIndex(x, w, padding)
	yi, okY := resolveIndex(y, h, padding)
	if !okX || !okY {
		return 0
	}
	return plane[yi*w+xi]
}

func gridSampleForward[T float](dst, src, grid []T, b, c, h, w, ho, wo int, mode tensor.InterpMode, padding tensor.PaddingMode) {
	plane := h * w
	outPlane := ho * wo

	parallel.ForBatch(b, c, func(bi, ci int) {
		in := src[(bi*c+ci)*plane : (bi*c+ci+1)*plane]
		out := dst[(bi*c+ci)*outPlane : (bi*c+ci+1)*outPlane]
		g := grid[bi*outPlane*2 : (bi+1)*outPlane*2]

		for i := 0; i < outPlane; i++ {
			gx := float64(g[i*2])
			gy := float64(g[i*2+1])

			switch mode {
			case tensor.InterpNearest:
				xi := int(math.Round(gx))
				yi := int(math.Round(gy))
				out[i] = tap(in, xi, yi, w, h, padding)
			case tensor.InterpBilinear:
				x0 := int(math.Floor(gx))
				y0 := int(math.Floor(gy))
				wx := T(gx - float64(x0))
				wy := T(gy - float64(y0))

				v00 := tap(in, x0, y0, w, h, padding)
				v10 := tap(in, x0+1, y0, w, h, padding)
				v01 := tap(in, x0, y0+1, w, h, padding)
				v11 := tap(in, x0+1, y0+1, w, h, padding)

				top := v00 + wx*(v10-v00)
				bottom := v01 + wx*(v11-v01)
				out[i] = top + wy*(bottom-top)
			default:
				panic(fmt.Sprintf("gridsample: unsupported interpolation mode %s", mode))
			}
		}
	}, parallel.DefaultConfig())
}

// scatter adds v into plane[y*w+x] under the padding policy.
func scatter[T float](plane []T, x, y, w, h int, padding tensor.PaddingMode, v T) {
	xi, okX := resolveIndex(x, w, padding)
	yi, okY := resolveIndex(y, h, padding)
	if !okX || !okY {
		return
	}
	plane[yi*w+xi] += v
}

func gridSampleInputBackward[T float](dst, grad, grid []T, b, c, h, w, ho, wo int, mode tensor.InterpMode, padding tensor.PaddingMode) {
	plane := h * w
	outPlane := ho * wo

	// Each (batch, channel) pair scatters into its own input plane, so the
	// parallel iteration is write-disjoint.
	parallel.ForBatch(b, c, func(bi, ci int) {
		in := dst[(bi*c+ci)*plane : (bi*c+ci+1)*plane]
		g := grad[(bi*c+ci)*outPlane : (bi*c+ci+1)*outPlane]
		gr := grid[bi*outPlane*2 : (bi+1)*outPlane*2]

		for i := 0; i < outPlane; i++ {
			gx := float64(gr[i*2])
			gy := float64(gr[i*2+1])

			switch mode {
			case tensor.InterpNearest:
				xi := int(math.Round(gx))
				yi := int(math.Round(gy))
				scatter(in, xi, yi, w, h, padding, g[i])
			case tensor.InterpBilinear:
				x0 := int(math.Floor(gx))
				y0 := int(math.Floor(gy))
				wx := T(gx - float64(x0))
				wy := T(gy - float64(y0))

				scatter(in, x0, y0, w, h, padding, g[i]*(1-wx)*(1-wy))
				scatter(in, x0+1, y0, w, h, padding, g[i]*wx*(1-wy))
				scatter(in, x0, y0+1, w, h, padding, g[i]*(1-wx)*wy)
				scatter(in, x0+1, y0+1, w, h, padding, g[i]*wx*wy)
			default:
				panic(fmt.Sprintf("gridsample: unsupported interpolation mode %s", mode))
			}
		}
	}, parallel.DefaultConfig())
}

func gridSampleGridBackward[T float](dst, src, grad, grid []T, b, c, h, w, ho, wo int, padding tensor.PaddingMode) {
	plane := h * w
	outPlane := ho * wo

	parallel.For(b, func(bi int) {
		g := grid[bi*outPlane*2 : (bi+1)*outPlane*2]
		out := dst[bi*outPlane*2 : (bi+1)*outPlane*2]

		for i := 0; i < outPlane; i++ {
			gx := float64(g[i*2])
			gy := float64(g[i*2+1])
			x0 := int(math.Floor(gx))
			y0 := int(math.Floor(gy))
			wx := T(gx - float64(x0))
			wy := T(gy - float64(y0))

			var dx, dy T
			for ci := 0; ci < c; ci++ {
				in := src[(bi*c+ci)*plane : (bi*c+ci+1)*plane]
				og := grad[(bi*c+ci)*outPlane+i]

				v00 := tap(in, x0, y0, w, h, padding)
				v10 := tap(in, x0+1, y0, w, h, padding)
				v01 := tap(in, x0, y0+1, w, h, padding)
				v11 := tap(in, x0+1, y0+1, w, h, padding)

				dx += og * ((1-wy)*(v10-v00) + wy*(v11-v01))
				dy += og * ((1-wx)*(v01-v00) + wx*(v11-v10))
			}
			out[i*2] = dx
			out[i*2+1] = dy
		}
	}, parallel.DefaultConfig())
}
