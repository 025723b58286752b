package tensor

// Backend defines the interface that all compute backends must implement.
// Backends handle the actual computation for tensor operations.
//
// The surface is sized for geometric vision workloads: element-wise math,
// (batched) matrix products for coordinate transforms, shape plumbing, and
// the two crop primitives: Narrow for index-based extraction and GridSample
// for differentiable resampling.
type Backend interface {
	// Element-wise binary operations
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// Matrix operations
	MatMul(a, b *RawTensor) *RawTensor

	// BatchMatMul performs batched matrix multiplication for 3D tensors.
	// [B, M, K] @ [B, K, N] -> [B, M, N]
	BatchMatMul(a, b *RawTensor) *RawTensor

	// Shape operations
	Reshape(t *RawTensor, newShape Shape) *RawTensor
	Transpose(t *RawTensor, axes ...int) *RawTensor
	Expand(x *RawTensor, shape Shape) *RawTensor // broadcast to shape

	// Scalar operations (element-wise with scalar)
	MulScalar(x *RawTensor, scalar any) *RawTensor
	AddScalar(x *RawTensor, scalar any) *RawTensor
	SubScalar(x *RawTensor, scalar any) *RawTensor
	DivScalar(x *RawTensor, scalar any) *RawTensor

	// Reduction operations
	Sum(x *RawTensor) *RawTensor                           // total sum (scalar result)
	SumDim(x *RawTensor, dim int, keepDim bool) *RawTensor // sum along dimension

	// Manipulation operations
	Cat(tensors []*RawTensor, dim int) *RawTensor // concatenate along dimension
	Unsqueeze(x *RawTensor, dim int) *RawTensor   // add dimension of size 1
	Squeeze(x *RawTensor, dim int) *RawTensor     // remove dimension of size 1

	// Narrow extracts a contiguous range [start, start+length) along dim.
	Narrow(x *RawTensor, dim, start, length int) *RawTensor
	// NarrowBackward scatters a narrowed gradient back into a zero tensor of
	// the original shape.
	NarrowBackward(grad *RawTensor, dim, start int, origShape Shape) *RawTensor

	// GridSample resamples input [B, C, H, W] at the pixel-space coordinates
	// given by grid [B, Ho, Wo, 2] (x, y order), producing [B, C, Ho, Wo].
	// Coordinate-to-pixel conventions (align-corners handling) are resolved
	// by the caller when building the grid.
	GridSample(input, grid *RawTensor, mode InterpMode, padding PaddingMode) *RawTensor
	// GridSampleInputBackward computes the gradient w.r.t. input.
	GridSampleInputBackward(input, grid, grad *RawTensor, mode InterpMode, padding PaddingMode) *RawTensor
	// GridSampleGridBackward computes the gradient w.r.t. grid coordinates.
	GridSampleGridBackward(input, grid, grad *RawTensor, mode InterpMode, padding PaddingMode) *RawTensor

	// Type conversion
	Cast(x *RawTensor, dtype DataType) *RawTensor

	// Metadata
	Name() string
	Device() Device
}
