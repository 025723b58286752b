package augment

import (
	"fmt"

	"github.com/born-ml/vision/internal/geometry"
	"github.com/born-ml/vision/internal/tensor"
)

// Size is a crop size in pixels.
type Size struct {
	H, W int
}

// CenterCrop crops the center (H, W) region out of each image in a batch.
//
// The crop is deterministic: corner coordinates depend only on the input
// and crop sizes, so every batch element is cropped identically. In slice
// mode the region is copied by integer indexing; in resample mode it is
// warped through the crop transform, which keeps the operation
// differentiable and enables Inverse.
type CenterCrop[T geometry.Float, B tensor.Backend] struct {
	base[T, B]
	size    Size
	backend B
}

// NewCenterCrop builds a center-crop operator. size may be an int (square
// crop), a [2]int (height, width), or a Size; any other type is a
// configuration error.
func NewCenterCrop[T geometry.Float, B tensor.Backend](size any, backend B, opts ...Option) (*CenterCrop[T, B], error) {
	s, err := parseSize(size)
	if err != nil {
		return nil, err
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.p < 0 || cfg.p > 1 {
		return nil, fmt.Errorf("probability must be in [0, 1], got %g", cfg.p)
	}

	return &CenterCrop[T, B]{
		base:    newBase[T, B](cfg),
		size:    s,
		backend: backend,
	}, nil
}

func parseSize(size any) (Size, error) {
	var s Size
	switch v := size.(type) {
	case int:
		s = Size{H: v, W: v}
	case [2]int:
		s = Size{H: v[0], W: v[1]}
	case Size:
		s = v
	default:
		return Size{}, fmt.Errorf("invalid crop size type %T (want int, [2]int, or Size)", size)
	}
	if s.H <= 0 || s.W <= 0 {
		return Size{}, fmt.Errorf("crop size must be positive, got %dx%d", s.H, s.W)
	}
	return s, nil
}

// Size returns the configured crop size.
func (c *CenterCrop[T, B]) Size() Size {
	return c.size
}

// CropMode returns the configured cropping mode.
func (c *CenterCrop[T, B]) CropMode() CropMode {
	return c.cfg.cropMode
}

// GenerateParameters computes the corner parameter mapping for a batch of
// the given [N,C,H,W] shape.
func (c *CenterCrop[T, B]) GenerateParameters(batchShape tensor.Shape) (Params[T, B], error) {
	if len(batchShape) != 4 {
		return Params[T, B]{}, fmt.Errorf("expected [N,C,H,W] batch shape, got %v", batchShape)
	}
	return centerCropParams[T](c.backend, batchShape[0], batchShape[2], batchShape[3], c.size.H, c.size.W)
}

// ComputeTransformation solves the [N,3,3] crop transforms mapping the
// source corners onto the destination corners.
func (c *CenterCrop[T, B]) ComputeTransformation(input *tensor.Tensor[T, B], params Params[T, B]) (*tensor.Tensor[T, B], error) {
	src, err := params.Src()
	if err != nil {
		return nil, err
	}
	dst, err := params.Dst()
	if err != nil {
		return nil, err
	}
	if len(input.Shape()) != 4 || input.Shape()[0] != src.Shape()[0] {
		return nil, fmt.Errorf("input %v does not match corner batch %v", input.Shape(), src.Shape())
	}
	return geometry.PerspectiveTransform(src, dst)
}

// ApplyTransform crops input [N,C,H,W] per the parameter mapping. In
// resample mode a nil transform is solved from the parameters.
func (c *CenterCrop[T, B]) ApplyTransform(input *tensor.Tensor[T, B], params Params[T, B], transform *tensor.Tensor[T, B]) (*tensor.Tensor[T, B], error) {
	switch c.cfg.cropMode {
	case CropSlice:
		return c.applySlice(input, params)
	case CropResample:
		if transform == nil {
			var err error
			transform, err = c.ComputeTransformation(input, params)
			if err != nil {
				return nil, err
			}
		}
		return geometry.CropByTransform(input, transform, c.size.H, c.size.W, c.cfg.interp, c.cfg.padding, c.cfg.alignCorners)
	default:
		return nil, fmt.Errorf("cropping mode %s is not supported", c.cfg.cropMode)
	}
}

// applySlice copies the crop region by integer indexing. Center-crop
// corners are identical across the batch, so a single shared slice covers
// every element; non-uniform corners (a hand-built parameter mapping) fall
// back to a per-sample loop.
func (c *CenterCrop[T, B]) applySlice(input *tensor.Tensor[T, B], params Params[T, B]) (*tensor.Tensor[T, B], error) {
	src, err := params.Src()
	if err != nil {
		return nil, err
	}
	shape := src.Shape()
	if len(shape) != 3 || shape[1] != 4 || shape[2] != 2 {
		return nil, fmt.Errorf("expected [N,4,2] source corners, got %v", shape)
	}
	n := shape[0]

	bounds := make([][4]int, n) // x0, x1, y0, y1 half-open ranges
	uniform := true
	for b := 0; b < n; b++ {
		bounds[b] = [4]int{
			int(src.At(b, 0, 0)), int(src.At(b, 1, 0)) + 1,
			int(src.At(b, 0, 1)), int(src.At(b, 3, 1)) + 1,
		}
		if bounds[b] != bounds[0] {
			uniform = false
		}
	}

	if uniform {
		bb := bounds[0]
		return geometry.CropByIndices(input, bb[2], bb[3], bb[0], bb[1])
	}

	crops := make([]*tensor.Tensor[T, B], n)
	for b := 0; b < n; b++ {
		bb := bounds[b]
		crop, err := geometry.CropByIndices(input.Narrow(0, b, 1), bb[2], bb[3], bb[0], bb[1])
		if err != nil {
			return nil, fmt.Errorf("batch %d: %w", b, err)
		}
		crops[b] = crop
	}
	return tensor.Cat(crops, 0), nil
}

// Forward crops the input, which may be [C,H,W] or [N,C,H,W]. The
// probability draw gates the whole batch: a rejected draw returns the
// input unchanged and clears the recorded parameters. Generated parameters
// and the transform are retained for Params, Transform, and Inverse.
func (c *CenterCrop[T, B]) Forward(input *tensor.Tensor[T, B]) (*tensor.Tensor[T, B], error) {
	x, lifted, err := to4D(input)
	if err != nil {
		return nil, err
	}

	if !c.gate() {
		c.clearState()
		return from4D(x, lifted, c.cfg.keepDim), nil
	}

	params, err := c.GenerateParameters(x.Shape())
	if err != nil {
		return nil, err
	}
	return c.forwardWith(x, lifted, params)
}

// ForwardWith replays a previously returned parameter mapping, reproducing
// the identical crop on a matching input. The probability gate is skipped:
// replay always applies.
func (c *CenterCrop[T, B]) ForwardWith(input *tensor.Tensor[T, B], params Params[T, B]) (*tensor.Tensor[T, B], error) {
	x, lifted, err := to4D(input)
	if err != nil {
		return nil, err
	}
	if params.IsZero() {
		return nil, fmt.Errorf("cannot replay an empty parameter mapping")
	}
	return c.forwardWith(x, lifted, params)
}

func (c *CenterCrop[T, B]) forwardWith(x *tensor.Tensor[T, B], lifted bool, params Params[T, B]) (*tensor.Tensor[T, B], error) {
	var transform *tensor.Tensor[T, B]
	if c.cfg.cropMode == CropResample || c.cfg.returnTransform {
		var err error
		transform, err = c.ComputeTransformation(x, params)
		if err != nil {
			return nil, err
		}
	}

	out, err := c.ApplyTransform(x, params, transform)
	if err != nil {
		return nil, err
	}
	c.setState(params, transform)
	return from4D(out, lifted, c.cfg.keepDim), nil
}

// Inverse warps a previously cropped output back toward the original image
// extent using the transform recorded by the last forward pass. The output
// size defaults to the recorded input size. Only applicable in resample
// mode.
func (c *CenterCrop[T, B]) Inverse(input *tensor.Tensor[T, B], opts ...InverseOption) (*tensor.Tensor[T, B], error) {
	if c.lastTransform == nil {
		return nil, fmt.Errorf("inverse: no transform recorded (run Forward first)")
	}

	icfg := c.inverseConfig(opts)
	size := icfg.size
	if size == (Size{}) {
		h, w, err := c.lastParams.InputSize()
		if err != nil {
			return nil, err
		}
		size = Size{H: h, W: w}
	}
	return c.inverseTransform(input, c.lastTransform, size, icfg)
}

// InverseTransform warps input back through the given [N,3,3] forward
// transform into an output of the given size. Only applicable in resample
// mode.
func (c *CenterCrop[T, B]) InverseTransform(input, transform *tensor.Tensor[T, B], size Size, opts ...InverseOption) (*tensor.Tensor[T, B], error) {
	return c.inverseTransform(input, transform, size, c.inverseConfig(opts))
}

func (c *CenterCrop[T, B]) inverseTransform(input, transform *tensor.Tensor[T, B], size Size, icfg inverseConfig) (*tensor.Tensor[T, B], error) {
	if c.cfg.cropMode != CropResample {
		return nil, fmt.Errorf("inverse is only applicable for resample cropping mode, got %s", c.cfg.cropMode)
	}
	if size.H <= 0 || size.W <= 0 {
		return nil, fmt.Errorf("inverse output size must be positive, got %dx%d", size.H, size.W)
	}

	x, lifted, err := to4D(input)
	if err != nil {
		return nil, err
	}

	// The forward matrix maps original to crop coordinates; its inverse is
	// the crop-to-original mapping WarpPerspective expects.
	inv, err := geometry.Invert(transform)
	if err != nil {
		return nil, err
	}
	out, err := geometry.WarpPerspective(x, inv, size.H, size.W, icfg.interp, icfg.padding, icfg.alignCorners)
	if err != nil {
		return nil, err
	}
	return from4D(out, lifted, c.cfg.keepDim), nil
}

func (c *CenterCrop[T, B]) inverseConfig(opts []InverseOption) inverseConfig {
	icfg := inverseConfig{
		interp:       c.cfg.interp,
		padding:      c.cfg.padding,
		alignCorners: c.cfg.alignCorners,
	}
	for _, opt := range opts {
		opt(&icfg)
	}
	return icfg
}

// inverseConfig holds per-call overrides for Inverse and InverseTransform;
// unset fields fall back to the operator's construction-time flags.
type inverseConfig struct {
	size         Size
	interp       tensor.InterpMode
	padding      tensor.PaddingMode
	alignCorners bool
}

// InverseOption overrides one inverse-call setting.
type InverseOption func(*inverseConfig)

// InverseWithSize overrides the output size (defaults to the recorded
// forward input size).
func InverseWithSize(size Size) InverseOption {
	return func(c *inverseConfig) { c.size = size }
}

// InverseWithResample overrides the interpolation mode.
func InverseWithResample(mode tensor.InterpMode) InverseOption {
	return func(c *inverseConfig) { c.interp = mode }
}

// InverseWithPadding overrides the out-of-bounds fill policy.
func InverseWithPadding(mode tensor.PaddingMode) InverseOption {
	return func(c *inverseConfig) { c.padding = mode }
}

// InverseWithAlignCorners overrides the coordinate convention.
func InverseWithAlignCorners(align bool) InverseOption {
	return func(c *inverseConfig) { c.alignCorners = align }
}
