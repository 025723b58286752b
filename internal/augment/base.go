package augment

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/born-ml/vision/internal/geometry"
	"github.com/born-ml/vision/internal/tensor"
)

// config holds the construction-time flags shared by augmentation operators.
type config struct {
	alignCorners    bool
	interp          tensor.InterpMode
	padding         tensor.PaddingMode
	cropMode        CropMode
	p               float64
	keepDim         bool
	returnTransform bool
	seed            int64
	hasSeed         bool
}

func defaultConfig() config {
	return config{
		alignCorners: true,
		interp:       tensor.InterpBilinear,
		padding:      tensor.PadZeros,
		cropMode:     CropSlice,
		p:            1.0,
	}
}

// Option configures an augmentation operator at construction.
type Option func(*config)

// WithAlignCorners selects the pixel-as-point (true) or pixel-as-area
// (false) coordinate convention. Default true.
func WithAlignCorners(align bool) Option {
	return func(c *config) { c.alignCorners = align }
}

// WithResample sets the interpolation mode used when resampling.
// Default bilinear.
func WithResample(mode tensor.InterpMode) Option {
	return func(c *config) { c.interp = mode }
}

// WithPadding sets the out-of-bounds fill policy used when resampling.
// Default zeros.
func WithPadding(mode tensor.PaddingMode) Option {
	return func(c *config) { c.padding = mode }
}

// WithCropMode selects slice or resample cropping. Default slice.
func WithCropMode(mode CropMode) Option {
	return func(c *config) { c.cropMode = mode }
}

// WithProbability sets the chance of applying the augmentation. The draw
// gates the whole batch at once. Default 1.
func WithProbability(p float64) Option {
	return func(c *config) { c.p = p }
}

// WithKeepDim makes 3D [C,H,W] inputs produce 3D outputs instead of the
// default batched 4D output.
func WithKeepDim(keep bool) Option {
	return func(c *config) { c.keepDim = keep }
}

// WithReturnTransform requests that the forward transform be computed even
// in modes that do not need it, so Transform() is always populated.
func WithReturnTransform(ret bool) Option {
	return func(c *config) { c.returnTransform = ret }
}

// WithSeed seeds the gating RNG for reproducible probability draws.
func WithSeed(seed int64) Option {
	return func(c *config) {
		c.seed = seed
		c.hasSeed = true
	}
}

// base carries the shared operator state: the frozen configuration, the
// gating RNG, and the last generated parameters and transform kept for
// replay and inverse dispatch.
type base[T geometry.Float, B tensor.Backend] struct {
	cfg config
	rng *rand.Rand

	lastParams    Params[T, B]
	lastTransform *tensor.Tensor[T, B]
}

func newBase[T geometry.Float, B tensor.Backend](cfg config) base[T, B] {
	seed := cfg.seed
	if !cfg.hasSeed {
		seed = time.Now().UnixNano()
	}
	return base[T, B]{
		cfg: cfg,
		rng: rand.New(rand.NewSource(seed)),
	}
}

// gate draws once per call and gates the whole batch.
func (b *base[T, B]) gate() bool {
	if b.cfg.p >= 1.0 {
		return true
	}
	if b.cfg.p <= 0.0 {
		return false
	}
	return b.rng.Float64() < b.cfg.p
}

func (b *base[T, B]) setState(params Params[T, B], transform *tensor.Tensor[T, B]) {
	b.lastParams = params
	b.lastTransform = transform
}

func (b *base[T, B]) clearState() {
	b.lastParams = Params[T, B]{}
	b.lastTransform = nil
}

// Params returns the parameter mapping from the most recent applied
// forward pass. Zero when the last pass was gated off or none has run.
func (b *base[T, B]) Params() Params[T, B] {
	return b.lastParams
}

// Transform returns the [N,3,3] transform from the most recent applied
// forward pass, or nil when none is available.
func (b *base[T, B]) Transform() *tensor.Tensor[T, B] {
	return b.lastTransform
}

// to4D lifts a [C,H,W] input to [1,C,H,W]. The bool reports whether the
// input was lifted.
func to4D[T geometry.Float, B tensor.Backend](input *tensor.Tensor[T, B]) (*tensor.Tensor[T, B], bool, error) {
	switch len(input.Shape()) {
	case 3:
		return input.Unsqueeze(0), true, nil
	case 4:
		return input, false, nil
	default:
		return nil, false, fmt.Errorf("expected [C,H,W] or [N,C,H,W] input, got %v", input.Shape())
	}
}

// from4D undoes to4D when keepdim is requested: a lifted input yields an
// unbatched output again.
func from4D[T geometry.Float, B tensor.Backend](out *tensor.Tensor[T, B], lifted, keepDim bool) *tensor.Tensor[T, B] {
	if lifted && keepDim {
		return out.Squeeze(0)
	}
	return out
}
