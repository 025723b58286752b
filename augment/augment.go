// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package augment provides differentiable image augmentation operators.
//
// Operators work on batched [N,C,H,W] tensors (or unbatched [C,H,W] with
// keepdim) and share a common lifecycle: parameter generation, transform
// computation, and application, with parameter mappings that can be stored
// and replayed.
//
// Example:
//
//	import (
//	    "github.com/born-ml/vision/augment"
//	    "github.com/born-ml/vision/backend/cpu"
//	    "github.com/born-ml/vision/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    crop, _ := augment.NewCenterCrop[float32](224, backend)
//
//	    x := tensor.Rand[float32](tensor.Shape{8, 3, 256, 256}, backend)
//	    y, _ := crop.Forward(x)  // [8, 3, 224, 224]
//	    _ = y
//	}
package augment

import (
	"github.com/born-ml/vision/internal/augment"
	"github.com/born-ml/vision/internal/geometry"
	"github.com/born-ml/vision/internal/tensor"
)

// Float is the element constraint for augmentation operators.
type Float = geometry.Float

// Size is a crop size in pixels.
type Size = augment.Size

// CropMode selects how a crop operator extracts its output region.
type CropMode = augment.CropMode

// Cropping mode constants.
const (
	CropSlice    CropMode = augment.CropSlice
	CropResample CropMode = augment.CropResample
)

// ParseCropMode parses a mode name ("slice" or "resample").
func ParseCropMode(s string) (CropMode, error) {
	return augment.ParseCropMode(s)
}

// Params is an immutable mapping of named tensors describing one sampled
// augmentation.
type Params[T geometry.Float, B tensor.Backend] = augment.Params[T, B]

// Well-known parameter names.
const (
	ParamSrc       = augment.ParamSrc
	ParamDst       = augment.ParamDst
	ParamInputSize = augment.ParamInputSize
)

// CenterCrop crops the center region out of each image in a batch.
type CenterCrop[T geometry.Float, B tensor.Backend] = augment.CenterCrop[T, B]

// NewCenterCrop builds a center-crop operator. size may be an int (square
// crop), a [2]int (height, width), or a Size.
func NewCenterCrop[T geometry.Float, B tensor.Backend](size any, backend B, opts ...Option) (*CenterCrop[T, B], error) {
	return augment.NewCenterCrop[T](size, backend, opts...)
}

// Option configures an augmentation operator at construction.
type Option = augment.Option

// Construction options.
var (
	WithAlignCorners    = augment.WithAlignCorners
	WithResample        = augment.WithResample
	WithPadding         = augment.WithPadding
	WithCropMode        = augment.WithCropMode
	WithProbability     = augment.WithProbability
	WithKeepDim         = augment.WithKeepDim
	WithReturnTransform = augment.WithReturnTransform
	WithSeed            = augment.WithSeed
)

// InverseOption overrides one inverse-call setting.
type InverseOption = augment.InverseOption

// Inverse-call overrides.
var (
	InverseWithSize         = augment.InverseWithSize
	InverseWithResample     = augment.InverseWithResample
	InverseWithPadding      = augment.InverseWithPadding
	InverseWithAlignCorners = augment.InverseWithAlignCorners
)
