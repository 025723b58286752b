// Package augment implements differentiable image augmentation operators
// on batched [N,C,H,W] tensors.
//
// Operators follow a common lifecycle: parameter generation produces an
// immutable named-tensor mapping, transformation computation derives a 3x3
// matrix per batch element, and the apply step consumes both. Parameter
// mappings can be replayed against new inputs to reproduce an identical
// augmentation.
package augment

import "fmt"

// CropMode selects how a crop operator extracts its output region. It is
// fixed at construction.
type CropMode int

const (
	// CropSlice copies the region with integer indexing. Exact and fast,
	// but not differentiable with respect to the crop coordinates.
	CropSlice CropMode = iota
	// CropResample warps the region through the crop transform with
	// interpolation. Differentiable end-to-end.
	CropResample
)

// String returns the mode name.
func (m CropMode) String() string {
	switch m {
	case CropSlice:
		return "slice"
	case CropResample:
		return "resample"
	default:
		return fmt.Sprintf("CropMode(%d)", int(m))
	}
}

// ParseCropMode parses a mode name ("slice" or "resample").
func ParseCropMode(s string) (CropMode, error) {
	switch s {
	case "slice":
		return CropSlice, nil
	case "resample":
		return CropResample, nil
	default:
		return 0, fmt.Errorf("cropping mode %q is not supported", s)
	}
}
