package augment

import (
	"fmt"
	"sort"

	"github.com/born-ml/vision/internal/geometry"
	"github.com/born-ml/vision/internal/tensor"
)

// Well-known parameter names shared by crop operators.
const (
	// ParamSrc holds the [N,4,2] source corner coordinates in the input
	// image, ordered top-left, top-right, bottom-right, bottom-left.
	ParamSrc = "src"
	// ParamDst holds the [N,4,2] destination corner coordinates in the
	// output crop, same ordering as ParamSrc.
	ParamDst = "dst"
	// ParamInputSize holds the [N,2] input spatial size as (height, width).
	ParamInputSize = "input_size"
)

// Params is an immutable mapping of named tensors describing one sampled
// augmentation. It is returned by parameter generation and accepted by the
// apply and inverse steps; replaying the same Params against the same input
// reproduces the same output.
type Params[T geometry.Float, B tensor.Backend] struct {
	entries map[string]*tensor.Tensor[T, B]
}

// NewParams builds a parameter mapping from named tensors. The map is
// copied; later mutation of the argument does not affect the Params.
func NewParams[T geometry.Float, B tensor.Backend](entries map[string]*tensor.Tensor[T, B]) Params[T, B] {
	copied := make(map[string]*tensor.Tensor[T, B], len(entries))
	for name, t := range entries {
		copied[name] = t
	}
	return Params[T, B]{entries: copied}
}

// Get returns the named tensor, or false if absent.
func (p Params[T, B]) Get(name string) (*tensor.Tensor[T, B], bool) {
	t, ok := p.entries[name]
	return t, ok
}

// Names returns the entry names in sorted order.
func (p Params[T, B]) Names() []string {
	names := make([]string, 0, len(p.entries))
	for name := range p.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of entries.
func (p Params[T, B]) Len() int {
	return len(p.entries)
}

// IsZero reports whether the mapping is unset (no generation has run).
func (p Params[T, B]) IsZero() bool {
	return p.entries == nil
}

// Src returns the source corner tensor.
func (p Params[T, B]) Src() (*tensor.Tensor[T, B], error) {
	return p.require(ParamSrc)
}

// Dst returns the destination corner tensor.
func (p Params[T, B]) Dst() (*tensor.Tensor[T, B], error) {
	return p.require(ParamDst)
}

// InputSize returns the recorded input spatial size of batch element 0 as
// (height, width).
func (p Params[T, B]) InputSize() (h, w int, err error) {
	t, err := p.require(ParamInputSize)
	if err != nil {
		return 0, 0, err
	}
	shape := t.Shape()
	if len(shape) != 2 || shape[1] != 2 {
		return 0, 0, fmt.Errorf("parameter %q must be [N,2], got %v", ParamInputSize, shape)
	}
	return int(t.At(0, 0)), int(t.At(0, 1)), nil
}

func (p Params[T, B]) require(name string) (*tensor.Tensor[T, B], error) {
	t, ok := p.entries[name]
	if !ok {
		return nil, fmt.Errorf("parameter mapping is missing entry %q", name)
	}
	return t, nil
}
