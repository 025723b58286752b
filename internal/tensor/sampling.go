package tensor

import "fmt"

// InterpMode selects the interpolation kernel used when resampling.
type InterpMode int

// Supported interpolation modes.
const (
	InterpNearest InterpMode = iota
	InterpBilinear
)

// String returns a human-readable mode name.
func (m InterpMode) String() string {
	switch m {
	case InterpNearest:
		return "nearest"
	case InterpBilinear:
		return "bilinear"
	default:
		return fmt.Sprintf("InterpMode(%d)", int(m))
	}
}

// ParseInterpMode converts a mode name to an InterpMode.
func ParseInterpMode(name string) (InterpMode, error) {
	switch name {
	case "nearest":
		return InterpNearest, nil
	case "bilinear":
		return InterpBilinear, nil
	default:
		return 0, fmt.Errorf("unknown interpolation mode %q", name)
	}
}

// PaddingMode selects how sampling coordinates outside the input extent
// are handled.
type PaddingMode int

// Supported padding modes.
const (
	PadZeros PaddingMode = iota
	PadBorder
	PadReflection
)

// String returns a human-readable padding mode name.
func (p PaddingMode) String() string {
	switch p {
	case PadZeros:
		return "zeros"
	case PadBorder:
		return "border"
	case PadReflection:
		return "reflection"
	default:
		return fmt.Sprintf("PaddingMode(%d)", int(p))
	}
}

// ParsePaddingMode converts a padding mode name to a PaddingMode.
func ParsePaddingMode(name string) (PaddingMode, error) {
	switch name {
	case "zeros":
		return PadZeros, nil
	case "border":
		return PadBorder, nil
	case "reflection":
		return PadReflection, nil
	default:
		return 0, fmt.Errorf("unknown padding mode %q", name)
	}
}
