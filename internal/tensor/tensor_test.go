package tensor

import (
	"testing"
)

// DType tests

func TestDataTypeSize(t *testing.T) {
	tests := []struct {
		dtype DataType
		size  int
	}{
		{Float32, 4},
		{Float64, 8},
		{Int32, 4},
		{Int64, 8},
		{Uint8, 1},
		{Bool, 1},
	}

	for _, tt := range tests {
		if got := tt.dtype.Size(); got != tt.size {
			t.Errorf("%s.Size() = %d, want %d", tt.dtype, got, tt.size)
		}
	}
}

func TestDataTypeString(t *testing.T) {
	tests := []struct {
		dtype DataType
		str   string
	}{
		{Float32, "float32"},
		{Float64, "float64"},
		{Int32, "int32"},
		{Int64, "int64"},
		{Uint8, "uint8"},
		{Bool, "bool"},
	}

	for _, tt := range tests {
		if got := tt.dtype.String(); got != tt.str {
			t.Errorf("String() = %q, want %q", got, tt.str)
		}
	}
}

func TestInferDataType(t *testing.T) {
	if dt := inferDataType(float32(0)); dt != Float32 {
		t.Errorf("inferDataType(float32) = %v, want Float32", dt)
	}
	if dt := inferDataType(float64(0)); dt != Float64 {
		t.Errorf("inferDataType(float64) = %v, want Float64", dt)
	}
	if dt := inferDataType(int64(0)); dt != Int64 {
		t.Errorf("inferDataType(int64) = %v, want Int64", dt)
	}
}

// Shape tests

func TestShapeNumElements(t *testing.T) {
	if got := (Shape{2, 3, 4}).NumElements(); got != 24 {
		t.Errorf("NumElements() = %d, want 24", got)
	}
	if got := (Shape{}).NumElements(); got != 1 {
		t.Errorf("scalar NumElements() = %d, want 1", got)
	}
}

func TestShapeValidate(t *testing.T) {
	if err := (Shape{2, 3}).Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
	if err := (Shape{2, 0}).Validate(); err == nil {
		t.Error("Validate() accepted a zero dimension")
	}
	if err := (Shape{-1, 3}).Validate(); err == nil {
		t.Error("Validate() accepted a negative dimension")
	}
}

func TestShapeComputeStrides(t *testing.T) {
	strides := (Shape{2, 3, 4}).ComputeStrides()
	want := []int{12, 4, 1}
	for i := range want {
		if strides[i] != want[i] {
			t.Errorf("ComputeStrides() = %v, want %v", strides, want)
			break
		}
	}
}

func TestBroadcastShapes(t *testing.T) {
	shape, needs, err := BroadcastShapes(Shape{3, 1}, Shape{3, 4})
	if err != nil {
		t.Fatalf("BroadcastShapes() error: %v", err)
	}
	if !shape.Equal(Shape{3, 4}) {
		t.Errorf("broadcast shape = %v, want [3 4]", shape)
	}
	if !needs {
		t.Error("expected needsBroadcast = true")
	}

	shape, needs, err = BroadcastShapes(Shape{2, 3}, Shape{2, 3})
	if err != nil {
		t.Fatalf("BroadcastShapes() error: %v", err)
	}
	if !shape.Equal(Shape{2, 3}) || needs {
		t.Errorf("identical shapes: got %v, needs %v", shape, needs)
	}

	if _, _, err := BroadcastShapes(Shape{2, 3}, Shape{4, 5}); err == nil {
		t.Error("BroadcastShapes() accepted incompatible shapes")
	}
}

// RawTensor tests

func TestNewRaw(t *testing.T) {
	raw, err := NewRaw(Shape{2, 3}, Float32, CPU)
	if err != nil {
		t.Fatalf("NewRaw() error: %v", err)
	}
	if !raw.Shape().Equal(Shape{2, 3}) {
		t.Errorf("Shape() = %v, want [2 3]", raw.Shape())
	}
	if raw.DType() != Float32 {
		t.Errorf("DType() = %v, want Float32", raw.DType())
	}
	if raw.ByteSize() != 24 {
		t.Errorf("ByteSize() = %d, want 24", raw.ByteSize())
	}

	if _, err := NewRaw(Shape{2, 0}, Float32, CPU); err == nil {
		t.Error("NewRaw() accepted an invalid shape")
	}
}

func TestRawTensorClone(t *testing.T) {
	raw, _ := NewRaw(Shape{4}, Float32, CPU)
	raw.AsFloat32()[0] = 7

	clone := raw.Clone()
	if clone.AsFloat32()[0] != 7 {
		t.Error("clone does not carry original data")
	}

	clone.AsFloat32()[0] = 9
	if raw.AsFloat32()[0] != 7 {
		t.Error("writing the clone must not touch the original")
	}
}

func TestRawTensorForceNonUnique(t *testing.T) {
	raw, _ := NewRaw(Shape{4}, Float32, CPU)
	if !raw.IsUnique() {
		t.Fatal("fresh tensor should be unique")
	}

	restore := raw.ForceNonUnique()
	if raw.IsUnique() {
		t.Error("tensor should report shared while forced")
	}
	restore()
	if !raw.IsUnique() {
		t.Error("tensor should be unique again after restore")
	}
}

// Sampling flag tests

func TestParseInterpMode(t *testing.T) {
	if m, err := ParseInterpMode("bilinear"); err != nil || m != InterpBilinear {
		t.Errorf("ParseInterpMode(bilinear) = %v, %v", m, err)
	}
	if _, err := ParseInterpMode("bicubic"); err == nil {
		t.Error("ParseInterpMode() accepted an unknown mode")
	}
}

func TestParsePaddingMode(t *testing.T) {
	for name, want := range map[string]PaddingMode{
		"zeros":      PadZeros,
		"border":     PadBorder,
		"reflection": PadReflection,
	} {
		if m, err := ParsePaddingMode(name); err != nil || m != want {
			t.Errorf("ParsePaddingMode(%q) = %v, %v", name, m, err)
		}
	}
	if _, err := ParsePaddingMode("wrap"); err == nil {
		t.Error("ParsePaddingMode() accepted an unknown mode")
	}
}
