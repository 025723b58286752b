package tensor

import (
	"math"
	"math/rand"
)

// Zeros creates a tensor filled with zeros.
//
// Example:
//
//	backend := cpu.New()
//	t := tensor.Zeros[float32](Shape{3, 4}, backend)
func Zeros[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	var dummy T
	dtype := inferDataType(dummy)

	raw, err := NewRaw(shape, dtype, b.Device())
	if err != nil {
		panic(err) // Shape validation should prevent this
	}

	// Data is already zero-initialized by make()
	return New[T, B](raw, b)
}

// Ones creates a tensor filled with ones.
func Ones[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	data := t.Data()

	var dummy T
	var one any
	switch any(dummy).(type) {
	case float32:
		one = float32(1)
	case float64:
		one = float64(1)
	case int32:
		one = int32(1)
	case int64:
		one = int64(1)
	case uint8:
		one = uint8(1)
	case bool:
		one = true
	}

	for i := range data {
		data[i] = one.(T)
	}
	return t
}

// Full creates a tensor filled with a specific value.
func Full[T DType, B Backend](shape Shape, value T, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	data := t.Data()
	for i := range data {
		data[i] = value
	}
	return t
}

// Eye creates a 2D identity matrix of size n×n.
// Only works with float types.
func Eye[T DType, B Backend](n int, b B) *Tensor[T, B] {
	t := Zeros[T, B](Shape{n, n}, b)
	data := t.Data()

	var dummy T
	switch any(dummy).(type) {
	case float32:
		d := any(data).([]float32)
		for i := 0; i < n; i++ {
			d[i*n+i] = 1
		}
	case float64:
		d := any(data).([]float64)
		for i := 0; i < n; i++ {
			d[i*n+i] = 1
		}
	default:
		panic("eye: only float32/float64 supported")
	}
	return t
}

// Randn creates a tensor with random values from a normal distribution
// (mean=0, std=1), using the Box-Muller transform. Only works with float
// types. Uses math/rand, appropriate for ML/statistical purposes.
func Randn[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	data := t.Data()

	var dummy T
	switch any(dummy).(type) {
	case float32:
		d := any(data).([]float32)
		for i := range d {
			u1 := rand.Float64()
			u2 := rand.Float64()
			d[i] = float32(math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2))
		}
	case float64:
		d := any(data).([]float64)
		for i := range d {
			u1 := rand.Float64()
			u2 := rand.Float64()
			d[i] = math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
		}
	default:
		panic("randn: only float32/float64 supported")
	}
	return t
}

// Rand creates a tensor with random values from a uniform distribution
// U(0, 1). Only works with float types.
func Rand[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	data := t.Data()

	var dummy T
	switch any(dummy).(type) {
	case float32:
		d := any(data).([]float32)
		for i := range d {
			d[i] = rand.Float32()
		}
	case float64:
		d := any(data).([]float64)
		for i := range d {
			d[i] = rand.Float64()
		}
	default:
		panic("rand: only float32/float64 supported")
	}
	return t
}
