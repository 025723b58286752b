// Package geometry implements 2D projective transforms for image tensors.
//
// Transforms are 3x3 matrices in column-vector convention: a point (x, y)
// maps through M as (x', y', w') = M · (x, y, 1)ᵀ, followed by the
// perspective divide. Corner tensors list quadrilaterals in top-left,
// top-right, bottom-right, bottom-left order.
//
// Matrices are solved and inverted on the host in float64. They are tiny
// (3x3 per batch element), so precision matters more than keeping the
// arithmetic on the backend.
package geometry

import (
	"fmt"
	"math"

	"github.com/born-ml/vision/internal/tensor"
)

// Float is the element constraint for geometry operations.
type Float interface {
	~float32 | ~float64
}

// homography is a 3x3 projective transform in row-major order.
type homography [3][3]float64

// mul returns m · o (composition: o first, then m).
func (m homography) mul(o homography) homography {
	var r homography
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = m[i][0]*o[0][j] + m[i][1]*o[1][j] + m[i][2]*o[2][j]
		}
	}
	return r
}

// adjugate returns the transpose of the cofactor matrix. For an invertible
// matrix, adjugate(m) = det(m) · m⁻¹, which is all a projective transform
// needs: scale factors cancel in the perspective divide.
func (m homography) adjugate() homography {
	return homography{
		{m[1][1]*m[2][2] - m[1][2]*m[2][1], m[0][2]*m[2][1] - m[0][1]*m[2][2], m[0][1]*m[1][2] - m[0][2]*m[1][1]},
		{m[1][2]*m[2][0] - m[1][0]*m[2][2], m[0][0]*m[2][2] - m[0][2]*m[2][0], m[0][2]*m[1][0] - m[0][0]*m[1][2]},
		{m[1][0]*m[2][1] - m[1][1]*m[2][0], m[0][1]*m[2][0] - m[0][0]*m[2][1], m[0][0]*m[1][1] - m[0][1]*m[1][0]},
	}
}

// det returns the determinant.
func (m homography) det() float64 {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

// apply maps (x, y) through the transform with perspective divide.
func (m homography) apply(x, y float64) (float64, float64) {
	w := m[2][0]*x + m[2][1]*y + m[2][2]
	return (m[0][0]*x + m[0][1]*y + m[0][2]) / w,
		(m[1][0]*x + m[1][1]*y + m[1][2]) / w
}

// squareToQuad maps the unit square corners (0,0), (1,0), (1,1), (0,1)
// onto the four given points. When the quadrilateral is a parallelogram
// the transform degenerates to an exact affine map.
func squareToQuad(p [4][2]float64) homography {
	x0, y0 := p[0][0], p[0][1]
	x1, y1 := p[1][0], p[1][1]
	x2, y2 := p[2][0], p[2][1]
	x3, y3 := p[3][0], p[3][1]

	dx3 := x0 - x1 + x2 - x3
	dy3 := y0 - y1 + y2 - y3
	if dx3 == 0 && dy3 == 0 {
		return homography{
			{x1 - x0, x3 - x0, x0},
			{y1 - y0, y3 - y0, y0},
			{0, 0, 1},
		}
	}

	dx1, dx2 := x1-x2, x3-x2
	dy1, dy2 := y1-y2, y3-y2
	den := dx1*dy2 - dx2*dy1
	g := (dx3*dy2 - dx2*dy3) / den
	h := (dx1*dy3 - dx3*dy1) / den
	return homography{
		{x1 - x0 + g*x1, x3 - x0 + h*x3, x0},
		{y1 - y0 + g*y1, y3 - y0 + h*y3, y0},
		{g, h, 1},
	}
}

// quadToSquare is the inverse of squareToQuad, built from the adjugate.
func quadToSquare(p [4][2]float64) homography {
	return squareToQuad(p).adjugate()
}

// solveQuadToQuad maps the src quadrilateral onto dst by composing through
// the unit square, normalized so the bottom-right element is 1.
func solveQuadToQuad(src, dst [4][2]float64) (homography, error) {
	m := squareToQuad(dst).mul(quadToSquare(src))
	if math.Abs(m[2][2]) < 1e-12 {
		return homography{}, fmt.Errorf("perspective transform is degenerate: src %v, dst %v", src, dst)
	}
	for i := range m {
		for j := range m[i] {
			m[i][j] /= m[2][2]
		}
	}
	m[2][2] = 1
	return m, nil
}

// cornersAt reads the 4 corner points of batch element n from a [N,4,2]
// tensor into host float64s.
func cornersAt[T Float, B tensor.Backend](t *tensor.Tensor[T, B], n int) [4][2]float64 {
	data := t.Data()
	var p [4][2]float64
	for i := 0; i < 4; i++ {
		p[i][0] = float64(data[n*8+i*2])
		p[i][1] = float64(data[n*8+i*2+1])
	}
	return p
}

// PerspectiveTransform solves the 3x3 transforms mapping each src
// quadrilateral onto the corresponding dst quadrilateral.
//
// src and dst are [N,4,2] corner tensors. The result is [N,3,3] with the
// bottom-right element normalized to 1.
func PerspectiveTransform[T Float, B tensor.Backend](src, dst *tensor.Tensor[T, B]) (*tensor.Tensor[T, B], error) {
	if err := checkCorners(src.Shape(), "src"); err != nil {
		return nil, err
	}
	if err := checkCorners(dst.Shape(), "dst"); err != nil {
		return nil, err
	}
	if !src.Shape().Equal(dst.Shape()) {
		return nil, fmt.Errorf("corner tensors must have equal shapes: src %v, dst %v", src.Shape(), dst.Shape())
	}

	n := src.Shape()[0]
	out := make([]T, n*9)
	for b := 0; b < n; b++ {
		m, err := solveQuadToQuad(cornersAt(src, b), cornersAt(dst, b))
		if err != nil {
			return nil, fmt.Errorf("batch %d: %w", b, err)
		}
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				out[b*9+i*3+j] = T(m[i][j])
			}
		}
	}
	return tensor.FromSlice(out, tensor.Shape{n, 3, 3}, src.Backend())
}

// Invert inverts a batch of [N,3,3] transforms, normalized so the
// bottom-right element is 1. Returns an error on a singular matrix.
func Invert[T Float, B tensor.Backend](m *tensor.Tensor[T, B]) (*tensor.Tensor[T, B], error) {
	shape := m.Shape()
	if len(shape) != 3 || shape[1] != 3 || shape[2] != 3 {
		return nil, fmt.Errorf("expected [N,3,3] transform tensor, got %v", shape)
	}

	n := shape[0]
	out := make([]T, n*9)
	for b := 0; b < n; b++ {
		h := hostMatrixAt(m, b)
		d := h.det()
		if math.Abs(d) < 1e-12 {
			return nil, fmt.Errorf("batch %d: transform is singular (det %g)", b, d)
		}
		// adjugate/det is the true inverse; the final divide renormalizes
		// the projective scale so the bottom-right element is 1.
		inv := h.adjugate()
		if math.Abs(inv[2][2]) < 1e-12 {
			return nil, fmt.Errorf("batch %d: inverse transform is degenerate", b)
		}
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				out[b*9+i*3+j] = T(inv[i][j] / inv[2][2])
			}
		}
	}
	return tensor.FromSlice(out, tensor.Shape{n, 3, 3}, m.Backend())
}

// hostMatrixAt reads batch element n of a [N,3,3] tensor into a homography.
func hostMatrixAt[T Float, B tensor.Backend](m *tensor.Tensor[T, B], n int) homography {
	data := m.Data()
	var h homography
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			h[i][j] = float64(data[n*9+i*3+j])
		}
	}
	return h
}

func checkCorners(shape tensor.Shape, name string) error {
	if len(shape) != 3 || shape[1] != 4 || shape[2] != 2 {
		return fmt.Errorf("expected [N,4,2] corner tensor for %s, got %v", name, shape)
	}
	return nil
}
