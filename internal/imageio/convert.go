// Package imageio bridges Go images and image tensors: decoding and
// encoding files, and converting between image.Image and the [N,C,H,W]
// float layout the augmentation operators consume.
package imageio

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/born-ml/vision/internal/tensor"
)

// ToTensor converts an image into a [1,3,H,W] float32 tensor with RGB
// channels scaled to [0, 1].
func ToTensor[B tensor.Backend](img image.Image, backend B) (*tensor.Tensor[float32, B], error) {
	nrgba := imaging.Clone(img)
	w := nrgba.Bounds().Dx()
	h := nrgba.Bounds().Dy()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("cannot convert empty %dx%d image", w, h)
	}

	data := make([]float32, 3*h*w)
	plane := h * w
	for y := 0; y < h; y++ {
		row := y * nrgba.Stride
		for x := 0; x < w; x++ {
			i := row + x*4
			data[y*w+x] = float32(nrgba.Pix[i]) / 255
			data[plane+y*w+x] = float32(nrgba.Pix[i+1]) / 255
			data[2*plane+y*w+x] = float32(nrgba.Pix[i+2]) / 255
		}
	}
	return tensor.FromSlice(data, tensor.Shape{1, 3, h, w}, backend)
}

// ToImage converts a [1,C,H,W] or [C,H,W] tensor with values in [0, 1]
// back into an image. C must be 1 (grayscale) or 3 (RGB); values outside
// [0, 1] are clamped.
func ToImage[B tensor.Backend](t *tensor.Tensor[float32, B]) (image.Image, error) {
	shape := t.Shape()
	if len(shape) == 4 {
		if shape[0] != 1 {
			return nil, fmt.Errorf("cannot convert batched tensor %v to a single image", shape)
		}
		shape = shape[1:]
	}
	if len(shape) != 3 || (shape[0] != 1 && shape[0] != 3) {
		return nil, fmt.Errorf("expected [1|3,H,W] tensor, got %v", t.Shape())
	}

	c, h, w := shape[0], shape[1], shape[2]
	data := t.Data()
	plane := h * w
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r := quantize(data[y*w+x])
			g, b := r, r
			if c == 3 {
				g = quantize(data[plane+y*w+x])
				b = quantize(data[2*plane+y*w+x])
			}
			img.SetNRGBA(x, y, color.NRGBA{R: r, G: g, B: b, A: 255})
		}
	}
	return img, nil
}

func quantize(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
