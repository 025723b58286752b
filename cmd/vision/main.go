// Package main provides the Born vision CLI: center-crop images from the
// command line using the same operators the library exposes.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/born-ml/vision/augment"
	"github.com/born-ml/vision/backend/cpu"
	"github.com/born-ml/vision/internal/imageio"
	"github.com/born-ml/vision/tensor"
)

func main() {
	in := flag.String("in", "", "input image path (jpeg, png, bmp, tiff, webp)")
	out := flag.String("out", "out.png", "output image path")
	size := flag.Int("size", 224, "crop height and width")
	width := flag.Int("width", 0, "crop width (defaults to -size)")
	mode := flag.String("mode", "slice", `cropping mode ("slice" or "resample")`)
	interp := flag.String("interp", "bilinear", `interpolation mode ("nearest" or "bilinear")`)
	padding := flag.String("padding", "zeros", `padding mode ("zeros", "border", "reflection")`)
	alignCorners := flag.Bool("align-corners", true, "use the pixel-as-point coordinate convention")
	inverse := flag.String("inverse", "", "also write the inverse reconstruction to this path (resample mode only)")
	quality := flag.Int("quality", 90, "jpeg/webp encode quality")
	flag.Parse()

	if *in == "" {
		flag.Usage()
		os.Exit(2)
	}

	cropMode, err := augment.ParseCropMode(*mode)
	if err != nil {
		log.Fatal(err)
	}
	interpMode, err := tensor.ParseInterpMode(*interp)
	if err != nil {
		log.Fatal(err)
	}
	padMode, err := tensor.ParsePaddingMode(*padding)
	if err != nil {
		log.Fatal(err)
	}

	cropW := *width
	if cropW == 0 {
		cropW = *size
	}

	backend := cpu.New()
	img, err := imageio.Load(*in)
	if err != nil {
		log.Fatalf("load %s: %v", *in, err)
	}
	x, err := imageio.ToTensor(img, backend)
	if err != nil {
		log.Fatal(err)
	}

	crop, err := augment.NewCenterCrop[float32](augment.Size{H: *size, W: cropW}, backend,
		augment.WithCropMode(cropMode),
		augment.WithResample(interpMode),
		augment.WithPadding(padMode),
		augment.WithAlignCorners(*alignCorners),
	)
	if err != nil {
		log.Fatal(err)
	}

	y, err := crop.Forward(x)
	if err != nil {
		log.Fatalf("crop: %v", err)
	}
	if err := saveTensor(y, *out, *quality); err != nil {
		log.Fatalf("save %s: %v", *out, err)
	}
	fmt.Printf("%s: %v -> %s: %v\n", *in, x.Shape(), *out, y.Shape())

	if *inverse != "" {
		back, err := crop.Inverse(y, augment.InverseWithPadding(padMode))
		if err != nil {
			log.Fatalf("inverse: %v", err)
		}
		if err := saveTensor(back, *inverse, *quality); err != nil {
			log.Fatalf("save %s: %v", *inverse, err)
		}
		fmt.Printf("inverse -> %s: %v\n", *inverse, back.Shape())
	}
}

func saveTensor[B tensor.Backend](t *tensor.Tensor[float32, B], path string, quality int) error {
	img, err := imageio.ToImage(t)
	if err != nil {
		return err
	}
	return imageio.Save(img, path, quality)
}
