package imaging

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/convolution"
	"github.com/anthonynsimon/bild/histogram"
	"github.com/disintegration/imaging"
)

// UpscaleFactor is the linear upscale applied before sharpening.
const UpscaleFactor = 2

// sharpenKernel is a mild 3x3 sharpen: center 32/16, neighbours -2/16.
// It sums to 1 so flat regions keep their gray level.
var sharpenKernel = &convolution.Kernel{
	Matrix: []float64{
		-0.125, -0.125, -0.125,
		-0.125, 2.0, -0.125,
		-0.125, -0.125, -0.125,
	},
	Width:  3,
	Height: 3,
}

// Preprocess prepares a scanned menu table for OCR.
//
// The image is converted to grayscale, its contrast is stretched to the full
// 0..255 range, it is upscaled by UpscaleFactor with linear filtering and
// finally sharpened. It is applied once per source image, before
// segmentation, so column rectangles are in preprocessed coordinates.
//
// Parameters:
//   - img: the decoded menu image in any color model
//
// Returns:
//   - *image.RGBA: the grayscale, upscaled and sharpened image, with its
//     origin at (0, 0)
func Preprocess(img image.Image) *image.RGBA {
	gray := AutoContrast(ToGray(img))
	b := gray.Bounds()
	up := imaging.Resize(gray, b.Dx()*UpscaleFactor, b.Dy()*UpscaleFactor, imaging.Linear)
	return Sharpen(up)
}

// AutoContrast linearly maps the darkest gray level present in img to 0 and
// the brightest to 255. Images with a single gray level are returned
// unchanged. Only the red channel is inspected; callers pass grayscale input.
func AutoContrast(img image.Image) *image.RGBA {
	lo, hi := grayExtent(img)
	if hi <= lo {
		return adjust.Apply(img, func(c color.RGBA) color.RGBA { return c })
	}

	scale := 255.0 / float64(hi-lo)
	var lut [256]uint8
	for i := range lut {
		v := int(float64(i-lo)*scale + 0.5)
		switch {
		case v < 0:
			v = 0
		case v > 255:
			v = 255
		}
		lut[i] = uint8(v)
	}

	return adjust.Apply(img, func(c color.RGBA) color.RGBA {
		return color.RGBA{R: lut[c.R], G: lut[c.G], B: lut[c.B], A: c.A}
	})
}

// grayExtent returns the lowest and highest occupied histogram bins.
func grayExtent(img image.Image) (lo, hi int) {
	bins := histogram.NewRGBAHistogram(img).R.Bins
	lo, hi = 0, -1
	for i, n := range bins {
		if n > 0 {
			lo = i
			break
		}
	}
	for i := len(bins) - 1; i >= 0; i-- {
		if bins[i] > 0 {
			hi = i
			break
		}
	}
	return lo, hi
}

// Sharpen applies the 3x3 sharpening kernel. Edge pixels are extended
// rather than wrapped.
func Sharpen(img image.Image) *image.RGBA {
	return convolution.Convolve(img, sharpenKernel, &convolution.Options{Bias: 0, Wrap: false, KeepAlpha: true})
}
