package imaging

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/convolution"
	"github.com/disintegration/imaging"
)

const (
	defaultRuleCoverage  = 0.6
	defaultRuleThreshold = 0.5
	ruleMergeGap         = 3
)

// RuleLocator finds the weekday columns from the vertical rules of the menu
// table inside Fraction's region. When the detected rules do not bound
// exactly Fraction.Columns plausible columns, it falls back to Fraction.
type RuleLocator struct {
	Fraction FractionLocator

	// MinCoverage is the share of the region height a vertical edge must
	// span to count as a rule. Zero means 0.6.
	MinCoverage float64

	// Threshold is the horizontal gradient magnitude, on a 0..1 luminance
	// scale, that marks an edge pixel. Zero means 0.5.
	Threshold float64
}

// Locate implements ColumnLocator.
func (l RuleLocator) Locate(img image.Image) []image.Rectangle {
	n := l.Fraction.Columns
	if n < 1 {
		n = 1
	}
	rules := l.Rules(img)
	if len(rules) != n+1 {
		return l.Fraction.Locate(img)
	}

	region := l.Fraction.Region(img.Bounds())
	minWidth := region.Dx() / (n * 3)
	out := make([]image.Rectangle, n)
	for i := range out {
		if rules[i+1]-rules[i] < minWidth {
			return l.Fraction.Locate(img)
		}
		out[i] = image.Rect(rules[i], region.Min.Y, rules[i+1], region.Max.Y)
	}
	return out
}

// Rules returns the x positions of the vertical rules inside the region,
// left to right.
//
// The region is blurred with a 5x5 Gaussian, converted to luminance and
// differentiated with the horizontal Sobel operator. A column of pixels is a
// rule candidate when enough of its rows exceed Threshold; adjacent
// candidates, including the two flanks of a thin dark line, merge into one
// rule at the center of their span.
//
// Parameters:
//   - img: the preprocessed menu image
//
// Returns:
//   - absolute x coordinates of the detected rules, empty when none are found
func (l RuleLocator) Rules(img image.Image) []int {
	region := l.Fraction.Region(img.Bounds()).Intersect(img.Bounds())
	width, height := region.Dx(), region.Dy()
	if width < 3 || height < 3 {
		return nil
	}

	coverage := l.MinCoverage
	if coverage <= 0 {
		coverage = defaultRuleCoverage
	}
	threshold := l.Threshold
	if threshold <= 0 {
		threshold = defaultRuleThreshold
	}

	blurred := convolution.Convolve(imaging.Crop(img, region), gaussianKernel.Normalized(), &convolution.Options{KeepAlpha: true})
	gray := luminance(blurred)

	sobelX := [3][3]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	counts := make([]int, width)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var gx float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					py := clamp(y+ky, 0, height-1)
					px := clamp(x+kx, 0, width-1)
					gx += gray[py][px] * sobelX[ky+1][kx+1]
				}
			}
			if math.Abs(gx) >= threshold {
				counts[x]++
			}
		}
	}

	need := int(math.Ceil(coverage * float64(height)))
	var rules []int
	spanStart, spanEnd := -1, -1
	flush := func() {
		if spanStart >= 0 {
			rules = append(rules, region.Min.X+(spanStart+spanEnd)/2)
		}
	}
	for x := 0; x < width; x++ {
		if counts[x] < need {
			continue
		}
		if spanStart >= 0 && x-spanEnd <= ruleMergeGap {
			spanEnd = x
			continue
		}
		flush()
		spanStart, spanEnd = x, x
	}
	flush()
	return rules
}

// gaussianKernel approximates a Gaussian with sigma about 1.4.
var gaussianKernel = &convolution.Kernel{
	Matrix: []float64{
		1, 4, 7, 4, 1,
		4, 16, 26, 16, 4,
		7, 26, 41, 26, 7,
		4, 16, 26, 16, 4,
		1, 4, 7, 4, 1,
	},
	Width:  5,
	Height: 5,
}

// luminance returns the BT.601 luminance of img on a 0..1 scale, indexed
// [y][x] from the image origin.
func luminance(img *image.RGBA) [][]float64 {
	b := img.Bounds()
	gray := make([][]float64, b.Dy())
	for y := range gray {
		gray[y] = make([]float64, b.Dx())
		for x := range gray[y] {
			i := img.PixOffset(b.Min.X+x, b.Min.Y+y)
			r, g, bl := img.Pix[i], img.Pix[i+1], img.Pix[i+2]
			gray[y][x] = (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(bl)) / 255.0
		}
	}
	return gray
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
