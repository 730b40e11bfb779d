package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// ColumnLocator finds the weekday columns in a preprocessed menu image.
// Implementations return the columns left to right.
type ColumnLocator interface {
	Locate(img image.Image) []image.Rectangle
}

// FractionLocator places the columns inside a fixed fractional region of the
// image and splits that region into equal-width strips. The last strip
// extends to the region's right edge to absorb the division remainder.
type FractionLocator struct {
	Left    float64 `yaml:"left" json:"left"`
	Right   float64 `yaml:"right" json:"right"`
	Top     float64 `yaml:"top" json:"top"`
	Bottom  float64 `yaml:"bottom" json:"bottom"`
	Columns int     `yaml:"columns" json:"columns"`
}

// DefaultLocator matches the weekly menu announcement template.
var DefaultLocator = FractionLocator{
	Left:    0.18,
	Right:   0.98,
	Top:     0.18,
	Bottom:  0.82,
	Columns: 5,
}

// Validate checks that the region is non-empty and inside the image.
func (f FractionLocator) Validate() error {
	if f.Columns < 1 {
		return fmt.Errorf("columns must be positive, got %d", f.Columns)
	}
	for _, v := range []float64{f.Left, f.Right, f.Top, f.Bottom} {
		if v < 0 || v > 1 {
			return fmt.Errorf("crop fractions must be within [0,1], got %v", v)
		}
	}
	if f.Left >= f.Right || f.Top >= f.Bottom {
		return fmt.Errorf("invalid crop region: left must be < right, top must be < bottom")
	}
	return nil
}

// Region returns the pixel rectangle the columns are carved from.
func (f FractionLocator) Region(bounds image.Rectangle) image.Rectangle {
	w, h := bounds.Dx(), bounds.Dy()
	return image.Rect(
		bounds.Min.X+int(float64(w)*f.Left),
		bounds.Min.Y+int(float64(h)*f.Top),
		bounds.Min.X+int(float64(w)*f.Right),
		bounds.Min.Y+int(float64(h)*f.Bottom),
	)
}

// Locate implements ColumnLocator. Only the image bounds are used.
func (f FractionLocator) Locate(img image.Image) []image.Rectangle {
	return f.Rects(img.Bounds())
}

// Rects splits the region of bounds into the configured number of columns.
func (f FractionLocator) Rects(bounds image.Rectangle) []image.Rectangle {
	n := f.Columns
	if n < 1 {
		n = 1
	}
	region := f.Region(bounds)
	width := region.Dx() / n
	if width < 1 {
		width = 1
	}

	out := make([]image.Rectangle, n)
	for i := range out {
		x1 := region.Min.X + i*width
		x2 := region.Min.X + (i+1)*width
		if i == n-1 {
			x2 = region.Max.X
		}
		out[i] = image.Rect(x1, region.Min.Y, x2, region.Max.Y)
	}
	return out
}

// Segment crops img into the weekday columns found by loc.
//
// Parameters:
//   - img: the preprocessed menu image
//   - loc: the column locator, usually DefaultLocator or a RuleLocator
//
// Returns:
//   - []image.Image: one crop per column, left to right. Column rectangles
//     are clipped to the image; a column that falls entirely outside it
//     yields an empty image rather than an error.
func Segment(img image.Image, loc ColumnLocator) []image.Image {
	rects := loc.Locate(img)
	out := make([]image.Image, len(rects))
	for i, r := range rects {
		out[i] = imaging.Crop(img, r)
	}
	return out
}

// Columns preprocesses img and segments it with loc.
func Columns(img image.Image, loc ColumnLocator) []image.Image {
	return Segment(Preprocess(img), loc)
}
