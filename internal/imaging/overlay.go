package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// OverlayResult is a preprocessed image with the located columns outlined.
type OverlayResult struct {
	Width       int               `json:"width"`
	Height      int               `json:"height"`
	Columns     []image.Rectangle `json:"columns"`
	ImageBase64 string            `json:"image_base64"`
	MimeType    string            `json:"mime_type"`
}

var weekdayLabels = []string{"MON", "TUE", "WED", "THU", "FRI", "SAT", "SUN"}

// ColumnOverlay preprocesses img, outlines every column loc produces and
// labels it with its weekday. It is a diagnostic for template drift.
func ColumnOverlay(img image.Image, loc ColumnLocator, lineHex string) (*OverlayResult, error) {
	processed := Preprocess(img)
	bounds := processed.Bounds()

	lineColor, err := parseHexColor(lineHex)
	if err != nil {
		lineColor = color.RGBA{255, 0, 0, 255}
	}

	result := image.NewRGBA(bounds)
	draw.Draw(result, bounds, processed, bounds.Min, draw.Src)

	rects := loc.Locate(processed)
	for i, r := range rects {
		drawRect(result, r, lineColor, 2)
		label := strconv.Itoa(i + 1)
		if i < len(weekdayLabels) {
			label = weekdayLabels[i]
		}
		drawLabel(result, r.Min.X+4, r.Min.Y+4, label, color.RGBA{255, 255, 255, 255}, lineColor)
	}

	encoded, err := EncodePNGBase64(result)
	if err != nil {
		return nil, err
	}

	return &OverlayResult{
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		Columns:     rects,
		ImageBase64: encoded,
		MimeType:    "image/png",
	}, nil
}

// drawRect outlines r with the given stroke width, clipped to img.
func drawRect(img *image.RGBA, r image.Rectangle, c color.RGBA, stroke int) {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return
	}
	src := image.NewUniform(c)
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+stroke),
		image.Rect(r.Min.X, r.Max.Y-stroke, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+stroke, r.Max.Y),
		image.Rect(r.Max.X-stroke, r.Min.Y, r.Max.X, r.Max.Y),
	}
	for _, e := range edges {
		draw.Draw(img, e.Intersect(r), src, image.Point{}, draw.Src)
	}
}

// drawLabel renders text on a filled background box whose top-left corner is
// (x, y).
func drawLabel(img *image.RGBA, x, y int, text string, fg, bg color.RGBA) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil()
	box := image.Rect(x-1, y-1, x+width+1, y+face.Height+1).Intersect(img.Bounds())
	draw.Draw(img, box, image.NewUniform(bg), image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(fg),
		Face: face,
		Dot:  fixed.P(x, y+face.Ascent),
	}
	d.DrawString(text)
}

// parseHexColor parses a hex color string like "#FF0000" or "#FF000080"
func parseHexColor(hex string) (color.RGBA, error) {
	if len(hex) == 0 {
		return color.RGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] == '#' {
		hex = hex[1:]
	}

	val, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, err
	}

	switch len(hex) {
	case 6:
		return color.RGBA{R: uint8(val >> 16), G: uint8(val >> 8), B: uint8(val), A: 255}, nil
	case 8:
		return color.RGBA{R: uint8(val >> 24), G: uint8(val >> 16), B: uint8(val >> 8), A: uint8(val)}, nil
	}
	return color.RGBA{}, fmt.Errorf("invalid hex color length")
}
