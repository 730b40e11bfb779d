package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// solidImage creates an in-memory image filled with c.
func solidImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// grayRamp creates an image whose gray level rises from lo to hi left to right.
func grayRamp(width, height int, lo, hi uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		v := lo
		if width > 1 {
			v = lo + uint8(int(hi-lo)*x/(width-1))
		}
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{v, v, v, 255})
		}
	}
	return img
}

func encode(t *testing.T, img image.Image, format string) []byte {
	t.Helper()
	var buf bytes.Buffer
	var err error
	switch format {
	case "png":
		err = png.Encode(&buf, img)
	case "jpeg":
		err = jpeg.Encode(&buf, img, nil)
	}
	if err != nil {
		t.Fatalf("failed to encode %s: %v", format, err)
	}
	return buf.Bytes()
}

func TestDecode(t *testing.T) {
	for _, format := range []string{"png", "jpeg"} {
		t.Run(format, func(t *testing.T) {
			data := encode(t, solidImage(40, 20, color.White), format)
			img, info, err := Decode(data)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if info.Width != 40 || info.Height != 20 {
				t.Errorf("dimensions: got %dx%d, want 40x20", info.Width, info.Height)
			}
			if info.Format != format {
				t.Errorf("Format: got %s, want %s", info.Format, format)
			}
			if info.Bytes != len(data) {
				t.Errorf("Bytes: got %d, want %d", info.Bytes, len(data))
			}
			if img.Bounds().Dx() != 40 {
				t.Errorf("image width: got %d", img.Bounds().Dx())
			}
		})
	}
}

func TestDecode_Invalid(t *testing.T) {
	if _, _, err := Decode([]byte("<html>not an image</html>")); err == nil {
		t.Error("expected error for non-image data")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "menu.png")
	if err := os.WriteFile(path, encode(t, solidImage(10, 10, color.Black), "png"), 0o644); err != nil {
		t.Fatalf("failed to write test image: %v", err)
	}

	_, info, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if info.Width != 10 || info.Height != 10 {
		t.Errorf("dimensions: got %dx%d, want 10x10", info.Width, info.Height)
	}

	if _, _, err := LoadFile(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestToGray(t *testing.T) {
	gray := ToGray(solidImage(4, 4, color.RGBA{255, 0, 0, 255}))
	c := gray.NRGBAAt(1, 1)
	if c.R != c.G || c.G != c.B {
		t.Errorf("ToGray produced non-gray pixel %v", c)
	}
}

func TestEncodePNG_RoundTrip(t *testing.T) {
	src := solidImage(8, 6, color.RGBA{10, 20, 30, 255})
	data, err := EncodePNG(src)
	if err != nil {
		t.Fatalf("EncodePNG failed: %v", err)
	}
	img, _, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	r, g, b, _ := img.At(3, 3).RGBA()
	if uint8(r>>8) != 10 || uint8(g>>8) != 20 || uint8(b>>8) != 30 {
		t.Errorf("pixel: got (%d,%d,%d), want (10,20,30)", r>>8, g>>8, b>>8)
	}
}
