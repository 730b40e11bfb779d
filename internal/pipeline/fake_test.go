package pipeline

import (
	"context"
	"errors"
	"image"
	"image/color"
	"io"
	"log/slog"
	"sync"

	"github.com/ironsheep/cafeteria-menu-ocr/internal/ocr"
)

// columnEngine returns texts[c] for column c. Columns are processed in order
// and each column runs every mode once, so the column is derived from the
// call count.
type columnEngine struct {
	mu    sync.Mutex
	modes []ocr.Mode
	texts []string
	fail  map[ocr.Mode]bool
	calls int
}

func (e *columnEngine) Name() string { return "fake" }

func (e *columnEngine) Modes() []ocr.Mode { return e.modes }

func (e *columnEngine) Recognize(_ context.Context, _ image.Image, mode ocr.Mode) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	col := (e.calls / len(e.modes)) % len(e.texts)
	e.calls++
	if e.fail[mode] {
		return "", errors.New("engine crashed")
	}
	return e.texts[col], nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func whiteImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.White)
		}
	}
	return img
}
