//go:build !cgo

package ocr

import (
	"context"
	"fmt"
	"image"
)

// Tesseract is a placeholder in builds without CGO. NewTesseract always
// fails so callers fall back to another backend.
type Tesseract struct{}

// NewTesseract reports ErrUnavailable; the native bindings need CGO.
func NewTesseract(Options) (*Tesseract, error) {
	return nil, fmt.Errorf("%w: native tesseract requires cgo", ErrUnavailable)
}

func (t *Tesseract) Name() string { return BackendTesseract }

func (t *Tesseract) Modes() []Mode { return nil }

func (t *Tesseract) Recognize(context.Context, image.Image, Mode) (string, error) {
	return "", ErrUnavailable
}
