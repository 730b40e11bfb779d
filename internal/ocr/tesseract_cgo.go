//go:build cgo

package ocr

import (
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/otiai10/gosseract/v2"

	"github.com/ironsheep/cafeteria-menu-ocr/internal/imaging"
)

// Tesseract runs OCR through the native Tesseract bindings.
//
// A gosseract client is not safe for concurrent use, so each Recognize call
// creates its own. Client setup is cheap next to recognition itself.
type Tesseract struct {
	languages []string
	prefix    string

	versionOnce sync.Once
	version     string
}

// NewTesseract creates a native Tesseract engine.
func NewTesseract(opts Options) (*Tesseract, error) {
	langs := opts.Languages
	if len(langs) == 0 {
		langs = DefaultLanguages
	}
	return &Tesseract{languages: langs, prefix: opts.TessdataPrefix}, nil
}

func (t *Tesseract) Name() string { return BackendTesseract }

func (t *Tesseract) Modes() []Mode { return []Mode{ModeUniformBlock, ModeSingleColumn} }

// Recognize implements Engine.
func (t *Tesseract) Recognize(ctx context.Context, img image.Image, mode Mode) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := imaging.EncodePNG(img)
	if err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if t.prefix != "" {
		if err := client.SetTessdataPrefix(t.prefix); err != nil {
			return "", fmt.Errorf("failed to set tessdata prefix: %w", err)
		}
	}
	if err := client.SetLanguage(t.languages...); err != nil {
		return "", fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PageSegMode(mode)); err != nil {
		return "", fmt.Errorf("failed to set page segmentation mode: %w", err)
	}
	if err := client.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return text, nil
}

// Version implements Versioner.
func (t *Tesseract) Version(context.Context) (string, error) {
	t.versionOnce.Do(func() {
		client := gosseract.NewClient()
		defer client.Close()
		t.version = client.Version()
	})
	return t.version, nil
}
