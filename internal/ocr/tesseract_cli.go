package ocr

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/ironsheep/cafeteria-menu-ocr/internal/imaging"
)

// TesseractCLI runs OCR by invoking the tesseract binary. The image is
// handed over through a temporary PNG file.
type TesseractCLI struct {
	path      string
	languages []string
	tessdata  string
	runner    Runner
	logger    *slog.Logger
}

// NewTesseractCLI creates an engine backed by the tesseract executable.
// The binary is not probed here; a missing binary surfaces on first use.
func NewTesseractCLI(opts Options, logger *slog.Logger) (*TesseractCLI, error) {
	if logger == nil {
		logger = slog.Default()
	}
	path := opts.TesseractPath
	if path == "" {
		path = "tesseract"
	}
	langs := opts.Languages
	if len(langs) == 0 {
		langs = DefaultLanguages
	}
	return &TesseractCLI{
		path:      path,
		languages: langs,
		tessdata:  opts.TessdataPrefix,
		runner:    execRunner{logger: logger},
		logger:    logger,
	}, nil
}

func (t *TesseractCLI) Name() string { return BackendTesseractCLI }

func (t *TesseractCLI) Modes() []Mode { return []Mode{ModeUniformBlock, ModeSingleColumn} }

// Recognize implements Engine.
func (t *TesseractCLI) Recognize(ctx context.Context, img image.Image, mode Mode) (string, error) {
	data, err := imaging.EncodePNG(img)
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp("", "menu-column-*.png")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write temp image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write temp image: %w", err)
	}

	out, errb, err := t.runner.Run(ctx, t.path, t.args(tmpPath, mode)...)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w: %s", err, strings.TrimSpace(truncate(string(errb), 512)))
	}
	return string(out), nil
}

// args builds: <file> stdout -l kor+eng --oem 3 --psm <mode> [--tessdata-dir <dir>]
func (t *TesseractCLI) args(path string, mode Mode) []string {
	args := []string{
		path, "stdout",
		"-l", strings.Join(t.languages, "+"),
		"--oem", "3",
		"--psm", strconv.Itoa(int(mode)),
	}
	if t.tessdata != "" {
		args = append(args, "--tessdata-dir", t.tessdata)
	}
	return args
}

// Version implements Versioner.
func (t *TesseractCLI) Version(ctx context.Context) (string, error) {
	out, errb, err := t.runner.Run(ctx, t.path, "--version")
	if err != nil {
		return "", fmt.Errorf("tesseract --version: %w", err)
	}
	// Older releases print the banner on stderr.
	banner := string(out)
	if strings.TrimSpace(banner) == "" {
		banner = string(errb)
	}
	first, _, _ := strings.Cut(strings.TrimSpace(banner), "\n")
	return strings.TrimSpace(first), nil
}
