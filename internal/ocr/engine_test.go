package ocr

import (
	"context"
	"errors"
	"image"
	"io"
	"log/slog"
	"testing"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func blankImage() image.Image {
	return image.NewGray(image.Rect(0, 0, 20, 20))
}

func TestNew_Backends(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		want    string
		wantErr error
	}{
		{"cli", Options{Backend: "tesseract-cli"}, BackendTesseractCLI, nil},
		{"cli uppercase", Options{Backend: "Tesseract-CLI"}, BackendTesseractCLI, nil},
		{"ocrspace", Options{Backend: "ocrspace", APIKey: "k"}, BackendOCRSpace, nil},
		{"ocrspace without key", Options{Backend: "ocrspace"}, "", ErrNoAPIKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := New(tt.opts, quietLogger())
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				if e != nil {
					t.Errorf("engine = %v, want nil", e)
				}
				return
			}
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			if e.Name() != tt.want {
				t.Errorf("Name() = %s, want %s", e.Name(), tt.want)
			}
		})
	}
}

func TestNew_UnknownBackend(t *testing.T) {
	if _, err := New(Options{Backend: "abbyy"}, quietLogger()); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestNew_AutoFallsBackToOCRSpace(t *testing.T) {
	if _, err := NewTesseract(Options{}); err == nil {
		t.Skip("native tesseract available; auto prefers it")
	}
	e, err := New(Options{Backend: "auto", TesseractPath: "/nonexistent/tesseract", APIKey: "k"}, quietLogger())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if e.Name() != BackendOCRSpace {
		t.Errorf("Name() = %s, want ocrspace", e.Name())
	}
}

func TestNew_AutoNothingAvailable(t *testing.T) {
	if _, err := NewTesseract(Options{}); err == nil {
		t.Skip("native tesseract available")
	}
	_, err := New(Options{TesseractPath: "/nonexistent/tesseract"}, quietLogger())
	if !errors.Is(err, ErrNoBackend) {
		t.Errorf("err = %v, want ErrNoBackend", err)
	}
}

func TestDescribe(t *testing.T) {
	info := Describe(context.Background(), nil, ErrNoBackend)
	if info.Available || info.Backend != "none" || info.Error == "" {
		t.Errorf("Describe(nil) = %+v", info)
	}

	e, _ := NewOCRSpace(Options{APIKey: "k"}, quietLogger())
	info = Describe(context.Background(), e, nil)
	if !info.Available || info.Backend != BackendOCRSpace {
		t.Errorf("Describe(ocrspace) = %+v", info)
	}
}

func TestMode_String(t *testing.T) {
	if ModeUniformBlock.String() != "uniform-block" || ModeSingleColumn.String() != "single-column" {
		t.Error("unexpected mode names")
	}
	if Mode(11).String() != "psm-11" {
		t.Errorf("Mode(11) = %s", Mode(11))
	}
}
