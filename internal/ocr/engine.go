package ocr

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"net/http"
	"os/exec"
	"strings"
)

// Mode is a Tesseract page segmentation mode.
type Mode int

const (
	// ModeSingleColumn assumes a single column of text of variable sizes.
	ModeSingleColumn Mode = 4
	// ModeUniformBlock assumes a single uniform block of text.
	ModeUniformBlock Mode = 6
)

func (m Mode) String() string {
	switch m {
	case ModeSingleColumn:
		return "single-column"
	case ModeUniformBlock:
		return "uniform-block"
	}
	return fmt.Sprintf("psm-%d", int(m))
}

// DefaultLanguages are the Tesseract languages used for menu text.
var DefaultLanguages = []string{"kor", "eng"}

var (
	// ErrNoBackend means no OCR backend could be constructed.
	ErrNoBackend = errors.New("no OCR backend available")
	// ErrUnavailable means the requested backend is not built into this binary.
	ErrUnavailable = errors.New("OCR backend unavailable")
	// ErrNoAPIKey means the OCR.space backend was selected without a key.
	ErrNoAPIKey = errors.New("OCR.space API key not configured")
)

// Engine recognizes text in an image.
type Engine interface {
	// Name identifies the backend in logs and diagnostics.
	Name() string
	// Modes lists the layout modes worth running, in preference order.
	Modes() []Mode
	// Recognize runs OCR on one column image.
	//
	// Parameters:
	//   - ctx: cancels remote requests and external processes
	//   - img: a single preprocessed column
	//   - mode: the page layout to assume; single-layout engines ignore it
	//
	// Returns:
	//   - string: the recognized text, one table line per text line. An
	//     empty string with a nil error means nothing was recognized.
	//   - error: non-nil when the backend fails or ctx is done
	Recognize(ctx context.Context, img image.Image, mode Mode) (string, error)
}

// Backend names accepted by New.
const (
	BackendAuto         = "auto"
	BackendTesseract    = "tesseract"
	BackendTesseractCLI = "tesseract-cli"
	BackendOCRSpace     = "ocrspace"
)

// Options configures backend construction.
type Options struct {
	Backend        string
	Languages      []string
	TessdataPrefix string

	// TesseractCLI
	TesseractPath string

	// OCRSpace
	APIKey     string
	Endpoint   string
	HTTPClient *http.Client
}

// New builds the backend named by opts.Backend.
//
// "auto" (or an empty name) prefers the linked Tesseract library, then the
// tesseract binary, then OCR.space when an API key is configured.
//
// Parameters:
//   - opts: backend name, languages and per-backend settings
//   - logger: receives backend diagnostics; nil uses slog.Default()
//
// Returns:
//   - Engine: the ready backend
//   - error: ErrUnavailable, ErrNoAPIKey, ErrNoBackend or an unknown backend name
func New(opts Options, logger *slog.Logger) (Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(opts.Languages) == 0 {
		opts.Languages = DefaultLanguages
	}

	var (
		e   Engine
		err error
	)
	switch strings.ToLower(opts.Backend) {
	case BackendTesseract:
		e, err = asEngine(NewTesseract(opts))
	case BackendTesseractCLI:
		e, err = asEngine(NewTesseractCLI(opts, logger))
	case BackendOCRSpace:
		e, err = asEngine(NewOCRSpace(opts, logger))
	case "", BackendAuto:
		e, err = auto(opts, logger)
	default:
		return nil, fmt.Errorf("unknown OCR backend: %q", opts.Backend)
	}
	if err != nil {
		return nil, err
	}
	logger.Debug("OCR backend selected", "backend", e.Name())
	return e, nil
}

func auto(opts Options, logger *slog.Logger) (Engine, error) {
	t, err := NewTesseract(opts)
	if err == nil {
		return t, nil
	}
	logger.Debug("native tesseract unavailable", "error", err)

	path := opts.TesseractPath
	if path == "" {
		path = "tesseract"
	}
	if _, err := exec.LookPath(path); err == nil {
		return asEngine(NewTesseractCLI(opts, logger))
	}

	if opts.APIKey != "" {
		return asEngine(NewOCRSpace(opts, logger))
	}
	return nil, ErrNoBackend
}

// asEngine keeps a typed nil pointer from becoming a non-nil Engine.
func asEngine[E Engine](e E, err error) (Engine, error) {
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Info describes the configured backend.
type Info struct {
	Available bool   `json:"available"`
	Backend   string `json:"backend"`
	Version   string `json:"version,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Versioner is implemented by backends that can report a version.
type Versioner interface {
	Version(ctx context.Context) (string, error)
}

// Describe reports availability and version information for e.
func Describe(ctx context.Context, e Engine, err error) Info {
	if err != nil || e == nil {
		msg := ErrNoBackend.Error()
		if err != nil {
			msg = err.Error()
		}
		return Info{Available: false, Backend: "none", Error: msg}
	}
	info := Info{Available: true, Backend: e.Name()}
	if v, ok := e.(Versioner); ok {
		version, verr := v.Version(ctx)
		if verr != nil {
			info.Error = verr.Error()
		} else {
			info.Version = version
		}
	}
	return info
}
