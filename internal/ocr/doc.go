// Package ocr turns a cropped menu column into plain multi-line text.
//
// Every backend implements Engine. The pipeline treats the backend as a black
// box: it hands over a grayscale image and a layout mode and gets text back.
//
// # Backends
//
//   - Tesseract: native bindings via gosseract/v2. Requires CGO and the
//     kor and eng traineddata files (see Options.TessdataPrefix).
//   - TesseractCLI: runs the tesseract binary. Works without CGO.
//   - OCRSpace: the OCR.space HTTP API. Requires an API key and supports a
//     single layout mode.
//
// New selects a backend by name. "auto" prefers the native bindings, then
// the binary on PATH, then OCR.space when a key is configured, and returns
// ErrNoBackend when nothing is usable.
//
// # Layout Modes
//
// Tesseract is run twice per column, once as a uniform block of text and
// once as a single column, because neither mode wins consistently on the
// menu template. The caller scores both results and keeps the better one.
package ocr
